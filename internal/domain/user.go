package domain

import "time"

// User roles
const (
	RoleUser  = "user"  // Regular user, owns accounts
	RoleAdmin = "admin" // Administrator, may list other users' transactions
)

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey"`        // Primary key
	FirstName string    `gorm:"not null"`          // First name
	LastName  string    `gorm:"not null"`          // Last name
	Email     string    `gorm:"unique;not null"`   // Unique email, the identity key
	Password  string    `gorm:"not null"`          // Hashed password
	Role      string    `gorm:"default:user"`      // Role: user or admin
	Accounts  []Account `gorm:"foreignKey:UserID"` // One account per currency
	CreatedAt time.Time `gorm:"autoCreateTime"`    // Timestamp of creation
	UpdatedAt time.Time `gorm:"autoUpdateTime"`    // Timestamp of last update
}

// IsAdmin reports whether the user holds the administrator role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
