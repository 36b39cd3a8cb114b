package ledger

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(ErrInvalidInput("bad amount")); got != KindInvalidInput {
		t.Fatalf("kind=%v want=KindInvalidInput", got)
	}
	if got := KindOf(ErrNotFound("missing")); got != KindNotFound {
		t.Fatalf("kind=%v want=KindNotFound", got)
	}
	if got := KindOf(ErrForbidden("nope")); got != KindForbidden {
		t.Fatalf("kind=%v want=KindForbidden", got)
	}
	// Engine errors keep their kind through wrapping
	wrapped := fmt.Errorf("saving leg: %w", ErrForbidden("nope"))
	if got := KindOf(wrapped); got != KindForbidden {
		t.Fatalf("kind=%v want=KindForbidden", got)
	}
	// Anything else is unknown and surfaces as a server error
	if got := KindOf(errors.New("disk on fire")); got != KindUnknown {
		t.Fatalf("kind=%v want=KindUnknown", got)
	}
	if got := KindOf(nil); got != KindUnknown {
		t.Fatalf("kind=%v want=KindUnknown", got)
	}
}
