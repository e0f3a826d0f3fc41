package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassification(t *testing.T) {
	base := errors.New("connection reset")

	tests := []struct {
		name        string
		err         error
		validation  bool
		notFound    bool
		conflict    bool
		persistence bool
	}{
		{"validation", Validation("name", "must not be empty"), true, false, false, false},
		{"not found", NotFound("customer", "X"), false, true, false, false},
		{"conflict", Conflict("entry %s already voided", "e1"), false, false, true, false},
		{"persistence", Persistence("insert entry", base), false, false, false, true},
		{"wrapped validation", fmt.Errorf("submit: %w", Validation("qty", "negative")), true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidation(tt.err); got != tt.validation {
				t.Errorf("IsValidation: got %v, want %v", got, tt.validation)
			}
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound: got %v, want %v", got, tt.notFound)
			}
			if got := IsConflict(tt.err); got != tt.conflict {
				t.Errorf("IsConflict: got %v, want %v", got, tt.conflict)
			}
			if got := IsPersistence(tt.err); got != tt.persistence {
				t.Errorf("IsPersistence: got %v, want %v", got, tt.persistence)
			}
		})
	}
}

func TestPersistenceKeepsTaxonomy(t *testing.T) {
	off := Unavailable("archiving is off")
	if got := Persistence("archive", off); got != off || !IsUnavailable(got) || IsValidation(got) {
		t.Errorf("expected unavailable error to pass through, got %v", got)
	}

	nf := NotFound("entry", "abc")
	if got := Persistence("get entry", nf); got != nf {
		t.Errorf("expected not-found error to pass through, got %v", got)
	}
	if Persistence("noop", nil) != nil {
		t.Error("expected nil for nil error")
	}

	base := errors.New("disk full")
	wrapped := Persistence("insert", base)
	if !errors.Is(wrapped, base) {
		t.Error("expected persistence error to unwrap to the cause")
	}
}

func TestMessages(t *testing.T) {
	if got := Validation("", "bad input").Error(); got != "validation failed: bad input" {
		t.Errorf("unexpected message %q", got)
	}
	if got := NotFound("salesman", "A").Error(); got != `salesman "A" not found` {
		t.Errorf("unexpected message %q", got)
	}
	if got := Unavailable("archiving is off").Error(); got != "unavailable: archiving is off" {
		t.Errorf("unexpected message %q", got)
	}
}
