package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindsAreDistinct(t *testing.T) {
	kinds := []error{
		ErrConstraintViolation,
		ErrPermissionDenied,
		ErrAuthenticationFailed,
		ErrInvalidToken,
		ErrUnknownQuantity,
	}

	for i, kind := range kinds {
		wrapped := fmt.Errorf("doing something: %w", kind)
		if !errors.Is(wrapped, kind) {
			t.Errorf("wrapped %v no longer matches its kind", kind)
		}
		for j, other := range kinds {
			if i != j && errors.Is(wrapped, other) {
				t.Errorf("%v wrongly matches %v", kind, other)
			}
		}
	}
}
