package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrors_AreDistinctAndUsableWithErrorsIs(t *testing.T) {
	all := []error{ErrUnsupportedFormat, ErrConversionFailed, ErrInvalidAPIKey, ErrTokenStoreNotReady}
	for i, a := range all {
		if a == nil || a.Error() == "" {
			t.Fatalf("error %d must be non-nil with a message", i)
		}
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Fatalf("errors %q and %q must be distinct", a, b)
			}
		}
	}

	wrapped := fmt.Errorf("render page 3: %w", ErrConversionFailed)
	if !errors.Is(wrapped, ErrConversionFailed) {
		t.Fatalf("expected errors.Is to match ErrConversionFailed")
	}
	joined := errors.Join(errors.New("context"), ErrUnsupportedFormat)
	if !errors.Is(joined, ErrUnsupportedFormat) {
		t.Fatalf("expected errors.Is to match ErrUnsupportedFormat")
	}
}
