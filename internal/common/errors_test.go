package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", fmt.Errorf("product 9: %w", ErrNotFound), KindNotFound},
		{"invalid", fmt.Errorf("days: %w", ErrInvalidInput), KindInvalidInput},
		{"conflict", fmt.Errorf("plate: %w", ErrConflict), KindConflict},
		{"app error kind wins", NewAppError("FULL", "Parking full", KindInvalidInput, errors.New("boom")), KindInvalidInput},
		{"plain", errors.New("disk"), KindInternal},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("%s: KindOf = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDescribePrefersAppErrorMessage(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewAppError("EMPTY", "Your cart is empty!", KindInvalidInput, ErrInvalidInput))
	if got := Describe(err); got != "Your cart is empty!" {
		t.Fatalf("unexpected description %q", got)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatal("expected sentinel to survive wrapping")
	}
	if Describe(nil) != "" {
		t.Fatal("nil error should describe as empty")
	}
}

func TestParseInt(t *testing.T) {
	v, err := ParseInt("product id", " 201 ")
	if err != nil || v != 201 {
		t.Fatalf("ParseInt = %d, %v", v, err)
	}
	if _, err := ParseInt("product id", "abc"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := ParseInt("product id", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank, got %v", err)
	}
	if AtoiDefault("x", 7) != 7 || AtoiDefault("3", 7) != 3 {
		t.Fatal("AtoiDefault fallback mismatch")
	}
}
