package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last+tag@example.org"}
	invalid := []string{"", "plain", "@missing.local", "user@", "user@host"}

	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Fatalf("expected %q to be valid", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Fatalf("expected %q to be invalid", email)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	got, err := ParseDecimal(" 12.50 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("ParseDecimal = %s, want 12.5", got)
	}

	for _, bad := range []string{"", "  ", "12,5", "abc"} {
		if _, err := ParseDecimal(bad); err == nil {
			t.Fatalf("ParseDecimal(%q): expected error", bad)
		}
	}
}

func TestNullDecimalToZero(t *testing.T) {
	if got := NullDecimalToZero(decimal.NullDecimal{}); !got.IsZero() {
		t.Fatalf("absent sum = %s, want 0", got)
	}
	present := decimal.NullDecimal{Decimal: decimal.NewFromInt(7), Valid: true}
	if got := NullDecimalToZero(present); !got.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("present sum = %s, want 7", got)
	}
}

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]int{3, 1, 3, 2, 1})
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("UniqueSlice = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("UniqueSlice = %v, want %v", got, want)
		}
	}
}
