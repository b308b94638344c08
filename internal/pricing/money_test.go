package pricing

import (
	"errors"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	cases := map[Money]string{
		0:        "$0.00",
		5:        "$0.05",
		1550:     "$15.50",
		100000:   "$1,000.00",
		12345678: "$123,456.78",
		-250:     "-$2.50",
	}
	for in, want := range cases {
		if got := FormatMoney(in); got != want {
			t.Errorf("FormatMoney(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseMoney(t *testing.T) {
	ok := map[string]Money{
		"12.50":  1250,
		"12.5":   1250,
		"12":     1200,
		"$1,000": 100000,
		"0":      0,
	}
	for in, want := range ok {
		got, err := ParseMoney(in)
		if err != nil {
			t.Fatalf("ParseMoney(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseMoney(%q) = %d, want %d", in, got, want)
		}
	}
	for _, in := range []string{"", "-1", "1.234", "abc", "92233720368547758.08", "1e30"} {
		if _, err := ParseMoney(in); !errors.Is(err, ErrInvalidMoney) {
			t.Errorf("ParseMoney(%q) expected ErrInvalidMoney, got %v", in, err)
		}
	}
}
