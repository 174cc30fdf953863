package inventory

import (
	"errors"
	"testing"
)

func TestParseSize(t *testing.T) {
	t.Parallel()

	cases := map[string]Size{
		"S":   SizeSmall,
		"m":   SizeMedium,
		" L ": SizeLarge,
	}
	for raw, want := range cases {
		got, err := ParseSize(raw)
		if err != nil {
			t.Fatalf("ParseSize(%q) error = %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseSize(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseSizeInvalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "XL", "small", "1"} {
		if _, err := ParseSize(raw); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("ParseSize(%q) error = %v, want ErrInvalidSize", raw, err)
		}
	}
}

func TestNormalizeOwner(t *testing.T) {
	t.Parallel()

	if got := NormalizeOwner("  3b "); got != "3B" {
		t.Fatalf("NormalizeOwner() = %q, want %q", got, "3B")
	}
}

func TestSpotOccupied(t *testing.T) {
	t.Parallel()

	if (Spot{Status: StatusFree}).Occupied() {
		t.Fatal("free spot reported occupied")
	}
	if !(Spot{Status: StatusOccupied, Owner: "12"}).Occupied() {
		t.Fatal("occupied spot reported free")
	}
}
