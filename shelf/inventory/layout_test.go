package inventory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeLayoutFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smart_shelf_config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write layout file: %v", err)
	}
	return path
}

func TestLoadLayout(t *testing.T) {
	t.Parallel()

	path := writeLayoutFile(t, `{
		"storage_space_details": [
			{"spot_id": "A1", "size": "S", "location": "Lobby Left"},
			{"spot_id": "B1", "size": "L"}
		]
	}`)

	layout, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout() error = %v", err)
	}
	if len(layout.Spots) != 2 {
		t.Fatalf("got %d spots, want 2", len(layout.Spots))
	}
	if layout.Spots[1].Location != defaultLocation {
		t.Fatalf("missing location not defaulted: %q", layout.Spots[1].Location)
	}
}

func TestLoadLayoutMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadLayout(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("error = %v, want ErrConfig", err)
	}
}

func TestLayoutValidateDuplicateSpot(t *testing.T) {
	t.Parallel()

	layout := Layout{Spots: []LayoutSpot{
		{SpotID: "A1", Size: "S"},
		{SpotID: "A1", Size: "M"},
	}}
	if err := layout.Validate(); !errors.Is(err, ErrConfig) {
		t.Fatalf("error = %v, want ErrConfig", err)
	}
}

func TestLayoutValidateBadSize(t *testing.T) {
	t.Parallel()

	layout := Layout{Spots: []LayoutSpot{{SpotID: "A1", Size: "XL"}}}
	if err := layout.Validate(); !errors.Is(err, ErrConfig) {
		t.Fatalf("error = %v, want ErrConfig", err)
	}
}

func TestLayoutValidateEmpty(t *testing.T) {
	t.Parallel()

	layout := Layout{}
	if err := layout.Validate(); !errors.Is(err, ErrConfig) {
		t.Fatalf("error = %v, want ErrConfig", err)
	}
}

func TestLayoutValidateNormalizesSize(t *testing.T) {
	t.Parallel()

	layout := Layout{Spots: []LayoutSpot{{SpotID: "A1", Size: "s"}}}
	if err := layout.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if layout.Spots[0].Size != "S" {
		t.Fatalf("size not normalized: %q", layout.Spots[0].Size)
	}
}
