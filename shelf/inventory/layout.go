package inventory

import (
	"fmt"

	"github.com/spf13/viper"
)

// LayoutSpot is one entry of the static shelf layout file.
type LayoutSpot struct {
	SpotID   string `mapstructure:"spot_id" json:"spot_id"`
	Size     string `mapstructure:"size" json:"size"`
	Location string `mapstructure:"location" json:"location"`
}

// Layout is the externally supplied shelf definition the store is seeded
// from, once, at startup.
type Layout struct {
	Spots []LayoutSpot `mapstructure:"storage_space_details" json:"storage_space_details"`
}

const defaultLocation = "Main Area"

// LoadLayout reads the JSON layout file. A missing or unreadable file is a
// fatal configuration error; there is no built-in default layout.
func LoadLayout(path string) (Layout, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return Layout{}, fmt.Errorf("%w: read %s: %v", ErrConfig, path, err)
	}

	var layout Layout
	if err := v.Unmarshal(&layout); err != nil {
		return Layout{}, fmt.Errorf("%w: parse %s: %v", ErrConfig, path, err)
	}

	if err := layout.Validate(); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

// Validate rejects duplicate or empty spot ids and unrecognized sizes.
// Entries without a location get the default label.
func (l *Layout) Validate() error {
	if len(l.Spots) == 0 {
		return fmt.Errorf("%w: no storage_space_details entries", ErrConfig)
	}

	seen := make(map[string]struct{}, len(l.Spots))
	for i := range l.Spots {
		entry := &l.Spots[i]
		if entry.SpotID == "" {
			return fmt.Errorf("%w: entry %d has an empty spot_id", ErrConfig, i)
		}
		if _, dup := seen[entry.SpotID]; dup {
			return fmt.Errorf("%w: duplicate spot_id %q", ErrConfig, entry.SpotID)
		}
		seen[entry.SpotID] = struct{}{}

		size, err := ParseSize(entry.Size)
		if err != nil {
			return fmt.Errorf("%w: spot %q: %v", ErrConfig, entry.SpotID, err)
		}
		entry.Size = string(size)

		if entry.Location == "" {
			entry.Location = defaultLocation
		}
	}
	return nil
}
