package countries

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FallbackFile is the on-disk copy of the last good dataset. It is served
// only when the upstream fetch fails and nothing is cached in memory.
type FallbackFile struct {
	Path string
	// MaxAge is how old the file may get before a successful fetch rewrites it.
	MaxAge time.Duration
}

// Load reads the file. A missing file returns (nil, nil).
func (f *FallbackFile) Load() ([]Country, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading fallback: %w", err)
	}

	var list []Country
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decoding fallback: %w", err)
	}
	return list, nil
}

// Save writes the dataset to a temp file and renames it over the old one, so
// readers never see a partial file.
func (f *FallbackFile) Save(list []Country) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("creating fallback dir: %w", err)
	}
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding fallback: %w", err)
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("writing fallback: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing fallback: %w", err)
	}
	return nil
}

// Stale reports whether the file is missing or older than MaxAge.
func (f *FallbackFile) Stale(now time.Time) bool {
	info, err := os.Stat(f.Path)
	if err != nil {
		return true
	}
	return now.Sub(info.ModTime()) > f.MaxAge
}
