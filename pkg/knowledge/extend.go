package knowledge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mediakit/ffcheck/pkg/schemas"
)

// Extension is a user-provided YAML document adding codecs, formats and
// filters on top of the built-in tables. Entries with a name that already
// exists replace the built-in entry.
type Extension struct {
	Codecs  []CodecInfo  `yaml:"codecs"`
	Formats []FormatInfo `yaml:"formats"`
	Filters []FilterInfo `yaml:"filters"`
}

// Clone returns an independent copy of the database. Extensions are applied
// to a clone so the shared default stays pristine.
func (db *Database) Clone() *Database {
	out := &Database{
		codecs:  make(map[string]CodecInfo, len(db.codecs)),
		formats: make(map[string]FormatInfo, len(db.formats)),
		filters: make(map[string]FilterInfo, len(db.filters)),
	}
	for k, v := range db.codecs {
		out.codecs[k] = v
	}
	for k, v := range db.formats {
		out.formats[k] = v
	}
	for k, v := range db.filters {
		out.filters[k] = v
	}
	return out
}

// Extend merges an extension into the database in place
func (db *Database) Extend(ext Extension) error {
	for _, c := range ext.Codecs {
		if c.Name == "" {
			return fmt.Errorf("extension codec with empty name")
		}
		if err := validStreamType(c.StreamType); err != nil {
			return fmt.Errorf("extension codec %q: %w", c.Name, err)
		}
		db.codecs[c.Name] = c
	}
	for _, f := range ext.Formats {
		if f.Name == "" {
			return fmt.Errorf("extension format with empty name")
		}
		db.formats[f.Name] = f
	}
	for _, f := range ext.Filters {
		if f.Name == "" {
			return fmt.Errorf("extension filter with empty name")
		}
		if err := validStreamType(f.InputType); err != nil {
			return fmt.Errorf("extension filter %q: %w", f.Name, err)
		}
		if err := validStreamType(f.OutputType); err != nil {
			return fmt.Errorf("extension filter %q: %w", f.Name, err)
		}
		db.filters[f.Name] = f
	}
	return nil
}

// LoadExtensionFile reads a YAML extension document from disk and returns a
// clone of the built-in database with the extension applied
func LoadExtensionFile(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge extension: %w", err)
	}

	var ext Extension
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge extension: %w", err)
	}

	db := Default().Clone()
	if err := db.Extend(ext); err != nil {
		return nil, err
	}
	return db, nil
}

func validStreamType(st schemas.StreamType) error {
	switch st {
	case schemas.StreamVideo, schemas.StreamAudio, schemas.StreamSubtitle, schemas.StreamData, schemas.StreamUnknown:
		return nil
	}
	return fmt.Errorf("unknown stream type %q", st)
}
