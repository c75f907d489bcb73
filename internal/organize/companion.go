// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package organize

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdforg/pkg/types"
)

// Companion is the on-disk YAML record written next to each organized
// PDF. Field order is fixed by struct order; absent fields are omitted
// rather than serialized empty.
type Companion struct {
	Title       string                       `yaml:"title"`
	Authors     []string                     `yaml:"authors"`
	Year        int                          `yaml:"year,omitempty"`
	DOI         string                       `yaml:"doi,omitempty"`
	ISBN        string                       `yaml:"isbn,omitempty"`
	Publisher   string                       `yaml:"publisher,omitempty"`
	Abstract    string                       `yaml:"abstract,omitempty"`
	Sources     map[string]types.FieldSource `yaml:"sources,omitempty"`
	ContentHash string                       `yaml:"content_hash,omitempty"`
	SourcePath  string                       `yaml:"source_path,omitempty"`
}

// WriteCompanion writes the companion record for an organized PDF.
func WriteCompanion(path string, rec types.BibliographicRecord, hash, sourcePath string) error {
	c := Companion{
		Title:       rec.Title,
		Authors:     rec.Authors,
		Year:        rec.Year,
		DOI:         rec.DOI,
		ISBN:        rec.ISBN,
		Publisher:   rec.Publisher,
		Abstract:    rec.Abstract,
		Sources:     rec.Sources,
		ContentHash: hash,
		SourcePath:  sourcePath,
	}
	data, err := yaml.Marshal(&c)
	if err != nil {
		return fmt.Errorf("marshaling companion record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing companion record: %w", err)
	}
	return nil
}

// ReadCompanion loads a companion record from disk.
func ReadCompanion(path string) (Companion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Companion{}, fmt.Errorf("reading companion record: %w", err)
	}
	var c Companion
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Companion{}, fmt.Errorf("parsing companion record %s: %w", path, err)
	}
	return c, nil
}
