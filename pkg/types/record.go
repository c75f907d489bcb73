// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pdforg pipeline.
package types

import "time"

// Publication years are only plausible within this range; 4-digit tokens
// outside it are never treated as years.
const MinYear = 1400

// PlausibleYear reports whether y is a believable publication year:
// within [MinYear, next year].
func PlausibleYear(y int) bool {
	return y >= MinYear && y <= time.Now().Year()+1
}

// FieldSource identifies which stage supplied a record field.
type FieldSource string

const (
	SourceFilename        FieldSource = "filename"
	SourceEmbedded        FieldSource = "embedded"
	SourceCrossref        FieldSource = "crossref"
	SourceSemanticScholar FieldSource = "semantic_scholar"
	SourceGoogleBooks     FieldSource = "google_books"
)

// PartialRecord holds bibliographic fields recovered by a single stage
// (filename parsing, embedded PDF metadata, or one external source).
// A zero value means the field is absent: Year 0, empty strings, and a
// nil Authors slice all read as "not supplied".
type PartialRecord struct {
	// Year is the 4-digit publication year, or 0 when unknown.
	Year int

	// Authors lists author names in source order, as the stage found them.
	Authors []string

	// Title is the work title as the stage found it.
	Title string

	// DOI is a digital object identifier, when one was recovered.
	DOI string

	// ISBN is an international standard book number, when one was recovered.
	ISBN string

	// Publisher is the publisher name, when one was recovered.
	Publisher string

	// Abstract is the work abstract, when one was recovered.
	Abstract string
}

// IsEmpty reports whether the stage recovered nothing at all.
func (p PartialRecord) IsEmpty() bool {
	return p.Year == 0 && len(p.Authors) == 0 && p.Title == "" &&
		p.DOI == "" && p.ISBN == "" && p.Publisher == "" && p.Abstract == ""
}

// BibliographicRecord is the canonical, merged record for one PDF. It is
// built field-by-field by the reconciler and normalized before use; the
// Sources map records, per populated field, which stage supplied it.
type BibliographicRecord struct {
	// Title is the normalized work title. Empty only when no stage
	// supplied one.
	Title string `json:"title" yaml:"title"`

	// Authors lists normalized author names in parse order. May be empty.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year, or 0 when no stage supplied one.
	// Years are only ever taken verbatim from a stage, never guessed.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// DOI is carried through for the companion record; it never affects
	// path construction.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// ISBN is carried through for the companion record.
	ISBN string `json:"isbn,omitempty" yaml:"isbn,omitempty"`

	// Publisher is carried through for the companion record.
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// Abstract is carried through for the companion record.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Sources maps field name ("year", "authors", "title", ...) to the
	// stage that supplied it. Populated fields always have an entry, so
	// an absent field and an empty value are distinguishable.
	Sources map[string]FieldSource `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// SetField records a field's originating source. The map is allocated
// lazily so a zero BibliographicRecord stays usable.
func (r *BibliographicRecord) SetField(field string, src FieldSource) {
	if r.Sources == nil {
		r.Sources = make(map[string]FieldSource)
	}
	r.Sources[field] = src
}

// HasYear reports whether a year was supplied by any stage.
func (r BibliographicRecord) HasYear() bool { return r.Year != 0 }
