// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile merges the per-stage partial records into one
// canonical bibliographic record.
//
// Field priority is fixed policy: the filename wins for the year, the
// embedded metadata wins for title and authors (filenames are routinely
// abbreviated or truncated, so they are the less trusted source for
// text fields). The external resolver fills only fields still empty
// after that merge; it never overwrites.
package reconcile

import (
	"context"
	"strings"

	"github.com/pdiddy/pdforg/internal/resolve"
	"github.com/pdiddy/pdforg/pkg/types"
)

// Resolver is the external lookup dependency. A nil Resolver disables
// external resolution entirely. *resolve.Client satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, q resolve.Query) (types.PartialRecord, types.FieldSource, bool)
}

// Reconcile merges the filename-derived and embedded partial records,
// consults r for any field still missing, and returns the canonical
// record with per-field source attribution. stem is the stripped
// filename, used as the title fallback of last resort before the
// resolver is consulted.
//
// Metadata gaps are never an error: a record with no year and no
// authors is still a valid, minimal output.
func Reconcile(ctx context.Context, stem string, fromFilename, fromEmbedded types.PartialRecord, r Resolver) types.BibliographicRecord {
	var rec types.BibliographicRecord

	// Year: filename over embedded.
	switch {
	case fromFilename.Year != 0:
		rec.Year = fromFilename.Year
		rec.SetField("year", types.SourceFilename)
	case fromEmbedded.Year != 0:
		rec.Year = fromEmbedded.Year
		rec.SetField("year", types.SourceEmbedded)
	}

	// Title and authors: embedded over filename.
	switch {
	case fromEmbedded.Title != "":
		rec.Title = fromEmbedded.Title
		rec.SetField("title", types.SourceEmbedded)
	case fromFilename.Title != "":
		rec.Title = fromFilename.Title
		rec.SetField("title", types.SourceFilename)
	}
	switch {
	case len(fromEmbedded.Authors) > 0:
		rec.Authors = fromEmbedded.Authors
		rec.SetField("authors", types.SourceEmbedded)
	case len(fromFilename.Authors) > 0:
		rec.Authors = fromFilename.Authors
		rec.SetField("authors", types.SourceFilename)
	}

	// Supplementary fields have no priority asymmetry; embedded first.
	fillExtras(&rec, fromEmbedded, types.SourceEmbedded)
	fillExtras(&rec, fromFilename, types.SourceFilename)

	// Stripped filename as title of last resort.
	if rec.Title == "" {
		if fallback := stemTitle(stem); fallback != "" {
			rec.Title = fallback
			rec.SetField("title", types.SourceFilename)
		}
	}

	if r == nil || rec.Title == "" || (rec.Year != 0 && len(rec.Authors) > 0) {
		return rec
	}

	q := resolve.Query{Title: rec.Title}
	if len(rec.Authors) > 0 {
		q.Author = rec.Authors[0]
	}
	found, src, ok := r.Resolve(ctx, q)
	if !ok {
		return rec
	}

	if rec.Year == 0 && found.Year != 0 {
		rec.Year = found.Year
		rec.SetField("year", src)
	}
	if len(rec.Authors) == 0 && len(found.Authors) > 0 {
		rec.Authors = found.Authors
		rec.SetField("authors", src)
	}
	fillExtras(&rec, found, src)

	return rec
}

// fillExtras copies DOI, ISBN, publisher, and abstract into still-empty
// slots, attributing each to src.
func fillExtras(rec *types.BibliographicRecord, p types.PartialRecord, src types.FieldSource) {
	if rec.DOI == "" && p.DOI != "" {
		rec.DOI = p.DOI
		rec.SetField("doi", src)
	}
	if rec.ISBN == "" && p.ISBN != "" {
		rec.ISBN = p.ISBN
		rec.SetField("isbn", src)
	}
	if rec.Publisher == "" && p.Publisher != "" {
		rec.Publisher = p.Publisher
		rec.SetField("publisher", src)
	}
	if rec.Abstract == "" && p.Abstract != "" {
		rec.Abstract = p.Abstract
		rec.SetField("abstract", src)
	}
}

// stemTitle turns a filename stem into human-readable title text.
func stemTitle(stem string) string {
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return strings.Join(strings.Fields(stem), " ")
}
