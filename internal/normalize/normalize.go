// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes bibliographic strings: title cleanup,
// author lastname extraction, and filesystem-safe slug generation. All
// functions are pure and deterministic; normalizing already-normalized
// input is a no-op.
package normalize

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/pdforg/pkg/types"
)

// DefaultMaxSlug caps title slugs used in filenames.
const DefaultMaxSlug = 80

// unknown is the placeholder substituted for absent fields at slug
// composition time only, never inside the semantic record.
const unknown = "unknown"

// Title trims the string, collapses internal whitespace runs to one
// space, and strips leading and trailing punctuation. Internal case is
// preserved as the source gave it.
func Title(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
	})
	return s
}

// Authors converts each name to lastname form, dropping empties and
// duplicates while preserving order and original case.
func Authors(names []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, n := range names {
		ln := LastName(n)
		if ln == "" {
			continue
		}
		key := strings.ToLower(ln)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ln)
	}
	return out
}

// LastName extracts the surname from a full name. "Doe, J." and
// "J. Doe" both yield "Doe". When only initials remain beside a
// single-letter surname the first initial is retained to keep the
// name distinguishable.
func LastName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	// "Lastname, Given" form: surname precedes the comma.
	if i := strings.Index(name, ","); i >= 0 {
		if ln := strings.TrimSpace(name[:i]); ln != "" {
			name = ln
		} else {
			name = strings.TrimSpace(name[i+1:])
		}
	}

	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}

	// Scan from the end for the first token that is not an initial.
	for i := len(fields) - 1; i >= 0; i-- {
		tok := fields[i]
		if !isInitial(tok) {
			// Single-letter surname alone is ambiguous; keep the
			// first initial with it.
			if len([]rune(strings.TrimSuffix(tok, "."))) == 1 && i > 0 {
				return fields[0] + " " + tok
			}
			return tok
		}
	}
	// Nothing but initials; return them as given.
	return name
}

// isInitial reports whether a token is a single-letter initial like "J"
// or "J.".
func isInitial(tok string) bool {
	tok = strings.TrimSuffix(tok, ".")
	r := []rune(tok)
	return len(r) == 1 && unicode.IsLetter(r[0])
}

// Slug lowercases s, replaces every run of non-alphanumeric characters
// with a single hyphen, trims hyphens, and caps the result at max runes,
// truncating at a word boundary when one exists. max <= 0 uses
// DefaultMaxSlug.
func Slug(s string, max int) string {
	if max <= 0 {
		max = DefaultMaxSlug
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	slug := b.String()
	if len([]rune(slug)) <= max {
		return slug
	}

	runes := []rune(slug)[:max]
	cut := string(runes)
	// Prefer cutting at the last hyphen so words stay whole.
	if i := strings.LastIndex(cut, "-"); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, "-")
}

// FileStem composes the final filename stem for a record:
// {year|"unknown"}-{primary-author-lastname|"unknown"}-{title-slug}.
// The primary author is the first entry in Authors (parse order).
func FileStem(rec types.BibliographicRecord, maxSlug int) string {
	year := unknown
	if rec.HasYear() {
		year = strconv.Itoa(rec.Year)
	}

	author := unknown
	if len(rec.Authors) > 0 {
		if s := Slug(LastName(rec.Authors[0]), maxSlug); s != "" {
			author = s
		}
	}

	title := Slug(rec.Title, maxSlug)
	if title == "" {
		title = "untitled"
	}

	return year + "-" + author + "-" + title
}

// Record returns a copy of rec with title and authors normalized. The
// source attribution map is shared, not copied; reconciliation is done
// by the time records are normalized.
func Record(rec types.BibliographicRecord) types.BibliographicRecord {
	rec.Title = Title(rec.Title)
	rec.Authors = Authors(rec.Authors)
	return rec
}
