// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfmeta reads embedded document properties and text samples
// from PDF bytes. Extraction is best-effort: a corrupt or sparse
// document yields an empty partial record, and only bytes that are not
// a PDF at all are a hard failure for the pipeline.
package pdfmeta

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/pdforg/pkg/types"
)

// DefaultSamplePages is how many leading pages TextSample reads when
// the caller passes 0.
const DefaultSamplePages = 3

// pdfMagic is the header every readable PDF starts with.
var pdfMagic = []byte("%PDF-")

// creationDateRe matches the year in an Info-dictionary date like
// "D:20090214120000Z".
var creationDateRe = regexp.MustCompile(`D?:?\s*(\d{4})`)

// doiRe matches a DOI anywhere in page text.
var doiRe = regexp.MustCompile(`\b10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// IsPDF reports whether the bytes carry a PDF header. Bytes without one
// cannot be read at all and are surfaced as a hard failure by callers.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// Extract reads the document Info dictionary (/Title, /Author,
// /CreationDate, /Publisher) from PDF bytes. Read failures return an empty partial
// record together with the error; the caller logs a warning and the
// pipeline continues on the other stages.
func Extract(data []byte) (rec types.PartialRecord, err error) {
	// The underlying reader panics on some malformed cross-reference
	// tables; treat that the same as a parse error.
	defer func() {
		if r := recover(); r != nil {
			rec = types.PartialRecord{}
			err = fmt.Errorf("reading pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return types.PartialRecord{}, fmt.Errorf("reading pdf: %w", err)
	}

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return types.PartialRecord{}, nil
	}

	// Very short titles ("1", "a4") are tool artifacts, not titles.
	if t := strings.TrimSpace(info.Key("Title").Text()); len(t) > 3 {
		rec.Title = t
	}
	if a := info.Key("Author").Text(); a != "" {
		rec.Authors = SplitAuthors(a)
	}
	if d := info.Key("CreationDate").Text(); d != "" {
		if m := creationDateRe.FindStringSubmatch(d); m != nil {
			if y, convErr := strconv.Atoi(m[1]); convErr == nil && types.PlausibleYear(y) {
				rec.Year = y
			}
		}
	}
	// /Producer names the generating tool ("pdfTeX"), never the
	// publisher; only an explicit /Publisher entry counts.
	if p := strings.TrimSpace(info.Key("Publisher").Text()); p != "" {
		rec.Publisher = p
	}

	return rec, nil
}

// TextSample extracts plain text from the first maxPages pages, for DOI
// scanning and resolver queries. Pages that fail to decode are skipped.
func TextSample(data []byte, maxPages int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("reading pdf text: %v", r)
		}
	}()

	if maxPages <= 0 {
		maxPages = DefaultSamplePages
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}

	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	var parts []string
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		t, pageErr := page.GetPlainText(nil)
		if pageErr != nil || strings.TrimSpace(t) == "" {
			continue
		}
		parts = append(parts, t)
	}

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), nil
}

// FindDOI returns the first DOI-shaped token in text, with trailing
// sentence punctuation stripped, or "" when none is present.
func FindDOI(text string) string {
	doi := doiRe.FindString(text)
	return strings.TrimRight(doi, ".,;)")
}

// SplitAuthors breaks an embedded /Author value into individual names.
// Info dictionaries conventionally separate authors with ";", some
// tools use ",".
func SplitAuthors(s string) []string {
	sep := ";"
	if !strings.Contains(s, ";") {
		sep = ","
	}
	var authors []string
	for _, a := range strings.Split(s, sep) {
		a = strings.TrimSpace(a)
		if a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}
