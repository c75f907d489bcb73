// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filename recovers bibliographic fields from PDF filenames.
//
// A fixed, priority-ordered set of pattern rules each recognizes one
// naming convention. The first rule whose shape matches a filename wins
// and alone supplies values; rules are never blended for one name.
package filename

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/pdforg/pkg/types"
)

// rule recognizes one filename convention. match returns false when the
// shape does not fit (including an implausible year), in which case the
// next rule in priority order is tried.
type rule struct {
	name  string
	match func(stem string) (types.PartialRecord, bool)
}

var (
	parenYearAuthorTitleRe = regexp.MustCompile(`^\((\d{4})\)\s*(.+?)\s+-\s+(.+)$`)
	yearAuthorTitleRe      = regexp.MustCompile(`^(\d{4})\s*-\s*(.+?)\s*-\s*(.+)$`)
	authorTitleYearRe      = regexp.MustCompile(`^(.+?)\s+-\s+(.+?)[\s_]*[(\[]?(\d{4})[)\]]?$`)
	underscoreRe           = regexp.MustCompile(`^([^_]+)_(.+)_(\d{4})$`)
	leadingYearRe          = regexp.MustCompile(`^[(\[]?(\d{4})[)\]]?[\s_-]+(.+)$`)
	trailingYearRe         = regexp.MustCompile(`^(.+?)[\s_-]+[(\[]?(\d{4})[)\]]?$`)
	authorTitleRe          = regexp.MustCompile(`^(.+?)\s+-\s+(.+)$`)
	standaloneYearRe       = regexp.MustCompile(`\b(\d{4})\b`)

	// authorSep splits a multi-author token on recognized separators.
	authorSep = regexp.MustCompile(`\s*(?:&|,|\band\b)\s*`)
)

// rules is the fixed priority order. More specific conventions come
// first; bare-year fallbacks last.
var rules = []rule{
	// "(2009) Smith - Deep Learning Basics"
	{"paren-year-author-title", func(stem string) (types.PartialRecord, bool) {
		m := parenYearAuthorTitleRe.FindStringSubmatch(stem)
		if m == nil {
			return types.PartialRecord{}, false
		}
		y, _ := strconv.Atoi(m[1])
		if !types.PlausibleYear(y) {
			return types.PartialRecord{}, false
		}
		return types.PartialRecord{Year: y, Authors: SplitAuthors(m[2]), Title: cleanTitle(m[3])}, true
	}},

	// "2014 - Goodfellow - Generative Adversarial Networks"
	{"year-author-title", func(stem string) (types.PartialRecord, bool) {
		m := yearAuthorTitleRe.FindStringSubmatch(stem)
		if m == nil {
			return types.PartialRecord{}, false
		}
		y, _ := strconv.Atoi(m[1])
		if !types.PlausibleYear(y) {
			return types.PartialRecord{}, false
		}
		return types.PartialRecord{Year: y, Authors: SplitAuthors(m[2]), Title: cleanTitle(m[3])}, true
	}},

	// "Smith - Deep Learning Basics (2009)" or "Smith - Deep Learning Basics 2009"
	{"author-title-year", func(stem string) (types.PartialRecord, bool) {
		m := authorTitleYearRe.FindStringSubmatch(stem)
		if m == nil {
			return types.PartialRecord{}, false
		}
		y, _ := strconv.Atoi(m[3])
		if !types.PlausibleYear(y) {
			return types.PartialRecord{}, false
		}
		return types.PartialRecord{Year: y, Authors: SplitAuthors(m[1]), Title: cleanTitle(m[2])}, true
	}},

	// "Smith_Attention Is All You Need_2017". The middle segment must
	// contain a space: a run of single underscore-separated words
	// ("Another_Paper_2015") is a plain title with a trailing year,
	// not an author plus a one-word title.
	{"author-title-year-underscore", func(stem string) (types.PartialRecord, bool) {
		m := underscoreRe.FindStringSubmatch(stem)
		if m == nil {
			return types.PartialRecord{}, false
		}
		y, _ := strconv.Atoi(m[3])
		if !types.PlausibleYear(y) || !strings.Contains(m[2], " ") {
			return types.PartialRecord{}, false
		}
		return types.PartialRecord{Year: y, Authors: SplitAuthors(m[1]), Title: cleanTitle(m[2])}, true
	}},

	// "2015 Another Paper" / "[2015] Another Paper"
	{"leading-year-title", func(stem string) (types.PartialRecord, bool) {
		m := leadingYearRe.FindStringSubmatch(stem)
		if m == nil {
			return types.PartialRecord{}, false
		}
		y, _ := strconv.Atoi(m[1])
		if !types.PlausibleYear(y) {
			return types.PartialRecord{}, false
		}
		return types.PartialRecord{Year: y, Title: cleanTitle(m[2])}, true
	}},

	// "Another_Paper_2015" / "Another Paper (2015)". Matches only when
	// the trailing year is the leftmost plausible year in the name;
	// with an earlier year present ("Study 1999 of things 2015") the
	// embedded-year fallback takes that one instead.
	{"trailing-year-title", func(stem string) (types.PartialRecord, bool) {
		m := trailingYearRe.FindStringSubmatch(stem)
		if m == nil {
			return types.PartialRecord{}, false
		}
		y, _ := strconv.Atoi(m[2])
		if !types.PlausibleYear(y) || hasPlausibleYear(m[1]) {
			return types.PartialRecord{}, false
		}
		return types.PartialRecord{Year: y, Title: cleanTitle(m[1])}, true
	}},

	// "Smith - Notes on Perception" (no year anywhere)
	{"author-title", func(stem string) (types.PartialRecord, bool) {
		if standaloneYearRe.MatchString(stem) {
			return types.PartialRecord{}, false
		}
		m := authorTitleRe.FindStringSubmatch(stem)
		if m == nil {
			return types.PartialRecord{}, false
		}
		return types.PartialRecord{Authors: SplitAuthors(m[1]), Title: cleanTitle(m[2])}, true
	}},

	// Any standalone 4-digit token elsewhere in the name; the leftmost
	// plausible one wins and the remainder becomes the title.
	{"embedded-year", func(stem string) (types.PartialRecord, bool) {
		for _, loc := range standaloneYearRe.FindAllStringIndex(stem, -1) {
			y, _ := strconv.Atoi(stem[loc[0]:loc[1]])
			if !types.PlausibleYear(y) {
				continue
			}
			title := cleanTitle(stem[:loc[0]] + " " + stem[loc[1]:])
			return types.PartialRecord{Year: y, Title: title}, true
		}
		return types.PartialRecord{}, false
	}},
}

// Parse extracts candidate fields from a filename stem (no directory,
// no extension). It never fails: an unrecognized name yields an empty
// partial record, and the reconciler falls back to the stem as a title
// of last resort.
func Parse(stem string) types.PartialRecord {
	stem = strings.TrimSpace(stem)
	if stem == "" {
		return types.PartialRecord{}
	}
	for _, r := range rules {
		if rec, ok := r.match(stem); ok {
			return rec
		}
	}
	return types.PartialRecord{}
}

// Rules returns the rule names in priority order, for diagnostics.
func Rules() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// SplitAuthors breaks a multi-author token on "&", "," and "and" into
// individual trimmed names, dropping empties.
func SplitAuthors(s string) []string {
	var authors []string
	for _, a := range authorSep.Split(s, -1) {
		a = strings.TrimSpace(a)
		if a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

// hasPlausibleYear reports whether s contains a standalone token that
// reads as a plausible year.
func hasPlausibleYear(s string) bool {
	for _, tok := range standaloneYearRe.FindAllString(s, -1) {
		y, _ := strconv.Atoi(tok)
		if types.PlausibleYear(y) {
			return true
		}
	}
	return false
}

// cleanTitle turns filename word separators back into spaces.
func cleanTitle(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
