// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve queries external bibliographic sources to fill record
// fields the filename and embedded metadata could not supply.
//
// Sources are tried in fixed priority order (CrossRef, Semantic
// Scholar, Google Books) and folded left to right: the first source
// whose best candidate clears the title-similarity bar wins. A source
// error is logged and demoted to "no match from this source"; it never
// aborts the fold or the pipeline.
package resolve

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/pdiddy/pdforg/pkg/types"
)

// DefaultSimilarityThreshold is deliberately high so a fuzzy title hit
// from the wrong work is not merged into the record.
const DefaultSimilarityThreshold = 0.85

// Query carries whatever is already known about the work. Title must be
// non-empty for a lookup to be attempted at all.
type Query struct {
	Title  string
	Author string
}

// IsEmpty reports whether no lookup can be built from the query.
func (q Query) IsEmpty() bool { return strings.TrimSpace(q.Title) == "" }

// Source is one external bibliographic service. Lookup returns its
// candidate records in source ranking order; transport and decode
// problems come back as errors and are handled by the fold.
type Source interface {
	Name() string
	Lookup(ctx context.Context, q Query, cfg types.ResolverConfig) ([]types.PartialRecord, error)
}

// ResultKind classifies one source's outcome.
type ResultKind int

const (
	// NoMatch: the source answered but no candidate cleared the bar.
	NoMatch ResultKind = iota
	// Match: the source supplied a usable record.
	Match
	// SourceError: the call failed (timeout, bad response, rate limit).
	SourceError
)

// SourceResult is the explicit per-source outcome, kept for diagnostics.
type SourceResult struct {
	Source     string
	Kind       ResultKind
	Record     types.PartialRecord
	Similarity float64
	Err        error
}

// Outcome is the result of a full resolution fold.
type Outcome struct {
	Record  types.PartialRecord
	Source  types.FieldSource
	Results []SourceResult
}

// Resolve folds the sources in order and returns the first match. The
// boolean is false when the query is empty, every source failed, or no
// candidate cleared the similarity bar. Warnings go to w.
func Resolve(ctx context.Context, q Query, sources []Source, cfg types.ResolverConfig, w io.Writer) (Outcome, bool) {
	var out Outcome
	if q.IsEmpty() {
		return out, false
	}

	for _, src := range sources {
		res := lookupOne(ctx, src, q, cfg)
		out.Results = append(out.Results, res)

		switch res.Kind {
		case Match:
			out.Record = res.Record
			out.Source = types.FieldSource(src.Name())
			return out, true
		case SourceError:
			fmt.Fprintf(w, "warning: source %s failed: %v\n", src.Name(), res.Err)
		}
	}
	return out, false
}

// Client bundles the source list, config, and warning writer into a
// reusable resolver for the reconciler.
type Client struct {
	Sources []Source
	Cfg     types.ResolverConfig
	Warn    io.Writer
}

// Resolve runs the fold over the client's sources.
func (c *Client) Resolve(ctx context.Context, q Query) (types.PartialRecord, types.FieldSource, bool) {
	w := c.Warn
	if w == nil {
		w = io.Discard
	}
	out, ok := Resolve(ctx, q, c.Sources, c.Cfg, w)
	return out.Record, out.Source, ok
}

// lookupOne queries a single source with the per-request timeout and
// picks its most similar candidate.
func lookupOne(ctx context.Context, src Source, q Query, cfg types.ResolverConfig) SourceResult {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	candidates, err := src.Lookup(ctx, q, cfg)
	if err != nil {
		return SourceResult{Source: src.Name(), Kind: SourceError, Err: err}
	}

	threshold := cfg.SimilarityThreshold
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	best := SourceResult{Source: src.Name(), Kind: NoMatch}
	for _, c := range candidates {
		sim := TitleSimilarity(q.Title, c.Title)
		if sim > best.Similarity {
			best.Record = c
			best.Similarity = sim
		}
	}
	if best.Similarity >= threshold {
		best.Kind = Match
	} else {
		best.Record = types.PartialRecord{}
	}
	return best
}

// TitleSimilarity returns the normalized Levenshtein similarity of two
// titles in [0, 1], computed over lowercased, punctuation-stripped text.
func TitleSimilarity(a, b string) float64 {
	na, nb := foldTitle(a), foldTitle(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	dist := levenshtein.ComputeDistance(na, nb)
	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}
	return 1 - float64(dist)/float64(longest)
}

// foldTitle lowercases a title and strips everything but letters,
// digits, and single spaces.
func foldTitle(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
