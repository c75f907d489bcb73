// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/pdforg/pkg/types"
)

// fakeSource returns canned candidates or an error.
type fakeSource struct {
	name       string
	candidates []types.PartialRecord
	err        error
	calls      int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Lookup(ctx context.Context, q Query, cfg types.ResolverConfig) ([]types.PartialRecord, error) {
	f.calls++
	return f.candidates, f.err
}

func testResolverCfg() types.ResolverConfig {
	return types.ResolverConfig{SimilarityThreshold: 0.85}
}

func TestResolveFirstMatchWins(t *testing.T) {
	first := &fakeSource{name: "crossref", candidates: []types.PartialRecord{
		{Title: "Deep Learning Basics", Year: 2009},
	}}
	second := &fakeSource{name: "semantic_scholar"}

	out, ok := Resolve(context.Background(), Query{Title: "Deep Learning Basics"},
		[]Source{first, second}, testResolverCfg(), new(bytes.Buffer))
	if !ok {
		t.Fatal("expected a match")
	}
	if out.Source != types.SourceCrossref {
		t.Errorf("source = %q, want crossref", out.Source)
	}
	if out.Record.Year != 2009 {
		t.Errorf("year = %d, want 2009", out.Record.Year)
	}
	if second.calls != 0 {
		t.Errorf("second source called %d times after first matched", second.calls)
	}
}

// If the first-priority source fails, the second source's result is
// used and attribution names the second source.
func TestResolveFallbackOnSourceError(t *testing.T) {
	first := &fakeSource{name: "crossref", err: errors.New("timeout")}
	second := &fakeSource{name: "semantic_scholar", candidates: []types.PartialRecord{
		{Title: "Deep Learning Basics", Authors: []string{"Smith"}},
	}}

	var warnings bytes.Buffer
	out, ok := Resolve(context.Background(), Query{Title: "Deep Learning Basics"},
		[]Source{first, second}, testResolverCfg(), &warnings)
	if !ok {
		t.Fatal("expected a match from the second source")
	}
	if out.Source != types.SourceSemanticScholar {
		t.Errorf("source = %q, want semantic_scholar", out.Source)
	}
	if !strings.Contains(warnings.String(), "crossref") {
		t.Errorf("warning output %q should name the failed source", warnings.String())
	}
	if len(out.Results) != 2 || out.Results[0].Kind != SourceError {
		t.Errorf("results = %+v, want [SourceError, Match]", out.Results)
	}
}

func TestResolveBelowThresholdIsNoMatch(t *testing.T) {
	src := &fakeSource{name: "crossref", candidates: []types.PartialRecord{
		{Title: "A Completely Different Work Entirely"},
	}}

	out, ok := Resolve(context.Background(), Query{Title: "Deep Learning Basics"},
		[]Source{src}, testResolverCfg(), new(bytes.Buffer))
	if ok {
		t.Fatalf("expected no match, got %+v", out.Record)
	}
	if len(out.Results) != 1 || out.Results[0].Kind != NoMatch {
		t.Errorf("results = %+v, want one NoMatch", out.Results)
	}
}

func TestResolveAllSourcesFail(t *testing.T) {
	sources := []Source{
		&fakeSource{name: "crossref", err: errors.New("boom")},
		&fakeSource{name: "semantic_scholar", err: errors.New("boom")},
		&fakeSource{name: "google_books", err: errors.New("boom")},
	}

	_, ok := Resolve(context.Background(), Query{Title: "Anything"},
		sources, testResolverCfg(), new(bytes.Buffer))
	if ok {
		t.Error("expected no match when every source fails")
	}
}

// An empty query skips the sources entirely; no call is attempted.
func TestResolveEmptyQuerySkipsSources(t *testing.T) {
	src := &fakeSource{name: "crossref", candidates: []types.PartialRecord{{Title: "X"}}}

	_, ok := Resolve(context.Background(), Query{Title: "   "},
		[]Source{src}, testResolverCfg(), new(bytes.Buffer))
	if ok {
		t.Error("expected no match for an empty query")
	}
	if src.calls != 0 {
		t.Errorf("source called %d times for an empty query", src.calls)
	}
}

func TestResolvePicksMostSimilarCandidate(t *testing.T) {
	src := &fakeSource{name: "crossref", candidates: []types.PartialRecord{
		{Title: "Deep Learning", Year: 2016},
		{Title: "Deep Learning Basics", Year: 2009},
	}}

	out, ok := Resolve(context.Background(), Query{Title: "Deep Learning Basics"},
		[]Source{src}, testResolverCfg(), new(bytes.Buffer))
	if !ok {
		t.Fatal("expected a match")
	}
	if out.Record.Year != 2009 {
		t.Errorf("picked year %d, want the more similar candidate (2009)", out.Record.Year)
	}
}

func TestTitleSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"identical", "Deep Learning Basics", "Deep Learning Basics", 1, 1},
		{"case and punctuation folded", "Deep Learning: Basics!", "deep learning basics", 1, 1},
		{"near miss scores high", "Deep Learning Basics", "Deep Learning Basic", 0.9, 1},
		{"unrelated scores low", "Deep Learning Basics", "Organic Chemistry", 0, 0.4},
		{"empty scores zero", "", "Deep Learning", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TitleSimilarity(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Errorf("TitleSimilarity(%q, %q) = %v, want in [%v, %v]", tt.a, tt.b, got, tt.min, tt.max)
			}
		})
	}
}

func TestNewSourcesPriorityOrder(t *testing.T) {
	cfg := types.ResolverConfig{
		EnableCrossref:        true,
		EnableSemanticScholar: true,
		EnableGoogleBooks:     true,
	}
	sources := NewSources(nil, cfg)
	if len(sources) != 3 {
		t.Fatalf("got %d sources, want 3", len(sources))
	}
	want := []string{"crossref", "semantic_scholar", "google_books"}
	for i, s := range sources {
		if s.Name() != want[i] {
			t.Errorf("source[%d] = %q, want %q", i, s.Name(), want[i])
		}
	}
}

func TestNewSourcesRespectsEnableFlags(t *testing.T) {
	sources := NewSources(nil, types.ResolverConfig{EnableSemanticScholar: true})
	if len(sources) != 1 || sources[0].Name() != "semantic_scholar" {
		t.Errorf("sources = %v, want only semantic_scholar", sources)
	}
}
