// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"context"
	"reflect"
	"testing"

	"github.com/pdiddy/pdforg/internal/resolve"
	"github.com/pdiddy/pdforg/pkg/types"
)

// fakeResolver records the queries it receives and returns a canned record.
type fakeResolver struct {
	record  types.PartialRecord
	source  types.FieldSource
	ok      bool
	queries []resolve.Query
}

func (f *fakeResolver) Resolve(ctx context.Context, q resolve.Query) (types.PartialRecord, types.FieldSource, bool) {
	f.queries = append(f.queries, q)
	return f.record, f.source, f.ok
}

func TestReconcileYearPrefersFilename(t *testing.T) {
	rec := Reconcile(context.Background(), "stem",
		types.PartialRecord{Year: 2009, Title: "T", Authors: []string{"A"}},
		types.PartialRecord{Year: 2011},
		nil)

	if rec.Year != 2009 {
		t.Errorf("year = %d, want filename-derived 2009", rec.Year)
	}
	if rec.Sources["year"] != types.SourceFilename {
		t.Errorf("year source = %q, want filename", rec.Sources["year"])
	}
}

func TestReconcileTitleAndAuthorsPreferEmbedded(t *testing.T) {
	rec := Reconcile(context.Background(), "stem",
		types.PartialRecord{Year: 2009, Title: "From Filename", Authors: []string{"Fn"}},
		types.PartialRecord{Title: "From Embedded", Authors: []string{"Emb"}},
		nil)

	if rec.Title != "From Embedded" {
		t.Errorf("title = %q, want embedded-derived", rec.Title)
	}
	if rec.Sources["title"] != types.SourceEmbedded {
		t.Errorf("title source = %q, want embedded", rec.Sources["title"])
	}
	if !reflect.DeepEqual(rec.Authors, []string{"Emb"}) {
		t.Errorf("authors = %v, want embedded-derived", rec.Authors)
	}
	if rec.Sources["authors"] != types.SourceEmbedded {
		t.Errorf("authors source = %q, want embedded", rec.Sources["authors"])
	}
}

func TestReconcileResolverSkippedWhenComplete(t *testing.T) {
	r := &fakeResolver{ok: true, record: types.PartialRecord{Year: 1900}}
	rec := Reconcile(context.Background(), "stem",
		types.PartialRecord{Year: 2009, Title: "T", Authors: []string{"A"}},
		types.PartialRecord{},
		r)

	if len(r.queries) != 0 {
		t.Errorf("resolver called %d times for a complete record", len(r.queries))
	}
	if rec.Year != 2009 {
		t.Errorf("year = %d, want 2009", rec.Year)
	}
}

func TestReconcileResolverFillsOnlyMissing(t *testing.T) {
	r := &fakeResolver{
		ok:     true,
		source: types.SourceSemanticScholar,
		record: types.PartialRecord{Year: 2017, Authors: []string{"Vaswani"}, Title: "Should Not Overwrite", DOI: "10.1/x"},
	}
	rec := Reconcile(context.Background(), "stem",
		types.PartialRecord{Title: "Attention Is All You Need"},
		types.PartialRecord{},
		r)

	if rec.Title != "Attention Is All You Need" {
		t.Errorf("title = %q, resolver must not overwrite", rec.Title)
	}
	if rec.Year != 2017 {
		t.Errorf("year = %d, want resolver-supplied 2017", rec.Year)
	}
	if rec.Sources["year"] != types.SourceSemanticScholar {
		t.Errorf("year source = %q, want semantic_scholar", rec.Sources["year"])
	}
	if !reflect.DeepEqual(rec.Authors, []string{"Vaswani"}) {
		t.Errorf("authors = %v, want resolver-supplied", rec.Authors)
	}
	if rec.DOI != "10.1/x" {
		t.Errorf("doi = %q, want resolver-supplied", rec.DOI)
	}

	if len(r.queries) != 1 {
		t.Fatalf("resolver called %d times, want 1", len(r.queries))
	}
	if r.queries[0].Title != "Attention Is All You Need" {
		t.Errorf("resolver query title = %q", r.queries[0].Title)
	}
}

func TestReconcileResolverNoMatchLeavesGaps(t *testing.T) {
	r := &fakeResolver{ok: false}
	rec := Reconcile(context.Background(), "Another_Paper_2015",
		types.PartialRecord{Year: 2015, Title: "Another Paper"},
		types.PartialRecord{},
		r)

	if rec.Year != 2015 {
		t.Errorf("year = %d, want 2015", rec.Year)
	}
	if len(rec.Authors) != 0 {
		t.Errorf("authors = %v, want empty", rec.Authors)
	}
	if _, ok := rec.Sources["authors"]; ok {
		t.Error("authors should have no source attribution when absent")
	}
}

func TestReconcileStemFallbackTitle(t *testing.T) {
	rec := Reconcile(context.Background(), "some_old-scan",
		types.PartialRecord{},
		types.PartialRecord{},
		nil)

	if rec.Title != "some old scan" {
		t.Errorf("title = %q, want stem fallback", rec.Title)
	}
	if rec.Sources["title"] != types.SourceFilename {
		t.Errorf("title source = %q, want filename", rec.Sources["title"])
	}
}

func TestReconcileEmbeddedOnly(t *testing.T) {
	rec := Reconcile(context.Background(), "scan0001",
		types.PartialRecord{},
		types.PartialRecord{Title: "Notes", Authors: []string{"J. Doe"}},
		nil)

	if rec.Title != "Notes" || !reflect.DeepEqual(rec.Authors, []string{"J. Doe"}) {
		t.Errorf("record = %+v, want embedded title/authors", rec)
	}
	if rec.Year != 0 {
		t.Errorf("year = %d, want absent", rec.Year)
	}
}

// No year is ever invented: a resolver miss leaves the field absent
// rather than substituting anything.
func TestReconcileNeverGuessesYear(t *testing.T) {
	rec := Reconcile(context.Background(), "scan0001",
		types.PartialRecord{},
		types.PartialRecord{Title: "Notes"},
		&fakeResolver{ok: false})

	if rec.Year != 0 {
		t.Errorf("year = %d, want 0 (absent)", rec.Year)
	}
	if _, ok := rec.Sources["year"]; ok {
		t.Error("absent year must not carry a source attribution")
	}
}
