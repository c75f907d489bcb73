// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/pdiddy/pdforg/internal/httputil"
	"github.com/pdiddy/pdforg/pkg/types"
)

// crossrefAPIBase is the CrossRef works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// crossrefRows bounds the candidate list per lookup.
const crossrefRows = 5

// CrossrefSource queries the CrossRef REST API, the first source in
// resolution priority order.
type CrossrefSource struct {
	Client  *http.Client
	Limiter *rate.Limiter
}

// Name returns the source identifier.
func (s *CrossrefSource) Name() string { return string(types.SourceCrossref) }

// Lookup runs a bibliographic query and returns the top candidates.
func (s *CrossrefSource) Lookup(ctx context.Context, q Query, cfg types.ResolverConfig) ([]types.PartialRecord, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	params := url.Values{
		"query.bibliographic": {q.Title},
		"rows":                {fmt.Sprintf("%d", crossrefRows)},
	}
	if q.Author != "" {
		params.Set("query.author", q.Author)
	}
	// Polite-pool access.
	if cfg.CrossrefMailto != "" {
		params.Set("mailto", cfg.CrossrefMailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossrefAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CrossRef API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing CrossRef response: %w", err)
	}

	var records []types.PartialRecord
	for _, item := range cr.Message.Items {
		rec := types.PartialRecord{
			DOI:       item.DOI,
			Publisher: item.Publisher,
			Abstract:  item.Abstract,
		}
		if len(item.Title) > 0 {
			rec.Title = item.Title[0]
		}
		for _, a := range item.Author {
			switch {
			case a.Given != "" && a.Family != "":
				rec.Authors = append(rec.Authors, a.Given+" "+a.Family)
			case a.Family != "":
				rec.Authors = append(rec.Authors, a.Family)
			case a.Name != "":
				rec.Authors = append(rec.Authors, a.Name)
			}
		}
		if y := item.Issued.year(); types.PlausibleYear(y) {
			rec.Year = y
		}
		if len(item.ISBN) > 0 {
			rec.ISBN = item.ISBN[0]
		}
		if rec.IsEmpty() {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	Items []crossrefWork `json:"items"`
}

type crossrefWork struct {
	Title     []string       `json:"title"`
	Author    []crossrefName `json:"author"`
	Issued    crossrefDate   `json:"issued"`
	DOI       string         `json:"DOI"`
	ISBN      []string       `json:"ISBN"`
	Publisher string         `json:"publisher"`
	Abstract  string         `json:"abstract"`
}

type crossrefName struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

// year returns the year component of a CSL date, or 0.
func (d crossrefDate) year() int {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}
