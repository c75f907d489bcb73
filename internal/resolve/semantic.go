// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/pdforg/internal/httputil"
	"github.com/pdiddy/pdforg/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint.
// Declared as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const (
	semanticFields = "title,abstract,authors,externalIds,year"
	semanticLimit  = 5
)

// SemanticScholarSource queries the Semantic Scholar API, the second
// source in resolution priority order.
type SemanticScholarSource struct {
	Client  *http.Client
	Limiter *rate.Limiter
	APIKey  string
}

// Name returns the source identifier.
func (s *SemanticScholarSource) Name() string { return string(types.SourceSemanticScholar) }

// Lookup runs a paper search and returns the top candidates.
func (s *SemanticScholarSource) Lookup(ctx context.Context, q Query, cfg types.ResolverConfig) ([]types.PartialRecord, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	terms := q.Title
	if q.Author != "" {
		terms = strings.Join([]string{q.Title, q.Author}, " ")
	}

	params := url.Values{
		"query":  {terms},
		"limit":  {fmt.Sprintf("%d", semanticLimit)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var records []types.PartialRecord
	for _, paper := range sr.Data {
		rec := types.PartialRecord{
			Title:    paper.Title,
			Abstract: paper.Abstract,
			DOI:      paper.ExternalIDs.DOI,
		}
		for _, a := range paper.Authors {
			if a.Name != "" {
				rec.Authors = append(rec.Authors, a.Name)
			}
		}
		if types.PlausibleYear(paper.Year) {
			rec.Year = paper.Year
		}
		if rec.IsEmpty() {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID     string              `json:"paperId"`
	Title       string              `json:"title"`
	Abstract    string              `json:"abstract"`
	Year        int                 `json:"year"`
	Authors     []semanticAuthor    `json:"authors"`
	ExternalIDs semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI string `json:"DOI"`
}
