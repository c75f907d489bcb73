// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/pdiddy/pdforg/internal/httputil"
	"github.com/pdiddy/pdforg/pkg/types"
)

// googleBooksAPIBase is the Google Books volumes endpoint. Declared as
// a var so tests can substitute an httptest server.
var googleBooksAPIBase = "https://www.googleapis.com/books/v1/volumes"

const googleBooksMax = 5

// GoogleBooksSource queries the Google Books API, the last source in
// resolution priority order. It mostly earns its keep on monographs
// the paper-centric sources miss.
type GoogleBooksSource struct {
	Client  *http.Client
	Limiter *rate.Limiter
	APIKey  string
}

// Name returns the source identifier.
func (s *GoogleBooksSource) Name() string { return string(types.SourceGoogleBooks) }

// Lookup runs a volume search and returns the top candidates.
func (s *GoogleBooksSource) Lookup(ctx context.Context, q Query, cfg types.ResolverConfig) ([]types.PartialRecord, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	terms := "intitle:" + q.Title
	if q.Author != "" {
		terms += " inauthor:" + q.Author
	}

	params := url.Values{
		"q":          {terms},
		"maxResults": {fmt.Sprintf("%d", googleBooksMax)},
	}
	if s.APIKey != "" {
		params.Set("key", s.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleBooksAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Google Books API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google Books API returned HTTP %d", resp.StatusCode)
	}

	var gr googleBooksResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("parsing Google Books response: %w", err)
	}

	var records []types.PartialRecord
	for _, item := range gr.Items {
		vi := item.VolumeInfo
		rec := types.PartialRecord{
			Title:     vi.Title,
			Authors:   vi.Authors,
			Publisher: vi.Publisher,
			Abstract:  vi.Description,
		}
		// publishedDate is "YYYY", "YYYY-MM", or "YYYY-MM-DD".
		if len(vi.PublishedDate) >= 4 {
			if y, convErr := strconv.Atoi(vi.PublishedDate[:4]); convErr == nil && types.PlausibleYear(y) {
				rec.Year = y
			}
		}
		for _, id := range vi.IndustryIdentifiers {
			if id.Type == "ISBN_13" || (id.Type == "ISBN_10" && rec.ISBN == "") {
				rec.ISBN = id.Identifier
			}
		}
		if rec.IsEmpty() {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Google Books API JSON structures.
type googleBooksResponse struct {
	TotalItems int               `json:"totalItems"`
	Items      []googleBooksItem `json:"items"`
}

type googleBooksItem struct {
	VolumeInfo googleBooksVolume `json:"volumeInfo"`
}

type googleBooksVolume struct {
	Title               string            `json:"title"`
	Authors             []string          `json:"authors"`
	Publisher           string            `json:"publisher"`
	PublishedDate       string            `json:"publishedDate"`
	Description         string            `json:"description"`
	IndustryIdentifiers []googleBooksISBN `json:"industryIdentifiers"`
}

type googleBooksISBN struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}
