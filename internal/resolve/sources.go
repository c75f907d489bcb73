// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/pdiddy/pdforg/pkg/types"
)

// NewSources builds the enabled sources in fixed priority order:
// CrossRef, Semantic Scholar, Google Books. Each source gets its own
// rate limiter so a burst against one service cannot starve another.
func NewSources(client *http.Client, cfg types.ResolverConfig) []Source {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	newLimiter := func() *rate.Limiter {
		return rate.NewLimiter(rate.Limit(rps), 1)
	}

	var sources []Source
	if cfg.EnableCrossref {
		sources = append(sources, &CrossrefSource{Client: client, Limiter: newLimiter()})
	}
	if cfg.EnableSemanticScholar {
		sources = append(sources, &SemanticScholarSource{
			Client:  client,
			Limiter: newLimiter(),
			APIKey:  cfg.SemanticScholarAPIKey,
		})
	}
	if cfg.EnableGoogleBooks {
		sources = append(sources, &GoogleBooksSource{
			Client:  client,
			Limiter: newLimiter(),
			APIKey:  cfg.GoogleBooksAPIKey,
		})
	}
	return sources
}
