// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pdforg/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResolverConfig holds settings for the external bibliographic resolver.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// EnableCrossref controls whether the CrossRef source is queried.
	EnableCrossref bool `json:"enable_crossref" yaml:"enable_crossref"`

	// EnableSemanticScholar controls whether the Semantic Scholar source is queried.
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar"`

	// EnableGoogleBooks controls whether the Google Books source is queried.
	EnableGoogleBooks bool `json:"enable_google_books" yaml:"enable_google_books"`

	// CrossrefMailto is an email sent as the mailto parameter for
	// CrossRef polite-pool access.
	CrossrefMailto string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// GoogleBooksAPIKey is an optional Google Books API key.
	GoogleBooksAPIKey string `json:"google_books_api_key,omitempty" yaml:"google_books_api_key,omitempty"`

	// SimilarityThreshold is the minimum normalized title similarity
	// (0..1) for an external candidate to be accepted. Defaults high
	// (0.85) to avoid false merges.
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// RequestsPerSecond bounds the request rate per source (default 1).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// OrganizeConfig holds settings for the organize stage.
type OrganizeConfig struct {
	// InputDir is the directory scanned recursively for PDF files.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir is the root of the organized library. Files land in
	// OutputDir/<year>/<stem>.pdf with a sibling <stem>.yaml record.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Workers bounds how many files are processed concurrently (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// MaxSlugLength caps the title slug used in filenames (default 80).
	MaxSlugLength int `json:"max_slug_length" yaml:"max_slug_length"`

	// TextSamplePages is how many leading pages are scanned for a DOI
	// (default 3).
	TextSamplePages int `json:"text_sample_pages" yaml:"text_sample_pages"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Resolver ResolverConfig `json:"resolver" yaml:"resolver"`
	Organize OrganizeConfig `json:"organize" yaml:"organize"`
}
