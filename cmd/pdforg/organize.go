// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdforg/internal/catalog"
	"github.com/pdiddy/pdforg/internal/organize"
	"github.com/pdiddy/pdforg/internal/reconcile"
	"github.com/pdiddy/pdforg/internal/resolve"
	"github.com/pdiddy/pdforg/pkg/types"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "pdforg/0.1"
)

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Organize a directory of PDFs into the normalized library layout",
	Long: `Organize scans the input directory recursively for PDF files, infers a
bibliographic record for each from its filename, embedded metadata, and
external lookups, and copies it to <output>/<year>/<year>-<author>-<title>.pdf
with a sibling .yaml record. Already-organized files (by content hash) are
skipped, so an interrupted run can simply be restarted.`,
	RunE: runOrganize,
}

func init() {
	organizeCmd.Flags().String("input", "inbox", "directory scanned for PDF files")
	organizeCmd.Flags().String("output", "organized", "root of the organized library")
	organizeCmd.Flags().Int("workers", 0, "concurrent files (default 4)")
	organizeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 10s)")
	organizeCmd.Flags().Float64("similarity", 0, "minimum title similarity for external matches (default 0.85)")
	organizeCmd.Flags().Bool("no-resolve", false, "skip external lookup services entirely")

	rootCmd.AddCommand(organizeCmd)
}

func runOrganize(cmd *cobra.Command, args []string) error {
	inputDir, _ := cmd.Flags().GetString("input")
	outputDir, _ := cmd.Flags().GetString("output")
	workers, _ := cmd.Flags().GetInt("workers")
	noResolve, _ := cmd.Flags().GetBool("no-resolve")

	if _, err := os.Stat(inputDir); err != nil {
		return fmt.Errorf("input directory %s: %w", inputDir, err)
	}

	orgCfg := organizeConfig(cmd, inputDir, outputDir, workers)

	var r reconcile.Resolver
	if !noResolve {
		cfg := resolverConfig(cmd)
		client := &http.Client{Timeout: cfg.Timeout}
		if sources := resolve.NewSources(client, cfg); len(sources) > 0 {
			r = &resolve.Client{Sources: sources, Cfg: cfg, Warn: os.Stderr}
		}
	}

	cat, err := catalog.Open(outputDir)
	if err != nil {
		return err
	}
	defer cat.Close()

	result, err := organize.Organize(cmd.Context(), orgCfg, r, cat, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d of %d files failed", result.Failed, result.Total())
	}
	return nil
}

// organizeConfig assembles the organize stage config from flags and viper.
func organizeConfig(cmd *cobra.Command, inputDir, outputDir string, workers int) types.OrganizeConfig {
	cfg := types.OrganizeConfig{
		InputDir:        inputDir,
		OutputDir:       outputDir,
		Workers:         workers,
		MaxSlugLength:   viper.GetInt("organize.max_slug_length"),
		TextSamplePages: viper.GetInt("organize.text_sample_pages"),
	}
	if cfg.Workers == 0 {
		cfg.Workers = viper.GetInt("organize.workers")
	}
	return cfg
}

// resolverConfig assembles the resolver config from flags, viper, and
// loaded secrets.
func resolverConfig(cmd *cobra.Command) types.ResolverConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("resolver.timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	similarity, _ := cmd.Flags().GetFloat64("similarity")
	if similarity == 0 {
		similarity = viper.GetFloat64("resolver.similarity_threshold")
	}

	cfg := types.ResolverConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		EnableCrossref:        true,
		EnableSemanticScholar: true,
		EnableGoogleBooks:     true,
		SimilarityThreshold:   similarity,
		RequestsPerSecond:     viper.GetFloat64("resolver.requests_per_second"),
		CrossrefMailto:        secretDefault("crossref-mailto", viper.GetString("resolver.crossref_mailto")),
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", viper.GetString("resolver.semantic_scholar_api_key")),
		GoogleBooksAPIKey:     secretDefault("google-books-api-key", viper.GetString("resolver.google_books_api_key")),
	}

	if viper.IsSet("resolver.enable_crossref") {
		cfg.EnableCrossref = viper.GetBool("resolver.enable_crossref")
	}
	if viper.IsSet("resolver.enable_semantic_scholar") {
		cfg.EnableSemanticScholar = viper.GetBool("resolver.enable_semantic_scholar")
	}
	if viper.IsSet("resolver.enable_google_books") {
		cfg.EnableGoogleBooks = viper.GetBool("resolver.enable_google_books")
	}

	return cfg
}
