// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdforg/internal/organize"
	"github.com/pdiddy/pdforg/internal/reconcile"
	"github.com/pdiddy/pdforg/internal/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [file.pdf]",
	Short: "Resolve and print the bibliographic record for one PDF",
	Long: `Resolve runs the metadata pipeline for a single file and prints the
canonical record and target filename stem as YAML, without copying
anything. Useful for checking what organize would do with a file.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 10s)")
	resolveCmd.Flags().Float64("similarity", 0, "minimum title similarity for external matches (default 0.85)")
	resolveCmd.Flags().Bool("no-resolve", false, "skip external lookup services entirely")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	noResolve, _ := cmd.Flags().GetBool("no-resolve")
	var r reconcile.Resolver
	if !noResolve {
		cfg := resolverConfig(cmd)
		client := &http.Client{Timeout: cfg.Timeout}
		if sources := resolve.NewSources(client, cfg); len(sources) > 0 {
			r = &resolve.Client{Sources: sources, Cfg: cfg, Warn: os.Stderr}
		}
	}

	rec, stem, err := organize.ProcessFile(cmd.Context(), filepath.Base(path), data, r, organizeConfig(cmd, "", "", 0), os.Stderr)
	if err != nil {
		return err
	}

	out := struct {
		Record   any    `yaml:"record"`
		FileStem string `yaml:"file_stem"`
	}{
		Record: organize.Companion{
			Title:     rec.Title,
			Authors:   rec.Authors,
			Year:      rec.Year,
			DOI:       rec.DOI,
			ISBN:      rec.ISBN,
			Publisher: rec.Publisher,
			Abstract:  rec.Abstract,
			Sources:   rec.Sources,
		},
		FileStem: stem,
	}

	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	return nil
}
