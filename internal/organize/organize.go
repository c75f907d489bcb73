// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package organize drives the per-file metadata pipeline and relocates
// PDFs into the normalized library layout:
//
//	<output>/<year|unknown>/<year>-<author>-<title-slug>.pdf
//
// plus a sibling .yaml companion record per file. Files are processed
// by a bounded worker pool; file runs share no mutable state, so a
// failure or interruption leaves the remaining inputs untouched and a
// re-run picks up where the last one stopped.
package organize

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pdiddy/pdforg/internal/catalog"
	"github.com/pdiddy/pdforg/internal/filename"
	"github.com/pdiddy/pdforg/internal/normalize"
	"github.com/pdiddy/pdforg/internal/pdfmeta"
	"github.com/pdiddy/pdforg/internal/reconcile"
	"github.com/pdiddy/pdforg/pkg/types"
)

const (
	defaultWorkers = 4
	unknownYearDir = "unknown"
)

// variantSuffix matches copy-counter suffixes like "paper-2".
var variantSuffix = regexp.MustCompile(`-\d+$`)

// syncWriter serializes writes: workers emit warnings on the same
// writer the collector prints progress lines to.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// BatchResult holds the outcome counters of an organize run.
type BatchResult struct {
	Organized int
	Skipped   int
	Failed    int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Organized + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ProcessFile runs the metadata pipeline for one PDF: filename parsing
// and embedded-metadata extraction run concurrently, the reconciler
// merges them (consulting r only for missing fields), and the
// normalizer produces the canonical record and filename stem.
//
// Bytes without a PDF header are the one hard failure: nothing can be
// read from them at all. Every other extraction problem degrades to a
// warning on w and an empty partial record.
func ProcessFile(ctx context.Context, name string, data []byte, r reconcile.Resolver, cfg types.OrganizeConfig, w io.Writer) (types.BibliographicRecord, string, error) {
	if !pdfmeta.IsPDF(data) {
		return types.BibliographicRecord{}, "", fmt.Errorf("%s: not a PDF", name)
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))

	var (
		fromFilename types.PartialRecord
		fromEmbedded types.PartialRecord
		wg           sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		fromFilename = filename.Parse(stem)
	}()
	go func() {
		defer wg.Done()
		emb, err := pdfmeta.Extract(data)
		if err != nil {
			fmt.Fprintf(w, "warning: %s: embedded metadata unreadable: %v\n", name, err)
		}
		if emb.DOI == "" {
			if text, sampleErr := pdfmeta.TextSample(data, cfg.TextSamplePages); sampleErr == nil {
				emb.DOI = pdfmeta.FindDOI(text)
			}
		}
		fromEmbedded = emb
	}()
	wg.Wait()

	rec := reconcile.Reconcile(ctx, stem, fromFilename, fromEmbedded, r)
	rec = normalize.Record(rec)

	return rec, normalize.FileStem(rec, cfg.MaxSlugLength), nil
}

// Organize walks cfg.InputDir for PDFs and relocates each one. cat may
// be nil to disable resume detection; r may be nil to disable external
// resolution. Progress lines and the final summary go to w.
func Organize(ctx context.Context, cfg types.OrganizeConfig, r reconcile.Resolver, cat *catalog.Store, w io.Writer) (BatchResult, error) {
	sw := &syncWriter{w: w}
	paths, err := collectPDFs(cfg.InputDir, sw)
	if err != nil {
		return BatchResult{}, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	type outcome struct {
		line   string
		status int // 0 organized, 1 skipped, 2 failed
	}

	jobs := make(chan string)
	results := make(chan outcome)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				select {
				case <-ctx.Done():
					results <- outcome{line: fmt.Sprintf("failed  %s: %v", path, ctx.Err()), status: 2}
					continue
				default:
				}
				target, skipped, err := organizeOne(ctx, path, cfg, r, cat, sw)
				switch {
				case err != nil:
					results <- outcome{line: fmt.Sprintf("failed  %s: %v", path, err), status: 2}
				case skipped:
					results <- outcome{line: fmt.Sprintf("skipped %s (already organized)", path), status: 1}
				default:
					results <- outcome{line: fmt.Sprintf("organized %s -> %s", path, target), status: 0}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range paths {
			select {
			case <-ctx.Done():
				return
			case jobs <- p:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var result BatchResult
	for o := range results {
		fmt.Fprintln(sw, o.line)
		switch o.status {
		case 0:
			result.Organized++
		case 1:
			result.Skipped++
		default:
			result.Failed++
		}
	}

	fmt.Fprintf(sw, "\norganized: %d, skipped: %d, failed: %d\n",
		result.Organized, result.Skipped, result.Failed)
	return result, ctx.Err()
}

// organizeOne runs the pipeline for one file and performs the copy,
// companion write, and catalog upsert.
func organizeOne(ctx context.Context, path string, cfg types.OrganizeConfig, r reconcile.Resolver, cat *catalog.Store, w io.Writer) (target string, skipped bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("reading: %w", err)
	}

	hash := fmt.Sprintf("%x", sha256.Sum256(data))
	if cat != nil {
		seen, hasErr := cat.Has(ctx, hash)
		if hasErr != nil {
			return "", false, hasErr
		}
		if seen {
			return "", true, nil
		}
	}

	rec, stem, err := ProcessFile(ctx, filepath.Base(path), data, r, cfg, w)
	if err != nil {
		return "", false, err
	}

	yearDir := unknownYearDir
	if rec.HasYear() {
		yearDir = strconv.Itoa(rec.Year)
	}
	dir := filepath.Join(cfg.OutputDir, yearDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating %s: %w", dir, err)
	}

	target = filepath.Join(dir, stem+".pdf")
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", false, fmt.Errorf("writing %s: %w", target, err)
	}

	if err := WriteCompanion(filepath.Join(dir, stem+".yaml"), rec, hash, path); err != nil {
		return "", false, err
	}

	if cat != nil {
		doc := catalog.Document{
			Hash:       hash,
			SourcePath: path,
			TargetPath: target,
			Record:     rec,
		}
		if err := cat.Record(ctx, doc); err != nil {
			return "", false, err
		}
	}

	return target, false, nil
}

// collectPDFs walks root for PDF files, skipping dotfiles, AppleDouble
// "._" files, and duplicate variants whose stem differs only by a
// trailing "-N" counter. Paths come back sorted so runs are
// deterministic.
func collectPDFs(root string, w io.Writer) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	sort.Strings(paths)

	seen := make(map[string]bool)
	var out []string
	for _, p := range paths {
		stem := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		base := variantSuffix.ReplaceAllString(stem, "")
		if seen[base] {
			fmt.Fprintf(w, "skipping duplicate variant: %s\n", p)
			continue
		}
		seen[base] = true
		out = append(out, p)
	}
	return out, nil
}
