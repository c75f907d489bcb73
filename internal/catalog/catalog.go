// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists a record of every organized PDF in a SQLite
// database keyed by content hash. The organize stage uses it to skip
// files that were already placed in a previous run, which makes the
// reorganization resumable without any transactional guarantee.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdforg/pkg/types"
)

const (
	catalogDir = "catalog"
	dbFile     = "pdforg.db"
)

// Document is one catalog row: the canonical record plus file locations.
type Document struct {
	Hash        string
	SourcePath  string
	TargetPath  string
	Record      types.BibliographicRecord
	OrganizedAt time.Time
}

// Store manages the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database under outputDir/catalog/,
// creating the schema if needed.
func Open(outputDir string) (*Store, error) {
	dir := filepath.Join(outputDir, catalogDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			hash TEXT PRIMARY KEY,
			source_path TEXT,
			target_path TEXT,
			title TEXT,
			authors TEXT,
			year INTEGER,
			doi TEXT,
			isbn TEXT,
			publisher TEXT,
			sources TEXT,
			organized_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_year ON documents(year)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Has reports whether a document with this content hash was already
// organized.
func (s *Store) Has(ctx context.Context, hash string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM documents WHERE hash = ?`, hash,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying catalog: %w", err)
	}
	return n > 0, nil
}

// Record upserts a document row.
func (s *Store) Record(ctx context.Context, doc Document) error {
	authorsJSON, _ := json.Marshal(doc.Record.Authors)
	sourcesJSON, _ := json.Marshal(doc.Record.Sources)

	organized := doc.OrganizedAt
	if organized.IsZero() {
		organized = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (hash, source_path, target_path, title, authors, year, doi, isbn, publisher, sources, organized_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET
			source_path=excluded.source_path, target_path=excluded.target_path,
			title=excluded.title, authors=excluded.authors, year=excluded.year,
			doi=excluded.doi, isbn=excluded.isbn, publisher=excluded.publisher,
			sources=excluded.sources, organized_at=excluded.organized_at`,
		doc.Hash, doc.SourcePath, doc.TargetPath,
		doc.Record.Title, string(authorsJSON), doc.Record.Year,
		doc.Record.DOI, doc.Record.ISBN, doc.Record.Publisher,
		string(sourcesJSON), organized.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}
	return nil
}

// List returns all organized documents ordered by year then title.
// Documents without a year sort first (year 0), matching the
// "unknown" bucket in the directory layout.
func (s *Store) List(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hash, source_path, target_path, title, authors, year, doi, isbn, publisher, sources, organized_at
		 FROM documents ORDER BY year, title`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var authorsJSON, sourcesJSON, organizedAt string
		if err := rows.Scan(&doc.Hash, &doc.SourcePath, &doc.TargetPath,
			&doc.Record.Title, &authorsJSON, &doc.Record.Year,
			&doc.Record.DOI, &doc.Record.ISBN, &doc.Record.Publisher,
			&sourcesJSON, &organizedAt); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		json.Unmarshal([]byte(authorsJSON), &doc.Record.Authors)
		json.Unmarshal([]byte(sourcesJSON), &doc.Record.Sources)
		if t, parseErr := time.Parse(time.RFC3339, organizedAt); parseErr == nil {
			doc.OrganizedAt = t
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
