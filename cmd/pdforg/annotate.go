// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdforg/internal/catalog"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "List organized records and flag unresolved fields",
	Long: `Annotate reads the library catalog and lists every organized document.
Records that still lack a year or authors after all sources are flagged,
so they can be fixed by hand in the companion YAML files.`,
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().String("output", "organized", "root of the organized library")
	annotateCmd.Flags().Bool("unresolved-only", false, "list only records with missing fields")

	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output")
	unresolvedOnly, _ := cmd.Flags().GetBool("unresolved-only")

	cat, err := catalog.Open(outputDir)
	if err != nil {
		return err
	}
	defer cat.Close()

	docs, err := cat.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("Catalog is empty.")
		return nil
	}

	unresolved := 0
	for _, doc := range docs {
		var gaps []string
		if doc.Record.Year == 0 {
			gaps = append(gaps, "year")
		}
		if len(doc.Record.Authors) == 0 {
			gaps = append(gaps, "authors")
		}
		if len(gaps) > 0 {
			unresolved++
		} else if unresolvedOnly {
			continue
		}

		marker := " "
		if len(gaps) > 0 {
			marker = "!"
		}
		fmt.Fprintf(os.Stdout, "%s %s", marker, doc.TargetPath)
		if len(gaps) > 0 {
			fmt.Fprintf(os.Stdout, "  (missing: %s)", strings.Join(gaps, ", "))
		}
		fmt.Fprintln(os.Stdout)
	}

	fmt.Fprintf(os.Stdout, "\n%d documents, %d unresolved\n", len(docs), unresolved)
	return nil
}
