package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/lileiting/goatools/internal/assoc"
	"github.com/lileiting/goatools/internal/genelist"
	"github.com/lileiting/goatools/internal/store"
)

// insertBatchSize is the number of rows inserted per transaction.
const insertBatchSize = 50000

func runBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ExitOnError)

	var (
		gene2goPath  string
		geneInfoPath string
		outputPath   string
		taxidsArg    string
	)

	fs.StringVar(&gene2goPath, "gene2go", "", "Input gene2go file (default: auto-detect)")
	fs.StringVar(&geneInfoPath, "gene-info", "", "Input gene_info file (default: auto-detect)")
	fs.StringVar(&outputPath, "o", "", "Output DuckDB file (default: <data-dir>/annotations.duckdb)")
	fs.StringVar(&outputPath, "output", "", "Output DuckDB file (default: <data-dir>/annotations.duckdb)")
	fs.StringVar(&taxidsArg, "taxids", "", "Only cache these taxonomy IDs (default: all)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Build a DuckDB cache from downloaded NCBI gene data files.

Parsing gene2go and gene_info takes a while; this command converts them
into a DuckDB database that coverage runs load in a fraction of the time.

Usage:
  goatools build [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Build a full cache in the data directory
  goatools build

  # Cache only human and fly
  goatools build --taxids 9606,7227 -o fly_human.duckdb
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	taxids, err := parseTaxids(taxidsArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitUsage
	}
	var taxidFilter map[int]struct{}
	if len(taxids) > 0 {
		taxidFilter = make(map[int]struct{}, len(taxids))
		for _, t := range taxids {
			taxidFilter[t] = struct{}{}
		}
	}

	if gene2goPath == "" {
		gene2goPath = FindGene2GoFile()
		if gene2goPath == "" {
			fmt.Fprintf(os.Stderr, "Error: no gene2go file found in %s\n", DefaultDataPath())
			fmt.Fprintf(os.Stderr, "Hint: download it with: goatools download\n")
			return ExitError
		}
	}
	if geneInfoPath == "" {
		geneInfoPath = FindGeneInfoFile()
		if geneInfoPath == "" {
			fmt.Fprintf(os.Stderr, "Error: no gene_info file found in %s\n", DefaultDataPath())
			fmt.Fprintf(os.Stderr, "Hint: download it with: goatools download\n")
			return ExitError
		}
	}

	if outputPath == "" {
		outputPath = filepath.Join(DefaultDataPath(), duckDBFileName)
	}
	if filepath.Ext(outputPath) != ".duckdb" && filepath.Ext(outputPath) != ".db" {
		outputPath = outputPath + ".duckdb"
	}

	// Rebuild from scratch
	if _, err := os.Stat(outputPath); err == nil {
		if err := os.Remove(outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing existing file: %v\n", err)
			return ExitError
		}
	}

	fmt.Fprintf(os.Stderr, "Building DuckDB cache...\n")
	fmt.Fprintf(os.Stderr, "  gene2go:   %s\n", gene2goPath)
	fmt.Fprintf(os.Stderr, "  gene_info: %s\n", geneInfoPath)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputPath)

	db, err := store.Open(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating DuckDB: %v\n", err)
		return ExitError
	}
	defer db.Close()

	annCount, err := buildAnnotations(db, gene2goPath, taxidFilter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error caching annotations: %v\n", err)
		return ExitError
	}

	geneCount, err := buildGenes(db, geneInfoPath, taxidFilter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error caching genes: %v\n", err)
		return ExitError
	}

	// File size for the summary
	sizeStr := "unknown"
	if stat, err := os.Stat(outputPath); err == nil {
		sizeStr = formatSize(stat.Size())
	}

	fmt.Fprintf(os.Stderr, "\nBuild complete!\n")
	fmt.Fprintf(os.Stderr, "  Annotations: %s\n", humanize.Comma(int64(annCount)))
	fmt.Fprintf(os.Stderr, "  Genes:       %s\n", humanize.Comma(int64(geneCount)))
	fmt.Fprintf(os.Stderr, "  Output size: %s\n", sizeStr)
	fmt.Fprintf(os.Stderr, "  Output file: %s\n", outputPath)

	return ExitSuccess
}

// buildAnnotations streams gene2go records into the store in batches.
func buildAnnotations(db *store.Store, path string, taxids map[int]struct{}) (int, error) {
	r, err := assoc.NewReader(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	fmt.Fprintf(os.Stderr, "\nWriting annotations...\n")

	batch := make([]*assoc.Record, 0, insertBatchSize)
	total := 0

	for {
		rec, err := r.Next()
		if err != nil {
			return total, err
		}
		if rec == nil {
			break
		}
		if taxids != nil {
			if _, ok := taxids[rec.Taxid]; !ok {
				continue
			}
		}

		batch = append(batch, rec)
		if len(batch) == insertBatchSize {
			if err := db.InsertAnnotations(batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
			fmt.Fprintf(os.Stderr, "  Inserted %s annotations...\n", humanize.Comma(int64(total)))
		}
	}

	if err := db.InsertAnnotations(batch); err != nil {
		return total, err
	}
	total += len(batch)
	return total, nil
}

// buildGenes streams gene_info records into the store in batches.
func buildGenes(db *store.Store, path string, taxids map[int]struct{}) (int, error) {
	r, err := genelist.NewReader(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	fmt.Fprintf(os.Stderr, "\nWriting genes...\n")

	batch := make([]*genelist.Record, 0, insertBatchSize)
	total := 0

	for {
		rec, err := r.Next()
		if err != nil {
			return total, err
		}
		if rec == nil {
			break
		}
		if taxids != nil {
			if _, ok := taxids[rec.Taxid]; !ok {
				continue
			}
		}

		batch = append(batch, rec)
		if len(batch) == insertBatchSize {
			if err := db.InsertGenes(batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
			fmt.Fprintf(os.Stderr, "  Inserted %s genes...\n", humanize.Comma(int64(total)))
		}
	}

	if err := db.InsertGenes(batch); err != nil {
		return total, err
	}
	total += len(batch)
	return total, nil
}
