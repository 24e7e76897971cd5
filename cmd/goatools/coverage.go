package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lileiting/goatools/internal/assoc"
	"github.com/lileiting/goatools/internal/coverage"
	"github.com/lileiting/goatools/internal/genelist"
	"github.com/lileiting/goatools/internal/output"
	"github.com/lileiting/goatools/internal/store"
)

func runCoverage(args []string) int {
	fs := flag.NewFlagSet("coverage", flag.ExitOnError)

	var (
		taxidsArg    string
		gene2goPath  string
		geneInfoPath string
		dbPath       string
		namespace    string
		evidenceArg  string
		includeNot   bool
		outputFile   string
		verbose      bool
	)

	fs.StringVar(&taxidsArg, "taxids", defaultTaxids(), "Comma-separated taxonomy IDs to report")
	fs.StringVar(&gene2goPath, "gene2go", "", "Path to NCBI gene2go file (default: auto-detect)")
	fs.StringVar(&geneInfoPath, "gene-info", "", "Path to NCBI gene_info file (default: auto-detect)")
	fs.StringVar(&dbPath, "db", "", "Path to a DuckDB cache built with 'goatools build'")
	fs.StringVar(&namespace, "namespace", "all", "GO namespace: all, bp, mf, or cc")
	fs.StringVar(&evidenceArg, "evidence", "", "Comma-separated evidence codes to keep (default: all)")
	fs.BoolVar(&includeNot, "include-not", false, "Keep NOT-qualified annotations")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.BoolVar(&verbose, "verbose", false, "Log loading progress and data-quality details")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Report GO annotation coverage of protein-coding genes per organism.

For each organism the report shows the number of distinct GO terms among
annotated protein-coding genes, the number of annotated protein-coding
genes, and that count as a percentage of all known protein-coding genes.

Usage:
  goatools coverage [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  goatools coverage
  goatools coverage --taxids 9606,7227
  goatools coverage --namespace bp --evidence EXP,IDA,IPI
  goatools coverage --db annotations.duckdb -o coverage.txt
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
	if len(taxids) == 0 {
		fmt.Fprintf(os.Stderr, "Error: at least one taxid is required\n")
		return ExitUsage
	}

	categories, err := namespaceCategories(namespace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitUsage
	}
	evidence := splitList(evidenceArg)

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: create logger: %v\n", err)
			return ExitError
		}
		defer logger.Sync()
	}

	// Load associations and gene sets, from the DuckDB cache when one is
	// available, otherwise from the downloaded text files.
	var (
		assocs   *assoc.Store
		geneSets map[int]genelist.Set
	)

	if dbPath == "" {
		if p := FindDuckDBCache(); p != "" && gene2goPath == "" && geneInfoPath == "" {
			dbPath = p
		}
	}

	if dbPath != "" {
		fmt.Fprintf(os.Stderr, "Using DuckDB cache %s\n", dbPath)
		assocs, geneSets, err = loadFromDuckDB(dbPath, taxids, categories, evidence, includeNot)
	} else {
		assocs, geneSets, err = loadFromTextFiles(gene2goPath, geneInfoPath, taxids, categories, evidence, includeNot, logger)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	calc := coverage.NewCalculator()
	calc.SetLogger(logger)

	records, err := calc.ComputeAll(taxids, assocs, geneSets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	// Create output writer
	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer out.Close()
	}

	writer := output.NewTableWriter(out)
	if err := writer.WriteAll(records); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return ExitError
	}

	return ExitSuccess
}

// loadFromDuckDB reads associations and gene sets from a built cache.
func loadFromDuckDB(path string, taxids []int, categories, evidence []string, includeNot bool) (*assoc.Store, map[int]genelist.Set, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	assocs, err := db.LoadAssociations(store.Filter{
		Taxids:         taxids,
		Categories:     categories,
		Evidence:       evidence,
		IncludeNegated: includeNot,
	})
	if err != nil {
		return nil, nil, err
	}

	geneSets, err := db.LoadGeneSets(taxids)
	if err != nil {
		return nil, nil, err
	}

	return assocs, geneSets, nil
}

// loadFromTextFiles reads associations and gene sets from the downloaded
// gene2go and gene_info files.
func loadFromTextFiles(gene2goPath, geneInfoPath string, taxids []int, categories, evidence []string, includeNot bool, logger *zap.Logger) (*assoc.Store, map[int]genelist.Set, error) {
	if gene2goPath == "" {
		gene2goPath = FindGene2GoFile()
		if gene2goPath == "" {
			return nil, nil, fmt.Errorf("no gene2go file found in %s\nHint: download it with: goatools download", DefaultDataPath())
		}
	}
	if geneInfoPath == "" {
		geneInfoPath = FindGeneInfoFile()
		if geneInfoPath == "" {
			return nil, nil, fmt.Errorf("no gene_info file found in %s\nHint: download it with: goatools download", DefaultDataPath())
		}
	}

	fmt.Fprintf(os.Stderr, "Using gene2go:   %s\n", gene2goPath)
	fmt.Fprintf(os.Stderr, "Using gene_info: %s\n", geneInfoPath)

	loader := assoc.NewLoader(gene2goPath)
	loader.SetTaxids(taxids)
	loader.SetCategories(categories)
	loader.SetEvidence(evidence)
	loader.SetIncludeNegated(includeNot)
	loader.SetLogger(logger)

	assocs, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}

	genes := genelist.NewLoader(geneInfoPath)
	genes.SetTaxids(taxids)
	genes.SetLogger(logger)

	geneSets, err := genes.Load()
	if err != nil {
		return nil, nil, err
	}

	return assocs, geneSets, nil
}

// defaultTaxids returns the configured default taxid list, falling back to
// human and fly (the organisms the NCBI gene data covers best).
func defaultTaxids() string {
	if v := viper.GetString("coverage.taxids"); v != "" {
		return v
	}
	return "9606,7227"
}

// parseTaxids parses a comma-separated taxid list.
func parseTaxids(s string) ([]int, error) {
	var taxids []int
	for _, part := range splitList(s) {
		t, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid taxid %q", part)
		}
		taxids = append(taxids, t)
	}
	return taxids, nil
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// namespaceCategories maps a namespace flag value to gene2go Category values.
func namespaceCategories(ns string) ([]string, error) {
	switch strings.ToLower(ns) {
	case "", "all":
		return nil, nil
	case "bp", "process", "biological_process":
		return []string{assoc.CategoryProcess}, nil
	case "mf", "function", "molecular_function":
		return []string{assoc.CategoryFunction}, nil
	case "cc", "component", "cellular_component":
		return []string{assoc.CategoryComponent}, nil
	default:
		return nil, fmt.Errorf("unknown namespace %q (expected all, bp, mf, or cc)", ns)
	}
}
