package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// NCBI gene FTP mirror URLs
const (
	ncbiGeneBaseURL  = "https://ftp.ncbi.nlm.nih.gov/gene/DATA"
	gene2goFileName  = "gene2go.gz"
	geneInfoFileName = "gene_info.gz"
	duckDBFileName   = "annotations.duckdb"
)

func runDownload(args []string) int {
	fs := flag.NewFlagSet("download", flag.ExitOnError)

	var (
		outputDir   string
		gene2goOnly bool
	)

	fs.StringVar(&outputDir, "output", "", "Output directory (default: ~/.goatools/)")
	fs.BoolVar(&gene2goOnly, "gene2go-only", false, "Only download gene2go (skip gene_info)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Download NCBI gene data files for coverage reporting.

Usage:
  goatools download [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Download gene2go and gene_info to ~/.goatools/
  goatools download

  # Download to a custom directory
  goatools download --output /data/ncbi

Files downloaded:
  - gene2go.gz (~100MB, gene-to-GO-term associations, all organisms)
  - gene_info.gz (~700MB, gene records including type_of_gene)

After downloading, goatools will automatically detect and use these files.
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if outputDir == "" {
		outputDir = DefaultDataPath()
		if outputDir == "" {
			fmt.Fprintf(os.Stderr, "Error: cannot determine home directory\n")
			return ExitError
		}
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create directory %s: %v\n", outputDir, err)
		return ExitError
	}

	fmt.Printf("Downloading NCBI gene data...\n")
	fmt.Printf("Destination: %s\n\n", outputDir)

	gene2goFile := filepath.Join(outputDir, gene2goFileName)
	if err := downloadFile(ncbiGeneBaseURL+"/"+gene2goFileName, gene2goFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error downloading gene2go: %v\n", err)
		return ExitError
	}

	if !gene2goOnly {
		geneInfoFile := filepath.Join(outputDir, geneInfoFileName)
		if err := downloadFile(ncbiGeneBaseURL+"/"+geneInfoFileName, geneInfoFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error downloading gene_info: %v\n", err)
			return ExitError
		}
	}

	fmt.Printf("\nDownload complete!\n")
	fmt.Printf("To report annotation coverage, run:\n")
	fmt.Printf("  goatools coverage --taxids 9606,7227\n")

	return ExitSuccess
}

// downloadFile downloads a file from URL to the destination path with progress.
func downloadFile(url, destPath string) error {
	// Skip files downloaded by an earlier run
	if info, err := os.Stat(destPath); err == nil {
		fmt.Printf("  %s already exists (%s), skipping\n", filepath.Base(destPath), formatSize(info.Size()))
		return nil
	}

	fmt.Printf("  Downloading %s...\n", filepath.Base(destPath))

	// Long timeout for large files
	client := &http.Client{
		Timeout: 30 * time.Minute,
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %s", resp.Status)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	var downloaded int64
	pw := &progressWriter{
		total:      resp.ContentLength,
		downloaded: &downloaded,
		lastPrint:  time.Now(),
	}

	_, err = io.Copy(f, io.TeeReader(resp.Body, pw))
	f.Close()

	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download failed: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}

	fmt.Printf("    Done: %s\n", formatSize(downloaded))
	return nil
}

// progressWriter tracks download progress.
type progressWriter struct {
	total      int64
	downloaded *int64
	lastPrint  time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	*pw.downloaded += int64(n)

	// Print progress every second
	if time.Since(pw.lastPrint) > time.Second {
		if pw.total > 0 {
			pct := float64(*pw.downloaded) / float64(pw.total) * 100
			fmt.Printf("\r    Progress: %s / %s (%.1f%%)  ",
				formatSize(*pw.downloaded), formatSize(pw.total), pct)
		} else {
			fmt.Printf("\r    Progress: %s  ", formatSize(*pw.downloaded))
		}
		pw.lastPrint = time.Now()
	}

	return n, nil
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// DefaultDataPath returns the default directory for downloaded NCBI files.
// Configurable via the data.dir key in ~/.goatools.yaml.
func DefaultDataPath() string {
	if dir := viper.GetString("data.dir"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".goatools")
}

// FindGene2GoFile looks for a gene2go file in the data directory.
// Returns an empty string if none is found.
func FindGene2GoFile() string {
	return findDataFile(gene2goFileName, "gene2go")
}

// FindGeneInfoFile looks for a gene_info file in the data directory.
func FindGeneInfoFile() string {
	return findDataFile(geneInfoFileName, "gene_info")
}

// FindDuckDBCache looks for a built DuckDB cache in the data directory.
func FindDuckDBCache() string {
	return findDataFile(duckDBFileName)
}

// findDataFile returns the first of the given names that exists in the
// data directory.
func findDataFile(names ...string) string {
	dir := DefaultDataPath()
	if dir == "" {
		return ""
	}
	for _, name := range names {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
