// Package main provides the goatools command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		fmt.Printf("goatools version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	initConfig()

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "coverage":
		return runCoverage(args[1:])
	case "download":
		return runDownload(args[1:])
	case "build":
		return runBuild(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

// initConfig loads ~/.goatools.yaml if present.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.SetConfigName(".goatools")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	_ = viper.ReadInConfig() // Missing config file is fine
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `goatools - GO annotation coverage of protein-coding genes

Usage:
  goatools [options] <command> [arguments]

Commands:
  coverage    Report GO annotation coverage per organism
  download    Download NCBI gene2go and gene_info files
  build       Build a DuckDB cache from downloaded files
  config      Manage goatools configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Download NCBI gene data (one-time setup)
  goatools download

  # Report coverage for human and fly
  goatools coverage --taxids 9606,7227

  # Build a DuckDB cache for faster repeated runs
  goatools build

  # Restrict to biological_process annotations
  goatools coverage --taxids 9606 --namespace bp

For more information on a command, use:
  goatools <command> --help
`)
}
