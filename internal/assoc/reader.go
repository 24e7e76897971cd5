package assoc

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// GO aspect names as they appear in the gene2go Category column.
const (
	CategoryFunction  = "Function"
	CategoryProcess   = "Process"
	CategoryComponent = "Component"
)

// Record is a single line of the NCBI gene2go file.
type Record struct {
	Taxid     int
	GeneID    int
	GOID      string
	Evidence  string
	Qualifier string
	Term      string
	PubMed    string
	Category  string
}

// Negated reports whether the annotation is NOT-qualified, i.e. asserts
// that the gene does not have the annotated function.
func (r *Record) Negated() bool {
	return r.Qualifier == "NOT" || strings.HasPrefix(r.Qualifier, "NOT|") ||
		strings.HasPrefix(r.Qualifier, "NOT ")
}

// Reader reads records from an NCBI gene2go file.
// Supports both plain and gzipped (.gz) files.
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	skipped    int
}

// NewReader opens a gene2go file for reading.
func NewReader(path string) (*Reader, error) {
	if path == "-" {
		return NewReaderFrom(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene2go file: %w", err)
	}

	r := &Reader{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	if _, err := file.Read(buf); err != nil {
		file.Close()
		return nil, fmt.Errorf("read gene2go file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek gene2go file: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = bufio.NewReader(file)
	}

	return r, nil
}

// NewReaderFrom creates a reader from an io.Reader (e.g. stdin).
func NewReaderFrom(r io.Reader) *Reader {
	return &Reader{reader: bufio.NewReader(r)}
}

// Next returns the next record, or nil at end of file.
// Comment lines and malformed lines are skipped; the skipped-line count
// is available from Skipped.
func (r *Reader) Next() (*Record, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err == io.EOF {
			if line == "" {
				return nil, nil
			}
			// Process the final unterminated line
		} else if err != nil {
			return nil, fmt.Errorf("read gene2go line %d: %w", r.lineNumber+1, err)
		}

		r.lineNumber++
		line = strings.TrimRight(line, "\r\n")

		if line == "" || strings.HasPrefix(line, "#") {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}

		rec, perr := parseLine(line)
		if perr != nil {
			r.skipped++
			if err == io.EOF {
				return nil, nil
			}
			continue
		}

		return rec, nil
	}
}

// Skipped returns the number of malformed lines skipped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// parseLine parses a single gene2go line.
// Columns: tax_id, GeneID, GO_ID, Evidence, Qualifier, GO_term, PubMed, Category.
func parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, fmt.Errorf("invalid gene2go line: expected 8 fields, got %d", len(fields))
	}

	taxid, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("parse tax_id: %w", err)
	}

	geneID, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("parse GeneID: %w", err)
	}

	rec := &Record{
		Taxid:     taxid,
		GeneID:    geneID,
		GOID:      fields[2],
		Evidence:  fields[3],
		Qualifier: normalizeDash(fields[4]),
		Term:      fields[5],
		PubMed:    normalizeDash(fields[6]),
		Category:  fields[7],
	}

	if rec.GOID == "" {
		return nil, fmt.Errorf("invalid gene2go line: empty GO_ID")
	}

	return rec, nil
}

// normalizeDash maps the NCBI "-" placeholder to an empty string.
func normalizeDash(s string) string {
	if s == "-" {
		return ""
	}
	return s
}
