package genelist

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Record is a single line of the NCBI gene_info file, reduced to the
// columns this tool uses.
type Record struct {
	Taxid  int
	GeneID int
	Symbol string
	Type   string
}

// ProteinCoding reports whether the gene is protein-coding.
func (r *Record) ProteinCoding() bool {
	return r.Type == TypeProteinCoding
}

// Reader reads records from an NCBI gene_info file.
// Supports both plain and gzipped (.gz) files.
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	skipped    int
}

// NewReader opens a gene_info file for reading.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene_info file: %w", err)
	}

	r := &Reader{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	if _, err := file.Read(buf); err != nil {
		file.Close()
		return nil, fmt.Errorf("read gene_info file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek gene_info file: %w", err)
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

// NewReaderFrom creates a reader from an io.Reader.
func NewReaderFrom(r io.Reader) *Reader {
	return &Reader{reader: bufio.NewReader(r)}
}

// Next returns the next record, or nil at end of file.
// Comment lines and malformed lines are skipped.
func (r *Reader) Next() (*Record, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err == io.EOF && line == "" {
			return nil, nil
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read gene_info line %d: %w", r.lineNumber+1, err)
		}
		atEOF := err == io.EOF

		r.lineNumber++
		line = strings.TrimRight(line, "\r\n")

		if line == "" || strings.HasPrefix(line, "#") {
			if atEOF {
				return nil, nil
			}
			continue
		}

		rec, perr := parseLine(line)
		if perr != nil {
			r.skipped++
			if atEOF {
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

// parseLine parses a single gene_info line.
// Columns: tax_id, GeneID, Symbol, LocusTag, Synonyms, dbXrefs, chromosome,
// map_location, description, type_of_gene, ...
func parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 10 {
		return nil, fmt.Errorf("invalid gene_info line: expected at least 10 fields, got %d", len(fields))
	}

	taxid, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("parse tax_id: %w", err)
	}

	geneID, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("parse GeneID: %w", err)
	}

	return &Record{
		Taxid:  taxid,
		GeneID: geneID,
		Symbol: fields[2],
		Type:   fields[9],
	}, nil
}
