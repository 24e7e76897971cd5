// Package store provides a DuckDB-backed cache of parsed NCBI gene2go and
// gene_info data, so repeated coverage runs skip the text-file parse.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/lileiting/goatools/internal/assoc"
	"github.com/lileiting/goatools/internal/genelist"
)

// Store manages a DuckDB connection holding association and gene data.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS annotations (
			tax_id INTEGER,
			gene_id BIGINT,
			go_id VARCHAR,
			evidence VARCHAR,
			qualifier VARCHAR,
			category VARCHAR
		);

		CREATE TABLE IF NOT EXISTS genes (
			tax_id INTEGER,
			gene_id BIGINT,
			symbol VARCHAR,
			type_of_gene VARCHAR,
			PRIMARY KEY (tax_id, gene_id)
		);

		CREATE INDEX IF NOT EXISTS idx_annotations_taxid ON annotations(tax_id);
		CREATE INDEX IF NOT EXISTS idx_genes_taxid ON genes(tax_id);
	`)
	return err
}

// InsertAnnotations inserts a batch of gene2go records in one transaction.
func (s *Store) InsertAnnotations(recs []*assoc.Record) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO annotations (tax_id, gene_id, go_id, evidence, qualifier, category)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}

	for _, rec := range recs {
		if _, err := stmt.Exec(rec.Taxid, rec.GeneID, rec.GOID,
			rec.Evidence, rec.Qualifier, rec.Category); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("insert annotation: %w", err)
		}
	}

	stmt.Close()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit annotations: %w", err)
	}
	return nil
}

// InsertGenes inserts a batch of gene_info records in one transaction.
func (s *Store) InsertGenes(recs []*genelist.Record) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO genes (tax_id, gene_id, symbol, type_of_gene)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}

	for _, rec := range recs {
		if _, err := stmt.Exec(rec.Taxid, rec.GeneID, rec.Symbol, rec.Type); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("insert gene: %w", err)
		}
	}

	stmt.Close()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit genes: %w", err)
	}
	return nil
}

// Filter selects which annotation rows LoadAssociations returns.
// Nil slices mean no restriction on that column.
type Filter struct {
	Taxids         []int
	Categories     []string
	Evidence       []string
	IncludeNegated bool
}

// LoadAssociations builds an association store from the cached rows.
func (s *Store) LoadAssociations(f Filter) (*assoc.Store, error) {
	query := "SELECT tax_id, gene_id, go_id FROM annotations"
	where, args := f.clauses()
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query annotations: %w", err)
	}
	defer rows.Close()

	result := assoc.NewStore()
	for rows.Next() {
		var taxid int
		var geneID int64
		var goID string
		if err := rows.Scan(&taxid, &geneID, &goID); err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		result.GetOrCreate(taxid).Add(int(geneID), goID)
	}
	return result, rows.Err()
}

// clauses builds the WHERE clauses and arguments for a Filter.
func (f Filter) clauses() ([]string, []any) {
	var where []string
	var args []any

	if len(f.Taxids) > 0 {
		where = append(where, "tax_id IN ("+placeholders(len(f.Taxids))+")")
		for _, t := range f.Taxids {
			args = append(args, t)
		}
	}
	if len(f.Categories) > 0 {
		where = append(where, "category IN ("+placeholders(len(f.Categories))+")")
		for _, c := range f.Categories {
			args = append(args, c)
		}
	}
	if len(f.Evidence) > 0 {
		where = append(where, "evidence IN ("+placeholders(len(f.Evidence))+")")
		for _, e := range f.Evidence {
			args = append(args, e)
		}
	}
	if !f.IncludeNegated {
		where = append(where, "qualifier NOT LIKE 'NOT%'")
	}

	return where, args
}

// LoadGeneSets returns the protein-coding gene set per organism.
// An empty taxids slice loads all organisms.
func (s *Store) LoadGeneSets(taxids []int) (map[int]genelist.Set, error) {
	query := "SELECT tax_id, gene_id FROM genes WHERE type_of_gene = ?"
	args := []any{genelist.TypeProteinCoding}

	if len(taxids) > 0 {
		query += " AND tax_id IN (" + placeholders(len(taxids)) + ")"
		for _, t := range taxids {
			args = append(args, t)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query genes: %w", err)
	}
	defer rows.Close()

	sets := make(map[int]genelist.Set)
	for rows.Next() {
		var taxid int
		var geneID int64
		if err := rows.Scan(&taxid, &geneID); err != nil {
			return nil, fmt.Errorf("scan gene: %w", err)
		}
		set, ok := sets[taxid]
		if !ok {
			set = make(genelist.Set)
			sets[taxid] = set
		}
		set.Add(int(geneID))
	}
	return sets, rows.Err()
}

// AnnotationCount returns the total number of annotation rows.
func (s *Store) AnnotationCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM annotations").Scan(&count)
	return count, err
}

// GeneCount returns the total number of gene rows.
func (s *Store) GeneCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM genes").Scan(&count)
	return count, err
}

// Taxids returns the distinct taxonomy IDs present in the annotations table.
func (s *Store) Taxids() ([]int, error) {
	rows, err := s.db.Query("SELECT DISTINCT tax_id FROM annotations ORDER BY tax_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var taxids []int
	for rows.Next() {
		var t int
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		taxids = append(taxids, t)
	}
	return taxids, rows.Err()
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// IsDuckDB checks if a path looks like a DuckDB database file.
func IsDuckDB(path string) bool {
	return strings.HasSuffix(path, ".duckdb") || strings.HasSuffix(path, ".db")
}
