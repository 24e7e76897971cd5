// Package coverage computes GO annotation coverage of protein-coding genes.
package coverage

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lileiting/goatools/internal/assoc"
	"github.com/lileiting/goatools/internal/genelist"
)

// ErrEmptyGeneSet is returned when the protein-coding gene set for an
// organism is empty, which would make the coverage fraction undefined.
var ErrEmptyGeneSet = errors.New("protein-coding gene set is empty")

// Record holds the coverage statistics for one organism.
type Record struct {
	// Taxid is the organism's taxonomy ID, passed through from the input.
	Taxid int
	// NumTerms is the number of distinct GO terms attached to covered genes.
	NumTerms int
	// NumCovered is the number of protein-coding genes with at least one
	// annotation.
	NumCovered int
	// CoveragePct is 100 * NumCovered / NumTotal.
	CoveragePct float64
	// NumTotal is the number of known protein-coding genes.
	NumTotal int
}

// Calculator computes coverage records from association maps and
// protein-coding gene sets. All inputs are read-only; each Compute call is
// independent and safe to run concurrently with others.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a new coverage calculator.
func NewCalculator() *Calculator {
	return &Calculator{
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for data-quality messages.
func (c *Calculator) SetLogger(logger *zap.Logger) {
	c.logger = logger
}

// Compute calculates annotation coverage for one organism.
//
// A gene counts as covered when it is both protein-coding and present in
// the association map. Annotated genes outside the protein-coding set
// (non-coding loci, or genes missing from the gene-list dataset version)
// contribute to neither the gene count nor the term count.
func (c *Calculator) Compute(taxid int, a *assoc.Assoc, proteinCoding genelist.Set) (*Record, error) {
	if len(proteinCoding) == 0 {
		return nil, fmt.Errorf("taxid %d: %w", taxid, ErrEmptyGeneSet)
	}

	terms := make(assoc.TermSet)
	covered := 0
	excluded := 0

	for _, gene := range a.Genes() {
		if !proteinCoding.Contains(gene) {
			excluded++
			continue
		}
		covered++
		set, _ := a.Terms(gene)
		for term := range set {
			terms[term] = struct{}{}
		}
	}

	if excluded > 0 {
		// Usually non-coding loci, but can also indicate a gene-list
		// dataset version mismatch.
		c.logger.Debug("annotated genes outside protein-coding set",
			zap.Int("taxid", taxid),
			zap.Int("genes", excluded))
	}

	return &Record{
		Taxid:       taxid,
		NumTerms:    len(terms),
		NumCovered:  covered,
		CoveragePct: 100.0 * float64(covered) / float64(len(proteinCoding)),
		NumTotal:    len(proteinCoding),
	}, nil
}

// ComputeAll calculates coverage for each taxid in order. Every taxid must
// have both associations in the store and a protein-coding gene set.
func (c *Calculator) ComputeAll(taxids []int, store *assoc.Store, sets map[int]genelist.Set) ([]*Record, error) {
	records := make([]*Record, 0, len(taxids))

	for _, taxid := range taxids {
		a, ok := store.Get(taxid)
		if !ok {
			return nil, fmt.Errorf("taxid %d: no associations loaded", taxid)
		}
		set, ok := sets[taxid]
		if !ok {
			return nil, fmt.Errorf("taxid %d: no protein-coding gene set loaded", taxid)
		}

		rec, err := c.Compute(taxid, a, set)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}
