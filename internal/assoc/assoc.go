// Package assoc provides gene-to-GO-term association loading functionality.
package assoc

import (
	"fmt"
	"sort"
)

// TermSet is a set of GO term accessions (e.g. "GO:0005515").
type TermSet map[string]struct{}

// Contains reports whether the set contains the given term.
func (s TermSet) Contains(term string) bool {
	_, ok := s[term]
	return ok
}

// Assoc holds the gene-to-term associations for a single organism.
// Gene IDs are NCBI Entrez IDs, scoped to the organism's taxonomy ID.
type Assoc struct {
	Taxid int

	terms map[int]TermSet
}

// New creates an empty association map for the given organism.
func New(taxid int) *Assoc {
	return &Assoc{
		Taxid: taxid,
		terms: make(map[int]TermSet),
	}
}

// Add records an association between a gene and a GO term.
func (a *Assoc) Add(geneID int, term string) {
	set, ok := a.terms[geneID]
	if !ok {
		set = make(TermSet)
		a.terms[geneID] = set
	}
	set[term] = struct{}{}
}

// Terms returns the term set for a gene and whether the gene is annotated.
// The returned set is shared; callers must not modify it.
func (a *Assoc) Terms(geneID int) (TermSet, bool) {
	set, ok := a.terms[geneID]
	return set, ok
}

// Has reports whether the gene has at least one annotation.
func (a *Assoc) Has(geneID int) bool {
	_, ok := a.terms[geneID]
	return ok
}

// Genes returns the annotated gene IDs in ascending order.
func (a *Assoc) Genes() []int {
	genes := make([]int, 0, len(a.terms))
	for g := range a.terms {
		genes = append(genes, g)
	}
	sort.Ints(genes)
	return genes
}

// GeneCount returns the number of annotated genes.
func (a *Assoc) GeneCount() int {
	return len(a.terms)
}

// TermCount returns the number of distinct terms across all genes.
func (a *Assoc) TermCount() int {
	distinct := make(TermSet)
	for _, set := range a.terms {
		for term := range set {
			distinct[term] = struct{}{}
		}
	}
	return len(distinct)
}

// Store holds associations for multiple organisms keyed by taxonomy ID.
// Lookups require the organism to have been loaded; there is no
// create-on-access behavior.
type Store struct {
	assocs map[int]*Assoc
}

// NewStore creates an empty association store.
func NewStore() *Store {
	return &Store{
		assocs: make(map[int]*Assoc),
	}
}

// Get returns the associations for an organism and whether it was loaded.
func (s *Store) Get(taxid int) (*Assoc, bool) {
	a, ok := s.assocs[taxid]
	return a, ok
}

// GetOrCreate returns the associations for an organism, creating an empty
// Assoc if the organism has not been seen before.
func (s *Store) GetOrCreate(taxid int) *Assoc {
	a, ok := s.assocs[taxid]
	if !ok {
		a = New(taxid)
		s.assocs[taxid] = a
	}
	return a
}

// Taxids returns the loaded taxonomy IDs in ascending order.
func (s *Store) Taxids() []int {
	taxids := make([]int, 0, len(s.assocs))
	for t := range s.assocs {
		taxids = append(taxids, t)
	}
	sort.Ints(taxids)
	return taxids
}

// Len returns the number of organisms in the store.
func (s *Store) Len() int {
	return len(s.assocs)
}

// String summarizes the store contents for log output.
func (s *Store) String() string {
	return fmt.Sprintf("assoc.Store{organisms: %d}", len(s.assocs))
}
