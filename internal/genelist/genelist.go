// Package genelist provides protein-coding gene set loading from NCBI
// gene_info files.
package genelist

import (
	"sort"
)

// TypeProteinCoding is the gene_info type_of_gene value for protein-coding
// genes.
const TypeProteinCoding = "protein-coding"

// Set is a set of NCBI Entrez gene IDs for one organism.
type Set map[int]struct{}

// Contains reports whether the set contains the given gene.
func (s Set) Contains(geneID int) bool {
	_, ok := s[geneID]
	return ok
}

// Add inserts a gene into the set.
func (s Set) Add(geneID int) {
	s[geneID] = struct{}{}
}

// IDs returns the gene IDs in ascending order.
func (s Set) IDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
