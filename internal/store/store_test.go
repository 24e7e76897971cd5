package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lileiting/goatools/internal/assoc"
	"github.com/lileiting/goatools/internal/genelist"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedAnnotations(t *testing.T, s *Store) {
	t.Helper()
	require.NoError(t, s.InsertAnnotations([]*assoc.Record{
		{Taxid: 9606, GeneID: 7157, GOID: "GO:0006915", Evidence: "IDA", Category: "Process"},
		{Taxid: 9606, GeneID: 7157, GOID: "GO:0005515", Evidence: "IPI", Qualifier: "enables", Category: "Function"},
		{Taxid: 9606, GeneID: 672, GOID: "GO:0006281", Evidence: "TAS", Category: "Process"},
		{Taxid: 9606, GeneID: 1, GOID: "GO:0003674", Evidence: "ND", Qualifier: "NOT enables", Category: "Function"},
		{Taxid: 7227, GeneID: 30970, GOID: "GO:0007411", Evidence: "IMP", Category: "Process"},
	}))
}

func seedGenes(t *testing.T, s *Store) {
	t.Helper()
	require.NoError(t, s.InsertGenes([]*genelist.Record{
		{Taxid: 9606, GeneID: 7157, Symbol: "TP53", Type: "protein-coding"},
		{Taxid: 9606, GeneID: 672, Symbol: "BRCA1", Type: "protein-coding"},
		{Taxid: 9606, GeneID: 100126299, Symbol: "VTRNA2-1", Type: "ncRNA"},
		{Taxid: 7227, GeneID: 30970, Symbol: "sog", Type: "protein-coding"},
	}))
}

func TestStore_InsertAndCounts(t *testing.T) {
	s := openTestStore(t)
	seedAnnotations(t, s)
	seedGenes(t, s)

	annCount, err := s.AnnotationCount()
	require.NoError(t, err)
	assert.Equal(t, 5, annCount)

	geneCount, err := s.GeneCount()
	require.NoError(t, err)
	assert.Equal(t, 4, geneCount)

	taxids, err := s.Taxids()
	require.NoError(t, err)
	assert.Equal(t, []int{7227, 9606}, taxids)
}

func TestStore_LoadAssociations(t *testing.T) {
	s := openTestStore(t)
	seedAnnotations(t, s)

	assocs, err := s.LoadAssociations(Filter{})
	require.NoError(t, err)

	human, ok := assocs.Get(9606)
	require.True(t, ok)
	// NOT-qualified row is excluded by default
	assert.Equal(t, 2, human.GeneCount())
	assert.False(t, human.Has(1))

	set, ok := human.Terms(7157)
	require.True(t, ok)
	assert.Len(t, set, 2)
}

func TestStore_LoadAssociations_Filters(t *testing.T) {
	s := openTestStore(t)
	seedAnnotations(t, s)

	tests := []struct {
		name   string
		filter Filter
		check  func(t *testing.T, result *assoc.Store)
	}{
		{
			name:   "taxid filter",
			filter: Filter{Taxids: []int{7227}},
			check: func(t *testing.T, result *assoc.Store) {
				assert.Equal(t, []int{7227}, result.Taxids())
			},
		},
		{
			name:   "category filter",
			filter: Filter{Categories: []string{"Process"}},
			check: func(t *testing.T, result *assoc.Store) {
				human, ok := result.Get(9606)
				require.True(t, ok)
				set, ok := human.Terms(7157)
				require.True(t, ok)
				assert.True(t, set.Contains("GO:0006915"))
				assert.False(t, set.Contains("GO:0005515"))
			},
		},
		{
			name:   "evidence filter",
			filter: Filter{Evidence: []string{"IDA"}},
			check: func(t *testing.T, result *assoc.Store) {
				human, ok := result.Get(9606)
				require.True(t, ok)
				assert.Equal(t, 1, human.GeneCount())
			},
		},
		{
			name:   "include negated",
			filter: Filter{IncludeNegated: true},
			check: func(t *testing.T, result *assoc.Store) {
				human, ok := result.Get(9606)
				require.True(t, ok)
				assert.True(t, human.Has(1))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.LoadAssociations(tt.filter)
			require.NoError(t, err)
			tt.check(t, result)
		})
	}
}

func TestStore_LoadGeneSets(t *testing.T) {
	s := openTestStore(t)
	seedGenes(t, s)

	sets, err := s.LoadGeneSets(nil)
	require.NoError(t, err)
	require.Len(t, sets, 2)

	human := sets[9606]
	require.NotNil(t, human)
	assert.Len(t, human, 2, "non-coding genes should be excluded")
	assert.True(t, human.Contains(7157))
	assert.False(t, human.Contains(100126299))

	sets, err = s.LoadGeneSets([]int{7227})
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.True(t, sets[7227].Contains(30970))
}

func TestStore_InsertGenes_Replaces(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.InsertGenes([]*genelist.Record{
		{Taxid: 9606, GeneID: 7157, Symbol: "TP53", Type: "pseudo"},
	}))
	require.NoError(t, s.InsertGenes([]*genelist.Record{
		{Taxid: 9606, GeneID: 7157, Symbol: "TP53", Type: "protein-coding"},
	}))

	count, err := s.GeneCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	sets, err := s.LoadGeneSets(nil)
	require.NoError(t, err)
	assert.True(t, sets[9606].Contains(7157))
}

func TestStore_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.duckdb")

	s, err := Open(path)
	require.NoError(t, err)
	seedAnnotations(t, s)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.AnnotationCount()
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestIsDuckDB(t *testing.T) {
	assert.True(t, IsDuckDB("annotations.duckdb"))
	assert.True(t, IsDuckDB("cache.db"))
	assert.False(t, IsDuckDB("gene2go.gz"))
	assert.False(t, IsDuckDB("gene_info"))
}
