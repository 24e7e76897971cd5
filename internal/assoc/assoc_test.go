package assoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssoc_AddAndTerms(t *testing.T) {
	a := New(9606)

	a.Add(7157, "GO:0006915")
	a.Add(7157, "GO:0005515")
	a.Add(7157, "GO:0005515") // duplicate
	a.Add(672, "GO:0006281")

	set, ok := a.Terms(7157)
	require.True(t, ok)
	assert.Len(t, set, 2)
	assert.True(t, set.Contains("GO:0006915"))
	assert.True(t, set.Contains("GO:0005515"))

	_, ok = a.Terms(1)
	assert.False(t, ok, "unannotated gene should not be present")

	assert.True(t, a.Has(672))
	assert.False(t, a.Has(1))
}

func TestAssoc_Counts(t *testing.T) {
	a := New(7227)

	assert.Equal(t, 0, a.GeneCount())
	assert.Equal(t, 0, a.TermCount())

	a.Add(1, "GO:0000001")
	a.Add(1, "GO:0000002")
	a.Add(2, "GO:0000002") // shared term counts once
	a.Add(3, "GO:0000003")

	assert.Equal(t, 3, a.GeneCount())
	assert.Equal(t, 3, a.TermCount())
	assert.Equal(t, []int{1, 2, 3}, a.Genes())
}

func TestStore_ExplicitPresence(t *testing.T) {
	s := NewStore()

	_, ok := s.Get(9606)
	assert.False(t, ok, "Get must not create organisms on access")
	assert.Equal(t, 0, s.Len())

	a := s.GetOrCreate(9606)
	require.NotNil(t, a)
	assert.Equal(t, 9606, a.Taxid)

	// Same instance on repeated access
	assert.Same(t, a, s.GetOrCreate(9606))

	got, ok := s.Get(9606)
	require.True(t, ok)
	assert.Same(t, a, got)

	s.GetOrCreate(7227)
	assert.Equal(t, []int{7227, 9606}, s.Taxids())
}
