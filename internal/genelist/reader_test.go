package genelist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGeneInfo = `#tax_id	GeneID	Symbol	LocusTag	Synonyms	dbXrefs	chromosome	map_location	description	type_of_gene	Symbol_from_nomenclature_authority	Full_name_from_nomenclature_authority	Nomenclature_status	Other_designations	Modification_date	Feature_type
9606	7157	TP53	-	BCC7|LFS1	MIM:191170	17	17p13.1	tumor protein p53	protein-coding	TP53	tumor protein p53	O	cellular tumor antigen p53	20240303	-
9606	672	BRCA1	-	BRCAI	MIM:113705	17	17q21.31	BRCA1 DNA repair associated	protein-coding	BRCA1	BRCA1 DNA repair associated	O	-	20240303	-
9606	100126299	VTRNA2-1	-	CBL3	-	5	5q31.1	vault RNA 2-1	ncRNA	VTRNA2-1	vault RNA 2-1	O	-	20240303	-
7227	30970	sog	Dmel_CG9224	SOG	FLYBASE:FBgn0003463	X	-	short gastrulation	protein-coding	sog	short gastrulation	O	-	20240303	-
`

func TestReader_ParseRecords(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(sampleGeneInfo))

	rec, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, 9606, rec.Taxid)
	assert.Equal(t, 7157, rec.GeneID)
	assert.Equal(t, "TP53", rec.Symbol)
	assert.Equal(t, "protein-coding", rec.Type)
	assert.True(t, rec.ProteinCoding())

	var records []*Record
	for rec != nil {
		records = append(records, rec)
		rec, err = r.Next()
		require.NoError(t, err)
	}

	require.Len(t, records, 4)
	assert.False(t, records[2].ProteinCoding(), "ncRNA gene should not be protein-coding")
	assert.Equal(t, 7227, records[3].Taxid)
}

func TestReader_SkipsMalformedLines(t *testing.T) {
	input := "9606\t7157\tTP53\n" +
		"bad\t1\tX\t-\t-\t-\t-\t-\tdesc\tprotein-coding\n" +
		"9606\t672\tBRCA1\t-\t-\t-\t17\t17q21.31\tdesc\tprotein-coding\n"

	r := NewReaderFrom(strings.NewReader(input))

	rec, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 672, rec.GeneID)

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, 2, r.Skipped())
}

func TestSet_Basics(t *testing.T) {
	s := make(Set)
	s.Add(3)
	s.Add(1)
	s.Add(2)
	s.Add(2)

	assert.Len(t, s, 3)
	assert.True(t, s.Contains(1))
	assert.False(t, s.Contains(4))
	assert.Equal(t, []int{1, 2, 3}, s.IDs())
}
