package assoc

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGene2Go = `#tax_id	GeneID	GO_ID	Evidence	Qualifier	GO_term	PubMed	Category
9606	7157	GO:0006915	IDA	-	apoptotic process	9500320	Process
9606	7157	GO:0005515	IPI	enables	protein binding	10358075|11278685	Function
9606	672	GO:0006281	TAS	-	DNA repair	-	Process
9606	1	GO:0003674	ND	NOT enables	molecular_function	-	Function
7227	30970	GO:0007411	IMP	involved_in	axon guidance	8221886	Process
`

func TestReader_ParseRecords(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(sampleGene2Go))

	rec, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, 9606, rec.Taxid)
	assert.Equal(t, 7157, rec.GeneID)
	assert.Equal(t, "GO:0006915", rec.GOID)
	assert.Equal(t, "IDA", rec.Evidence)
	assert.Equal(t, "", rec.Qualifier, "dash placeholder should normalize to empty")
	assert.Equal(t, "apoptotic process", rec.Term)
	assert.Equal(t, "9500320", rec.PubMed)
	assert.Equal(t, "Process", rec.Category)
	assert.False(t, rec.Negated())

	var count int
	for rec != nil {
		count++
		rec, err = r.Next()
		require.NoError(t, err)
	}
	assert.Equal(t, 5, count, "header line should be skipped")
	assert.Equal(t, 0, r.Skipped())
}

func TestReader_NegatedQualifier(t *testing.T) {
	tests := []struct {
		qualifier string
		negated   bool
	}{
		{"NOT", true},
		{"NOT enables", true},
		{"NOT|contributes_to", true},
		{"enables", false},
		{"involved_in", false},
		{"", false},
	}

	for _, tt := range tests {
		rec := &Record{Qualifier: tt.qualifier}
		assert.Equal(t, tt.negated, rec.Negated(), "Negated(%q)", tt.qualifier)
	}
}

func TestReader_SkipsMalformedLines(t *testing.T) {
	input := "9606\t7157\tGO:0006915\tIDA\t-\tapoptotic process\t-\tProcess\n" +
		"not-a-taxid\t1\tGO:0000001\tIEA\t-\tx\t-\tProcess\n" +
		"9606\t672\n" +
		"9606\t672\tGO:0006281\tTAS\t-\tDNA repair\t-\tProcess\n"

	r := NewReaderFrom(strings.NewReader(input))

	var records []*Record
	for {
		rec, err := r.Next()
		require.NoError(t, err)
		if rec == nil {
			break
		}
		records = append(records, rec)
	}

	require.Len(t, records, 2)
	assert.Equal(t, 7157, records[0].GeneID)
	assert.Equal(t, 672, records[1].GeneID)
	assert.Equal(t, 2, r.Skipped())
}

func TestReader_FinalLineWithoutNewline(t *testing.T) {
	input := "9606\t7157\tGO:0006915\tIDA\t-\tapoptotic process\t-\tProcess"

	r := NewReaderFrom(strings.NewReader(input))

	rec, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "GO:0006915", rec.GOID)

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestReader_GzippedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gene2go.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleGene2Go))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	var count int
	for {
		rec, err := r.Next()
		require.NoError(t, err)
		if rec == nil {
			break
		}
		count++
	}
	assert.Equal(t, 5, count)
}

func TestReader_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gene2go")
	require.NoError(t, os.WriteFile(path, []byte(sampleGene2Go), 0644))

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 9606, rec.Taxid)
}
