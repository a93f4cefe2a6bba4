package seqio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadNucleotidesFASTA(t *testing.T) {
	file := writeFile(t, "reads.fa", ">r1 first read\nACGT\nacgt\n>r2\nGGCC\n")

	seqs, err := ReadNucleotides(file)
	require.NoError(t, err)
	require.Len(t, seqs, 2)

	assert.Equal(t, "r1", seqs[0].ID)
	assert.Equal(t, "first read", seqs[0].Description)
	assert.Equal(t, "ACGTACGT", seqs[0].String())
	assert.Equal(t, "r2", seqs[1].ID)
	assert.Equal(t, "", seqs[1].Description)
	assert.Equal(t, "GGCC", seqs[1].String())
}

func TestReadNucleotidesFASTQ(t *testing.T) {
	file := writeFile(t, "reads.fq", "@q1\nACGTN\n+\nIIIII\n")

	seqs, err := ReadNucleotides(file)
	require.NoError(t, err)
	require.Len(t, seqs, 1)
	assert.Equal(t, "q1", seqs[0].ID)
	assert.Equal(t, "ACGTN", seqs[0].String())
}

func TestReadAminoAcids(t *testing.T) {
	file := writeFile(t, "prot.fa", ">p1\nHEAGAWGHEE\n")

	seqs, err := ReadAminoAcids(file)
	require.NoError(t, err)
	require.Len(t, seqs, 1)
	assert.Equal(t, "HEAGAWGHEE", seqs[0].String())
}

func TestReadInvalidResidue(t *testing.T) {
	file := writeFile(t, "bad.fa", ">ok\nACGT\n>bad\nACJT\n")

	_, err := ReadNucleotides(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2 (bad)")

	var invalid *sequence.InvalidResidueError
	assert.ErrorAs(t, err, &invalid)
}

func TestReadMissingFile(t *testing.T) {
	_, err := ReadNucleotides(filepath.Join(t.TempDir(), "missing.fa"))
	require.Error(t, err)
}

func TestEachStops(t *testing.T) {
	file := writeFile(t, "reads.fa", ">a\nA\n>b\nC\n>c\nG\n")

	var ids []string
	err := Each(residue.Nucleotides, file, func(s *sequence.Sequence[residue.Nucleotide]) error {
		ids = append(ids, s.ID)
		if len(ids) == 2 {
			return os.ErrClosed
		}
		return nil
	})
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestWriteFASTARoundTrip(t *testing.T) {
	a, err := sequence.NewNucleotide("ACGTACGT")
	require.NoError(t, err)
	b, err := sequence.NewNucleotide("TTTT")
	require.NoError(t, err)
	in := []*sequence.Sequence[residue.Nucleotide]{a.WithID("a", "one"), b.WithID("b", "")}

	for _, name := range []string{"out.fa", "out.fa.gz"} {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteFASTA(file, in))

			out, err := ReadNucleotides(file)
			require.NoError(t, err)
			require.Len(t, out, 2)
			for i := range in {
				assert.True(t, in[i].Equal(out[i]))
				assert.Equal(t, in[i].ID, out[i].ID)
				assert.Equal(t, in[i].Description, out[i].Description)
			}
		})
	}
}
