package residue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabetOrdinals(t *testing.T) {
	tests := []struct {
		name string
		r    Nucleotide
		want int
	}{
		{"first", 'A', 0},
		{"T", 'T', 3},
		{"ambiguity", 'N', 4},
		{"lowercase", 'g', 2},
		{"gap", '-', Nucleotides.Len()},
		{"unknown", 'X', -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nucleotides.Ordinal(tt.r))
		})
	}
}

func TestAlphabetParse(t *testing.T) {
	r, ok := AminoAcids.Parse('w')
	require.True(t, ok)
	assert.Equal(t, AminoAcid('W'), r)

	r, ok = AminoAcids.Parse('-')
	require.True(t, ok)
	assert.True(t, AminoAcids.IsGap(r))

	_, ok = AminoAcids.Parse('J')
	assert.False(t, ok)
}

func TestAlphabetResiduesIsCopy(t *testing.T) {
	rs := Nucleotides.Residues()
	require.Len(t, rs, Nucleotides.Len())
	rs[0] = 'Z'
	assert.Equal(t, Nucleotide('A'), Nucleotides.Residues()[0])
}

func TestNewAlphabetDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		NewAlphabet[Nucleotide]("dup", "ACGA", '-')
	})
	assert.Panics(t, func() {
		NewAlphabet[Nucleotide]("gap", "AC-", '-')
	})
}

func TestComplement(t *testing.T) {
	tests := []struct {
		in, want Nucleotide
	}{
		{'A', 'T'}, {'C', 'G'}, {'R', 'Y'}, {'N', 'N'}, {'-', '-'}, {'X', 'N'},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Complement())
		})
	}
}
