package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJaccardDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		k    int
		want float64
	}{
		{"identical", "ATGCATGC", "ATGCATGC", 3, 0.0},
		{"disjoint", "AAAA", "TTTT", 2, 1.0},
		{"half shared", "ACGT", "ACGA", 2, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JaccardDistance(nuc(t, tt.a), nuc(t, tt.b), tt.k)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestDistanceInvalidK(t *testing.T) {
	a, b := nuc(t, "ACGT"), nuc(t, "ACG")

	_, err := JaccardDistance(a, b, 0)
	require.Error(t, err)
	_, err = JaccardDistance(a, b, 4)
	require.Error(t, err)
	_, err = SharedKMers(a, b, 4)
	require.Error(t, err)
	_, err = CosineDistance(a, b, -1)
	require.Error(t, err)
	_, err = NewSet(a, 0)
	require.Error(t, err)
}

func TestSharedKMers(t *testing.T) {
	n, err := SharedKMers(nuc(t, "ACGT"), nuc(t, "ACGA"), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = SharedKMers(nuc(t, "AAAA"), nuc(t, "TTTT"), 2)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCosineDistance(t *testing.T) {
	d, err := CosineDistance(nuc(t, "ATGCATGC"), nuc(t, "ATGCATGC"), 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, d, 1e-9)

	d, err = CosineDistance(nuc(t, "AAAA"), nuc(t, "TTTT"), 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 1e-9)

	d, err = CosineDistance(nuc(t, "NNNN"), nuc(t, "ACGT"), 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d)
}

func TestSet(t *testing.T) {
	s, err := NewSet(nuc(t, "ATGATGATG"), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.Shared(s))
	assert.InDelta(t, 1.0, s.Jaccard(s), 0.0001)

	empty, err := NewSet(nuc(t, "AT"), 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.Jaccard(empty))
}

func TestPrefilter(t *testing.T) {
	keep, err := Prefilter(nuc(t, "ACGTACGTAC"), 4, 2)
	require.NoError(t, err)

	assert.True(t, keep(nuc(t, "TTACGTAAA")))
	assert.False(t, keep(nuc(t, "GGGGGGGG")))
	assert.False(t, keep(nuc(t, "AC")))

	_, err = Prefilter(nuc(t, "ACGT"), 0, 1)
	require.Error(t, err)
}
