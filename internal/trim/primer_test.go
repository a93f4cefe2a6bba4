package trim

import (
	"testing"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	forwardPrimer = "GTTTCCCAGTCACGAC"
	reversePrimer = "CAGGAAACAGCTATGAC"
	insert        = "ATCGGATCCTTAGAATTCGCAAGCTTGG"
)

func nuc(t *testing.T, s string) *sequence.Sequence[residue.Nucleotide] {
	seq, err := sequence.NewNucleotide(s)
	require.NoError(t, err)
	return seq
}

func primers(t *testing.T) []*sequence.Sequence[residue.Nucleotide] {
	return []*sequence.Sequence[residue.Nucleotide]{
		nuc(t, forwardPrimer).WithID("M13F", ""),
		nuc(t, reversePrimer).WithID("M13R", ""),
	}
}

func TestTrim(t *testing.T) {
	rcReverse := sequence.ReverseComplement(nuc(t, reversePrimer)).String()

	tests := []struct {
		name      string
		read      string
		checkRC   bool
		wantHits  []alignment.DirectedRange
		wantClear alignment.DirectedRange
	}{
		{
			name:      "forward primer at start",
			read:      forwardPrimer + insert,
			checkRC:   true,
			wantHits:  []alignment.DirectedRange{{Begin: 0, End: 16}},
			wantClear: alignment.DirectedRange{Begin: 16, End: 44},
		},
		{
			name:      "reverse complement at end",
			read:      insert + rcReverse,
			checkRC:   true,
			wantHits:  []alignment.DirectedRange{{Begin: 28, End: 45, Strand: alignment.Reverse}},
			wantClear: alignment.DirectedRange{Begin: 0, End: 28},
		},
		{
			name:    "both ends",
			read:    forwardPrimer + insert + rcReverse,
			checkRC: true,
			wantHits: []alignment.DirectedRange{
				{Begin: 0, End: 16},
				{Begin: 44, End: 61, Strand: alignment.Reverse},
			},
			wantClear: alignment.DirectedRange{Begin: 16, End: 44},
		},
		{
			name:      "reverse complement not checked",
			read:      insert + rcReverse,
			checkRC:   false,
			wantClear: alignment.DirectedRange{Begin: 0, End: 45},
		},
		{
			name:      "no primer",
			read:      insert,
			checkRC:   true,
			wantClear: alignment.DirectedRange{Begin: 0, End: 28},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trimmer := NewPrimerTrimmer(DefaultMinLength, DefaultMinIdentity, tt.checkRC)
			result, err := trimmer.Trim(nuc(t, tt.read), primers(t))
			require.NoError(t, err)

			var got []alignment.DirectedRange
			for _, h := range result.Hits {
				got = append(got, h.Range)
				assert.GreaterOrEqual(t, h.Alignment.Identity(), DefaultMinIdentity)
			}
			assert.Equal(t, tt.wantHits, got)
			assert.Equal(t, tt.wantClear, result.ClearRange)
		})
	}
}

func TestTrimHitPrimer(t *testing.T) {
	trimmer := NewPrimerTrimmer(DefaultMinLength, DefaultMinIdentity, true)
	result, err := trimmer.Trim(nuc(t, forwardPrimer+insert), primers(t))
	require.NoError(t, err)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "M13F", result.Hits[0].Primer.ID)
	assert.Equal(t, float32(32), result.Hits[0].Alignment.Score())
	assert.Contains(t, result.String(), "hits: 1")
}

func TestTrimInvalid(t *testing.T) {
	trimmer := NewPrimerTrimmer(DefaultMinLength, DefaultMinIdentity, true)

	_, err := trimmer.Trim(nil, primers(t))
	assert.True(t, errors.Is(err, alignment.ErrInvalidArgument))

	_, err = trimmer.Trim(nuc(t, insert), []*sequence.Sequence[residue.Nucleotide]{nil})
	assert.True(t, errors.Is(err, alignment.ErrInvalidArgument))

	trimmer.Options.Matrix = nil
	_, err = trimmer.Trim(nuc(t, insert), primers(t))
	assert.True(t, errors.Is(err, alignment.ErrInvalidArgument))
}

func TestClearRange(t *testing.T) {
	hit := func(b, e int) Hit {
		return Hit{Range: alignment.DirectedRange{Begin: b, End: e}}
	}

	tests := []struct {
		name string
		hits []Hit
		n    int
		want alignment.DirectedRange
	}{
		{"no hits", nil, 10, alignment.DirectedRange{Begin: 0, End: 10}},
		{"longer right side", []Hit{hit(3, 5)}, 10, alignment.DirectedRange{Begin: 5, End: 10}},
		{"tie goes left", []Hit{hit(4, 6)}, 10, alignment.DirectedRange{Begin: 0, End: 4}},
		{"overlapping hits", []Hit{hit(0, 5), hit(3, 8), hit(12, 14)}, 14, alignment.DirectedRange{Begin: 8, End: 12}},
		{"equal gaps", []Hit{hit(2, 4)}, 6, alignment.DirectedRange{Begin: 0, End: 2}},
		{"fully covered", []Hit{hit(0, 10)}, 10, alignment.DirectedRange{Begin: 10, End: 10}},
		{"empty read", nil, 0, alignment.DirectedRange{Begin: 0, End: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clearRange(tt.hits, tt.n))
		})
	}
}
