// Package stats provides summary statistics for sequence sets and for the
// alignments of a batch.
package stats

import (
	"fmt"
	"sort"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SequenceSetStats summarizes the lengths of a set of sequences. Gaps are
// not counted.
type SequenceSetStats struct {
	Count         int     `json:"count"`
	TotalResidues int     `json:"total_residues"`
	MinLength     int     `json:"min_length"`
	MaxLength     int     `json:"max_length"`
	MeanLength    float64 `json:"mean_length"`
	MedianLength  float64 `json:"median_length"`
	N50           int     `json:"n50"`
}

// FromSequences calculates statistics for a collection of sequences.
func FromSequences[R residue.Residue](sequences []*sequence.Sequence[R]) (*SequenceSetStats, error) {
	if len(sequences) == 0 {
		return nil, errors.New("sequence list cannot be empty")
	}

	lengths := make([]float64, len(sequences))
	for i, seq := range sequences {
		lengths[i] = float64(seq.Ungapped().Len())
	}
	sort.Float64s(lengths)
	total := floats.Sum(lengths)

	return &SequenceSetStats{
		Count:         len(sequences),
		TotalResidues: int(total),
		MinLength:     int(lengths[0]),
		MaxLength:     int(lengths[len(lengths)-1]),
		MeanLength:    stat.Mean(lengths, nil),
		MedianLength:  median(lengths),
		N50:           n50(lengths, total),
	}, nil
}

func (s *SequenceSetStats) String() string {
	return fmt.Sprintf(`SequenceSetStats {
  count: %d
  total residues: %d
  length range: %d - %d
  mean length: %.1f
  median length: %.1f
  N50: %d
}`, s.Count, s.TotalResidues, s.MinLength, s.MaxLength, s.MeanLength, s.MedianLength, s.N50)
}

// MeanGCContent returns the mean GC content of nucleotide sequences.
func MeanGCContent(sequences []*sequence.Sequence[residue.Nucleotide]) float64 {
	if len(sequences) == 0 {
		return 0.0
	}
	gc := make([]float64, len(sequences))
	for i, seq := range sequences {
		gc[i] = sequence.GCContent(seq)
	}
	return stat.Mean(gc, nil)
}

// AlignmentSetStats summarizes the scores and identities of a set of
// alignments.
type AlignmentSetStats struct {
	Count            int     `json:"count"`
	MinScore         float64 `json:"min_score"`
	MaxScore         float64 `json:"max_score"`
	MeanScore        float64 `json:"mean_score"`
	StdDevScore      float64 `json:"stddev_score"`
	MedianScore      float64 `json:"median_score"`
	MeanIdentity     float64 `json:"mean_identity"`
	MedianIdentity   float64 `json:"median_identity"`
	MeanLength       float64 `json:"mean_length"`
	TotalGapOpenings int     `json:"total_gap_openings"`
}

// Summarize calculates statistics over alignments. Nil entries are ignored.
func Summarize[R residue.Residue](alignments []*alignment.Alignment[R]) (*AlignmentSetStats, error) {
	var scores, identities, lengths []float64
	gapOpenings := 0
	for _, a := range alignments {
		if a == nil {
			continue
		}
		scores = append(scores, float64(a.Score()))
		identities = append(identities, a.Identity())
		lengths = append(lengths, float64(a.Length()))
		gapOpenings += a.GapOpenings()
	}
	if len(scores) == 0 {
		return nil, errors.New("no alignments to summarize")
	}

	s := &AlignmentSetStats{
		Count:            len(scores),
		MinScore:         floats.Min(scores),
		MaxScore:         floats.Max(scores),
		MeanScore:        stat.Mean(scores, nil),
		MeanIdentity:     stat.Mean(identities, nil),
		MeanLength:       stat.Mean(lengths, nil),
		TotalGapOpenings: gapOpenings,
	}
	if len(scores) > 1 {
		s.StdDevScore = stat.StdDev(scores, nil)
	}

	sort.Float64s(scores)
	sort.Float64s(identities)
	s.MedianScore = median(scores)
	s.MedianIdentity = median(identities)

	return s, nil
}

func (s *AlignmentSetStats) String() string {
	return fmt.Sprintf(`AlignmentSetStats {
  count: %d
  score range: %g - %g
  mean score: %.2f (sd %.2f)
  median score: %g
  mean identity: %.1f%%
  mean length: %.1f
  gap openings: %d
}`, s.Count, s.MinScore, s.MaxScore, s.MeanScore, s.StdDevScore, s.MedianScore,
		s.MeanIdentity*100, s.MeanLength, s.TotalGapOpenings)
}

// median expects sorted input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// n50 is the length L such that sequences of length >= L hold at least
// half of all residues. lengths must be sorted ascending.
func n50(lengths []float64, total float64) int {
	running := 0.0
	for i := len(lengths) - 1; i >= 0; i-- {
		running += lengths[i]
		if running*2 >= total {
			return int(lengths[i])
		}
	}
	return 0
}
