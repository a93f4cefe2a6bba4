package kmer

import (
	"math"

	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/pkg/errors"
	"github.com/zeebo/wyhash"
)

const hashSeed = 1

// Set holds the distinct k-mers of a sequence as 64-bit hashes.
type Set struct {
	K      int
	hashes map[uint64]struct{}
}

// NewSet hashes the k-mers of seq.
func NewSet[R residue.Residue](seq *sequence.Sequence[R], k int) (*Set, error) {
	if k <= 0 {
		return nil, errors.Errorf("k must be positive, got %d", k)
	}
	s := &Set{K: k, hashes: make(map[uint64]struct{})}
	forEachWindow(seq, k, func(kmer []byte) {
		s.hashes[wyhash.Hash(kmer, hashSeed)] = struct{}{}
	})
	return s, nil
}

// Len returns the number of distinct k-mers.
func (s *Set) Len() int {
	return len(s.hashes)
}

// Shared returns the number of k-mers present in both sets.
func (s *Set) Shared(other *Set) int {
	small, large := s, other
	if small.Len() > large.Len() {
		small, large = large, small
	}
	n := 0
	for h := range small.hashes {
		if _, ok := large.hashes[h]; ok {
			n++
		}
	}
	return n
}

// Jaccard returns |A ∩ B| / |A ∪ B|, or 0 when both sets are empty.
func (s *Set) Jaccard(other *Set) float64 {
	shared := s.Shared(other)
	union := s.Len() + other.Len() - shared
	if union == 0 {
		return 0.0
	}
	return float64(shared) / float64(union)
}

func checkK[R residue.Residue](seq1, seq2 *sequence.Sequence[R], k int) error {
	if k <= 0 {
		return errors.Errorf("k must be positive, got %d", k)
	}
	if k > seq1.Ungapped().Len() || k > seq2.Ungapped().Len() {
		return errors.Errorf("k=%d exceeds sequence length", k)
	}
	return nil
}

// JaccardDistance returns 1 - Jaccard similarity of the k-mer sets.
func JaccardDistance[R residue.Residue](seq1, seq2 *sequence.Sequence[R], k int) (float64, error) {
	if err := checkK(seq1, seq2, k); err != nil {
		return 0, err
	}
	a, _ := NewSet(seq1, k)
	b, _ := NewSet(seq2, k)
	return 1.0 - a.Jaccard(b), nil
}

// SharedKMers returns the number of distinct k-mers found in both
// sequences.
func SharedKMers[R residue.Residue](seq1, seq2 *sequence.Sequence[R], k int) (int, error) {
	if err := checkK(seq1, seq2, k); err != nil {
		return 0, err
	}
	a, _ := NewSet(seq1, k)
	b, _ := NewSet(seq2, k)
	return a.Shared(b), nil
}

// CosineDistance returns 1 - cosine similarity of the k-mer count vectors.
func CosineDistance[R residue.Residue](seq1, seq2 *sequence.Sequence[R], k int) (float64, error) {
	if err := checkK(seq1, seq2, k); err != nil {
		return 0, err
	}
	c1, _ := CountKMers(seq1, k)
	c2, _ := CountKMers(seq2, k)

	var dot, mag1, mag2 float64
	for kmer, v1 := range c1.Counts {
		dot += float64(v1) * float64(c2.Counts[kmer])
		mag1 += float64(v1) * float64(v1)
	}
	for _, v2 := range c2.Counts {
		mag2 += float64(v2) * float64(v2)
	}

	if mag1 == 0 || mag2 == 0 {
		return 1.0, nil
	}
	return 1.0 - dot/(math.Sqrt(mag1)*math.Sqrt(mag2)), nil
}

// Prefilter returns a predicate keeping subjects that share at least
// minShared k-mers with query. It is safe for concurrent use.
func Prefilter[R residue.Residue](query *sequence.Sequence[R], k, minShared int) (func(*sequence.Sequence[R]) bool, error) {
	qs, err := NewSet(query, k)
	if err != nil {
		return nil, err
	}
	return func(subject *sequence.Sequence[R]) bool {
		ss, _ := NewSet(subject, k)
		return qs.Shared(ss) >= minShared
	}, nil
}
