// Package kmer provides k-mer counting and k-mer based sequence distances.
//
// K-mers are taken from the ungapped sequence. Windows containing the
// alphabet's wildcard residue (N for nucleotides, X for amino acids) are
// skipped.
package kmer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/pkg/errors"
)

// KMerCount is a k-mer and its count.
type KMerCount struct {
	KMer  string `json:"kmer"`
	Count int    `json:"count"`
}

// Counter counts k-mers of a fixed length.
type Counter struct {
	K      int
	Counts map[string]int
	Total  int
}

// NewCounter creates a counter for k-mers of length k.
func NewCounter(k int) (*Counter, error) {
	if k <= 0 {
		return nil, errors.Errorf("k must be positive, got %d", k)
	}
	return &Counter{
		K:      k,
		Counts: make(map[string]int),
	}, nil
}

// Add counts every k-mer of seq.
func Add[R residue.Residue](c *Counter, seq *sequence.Sequence[R]) {
	forEachWindow(seq, c.K, func(kmer []byte) {
		c.Counts[string(kmer)]++
		c.Total++
	})
}

// Count returns the count of a k-mer. Lower-case input is accepted.
func (c *Counter) Count(kmer string) (int, error) {
	if len(kmer) != c.K {
		return 0, errors.Errorf("k-mer length %d doesn't match k=%d", len(kmer), c.K)
	}
	return c.Counts[strings.ToUpper(kmer)], nil
}

// UniqueCount returns the number of distinct k-mers.
func (c *Counter) UniqueCount() int {
	return len(c.Counts)
}

// MostFrequent returns up to n k-mers by descending count. Equal counts
// are ordered by k-mer.
func (c *Counter) MostFrequent(n int) ([]KMerCount, error) {
	if n <= 0 {
		return nil, errors.Errorf("n must be positive, got %d", n)
	}

	counts := make([]KMerCount, 0, len(c.Counts))
	for kmer, count := range c.Counts {
		counts = append(counts, KMerCount{KMer: kmer, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].KMer < counts[j].KMer
	})

	if n > len(counts) {
		n = len(counts)
	}
	return counts[:n], nil
}

// Frequency returns the share of all counted k-mers taken by kmer.
func (c *Counter) Frequency(kmer string) (float64, error) {
	count, err := c.Count(kmer)
	if err != nil {
		return 0, err
	}
	if c.Total == 0 {
		return 0.0, nil
	}
	return float64(count) / float64(c.Total), nil
}

// Merge adds the counts of other.
func (c *Counter) Merge(other *Counter) error {
	if c.K != other.K {
		return errors.Errorf("k values must match: %d != %d", c.K, other.K)
	}
	for kmer, count := range other.Counts {
		c.Counts[kmer] += count
		c.Total += count
	}
	return nil
}

func (c *Counter) String() string {
	return fmt.Sprintf("KMerCounter { k: %d, unique: %d, total: %d }", c.K, c.UniqueCount(), c.Total)
}

// CountKMers counts the k-mers of seq.
func CountKMers[R residue.Residue](seq *sequence.Sequence[R], k int) (*Counter, error) {
	c, err := NewCounter(k)
	if err != nil {
		return nil, err
	}
	Add(c, seq)
	return c, nil
}

// forEachWindow calls fn with every k-long window of the ungapped sequence
// that holds no wildcard. The slice passed to fn is reused.
func forEachWindow[R residue.Residue](seq *sequence.Sequence[R], k int, fn func(kmer []byte)) {
	ungapped := seq.Ungapped()
	n := ungapped.Len()
	if k > n {
		return
	}

	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = byte(ungapped.At(i))
	}

	w, hasWildcard := wildcard(seq.Alphabet())
	last := -1 // position of the latest wildcard
	for i := 0; i < n; i++ {
		if hasWildcard && buf[i] == byte(w) {
			last = i
		}
		if start := i - k + 1; start >= 0 && last < start {
			fn(buf[start : i+1])
		}
	}
}

func wildcard[R residue.Residue](a *residue.Alphabet[R]) (R, bool) {
	switch a.Name() {
	case residue.Nucleotides.Name():
		return 'N', true
	case residue.AminoAcids.Name():
		return 'X', true
	default:
		return 0, false
	}
}
