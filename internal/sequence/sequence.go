// Package sequence provides immutable, alphabet-checked biological sequences.
//
// A Sequence is generic over its residue type, so nucleotide and amino acid
// sequences share one implementation while staying distinct types. Symbols
// are validated against the alphabet at construction; once built, every
// residue of a Sequence has a valid ordinal in its alphabet.
package sequence

import (
	"strings"

	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/pkg/errors"
)

// Sequence is an ordered, 0-indexed, immutable list of residues.
type Sequence[R residue.Residue] struct {
	ID          string
	Description string

	alphabet *residue.Alphabet[R]
	residues []R
}

// New creates a sequence from a string, validating every symbol against
// the alphabet. Lower-case symbols are normalized to upper-case. Gap
// symbols are accepted and kept. Empty input yields an empty sequence.
func New[R residue.Residue](alphabet *residue.Alphabet[R], s string) (*Sequence[R], error) {
	if alphabet == nil {
		return nil, errors.New("sequence: nil alphabet")
	}

	rs := make([]R, len(s))
	for i := 0; i < len(s); i++ {
		r, ok := alphabet.Parse(s[i])
		if !ok {
			return nil, &InvalidResidueError{Position: i, Found: s[i], Alphabet: alphabet.Name()}
		}
		rs[i] = r
	}

	return &Sequence[R]{alphabet: alphabet, residues: rs}, nil
}

// FromResidues creates a sequence from residues, copying the input.
func FromResidues[R residue.Residue](alphabet *residue.Alphabet[R], rs []R) (*Sequence[R], error) {
	if alphabet == nil {
		return nil, errors.New("sequence: nil alphabet")
	}

	cp := make([]R, len(rs))
	for i, r := range rs {
		if !alphabet.Contains(r) {
			return nil, &InvalidResidueError{Position: i, Found: byte(r), Alphabet: alphabet.Name()}
		}
		cp[i], _ = alphabet.Parse(byte(r))
	}

	return &Sequence[R]{alphabet: alphabet, residues: cp}, nil
}

// NewNucleotide creates a nucleotide sequence.
func NewNucleotide(s string) (*Sequence[residue.Nucleotide], error) {
	return New(residue.Nucleotides, s)
}

// NewAminoAcid creates an amino acid sequence.
func NewAminoAcid(s string) (*Sequence[residue.AminoAcid], error) {
	return New(residue.AminoAcids, s)
}

// WithID returns a copy of s carrying an identifier and description.
func (s *Sequence[R]) WithID(id, description string) *Sequence[R] {
	return &Sequence[R]{
		ID:          id,
		Description: description,
		alphabet:    s.alphabet,
		residues:    s.residues,
	}
}

// Alphabet returns the alphabet of the sequence.
func (s *Sequence[R]) Alphabet() *residue.Alphabet[R] {
	return s.alphabet
}

// Len returns the number of residues, gaps included.
func (s *Sequence[R]) Len() int {
	return len(s.residues)
}

// At returns the residue at index i.
func (s *Sequence[R]) At(i int) R {
	return s.residues[i]
}

// Residues returns a copy of the residues.
func (s *Sequence[R]) Residues() []R {
	rs := make([]R, len(s.residues))
	copy(rs, s.residues)
	return rs
}

// HasGaps reports whether the sequence contains gap symbols.
func (s *Sequence[R]) HasGaps() bool {
	for _, r := range s.residues {
		if s.alphabet.IsGap(r) {
			return true
		}
	}
	return false
}

// Ungapped returns the sequence with all gap symbols removed. The receiver
// is returned unchanged when it has no gaps.
func (s *Sequence[R]) Ungapped() *Sequence[R] {
	if !s.HasGaps() {
		return s
	}

	rs := make([]R, 0, len(s.residues))
	for _, r := range s.residues {
		if !s.alphabet.IsGap(r) {
			rs = append(rs, r)
		}
	}

	return &Sequence[R]{
		ID:          s.ID,
		Description: s.Description,
		alphabet:    s.alphabet,
		residues:    rs,
	}
}

// Subsequence returns residues [start, end).
func (s *Sequence[R]) Subsequence(start, end int) (*Sequence[R], error) {
	if start < 0 || end < start || end > len(s.residues) {
		return nil, &RangeError{Start: start, End: end, Length: len(s.residues)}
	}

	return &Sequence[R]{
		ID:          s.ID,
		Description: s.Description,
		alphabet:    s.alphabet,
		residues:    s.residues[start:end:end],
	}, nil
}

// Equal checks residue-level equality with another sequence.
func (s *Sequence[R]) Equal(other *Sequence[R]) bool {
	if other == nil || s.alphabet != other.alphabet || len(s.residues) != len(other.residues) {
		return false
	}
	for i, r := range s.residues {
		if other.residues[i] != r {
			return false
		}
	}
	return true
}

// String returns the residues as text.
func (s *Sequence[R]) String() string {
	var sb strings.Builder
	sb.Grow(len(s.residues))
	for _, r := range s.residues {
		sb.WriteByte(byte(r))
	}
	return sb.String()
}

// ToFASTA returns the sequence in FASTA format, wrapped at 80 columns.
func (s *Sequence[R]) ToFASTA() string {
	var header string
	if s.ID != "" {
		header = ">" + s.ID
		if s.Description != "" {
			header += " " + s.Description
		}
	} else {
		header = ">sequence"
	}

	bases := s.String()

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteByte('\n')
	for i := 0; i < len(bases); i += 80 {
		end := i + 80
		if end > len(bases) {
			end = len(bases)
		}
		sb.WriteString(bases[i:end])
		sb.WriteByte('\n')
	}

	return sb.String()
}

// ReverseComplement returns the reverse complement of a nucleotide sequence.
func ReverseComplement(s *Sequence[residue.Nucleotide]) *Sequence[residue.Nucleotide] {
	n := len(s.residues)
	rc := make([]residue.Nucleotide, n)
	for i, b := range s.residues {
		rc[n-1-i] = b.Complement()
	}

	return &Sequence[residue.Nucleotide]{
		ID:          s.ID,
		Description: s.Description,
		alphabet:    s.alphabet,
		residues:    rc,
	}
}

// GCContent returns the proportion of G and C among the non-gap residues.
func GCContent(s *Sequence[residue.Nucleotide]) float64 {
	var gc, total int
	for _, b := range s.residues {
		if s.alphabet.IsGap(b) {
			continue
		}
		total++
		if b.IsGC() {
			gc++
		}
	}
	if total == 0 {
		return 0.0
	}
	return float64(gc) / float64(total)
}
