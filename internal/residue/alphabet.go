// Package residue provides the residue types and alphabets that sequences
// and scoring matrices are built on.
//
// An Alphabet is an ordered list of representable residues plus a reserved
// gap symbol. Every residue has an ordinal (its index in the list) which
// scoring matrices use for constant-time lookups. The gap symbol always has
// ordinal Len().
package residue

import (
	"fmt"
	"strings"
)

// Residue is the constraint satisfied by every concrete residue type.
type Residue interface {
	~byte
}

// Alphabet describes the residues of one sequence kind. Alphabets are
// immutable after construction and safe for concurrent use.
type Alphabet[R Residue] struct {
	name     string
	residues []R
	gap      R
	ordinals [256]int16
}

// NewAlphabet creates an alphabet from the given symbols. Lower-case input
// maps to the same ordinal as upper-case. It panics on duplicate symbols,
// which can only come from a malformed literal.
func NewAlphabet[R Residue](name, symbols string, gap R) *Alphabet[R] {
	a := &Alphabet[R]{
		name:     name,
		residues: make([]R, 0, len(symbols)),
		gap:      gap,
	}
	for i := range a.ordinals {
		a.ordinals[i] = -1
	}

	for i := 0; i < len(symbols); i++ {
		c := upper(symbols[i])
		if a.ordinals[c] >= 0 || c == byte(gap) {
			panic(fmt.Sprintf("residue: duplicate symbol %q in alphabet %s", c, name))
		}
		a.ordinals[c] = int16(len(a.residues))
		if lc := lower(c); lc != c {
			a.ordinals[lc] = int16(len(a.residues))
		}
		a.residues = append(a.residues, R(c))
	}
	a.ordinals[byte(gap)] = int16(len(a.residues))

	return a
}

// Name returns the alphabet name.
func (a *Alphabet[R]) Name() string {
	return a.name
}

// Len returns the number of residues, not counting the gap.
func (a *Alphabet[R]) Len() int {
	return len(a.residues)
}

// Residues returns a copy of the ordered residue list.
func (a *Alphabet[R]) Residues() []R {
	rs := make([]R, len(a.residues))
	copy(rs, a.residues)
	return rs
}

// Gap returns the gap symbol.
func (a *Alphabet[R]) Gap() R {
	return a.gap
}

// IsGap reports whether r is the gap symbol.
func (a *Alphabet[R]) IsGap(r R) bool {
	return r == a.gap
}

// Ordinal returns the index of r, Len() for the gap, or -1 if r is not part
// of the alphabet.
func (a *Alphabet[R]) Ordinal(r R) int {
	return int(a.ordinals[byte(r)])
}

// Contains reports whether r is a residue or the gap symbol.
func (a *Alphabet[R]) Contains(r R) bool {
	return a.ordinals[byte(r)] >= 0
}

// Parse converts a raw byte to the canonical (upper-case) residue.
func (a *Alphabet[R]) Parse(c byte) (R, bool) {
	o := a.ordinals[c]
	if o < 0 {
		return 0, false
	}
	if int(o) == len(a.residues) {
		return a.gap, true
	}
	return a.residues[o], true
}

func (a *Alphabet[R]) String() string {
	var sb strings.Builder
	for _, r := range a.residues {
		sb.WriteByte(byte(r))
	}
	return fmt.Sprintf("%s [%s] gap=%c", a.name, sb.String(), byte(a.gap))
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}
