package alignment

import (
	"fmt"
	"slices"

	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
)

// Op is one aligned column.
type Op byte

const (
	// Match pairs two identical residues.
	Match Op = iota
	// Mismatch pairs two different residues.
	Mismatch
	// GapInQuery pairs a gap in the query with a subject residue.
	GapInQuery
	// GapInSubject pairs a query residue with a gap in the subject.
	GapInSubject
)

func (o Op) String() string {
	switch o {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case GapInQuery:
		return "gap-in-query"
	case GapInSubject:
		return "gap-in-subject"
	default:
		return fmt.Sprintf("op(%d)", byte(o))
	}
}

// Builder accumulates aligned columns into an Alignment.
type Builder[R residue.Residue] struct {
	alphabet *residue.Alphabet[R]
	query    []R
	subject  []R
	ops      []Op
	reversed bool
}

// NewBuilder returns a builder that receives columns in alignment order.
func NewBuilder[R residue.Residue](alphabet *residue.Alphabet[R]) *Builder[R] {
	return &Builder[R]{alphabet: alphabet}
}

// newTracebackBuilder returns a builder that receives columns last to
// first and reverses them once in Build.
func newTracebackBuilder[R residue.Residue](alphabet *residue.Alphabet[R]) *Builder[R] {
	return &Builder[R]{alphabet: alphabet, reversed: true}
}

func (b *Builder[R]) add(op Op, q, s R) *Builder[R] {
	b.ops = append(b.ops, op)
	b.query = append(b.query, q)
	b.subject = append(b.subject, s)
	return b
}

// Match adds a column of two identical residues.
func (b *Builder[R]) Match(r R) *Builder[R] {
	return b.add(Match, r, r)
}

// Mismatch adds a column of two different residues.
func (b *Builder[R]) Mismatch(q, s R) *Builder[R] {
	return b.add(Mismatch, q, s)
}

// GapInQuery adds a column with a gap in the query.
func (b *Builder[R]) GapInQuery(s R) *Builder[R] {
	return b.add(GapInQuery, b.alphabet.Gap(), s)
}

// GapInSubject adds a column with a gap in the subject.
func (b *Builder[R]) GapInSubject(q R) *Builder[R] {
	return b.add(GapInSubject, q, b.alphabet.Gap())
}

// Build returns the alignment. The builder must not be used afterwards.
func (b *Builder[R]) Build(score float32, queryRange, subjectRange DirectedRange) *Alignment[R] {
	if b.reversed {
		slices.Reverse(b.ops)
		slices.Reverse(b.query)
		slices.Reverse(b.subject)
	}

	return &Alignment[R]{
		score:        score,
		ops:          b.ops,
		query:        mustSequence(b.alphabet, b.query),
		subject:      mustSequence(b.alphabet, b.subject),
		queryRange:   queryRange,
		subjectRange: subjectRange,
	}
}

func mustSequence[R residue.Residue](alphabet *residue.Alphabet[R], rs []R) *sequence.Sequence[R] {
	seq, err := sequence.FromResidues(alphabet, rs)
	if err != nil {
		panic(fmt.Sprintf("alignment: builder holds residues outside %s: %v", alphabet.Name(), err))
	}
	return seq
}
