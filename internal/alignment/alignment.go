package alignment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
)

// Strand is the orientation of a range on its sequence.
type Strand byte

const (
	Forward Strand = iota
	Reverse
)

func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// DirectedRange is a half-open interval [Begin, End) of an ungapped
// sequence.
type DirectedRange struct {
	Begin  int
	End    int
	Strand Strand
}

// Len returns the number of residues in the range.
func (r DirectedRange) Len() int {
	return r.End - r.Begin
}

func (r DirectedRange) String() string {
	return fmt.Sprintf("[%d, %d)%s", r.Begin, r.End, r.Strand)
}

// Alignment is the immutable result of aligning a query against a subject.
type Alignment[R residue.Residue] struct {
	score        float32
	ops          []Op
	query        *sequence.Sequence[R]
	subject      *sequence.Sequence[R]
	queryRange   DirectedRange
	subjectRange DirectedRange
}

// Score returns the alignment score.
func (a *Alignment[R]) Score() float32 {
	return a.score
}

// GappedQuery returns the query row of the alignment, gaps included.
func (a *Alignment[R]) GappedQuery() *sequence.Sequence[R] {
	return a.query
}

// GappedSubject returns the subject row of the alignment, gaps included.
func (a *Alignment[R]) GappedSubject() *sequence.Sequence[R] {
	return a.subject
}

// Length returns the number of aligned columns.
func (a *Alignment[R]) Length() int {
	return len(a.ops)
}

// Ops returns a copy of the aligned columns.
func (a *Alignment[R]) Ops() []Op {
	ops := make([]Op, len(a.ops))
	copy(ops, a.ops)
	return ops
}

func (a *Alignment[R]) count(op Op) int {
	n := 0
	for _, o := range a.ops {
		if o == op {
			n++
		}
	}
	return n
}

// Matches returns the number of identical columns.
func (a *Alignment[R]) Matches() int {
	return a.count(Match)
}

// Mismatches returns the number of columns pairing different residues.
func (a *Alignment[R]) Mismatches() int {
	return a.count(Mismatch)
}

// Gaps returns the number of gap columns in either row.
func (a *Alignment[R]) Gaps() int {
	return a.count(GapInQuery) + a.count(GapInSubject)
}

// GapOpenings counts maximal runs of gaps in each row.
func (a *Alignment[R]) GapOpenings() int {
	openings := 0
	inQueryGap, inSubjectGap := false, false

	for _, op := range a.ops {
		if op == GapInQuery && !inQueryGap {
			openings++
		}
		if op == GapInSubject && !inSubjectGap {
			openings++
		}
		inQueryGap = op == GapInQuery
		inSubjectGap = op == GapInSubject
	}

	return openings
}

// Identity returns matches divided by alignment length, or 0 for an empty
// alignment.
func (a *Alignment[R]) Identity() float64 {
	if len(a.ops) == 0 {
		return 0.0
	}
	return float64(a.Matches()) / float64(len(a.ops))
}

// PercentIdentity returns Identity as a percentage.
func (a *Alignment[R]) PercentIdentity() float64 {
	return a.Identity() * 100
}

// QueryRange returns the aligned residues of the ungapped query.
func (a *Alignment[R]) QueryRange() DirectedRange {
	return a.queryRange
}

// SubjectRange returns the aligned residues of the ungapped subject.
func (a *Alignment[R]) SubjectRange() DirectedRange {
	return a.subjectRange
}

// CIGAR returns the run-length encoded columns: M match, X mismatch,
// I gap in the query, D gap in the subject.
func (a *Alignment[R]) CIGAR() string {
	if len(a.ops) == 0 {
		return ""
	}

	var cigar strings.Builder
	current := a.ops[0]
	count := 0
	for _, op := range a.ops {
		if op == current {
			count++
			continue
		}
		cigar.WriteString(strconv.Itoa(count))
		cigar.WriteByte(cigarCode(current))
		current, count = op, 1
	}
	cigar.WriteString(strconv.Itoa(count))
	cigar.WriteByte(cigarCode(current))

	return cigar.String()
}

func cigarCode(op Op) byte {
	switch op {
	case Match:
		return 'M'
	case Mismatch:
		return 'X'
	case GapInQuery:
		return 'I'
	case GapInSubject:
		return 'D'
	default:
		panic(fmt.Sprintf("alignment: undefined %s", op))
	}
}

// MatchLine returns one character per column: '|' for a match, '.' for a
// mismatch, ' ' for a gap.
func (a *Alignment[R]) MatchLine() string {
	var sb strings.Builder
	sb.Grow(len(a.ops))
	for _, op := range a.ops {
		switch op {
		case Match:
			sb.WriteByte('|')
		case Mismatch:
			sb.WriteByte('.')
		default:
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// Format renders the alignment in blocks of width columns with 1-based
// residue coordinates, followed by the score, identity and CIGAR. A width
// of zero or less puts every column in one block.
func (a *Alignment[R]) Format(width int) string {
	q, s, match := a.query.String(), a.subject.String(), a.MatchLine()
	if width <= 0 {
		width = len(q)
	}
	gap := byte(a.query.Alphabet().Gap())

	var sb strings.Builder
	qPos, sPos := a.queryRange.Begin, a.subjectRange.Begin
	for start := 0; start < len(q); start += width {
		end := start + width
		if end > len(q) {
			end = len(q)
		}
		qBlock, sBlock := q[start:end], s[start:end]
		qNext := qPos + len(qBlock) - strings.Count(qBlock, string(gap))
		sNext := sPos + len(sBlock) - strings.Count(sBlock, string(gap))

		fmt.Fprintf(&sb, "Query  %6d %s %d\n", qPos+1, qBlock, qNext)
		fmt.Fprintf(&sb, "       %6s %s\n", "", match[start:end])
		fmt.Fprintf(&sb, "Sbjct  %6d %s %d\n\n", sPos+1, sBlock, sNext)
		qPos, sPos = qNext, sNext
	}

	fmt.Fprintf(&sb, "Score: %g\nIdentity: %d/%d (%.1f%%)\nCIGAR: %s",
		a.score, a.Matches(), a.Length(), a.PercentIdentity(), a.CIGAR())
	return sb.String()
}

func (a *Alignment[R]) String() string {
	return fmt.Sprintf("Alignment { score: %g, identity: %.1f%%, length: %d, query: %s, subject: %s }",
		a.score, a.PercentIdentity(), a.Length(), a.queryRange, a.subjectRange)
}

// Summary is a flat, JSON-friendly view of an alignment.
type Summary struct {
	Score         float32 `json:"score"`
	Length        int     `json:"length"`
	Matches       int     `json:"matches"`
	Mismatches    int     `json:"mismatches"`
	GapOpenings   int     `json:"gap_openings"`
	Identity      float64 `json:"identity"`
	QueryStart    int     `json:"query_start"`
	QueryEnd      int     `json:"query_end"`
	SubjectStart  int     `json:"subject_start"`
	SubjectEnd    int     `json:"subject_end"`
	Strand        string  `json:"strand"`
	GappedQuery   string  `json:"gapped_query"`
	GappedSubject string  `json:"gapped_subject"`
	CIGAR         string  `json:"cigar"`
}

// Summary returns the alignment as a Summary.
func (a *Alignment[R]) Summary() Summary {
	return Summary{
		Score:         a.score,
		Length:        a.Length(),
		Matches:       a.Matches(),
		Mismatches:    a.Mismatches(),
		GapOpenings:   a.GapOpenings(),
		Identity:      a.Identity(),
		QueryStart:    a.queryRange.Begin,
		QueryEnd:      a.queryRange.End,
		SubjectStart:  a.subjectRange.Begin,
		SubjectEnd:    a.subjectRange.End,
		Strand:        a.subjectRange.Strand.String(),
		GappedQuery:   a.query.String(),
		GappedSubject: a.subject.String(),
		CIGAR:         a.CIGAR(),
	}
}

// WithSubjectStrand returns a copy of a whose subject range has the given
// strand. Callers that align against a reverse complement use it to record
// the orientation.
func (a *Alignment[R]) WithSubjectStrand(strand Strand) *Alignment[R] {
	cp := *a
	cp.subjectRange.Strand = strand
	return &cp
}
