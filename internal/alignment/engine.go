package alignment

import (
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument reports a nil or mismatched input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMatrixTooLarge reports an alignment whose traceback matrix would
	// exceed Options.MaxCells.
	ErrMatrixTooLarge = errors.New("traceback matrix too large")
)

// Options configures one alignment. Gap penalties are added as-is, so they
// are normally zero or negative; their sign is not checked.
type Options[R residue.Residue] struct {
	Matrix    ScoringMatrix[R]
	GapOpen   float32
	GapExtend float32
	Mode      Mode
	// MaxCells limits the traceback matrix size, (n+1)*(m+1). Zero means
	// no limit.
	MaxCells int64
}

// Align computes the optimal alignment of query and subject. Gap symbols
// already present in the inputs are removed first, and the reported ranges
// refer to the ungapped sequences.
func Align[R residue.Residue](query, subject *sequence.Sequence[R], opts Options[R]) (*Alignment[R], error) {
	v, err := checkArgs(query, subject, opts)
	if err != nil {
		return nil, err
	}

	q := query.Ungapped().Residues()
	s := subject.Ungapped().Residues()
	n, m := len(q), len(s)

	if cells := int64(n+1) * int64(m+1); opts.MaxCells > 0 && cells > opts.MaxCells {
		return nil, errors.Wrapf(ErrMatrixTooLarge, "%d x %d cells exceeds limit of %d", n+1, m+1, opts.MaxCells)
	}

	tb := newTracebackMatrix(n+1, m+1)
	start := forward(q, s, opts, v, tb)

	b := newTracebackBuilder(query.Alphabet())
	qBegin, sBegin := traceback(tb, q, s, start, b)

	return b.Build(start.score,
		DirectedRange{Begin: qBegin, End: start.i},
		DirectedRange{Begin: sBegin, End: start.j},
	), nil
}

// AlignGlobal aligns the whole of both sequences.
func AlignGlobal[R residue.Residue](query, subject *sequence.Sequence[R], matrix ScoringMatrix[R], open, extend float32) (*Alignment[R], error) {
	return Align(query, subject, Options[R]{Matrix: matrix, GapOpen: open, GapExtend: extend, Mode: Global})
}

// AlignLocal aligns the best-scoring subregions of both sequences.
func AlignLocal[R residue.Residue](query, subject *sequence.Sequence[R], matrix ScoringMatrix[R], open, extend float32) (*Alignment[R], error) {
	return Align(query, subject, Options[R]{Matrix: matrix, GapOpen: open, GapExtend: extend, Mode: Local})
}

// Score runs the forward pass without keeping a traceback matrix and
// returns the score Align would report. Memory use is linear in the
// subject length, so MaxCells does not apply.
func Score[R residue.Residue](query, subject *sequence.Sequence[R], opts Options[R]) (float32, error) {
	v, err := checkArgs(query, subject, opts)
	if err != nil {
		return 0, err
	}

	q := query.Ungapped().Residues()
	s := subject.Ungapped().Residues()
	return forward(q, s, opts, v, nil).score, nil
}

type alphabeted[R residue.Residue] interface {
	Alphabet() *residue.Alphabet[R]
}

func checkArgs[R residue.Residue](query, subject *sequence.Sequence[R], opts Options[R]) (variant, error) {
	switch {
	case query == nil:
		return nil, errors.Wrap(ErrInvalidArgument, "nil query")
	case subject == nil:
		return nil, errors.Wrap(ErrInvalidArgument, "nil subject")
	case opts.Matrix == nil:
		return nil, errors.Wrap(ErrInvalidArgument, "nil scoring matrix")
	case query.Alphabet() != subject.Alphabet():
		return nil, errors.Wrapf(ErrInvalidArgument, "query alphabet %s does not match subject alphabet %s",
			query.Alphabet().Name(), subject.Alphabet().Name())
	}
	if am, ok := opts.Matrix.(alphabeted[R]); ok && am.Alphabet() != query.Alphabet() {
		return nil, errors.Wrapf(ErrInvalidArgument, "scoring matrix alphabet %s does not match sequence alphabet %s",
			am.Alphabet().Name(), query.Alphabet().Name())
	}
	return variantFor(opts.Mode)
}

// forward runs the affine-gap recurrence over every cell and returns the
// start point for traceback. tb may be nil for a score-only pass.
//
// A vertical gap may only be extended from a cell that was itself entered
// vertically, and likewise for horizontal gaps; extension wins ties with
// opening in both directions. Tied candidates carry the same value and the
// gap-state bit follows the chosen direction, so the tie rule never changes
// a score or a traceback.
func forward[R residue.Residue](q, s []R, opts Options[R], v variant, tb *tracebackMatrix) startPoint {
	n, m := len(q), len(s)
	open, extend := opts.GapOpen, opts.GapExtend
	matrix := opts.Matrix

	prev := make([]float32, m+1)
	cur := make([]float32, m+1)
	vPrev := newBitVector(m + 1)
	vCur := newBitVector(m + 1)
	hCur := newBitVector(m + 1)

	for j := 1; j <= m; j++ {
		prev[j] = v.boundary(j, open, extend)
	}
	if tb != nil {
		tb.set(0, 0, terminal)
		rowDir, colDir := v.boundaryDirection(true), v.boundaryDirection(false)
		for j := 1; j <= m; j++ {
			tb.set(0, j, rowDir)
		}
		for i := 1; i <= n; i++ {
			tb.set(i, 0, colDir)
		}
	}

	var best startPoint
	for i := 1; i <= n; i++ {
		cur[0] = v.boundary(i, open, extend)
		hCur.reset()
		a := q[i-1]

		for j := 1; j <= m; j++ {
			diag := prev[j-1] + matrix.Score(a, s[j-1])

			vert := prev[j] + open
			if vPrev.get(j) {
				if ext := prev[j] + extend; ext >= vert {
					vert = ext
				}
			}

			horiz := cur[j-1] + open
			if hCur.get(j - 1) {
				if ext := cur[j-1] + extend; ext >= horiz {
					horiz = ext
				}
			}

			score, dir := v.selectBest(diag, vert, horiz)
			cur[j] = score
			vCur.set(j, dir == vertical)
			hCur.set(j, dir == horizontal)
			if tb != nil {
				tb.set(i, j, dir)
			}
			best = v.updateStartPoint(best, score, i, j)
		}

		prev, cur = cur, prev
		vPrev, vCur = vCur, vPrev
	}

	// prev holds the last row, or row 0 when the query is empty.
	return v.finalStartPoint(best, n, m, prev[m])
}
