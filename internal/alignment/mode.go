package alignment

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode selects the alignment variant.
type Mode int

const (
	// Local is Smith-Waterman local alignment.
	Local Mode = iota
	// Global is Needleman-Wunsch global alignment.
	Global
)

func (m Mode) String() string {
	switch m {
	case Local:
		return "local"
	case Global:
		return "global"
	default:
		return "unknown"
	}
}

// ParseMode converts "local" or "global" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "local", "smith-waterman", "sw":
		return Local, nil
	case "global", "needleman-wunsch", "nw":
		return Global, nil
	default:
		return 0, errors.Errorf("unknown alignment mode: %s", s)
	}
}

// startPoint is the cell traceback begins from.
type startPoint struct {
	i, j  int
	score float32
}

// variant holds the behaviors that differ between alignment modes.
type variant interface {
	// boundary returns the score of row 0 or column 0 at index k >= 1.
	boundary(k int, open, extend float32) float32
	// boundaryDirection returns the traceback code of row 0 (horizontal
	// edge) or column 0.
	boundaryDirection(row bool) direction
	// selectBest picks the winning candidate of a cell.
	selectBest(diag, vert, horiz float32) (float32, direction)
	// updateStartPoint folds an interior cell into the running start point.
	updateStartPoint(best startPoint, score float32, i, j int) startPoint
	// finalStartPoint returns where traceback begins once the pass is done.
	finalStartPoint(best startPoint, n, m int, corner float32) startPoint
}

func variantFor(m Mode) (variant, error) {
	switch m {
	case Global:
		return globalVariant{}, nil
	case Local:
		return localVariant{}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidArgument, "alignment mode %d", int(m))
	}
}

// globalVariant charges leading gaps and always starts from the corner.
type globalVariant struct{}

func (globalVariant) boundary(k int, open, extend float32) float32 {
	return open + float32(k-1)*extend
}

func (globalVariant) boundaryDirection(row bool) direction {
	if row {
		return horizontal
	}
	return vertical
}

// Ties go to the diagonal, then the vertical gap.
func (globalVariant) selectBest(diag, vert, horiz float32) (float32, direction) {
	best, dir := diag, diagonal
	if vert > best {
		best, dir = vert, vertical
	}
	if horiz > best {
		best, dir = horiz, horizontal
	}
	return best, dir
}

func (globalVariant) updateStartPoint(best startPoint, _ float32, _, _ int) startPoint {
	return best
}

func (globalVariant) finalStartPoint(_ startPoint, n, m int, corner float32) startPoint {
	return startPoint{i: n, j: m, score: corner}
}

// localVariant floors every cell at zero and tracks the best cell seen.
type localVariant struct{}

func (localVariant) boundary(int, float32, float32) float32 {
	return 0
}

func (localVariant) boundaryDirection(bool) direction {
	return terminal
}

func (localVariant) selectBest(diag, vert, horiz float32) (float32, direction) {
	var best float32
	dir := terminal
	if diag > best {
		best, dir = diag, diagonal
	}
	if vert > best {
		best, dir = vert, vertical
	}
	if horiz > best {
		best, dir = horiz, horizontal
	}
	return best, dir
}

// Later cells win ties.
func (localVariant) updateStartPoint(best startPoint, score float32, i, j int) startPoint {
	if score >= best.score {
		return startPoint{i: i, j: j, score: score}
	}
	return best
}

func (localVariant) finalStartPoint(best startPoint, _, _ int, _ float32) startPoint {
	return best
}
