package alignment

import "fmt"

// direction is the traceback code of one cell.
type direction byte

const (
	terminal direction = iota
	horizontal
	vertical
	diagonal
)

func (d direction) String() string {
	switch d {
	case terminal:
		return "TERMINAL"
	case horizontal:
		return "HORIZONTAL"
	case vertical:
		return "VERTICAL"
	case diagonal:
		return "DIAGONAL"
	default:
		return fmt.Sprintf("direction(%d)", byte(d))
	}
}

// tracebackMatrix is a dense row-major grid of directions.
type tracebackMatrix struct {
	rows, cols int
	cells      []direction
}

func newTracebackMatrix(rows, cols int) *tracebackMatrix {
	return &tracebackMatrix{
		rows:  rows,
		cols:  cols,
		cells: make([]direction, rows*cols),
	}
}

func (t *tracebackMatrix) idx(i, j int) int {
	return i*t.cols + j
}

func (t *tracebackMatrix) set(i, j int, d direction) {
	t.cells[t.idx(i, j)] = d
}

func (t *tracebackMatrix) at(i, j int) direction {
	return t.cells[t.idx(i, j)]
}

// bitVector is a fixed-size set of column flags.
type bitVector []uint64

func newBitVector(n int) bitVector {
	return make(bitVector, (n+63)>>6)
}

func (b bitVector) set(i int, v bool) {
	if v {
		b[i>>6] |= 1 << (uint(i) & 63)
	} else {
		b[i>>6] &^= 1 << (uint(i) & 63)
	}
}

func (b bitVector) get(i int) bool {
	return b[i>>6]&(1<<(uint(i)&63)) != 0
}

func (b bitVector) reset() {
	for i := range b {
		b[i] = 0
	}
}
