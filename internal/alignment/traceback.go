package alignment

import (
	"fmt"

	"github.com/JCVenterInstitute/jillion-go/internal/residue"
)

// traceback walks tb from start until it reaches a TERMINAL cell, feeding
// the builder in end-to-start order. It returns the row and column where
// the walk stopped, which are the 0-based begin offsets of the alignment.
func traceback[R residue.Residue](tb *tracebackMatrix, q, s []R, start startPoint, b *Builder[R]) (int, int) {
	i, j := start.i, start.j
	for {
		switch d := tb.at(i, j); d {
		case terminal:
			return i, j
		case vertical:
			b.GapInSubject(q[i-1])
			i--
		case horizontal:
			b.GapInQuery(s[j-1])
			j--
		case diagonal:
			if q[i-1] == s[j-1] {
				b.Match(q[i-1])
			} else {
				b.Mismatch(q[i-1], s[j-1])
			}
			i--
			j--
		default:
			panic(fmt.Sprintf("alignment: undefined traceback %s at (%d, %d)", d, i, j))
		}
	}
}
