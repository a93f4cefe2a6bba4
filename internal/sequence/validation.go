package sequence

import "fmt"

// SequenceError is the base error type for sequence operations.
type SequenceError interface {
	error
	IsSequenceError()
}

// InvalidResidueError is returned when a symbol is not part of the alphabet.
type InvalidResidueError struct {
	Position int
	Found    byte
	Alphabet string
}

func (e *InvalidResidueError) Error() string {
	return fmt.Sprintf("invalid %s residue '%c' at position %d", e.Alphabet, e.Found, e.Position)
}

func (e *InvalidResidueError) IsSequenceError() {}

// RangeError is returned when a subsequence range is out of bounds.
type RangeError struct {
	Start  int
	End    int
	Length int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range [%d, %d) out of bounds for sequence of length %d", e.Start, e.End, e.Length)
}

func (e *RangeError) IsSequenceError() {}
