// Package alignment provides pairwise sequence alignment.
//
// It implements Gotoh's affine-gap dynamic programming for global
// (Needleman-Wunsch) and local (Smith-Waterman) alignment over any residue
// alphabet. The forward pass keeps two score rows and a one-byte-per-cell
// traceback matrix; the traceback walks that matrix back from the start
// point chosen by the alignment mode.
package alignment

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/pkg/errors"
)

// ScoringMatrix scores the substitution of one residue for another. It must
// be total over the residues of its alphabet and safe for concurrent reads.
type ScoringMatrix[R residue.Residue] interface {
	Score(a, b R) float32
}

// SubstitutionMatrix is a dense ScoringMatrix indexed by alphabet ordinals.
// It is immutable once built.
type SubstitutionMatrix[R residue.Residue] struct {
	name     string
	alphabet *residue.Alphabet[R]
	size     int
	scores   []float32
}

func newSubstitutionMatrix[R residue.Residue](name string, alphabet *residue.Alphabet[R], fill float32) *SubstitutionMatrix[R] {
	size := alphabet.Len() + 1
	scores := make([]float32, size*size)
	for i := range scores {
		scores[i] = fill
	}
	return &SubstitutionMatrix[R]{
		name:     name,
		alphabet: alphabet,
		size:     size,
		scores:   scores,
	}
}

func (m *SubstitutionMatrix[R]) idx(a, b R) int {
	return m.alphabet.Ordinal(a)*m.size + m.alphabet.Ordinal(b)
}

func (m *SubstitutionMatrix[R]) set(a, b R, score float32) {
	m.scores[m.idx(a, b)] = score
}

// Score returns the score of aligning a against b.
func (m *SubstitutionMatrix[R]) Score(a, b R) float32 {
	return m.scores[m.idx(a, b)]
}

// Name returns the matrix name.
func (m *SubstitutionMatrix[R]) Name() string {
	return m.name
}

// Alphabet returns the alphabet the matrix is indexed by.
func (m *SubstitutionMatrix[R]) Alphabet() *residue.Alphabet[R] {
	return m.alphabet
}

// Table returns the residues in ordinal order and the scores between them,
// row-major.
func (m *SubstitutionMatrix[R]) Table() ([]R, [][]float32) {
	rs := m.alphabet.Residues()
	rows := make([][]float32, len(rs))
	for i, a := range rs {
		rows[i] = make([]float32, len(rs))
		for j, b := range rs {
			rows[i][j] = m.Score(a, b)
		}
	}
	return rs, rows
}

func (m *SubstitutionMatrix[R]) String() string {
	return fmt.Sprintf("SubstitutionMatrix{name: %s, alphabet: %s}", m.name, m.alphabet.Name())
}

// Identity returns a matrix scoring identical residues with match and every
// other pair with mismatch.
func Identity[R residue.Residue](alphabet *residue.Alphabet[R], match, mismatch float32) *SubstitutionMatrix[R] {
	m := newSubstitutionMatrix("identity", alphabet, mismatch)
	for _, r := range alphabet.Residues() {
		m.set(r, r, match)
	}
	return m
}

// ParseMatrix reads a matrix in NCBI format: '#' comment lines, a header of
// column residues, then one row per residue starting with its symbol.
// Residues of the alphabet the file does not mention score the lowest
// value found in the file.
func ParseMatrix[R residue.Residue](alphabet *residue.Alphabet[R], name string, r io.Reader) (*SubstitutionMatrix[R], error) {
	type entry struct {
		a, b  R
		score float32
	}

	var (
		columns []R
		entries []entry
		lowest  float32
		lineNum int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		if columns == nil {
			columns = make([]R, len(fields))
			for i, f := range fields {
				c, err := parseSymbol(alphabet, f)
				if err != nil {
					return nil, errors.Wrapf(err, "matrix %s: line %d", name, lineNum)
				}
				columns[i] = c
			}
			continue
		}

		if len(fields) != len(columns)+1 {
			return nil, errors.Errorf("matrix %s: line %d: expected %d scores, got %d",
				name, lineNum, len(columns), len(fields)-1)
		}
		row, err := parseSymbol(alphabet, fields[0])
		if err != nil {
			return nil, errors.Wrapf(err, "matrix %s: line %d", name, lineNum)
		}
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "matrix %s: line %d", name, lineNum)
			}
			score := float32(v)
			if len(entries) == 0 || score < lowest {
				lowest = score
			}
			entries = append(entries, entry{a: row, b: columns[i], score: score})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "matrix %s", name)
	}
	if len(entries) == 0 {
		return nil, errors.Errorf("matrix %s: no scores found", name)
	}

	m := newSubstitutionMatrix(name, alphabet, lowest)
	for _, e := range entries {
		m.set(e.a, e.b, e.score)
	}
	return m, nil
}

func parseSymbol[R residue.Residue](alphabet *residue.Alphabet[R], f string) (R, error) {
	if len(f) != 1 {
		return 0, errors.Errorf("invalid residue symbol %q", f)
	}
	r, ok := alphabet.Parse(f[0])
	if !ok || alphabet.IsGap(r) {
		return 0, errors.Errorf("residue %q is not part of the %s alphabet", f, alphabet.Name())
	}
	return r, nil
}

//go:embed matrices
var matrixFS embed.FS

// MatrixInfo describes an embedded matrix.
type MatrixInfo struct {
	Name     string `json:"name"`
	Alphabet string `json:"alphabet"`
}

var embeddedMatrices = map[string]string{
	"BLOSUM50": residue.AminoAcids.Name(),
	"BLOSUM62": residue.AminoAcids.Name(),
	"NUC.4.4":  residue.Nucleotides.Name(),
}

// Matrices lists the embedded matrices sorted by name.
func Matrices() []MatrixInfo {
	infos := make([]MatrixInfo, 0, len(embeddedMatrices))
	for name, alphabet := range embeddedMatrices {
		infos = append(infos, MatrixInfo{Name: name, Alphabet: alphabet})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func lookupMatrix(name string) (string, string, bool) {
	for n, alphabet := range embeddedMatrices {
		if strings.EqualFold(n, name) {
			return n, alphabet, true
		}
	}
	return "", "", false
}

// MatrixText returns the NCBI text of an embedded matrix.
func MatrixText(name string) (string, error) {
	canonical, _, ok := lookupMatrix(name)
	if !ok {
		return "", errors.Errorf("unknown matrix: %s", name)
	}
	data, err := matrixFS.ReadFile(path.Join("matrices", canonical))
	if err != nil {
		return "", errors.Wrapf(err, "read matrix %s", canonical)
	}
	return string(data), nil
}

// NamedMatrix parses an embedded matrix. Names are case-insensitive. The
// matrix must belong to the given alphabet.
func NamedMatrix[R residue.Residue](alphabet *residue.Alphabet[R], name string) (*SubstitutionMatrix[R], error) {
	canonical, alphabetName, ok := lookupMatrix(name)
	if !ok {
		return nil, errors.Errorf("unknown matrix: %s", name)
	}
	if alphabetName != alphabet.Name() {
		return nil, errors.Errorf("matrix %s scores %s residues, not %s", canonical, alphabetName, alphabet.Name())
	}
	text, err := MatrixText(canonical)
	if err != nil {
		return nil, err
	}
	return ParseMatrix(alphabet, canonical, strings.NewReader(text))
}
