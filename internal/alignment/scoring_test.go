package alignment

import (
	"strings"
	"testing"

	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityMatrix(t *testing.T) {
	m := Identity(residue.Nucleotides, 2, -1)
	assert.Equal(t, "identity", m.Name())
	assert.Equal(t, float32(2), m.Score('A', 'A'))
	assert.Equal(t, float32(2), m.Score('N', 'N'))
	assert.Equal(t, float32(-1), m.Score('A', 'C'))
	assert.Equal(t, float32(-1), m.Score('G', 'T'))
}

func TestParseMatrix(t *testing.T) {
	text := `# tiny matrix
   A  C
A  3 -2
C -2  4
`
	m, err := ParseMatrix(residue.Nucleotides, "tiny", strings.NewReader(text))
	require.NoError(t, err)

	assert.Equal(t, float32(3), m.Score('A', 'A'))
	assert.Equal(t, float32(4), m.Score('C', 'C'))
	assert.Equal(t, float32(-2), m.Score('A', 'C'))
	// residues missing from the file take the lowest score
	assert.Equal(t, float32(-2), m.Score('G', 'G'))
	assert.Equal(t, float32(-2), m.Score('A', 'T'))
}

func TestParseMatrixErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"multi-char symbol", "  AB C\nA 1 2\n"},
		{"unknown residue", "  A J\nA 1 2\nJ 2 1\n"},
		{"short row", "  A C\nA 1\n"},
		{"bad number", "  A C\nA 1 x\n"},
		{"no scores", "# nothing here\n"},
		{"gap symbol", "  A -\nA 1 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMatrix(residue.Nucleotides, tt.name, strings.NewReader(tt.text))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.name)
		})
	}
}

func TestNamedMatrix(t *testing.T) {
	tests := []struct {
		matrix string
		a, b   residue.AminoAcid
		want   float32
	}{
		{"BLOSUM50", 'W', 'W', 15},
		{"BLOSUM50", 'A', 'R', -2},
		{"BLOSUM50", 'H', 'H', 10},
		{"blosum62", 'W', 'W', 11},
		{"BLOSUM62", 'A', 'A', 4},
		{"BLOSUM62", '*', 'A', -4},
	}

	for _, tt := range tests {
		t.Run(tt.matrix+"/"+tt.a.String()+tt.b.String(), func(t *testing.T) {
			m, err := NamedMatrix(residue.AminoAcids, tt.matrix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Score(tt.a, tt.b))
			assert.Equal(t, m.Score(tt.a, tt.b), m.Score(tt.b, tt.a))
		})
	}

	nuc, err := NamedMatrix(residue.Nucleotides, "NUC.4.4")
	require.NoError(t, err)
	assert.Equal(t, float32(5), nuc.Score('A', 'A'))
	assert.Equal(t, float32(-4), nuc.Score('A', 'T'))
	assert.Equal(t, float32(-1), nuc.Score('N', 'N'))
	assert.Same(t, residue.Nucleotides, nuc.Alphabet())
}

func TestNamedMatrixErrors(t *testing.T) {
	_, err := NamedMatrix(residue.Nucleotides, "BLOSUM62")
	require.Error(t, err)

	_, err = NamedMatrix(residue.AminoAcids, "PAM250")
	require.Error(t, err)

	_, err = MatrixText("PAM250")
	require.Error(t, err)
}

func TestMatrices(t *testing.T) {
	infos := Matrices()
	require.Len(t, infos, 3)
	assert.Equal(t, MatrixInfo{Name: "BLOSUM50", Alphabet: "amino-acid"}, infos[0])
	assert.Equal(t, MatrixInfo{Name: "BLOSUM62", Alphabet: "amino-acid"}, infos[1])
	assert.Equal(t, MatrixInfo{Name: "NUC.4.4", Alphabet: "nucleotide"}, infos[2])

	text, err := MatrixText("nuc.4.4")
	require.NoError(t, err)
	assert.Contains(t, text, "Todd Lowe")
}

func TestMatrixTable(t *testing.T) {
	m, err := NamedMatrix(residue.AminoAcids, "BLOSUM62")
	require.NoError(t, err)

	rs, rows := m.Table()
	require.Len(t, rs, residue.AminoAcids.Len())
	require.Len(t, rows, len(rs))

	w := residue.AminoAcids.Ordinal('W')
	assert.Equal(t, residue.AminoAcid('W'), rs[w])
	assert.Equal(t, float32(11), rows[w][w])
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"local", Local, false},
		{"GLOBAL", Global, false},
		{"nw", Global, false},
		{"smith-waterman", Local, false},
		{"semi-global", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.ToLower(got.String()), got.String())
		})
	}
}
