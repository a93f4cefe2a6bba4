package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "jillion.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[alignment]
mode = "global"
alphabet = "amino-acid"
matrix = "BLOSUM62"
gap-open = -10.0

[batch]
threads = 4
kmer-size = 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "global", cfg.Alignment.Mode)
	assert.Equal(t, AlphabetAminoAcid, cfg.Alignment.Alphabet)
	assert.Equal(t, "BLOSUM62", cfg.Alignment.Matrix)
	assert.Equal(t, float32(-10), cfg.Alignment.GapOpen)
	assert.Equal(t, float32(-1), cfg.Alignment.GapExtend)
	assert.Equal(t, 4, cfg.Batch.Threads)
	assert.Equal(t, 5, cfg.Batch.KmerSize)
	assert.Equal(t, 1, cfg.Batch.MinSharedKmers)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[alignment]\ncolour = \"red\"\n"},
		{"bad mode", "[alignment]\nmode = \"semi\"\n"},
		{"bad alphabet", "[alignment]\nalphabet = \"rna\"\n"},
		{"bad identity", "[trim]\nmin-identity = 1.5\n"},
		{"bad port", "[server]\nport = 70000\n"},
		{"not toml", "[alignment\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestWriteLoad(t *testing.T) {
	cfg := Default()
	cfg.Alignment.Mode = "global"
	cfg.Batch.KmerSize = 7
	cfg.Trim.CheckReverseComplement = false

	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, Write(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestMatrix(t *testing.T) {
	a := Default().Alignment

	m, err := Matrix(a, residue.Nucleotides)
	require.NoError(t, err)
	assert.Equal(t, float32(2), m.Score('A', 'A'))
	assert.Equal(t, float32(-1), m.Score('A', 'C'))

	a.Matrix = "blosum50"
	p, err := Matrix(a, residue.AminoAcids)
	require.NoError(t, err)
	assert.Equal(t, "BLOSUM50", p.Name())

	_, err = Matrix(a, residue.Nucleotides)
	require.Error(t, err)

	a.Matrix = filepath.Join(t.TempDir(), "missing")
	_, err = Matrix(a, residue.Nucleotides)
	require.Error(t, err)
}

func TestMatrixFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple")
	require.NoError(t, os.WriteFile(path, []byte("   A  C\nA  5 -4\nC -4  5\n"), 0o644))

	a := Default().Alignment
	a.Matrix = path
	m, err := Matrix(a, residue.Nucleotides)
	require.NoError(t, err)
	assert.Equal(t, float32(5), m.Score('C', 'C'))
	assert.Equal(t, float32(-4), m.Score('A', 'C'))
}

func TestOptions(t *testing.T) {
	a := Default().Alignment
	a.Mode = "nw"
	a.MaxCells = 100
	m := alignment.Identity(residue.Nucleotides, 1, -1)

	opts, err := Options[residue.Nucleotide](a, m)
	require.NoError(t, err)
	assert.Equal(t, alignment.Global, opts.Mode)
	assert.Equal(t, int64(100), opts.MaxCells)
	assert.Equal(t, float32(-2), opts.GapOpen)

	a.Mode = "other"
	_, err = Options[residue.Nucleotide](a, m)
	require.Error(t, err)
}
