// Package config loads the TOML configuration shared by the jillion CLI and
// server.
//
// Example:
//
//	[alignment]
//	mode = "local"
//	alphabet = "nucleotide"
//	matrix = "identity"
//	match = 2.0
//	mismatch = -1.0
//	gap-open = -2.0
//	gap-extend = -1.0
//
//	[batch]
//	threads = 8
//	kmer-size = 11
//
//	[server]
//	port = 8080
package config

import (
	"os"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/trim"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Alphabet names accepted in [alignment].
const (
	AlphabetNucleotide = "nucleotide"
	AlphabetAminoAcid  = "amino-acid"
)

// MatrixIdentity selects a match/mismatch matrix built from
// [alignment].match and [alignment].mismatch.
const MatrixIdentity = "identity"

// Config is the whole configuration file.
type Config struct {
	Alignment Alignment `toml:"alignment"`
	Batch     Batch     `toml:"batch"`
	Trim      Trim      `toml:"trim"`
	Server    Server    `toml:"server"`
}

// Alignment holds scoring and mode settings.
type Alignment struct {
	Mode     string `toml:"mode"`
	Alphabet string `toml:"alphabet"`
	// Matrix is "identity", an embedded matrix name or a path to an
	// NCBI-format matrix file.
	Matrix    string  `toml:"matrix"`
	Match     float32 `toml:"match"`
	Mismatch  float32 `toml:"mismatch"`
	GapOpen   float32 `toml:"gap-open"`
	GapExtend float32 `toml:"gap-extend"`
	MaxCells  int64   `toml:"max-cells"`
}

// Batch holds settings for one-against-many alignment.
type Batch struct {
	// Threads is the number of workers, 0 for all CPUs.
	Threads int `toml:"threads"`
	// KmerSize enables the k-mer prefilter when positive.
	KmerSize       int `toml:"kmer-size"`
	MinSharedKmers int `toml:"min-shared-kmers"`
}

// Trim holds primer trimming thresholds.
type Trim struct {
	MinLength              int     `toml:"min-length"`
	MinIdentity            float64 `toml:"min-identity"`
	CheckReverseComplement bool    `toml:"check-reverse-complement"`
}

// Server holds HTTP server settings.
type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// MaxCells caps the traceback matrix of a single request.
	MaxCells int64 `toml:"max-cells"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Alignment: Alignment{
			Mode:      alignment.Local.String(),
			Alphabet:  AlphabetNucleotide,
			Matrix:    MatrixIdentity,
			Match:     2,
			Mismatch:  -1,
			GapOpen:   -2,
			GapExtend: -1,
		},
		Batch: Batch{
			MinSharedKmers: 1,
		},
		Trim: Trim{
			MinLength:              trim.DefaultMinLength,
			MinIdentity:            trim.DefaultMinIdentity,
			CheckReverseComplement: true,
		},
		Server: Server{
			Host:     "localhost",
			Port:     8080,
			MaxCells: 25_000_000,
		},
	}
}

// Load reads a configuration file over the defaults. Keys missing from the
// file keep their default values; unknown keys are an error. A leading "~"
// in the path is expanded.
func Load(file string) (*Config, error) {
	path, err := homedir.Expand(file)
	if err != nil {
		return nil, errors.Wrapf(err, "expand %s", file)
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer fh.Close()

	cfg := Default()
	if err = toml.NewDecoder(fh).DisallowUnknownFields().Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err = cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Write saves cfg as TOML.
func Write(file string, cfg *Config) error {
	path, err := homedir.Expand(file)
	if err != nil {
		return errors.Wrapf(err, "expand %s", file)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write config")
}

// Validate checks values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if _, err := alignment.ParseMode(c.Alignment.Mode); err != nil {
		return err
	}
	switch c.Alignment.Alphabet {
	case AlphabetNucleotide, AlphabetAminoAcid:
	default:
		return errors.Errorf("unknown alphabet %q", c.Alignment.Alphabet)
	}
	if c.Alignment.Matrix == "" {
		return errors.New("alignment matrix must be set")
	}
	if c.Alignment.MaxCells < 0 {
		return errors.New("alignment max-cells must be >= 0")
	}
	if c.Batch.Threads < 0 {
		return errors.New("batch threads must be >= 0")
	}
	if c.Batch.KmerSize < 0 {
		return errors.New("batch kmer-size must be >= 0")
	}
	if c.Batch.KmerSize > 0 && c.Batch.MinSharedKmers < 1 {
		return errors.New("batch min-shared-kmers must be >= 1")
	}
	if c.Trim.MinLength < 0 {
		return errors.New("trim min-length must be >= 0")
	}
	if c.Trim.MinIdentity < 0 || c.Trim.MinIdentity > 1 {
		return errors.New("trim min-identity must be in [0, 1]")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxCells < 0 {
		return errors.New("server max-cells must be >= 0")
	}
	return nil
}

// Matrix loads the scoring matrix named by [alignment].matrix for the
// given alphabet: "identity", an embedded matrix, or a matrix file.
func Matrix[R residue.Residue](a Alignment, alphabet *residue.Alphabet[R]) (*alignment.SubstitutionMatrix[R], error) {
	if a.Matrix == MatrixIdentity {
		return alignment.Identity(alphabet, a.Match, a.Mismatch), nil
	}
	if _, err := alignment.MatrixText(a.Matrix); err == nil {
		return alignment.NamedMatrix(alphabet, a.Matrix)
	}

	path, err := homedir.Expand(a.Matrix)
	if err != nil {
		return nil, errors.Wrapf(err, "expand %s", a.Matrix)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open matrix")
	}
	defer fh.Close()
	return alignment.ParseMatrix(alphabet, path, fh)
}

// Options builds engine options from [alignment] and a loaded matrix.
func Options[R residue.Residue](a Alignment, matrix alignment.ScoringMatrix[R]) (alignment.Options[R], error) {
	mode, err := alignment.ParseMode(a.Mode)
	if err != nil {
		return alignment.Options[R]{}, err
	}
	return alignment.Options[R]{
		Matrix:    matrix,
		GapOpen:   a.GapOpen,
		GapExtend: a.GapExtend,
		Mode:      mode,
		MaxCells:  a.MaxCells,
	}, nil
}
