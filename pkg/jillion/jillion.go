// Package jillion provides a high-level API for pairwise sequence
// alignment.
//
// This package exposes the core jillion functionality for nucleotide and
// protein sequences: Needleman-Wunsch and Smith-Waterman alignment with
// affine gap penalties, one-against-many search, primer trimming and
// FASTA/FASTQ input.
//
// Example usage:
//
//	query, err := jillion.NewProtein("PAWHEAE")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	subject, _ := jillion.NewProtein("HEAGAWGHEE")
//
//	aln, err := jillion.AlignProtein(query, subject, "BLOSUM50", -8, -6, jillion.Local)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(aln.Format(60))
package jillion

import (
	"context"
	"fmt"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/JCVenterInstitute/jillion-go/internal/config"
	"github.com/JCVenterInstitute/jillion-go/internal/kmer"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/seqio"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/JCVenterInstitute/jillion-go/internal/stats"
	"github.com/JCVenterInstitute/jillion-go/internal/trim"
)

const version = "0.3.0"

// Re-export types for convenience
type (
	DNA              = sequence.Sequence[residue.Nucleotide]
	Protein          = sequence.Sequence[residue.AminoAcid]
	DNAAlignment     = alignment.Alignment[residue.Nucleotide]
	ProteinAlignment = alignment.Alignment[residue.AminoAcid]
	DNAHit           = alignment.IndexedAlignment[residue.Nucleotide]
	ProteinHit       = alignment.IndexedAlignment[residue.AminoAcid]
	Summary          = alignment.Summary
	Mode             = alignment.Mode
	KMerCounter      = kmer.Counter
	KMerCount        = kmer.KMerCount
	SequenceStats    = stats.SequenceSetStats
	AlignmentStats   = stats.AlignmentSetStats
	TrimResult       = trim.Result
	Config           = config.Config
)

// Alignment modes
const (
	Local  = alignment.Local
	Global = alignment.Global
)

// Errors returned by the aligner.
var (
	ErrInvalidArgument = alignment.ErrInvalidArgument
	ErrMatrixTooLarge  = alignment.ErrMatrixTooLarge
)

// NewDNA creates a nucleotide sequence. Gaps are kept.
func NewDNA(s string) (*DNA, error) {
	return sequence.NewNucleotide(s)
}

// NewProtein creates an amino acid sequence. Gaps are kept.
func NewProtein(s string) (*Protein, error) {
	return sequence.NewAminoAcid(s)
}

// AlignDNA aligns two nucleotide sequences scoring matches +2, mismatches
// -1, gap open -2 and gap extension -1.
func AlignDNA(query, subject *DNA, mode Mode) (*DNAAlignment, error) {
	opts, err := dnaOptions(mode)
	if err != nil {
		return nil, err
	}
	return alignment.Align(query, subject, opts)
}

// AlignProtein aligns two amino acid sequences with an embedded matrix,
// e.g. "BLOSUM62".
func AlignProtein(query, subject *Protein, matrix string, open, extend float32, mode Mode) (*ProteinAlignment, error) {
	m, err := alignment.NamedMatrix(residue.AminoAcids, matrix)
	if err != nil {
		return nil, err
	}
	return alignment.Align(query, subject, alignment.Options[residue.AminoAcid]{
		Matrix: m, GapOpen: open, GapExtend: extend, Mode: mode,
	})
}

// AlignDNAWithConfig aligns two nucleotide sequences with the [alignment]
// settings of cfg.
func AlignDNAWithConfig(query, subject *DNA, cfg *Config) (*DNAAlignment, error) {
	matrix, err := config.Matrix(cfg.Alignment, residue.Nucleotides)
	if err != nil {
		return nil, err
	}
	opts, err := config.Options[residue.Nucleotide](cfg.Alignment, matrix)
	if err != nil {
		return nil, err
	}
	return alignment.Align(query, subject, opts)
}

// SearchDNA aligns query against every subject on threads workers and
// returns the aligned hits, best first.
func SearchDNA(ctx context.Context, query *DNA, subjects []*DNA, mode Mode, threads int) ([]DNAHit, error) {
	opts, err := dnaOptions(mode)
	if err != nil {
		return nil, err
	}
	results, err := alignment.AlignAll(ctx, query, subjects, opts, threads)
	if err != nil {
		return nil, err
	}
	return alignment.Rank(results), nil
}

func dnaOptions(mode Mode) (alignment.Options[residue.Nucleotide], error) {
	a := config.Default().Alignment
	a.Mode = mode.String()
	return config.Options[residue.Nucleotide](a, alignment.Identity(residue.Nucleotides, a.Match, a.Mismatch))
}

// TrimPrimers finds primers in read with the default thresholds, checking
// both strands.
func TrimPrimers(read *DNA, primers []*DNA) (TrimResult, error) {
	t := trim.NewPrimerTrimmer(trim.DefaultMinLength, trim.DefaultMinIdentity, true)
	return t.Trim(read, primers)
}

// ReverseComplement returns the reverse complement of s.
func ReverseComplement(s *DNA) *DNA {
	return sequence.ReverseComplement(s)
}

// GCContent returns the GC fraction of s, ignoring gaps.
func GCContent(s *DNA) float64 {
	return sequence.GCContent(s)
}

// CountKMers counts k-mers in a sequence.
func CountKMers(seq *DNA, k int) (*KMerCounter, error) {
	return kmer.CountKMers(seq, k)
}

// KMerDistance calculates the Jaccard distance between two sequences.
func KMerDistance(seq1, seq2 *DNA, k int) (float64, error) {
	return kmer.JaccardDistance(seq1, seq2, k)
}

// SequenceSetStats calculates length statistics of sequences.
func SequenceSetStats(sequences []*DNA) (*SequenceStats, error) {
	return stats.FromSequences(sequences)
}

// ReadDNA reads nucleotide sequences from a FASTA or FASTQ file, plain or
// compressed.
func ReadDNA(file string) ([]*DNA, error) {
	return seqio.ReadNucleotides(file)
}

// ReadProtein reads amino acid sequences from a FASTA or FASTQ file.
func ReadProtein(file string) ([]*Protein, error) {
	return seqio.ReadAminoAcids(file)
}

// WriteDNA writes sequences to a FASTA file; a ".gz" suffix compresses it.
func WriteDNA(file string, sequences []*DNA) error {
	return seqio.WriteFASTA(file, sequences)
}

// LoadConfig reads a TOML configuration file over the defaults.
func LoadConfig(file string) (*Config, error) {
	return config.Load(file)
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// Version returns the jillion version.
func Version() string {
	return version
}

// Info returns information about jillion.
func Info() string {
	return fmt.Sprintf(`jillion v%s
Pairwise sequence alignment with affine gap penalties.

Features:
  - Needleman-Wunsch global and Smith-Waterman local alignment
  - Identity, BLOSUM and NUC.4.4 scoring matrices
  - Parallel one-against-many search with a k-mer prefilter
  - Primer detection and trimming
  - FASTA/FASTQ input, plain or compressed
`, Version())
}
