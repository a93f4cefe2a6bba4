// Package seqio reads and writes sequence files.
//
// FASTA and FASTQ input is parsed by fastx, so plain and compressed files
// (gzip, xz, zstd, bzip2) and "-" for stdin all work. Residues are checked
// against our own alphabets, not fastx's.
package seqio

import (
	"io"
	"strings"

	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
)

func init() {
	seq.ValidateSeq = false
}

// ReadNucleotides reads every record of a FASTA/FASTQ file as a nucleotide
// sequence.
func ReadNucleotides(file string) ([]*sequence.Sequence[residue.Nucleotide], error) {
	return Read(residue.Nucleotides, file)
}

// ReadAminoAcids reads every record of a FASTA/FASTQ file as an amino acid
// sequence.
func ReadAminoAcids(file string) ([]*sequence.Sequence[residue.AminoAcid], error) {
	return Read(residue.AminoAcids, file)
}

// Read reads every record of a FASTA/FASTQ file. Quality lines of FASTQ
// records are dropped.
func Read[R residue.Residue](alphabet *residue.Alphabet[R], file string) ([]*sequence.Sequence[R], error) {
	var sequences []*sequence.Sequence[R]
	err := Each(alphabet, file, func(s *sequence.Sequence[R]) error {
		sequences = append(sequences, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sequences, nil
}

// Each calls fn for every record of file, in order. It stops at the first
// error returned by fn.
func Each[R residue.Residue](alphabet *residue.Alphabet[R], file string, fn func(*sequence.Sequence[R]) error) error {
	fastxReader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return errors.Wrapf(err, "read %s", file)
	}
	defer fastxReader.Close()

	var record *fastx.Record
	n := 0
	for {
		record, err = fastxReader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return errors.Wrapf(err, "read %s", file)
		}
		n++

		s, err := sequence.New(alphabet, string(record.Seq.Seq))
		if err != nil {
			return errors.Wrapf(err, "%s: record %d (%s)", file, n, record.ID)
		}
		id := string(record.ID)
		desc := strings.TrimSpace(strings.TrimPrefix(string(record.Name), id))

		if err = fn(s.WithID(id, desc)); err != nil {
			return err
		}
	}
	return nil
}

// WriteFASTA writes sequences to file in FASTA format. The output is
// compressed when the file name ends with a compression extension; "-"
// writes to stdout.
func WriteFASTA[R residue.Residue](file string, sequences []*sequence.Sequence[R]) error {
	outfh, err := xopen.Wopen(file)
	if err != nil {
		return errors.Wrapf(err, "write %s", file)
	}

	for _, s := range sequences {
		if _, err = outfh.WriteString(s.ToFASTA()); err != nil {
			outfh.Close()
			return errors.Wrapf(err, "write %s", file)
		}
	}

	outfh.Flush()
	return errors.Wrapf(outfh.Close(), "close %s", file)
}
