package cli

import (
	"io"
	"os"
	"time"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/JCVenterInstitute/jillion-go/internal/config"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Align every query sequence against every subject sequence",
	Long: `Align every query sequence against every subject sequence

Sequences come from files (-q/--query, -s/--subject) or are given directly
(--query-seq, --subject-seq). Input gaps are ignored; reported positions
refer to the ungapped sequences.

Output formats (-f/--format):
  text  pairwise view with score, identity and CIGAR
  tsv   one line per pair, 1-based inclusive positions
  json  one JSON object per line

CIGAR operations: M match, X mismatch, I gap in the query, D gap in the
subject.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		timeStart := time.Now()

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		defer func() {
			if opt.Verbose || opt.Log2File {
				log.Infof("elapsed time: %s", time.Since(timeStart))
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		a := opt.Config.Alignment
		applyAlignmentFlags(cmd, &a)

		p := alignParams{
			queryFile:      getFlagString(cmd, "query"),
			subjectFile:    getFlagString(cmd, "subject"),
			queryLiteral:   getFlagString(cmd, "query-seq"),
			subjectLiteral: getFlagString(cmd, "subject-seq"),
			format:         getFlagString(cmd, "format"),
			width:          getFlagPositiveInt(cmd, "line-width"),
		}

		outFile := getFlagString(cmd, "out-file")
		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer func() {
			outfh.Flush()
			checkError(outfh.Close())
		}()

		var n int
		switch a.Alphabet {
		case config.AlphabetNucleotide:
			n, err = runAlign(residue.Nucleotides, a, p, outfh)
		case config.AlphabetAminoAcid:
			n, err = runAlign(residue.AminoAcids, a, p, outfh)
		default:
			err = errors.Errorf("unknown alphabet: %s", a.Alphabet)
		}
		checkError(err)

		if opt.Verbose || opt.Log2File {
			log.Infof("%d %s alignment(s) written to %s", n, a.Mode, outFile)
		}
	},
}

type alignParams struct {
	queryFile, subjectFile       string
	queryLiteral, subjectLiteral string
	format                       string
	width                        int
}

// runAlign aligns all query/subject pairs and returns the number of
// alignments written.
func runAlign[R residue.Residue](alphabet *residue.Alphabet[R], a config.Alignment, p alignParams, w io.Writer) (int, error) {
	opts, err := alignmentOptions(a, alphabet)
	if err != nil {
		return 0, err
	}
	hw, err := newHitWriter(w, p.format, p.width)
	if err != nil {
		return 0, err
	}

	queries, err := readSequences(alphabet, p.queryFile, p.queryLiteral, "query")
	if err != nil {
		return 0, err
	}
	subjects, err := readSequences(alphabet, p.subjectFile, p.subjectLiteral, "subject")
	if err != nil {
		return 0, err
	}

	n := 0
	for i, q := range queries {
		for j, s := range subjects {
			result, err := alignment.Align(q, s, opts)
			if err != nil {
				return n, errors.Wrapf(err, "align %s against %s", seqName(q, i), seqName(s, j))
			}
			if err = writeHit(hw, seqName(q, i), seqName(s, j), result); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func init() {
	RootCmd.AddCommand(alignCmd)

	alignCmd.Flags().StringP("query", "q", "",
		formatFlagUsage(`Query FASTA/FASTQ file ("-" for stdin).`))
	alignCmd.Flags().StringP("subject", "s", "",
		formatFlagUsage(`Subject FASTA/FASTQ file.`))
	alignCmd.Flags().StringP("query-seq", "", "",
		formatFlagUsage(`Query sequence, instead of -q/--query.`))
	alignCmd.Flags().StringP("subject-seq", "", "",
		formatFlagUsage(`Subject sequence, instead of -s/--subject.`))
	alignCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))
	alignCmd.Flags().StringP("format", "f", formatText,
		formatFlagUsage(`Output format: text, tsv or json.`))
	alignCmd.Flags().IntP("line-width", "w", 60,
		formatFlagUsage(`Residues per line in text output.`))

	addAlignmentFlags(alignCmd)

	alignCmd.SetUsageTemplate(usageTemplate(""))
}
