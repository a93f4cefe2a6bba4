package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/seqio"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/JCVenterInstitute/jillion-go/internal/trim"
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Clip primer sequence from nucleotide reads",
	Long: `Clip primer sequence from nucleotide reads

Every primer, and its reverse complement unless --forward-only is given, is
local-aligned against each read. Alignments at least --min-length columns
long with an identity of at least --min-identity are primer hits. The output
holds, for every read, the longest stretch not covered by any hit.

Scoring: match +2, mismatch -1, gap open -2, gap extension -1.

Hit table columns (--hits-file), 1-based inclusive positions:
  read, primer, strand, start, end, pident, score
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

		tc := opt.Config.Trim
		if cmd.Flags().Changed("min-length") {
			tc.MinLength = getFlagNonNegativeInt(cmd, "min-length")
		}
		if cmd.Flags().Changed("min-identity") {
			tc.MinIdentity = getFlagFloat64(cmd, "min-identity")
		}
		if getFlagBool(cmd, "forward-only") {
			tc.CheckReverseComplement = false
		}

		p := trimParams{
			readsFile:   getFlagString(cmd, "reads"),
			primersFile: getFlagString(cmd, "primers"),
			outFile:     getFlagString(cmd, "out-file"),
			hitsFile:    getFlagString(cmd, "hits-file"),
			minClear:    getFlagNonNegativeInt(cmd, "min-clear-length"),
		}
		if p.primersFile == "" {
			checkError(errors.New("flag -p/--primers needed"))
		}

		trimmer := trim.NewPrimerTrimmer(tc.MinLength, tc.MinIdentity, tc.CheckReverseComplement)
		report, err := runTrim(trimmer, p)
		checkError(err)

		if opt.Verbose || opt.Log2File {
			log.Infof("%d read(s): %d with primer hits, %d hit(s) in total, %d dropped as too short",
				report.reads, report.withHits, report.hits, report.dropped)
		}
	},
}

type trimParams struct {
	readsFile, primersFile string
	outFile, hitsFile      string
	minClear               int
}

type trimReport struct {
	reads, withHits, hits, dropped int
}

// runTrim trims every read and writes the clear ranges as FASTA, plus the
// hit table when p.hitsFile is set.
func runTrim(trimmer *trim.PrimerTrimmer, p trimParams) (*trimReport, error) {
	primers, err := seqio.ReadNucleotides(p.primersFile)
	if err != nil {
		return nil, err
	}
	if len(primers) == 0 {
		return nil, errors.Errorf("no primers in %s", p.primersFile)
	}

	var hitsfh *xopen.Writer
	if p.hitsFile != "" {
		hitsfh, err = xopen.Wopen(p.hitsFile)
		if err != nil {
			return nil, errors.Wrapf(err, "write %s", p.hitsFile)
		}
		defer func() {
			hitsfh.Flush()
			hitsfh.Close()
		}()
	}

	report := &trimReport{}
	var trimmed []*sequence.Sequence[residue.Nucleotide]
	err = seqio.Each(residue.Nucleotides, p.readsFile, func(read *sequence.Sequence[residue.Nucleotide]) error {
		report.reads++
		name := seqName(read, report.reads-1)

		result, err := trimmer.Trim(read, primers)
		if err != nil {
			return errors.Wrapf(err, "trim %s", name)
		}
		if len(result.Hits) > 0 {
			report.withHits++
			report.hits += len(result.Hits)
		}
		if hitsfh != nil {
			if err = writeTrimHits(hitsfh, name, result); err != nil {
				return err
			}
		}

		if result.ClearRange.Len() < p.minClear {
			report.dropped++
			return nil
		}
		kept, err := read.Ungapped().Subsequence(result.ClearRange.Begin, result.ClearRange.End)
		if err != nil {
			return errors.Wrapf(err, "trim %s", name)
		}
		trimmed = append(trimmed, kept.WithID(read.ID, read.Description))
		return nil
	})
	if err != nil {
		return report, err
	}

	return report, seqio.WriteFASTA(p.outFile, trimmed)
}

func writeTrimHits(w io.Writer, read string, result trim.Result) error {
	for _, h := range result.Hits {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.3f\t%g\n",
			read, h.Primer.ID, h.Range.Strand, h.Range.Begin+1, h.Range.End,
			h.Alignment.PercentIdentity(), h.Alignment.Score())
		if err != nil {
			return err
		}
	}
	return nil
}

func init() {
	RootCmd.AddCommand(trimCmd)

	trimCmd.Flags().StringP("reads", "r", "-",
		formatFlagUsage(`Read FASTA/FASTQ file ("-" for stdin).`))
	trimCmd.Flags().StringP("primers", "p", "",
		formatFlagUsage(`Primer FASTA file.`))
	trimCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out FASTA file of trimmed reads, supports a ".gz" suffix ("-" for stdout).`))
	trimCmd.Flags().StringP("hits-file", "", "",
		formatFlagUsage(`Write primer hits to this tab-delimited file.`))
	trimCmd.Flags().IntP("min-length", "l", trim.DefaultMinLength,
		formatFlagUsage(`Minimum alignment length of a primer hit.`))
	trimCmd.Flags().Float64P("min-identity", "i", trim.DefaultMinIdentity,
		formatFlagUsage(`Minimum identity (0-1) of a primer hit.`))
	trimCmd.Flags().BoolP("forward-only", "", false,
		formatFlagUsage(`Do not search for reverse complemented primers.`))
	trimCmd.Flags().IntP("min-clear-length", "", 0,
		formatFlagUsage(`Drop reads whose trimmed length is shorter than this.`))

	trimCmd.SetUsageTemplate(usageTemplate(""))
}
