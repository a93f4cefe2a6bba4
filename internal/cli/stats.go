package cli

import (
	"fmt"
	"io"

	"github.com/JCVenterInstitute/jillion-go/internal/config"
	"github.com/JCVenterInstitute/jillion-go/internal/kmer"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/seqio"
	"github.com/JCVenterInstitute/jillion-go/internal/stats"
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file...]",
	Short: "Summarize sequence files",
	Long: `Summarize sequence files

Output columns (tab-delimited), lengths exclude gaps:
  file, num_seqs, sum_len, min_len, avg_len, median_len, max_len, N50, gc
gc is the mean GC content in percent, "-" for amino acid input.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		alphabet := opt.Config.Alignment.Alphabet
		if cmd.Flags().Changed("alphabet") {
			alphabet = getFlagString(cmd, "alphabet")
		}
		files := args
		if len(files) == 0 {
			files = []string{"-"}
		}

		outfh, err := xopen.Wopen(getFlagString(cmd, "out-file"))
		checkError(err)
		defer func() {
			outfh.Flush()
			checkError(outfh.Close())
		}()

		checkError(writeStats(outfh, alphabet, files))
	},
}

func writeStats(w io.Writer, alphabet string, files []string) error {
	fmt.Fprintf(w, "file\tnum_seqs\tsum_len\tmin_len\tavg_len\tmedian_len\tmax_len\tN50\tgc\n")
	for _, file := range files {
		var (
			s  *stats.SequenceSetStats
			gc = "-"
		)
		switch alphabet {
		case config.AlphabetNucleotide:
			seqs, err := seqio.ReadNucleotides(file)
			if err != nil {
				return err
			}
			if len(seqs) > 0 {
				s, _ = stats.FromSequences(seqs)
				gc = fmt.Sprintf("%.2f", stats.MeanGCContent(seqs)*100)
			}
		case config.AlphabetAminoAcid:
			seqs, err := seqio.ReadAminoAcids(file)
			if err != nil {
				return err
			}
			if len(seqs) > 0 {
				s, _ = stats.FromSequences(seqs)
			}
		default:
			return errors.Errorf("unknown alphabet: %s", alphabet)
		}

		if s == nil {
			fmt.Fprintf(w, "%s\t0\t0\t0\t0.0\t0.0\t0\t0\t%s\n", file, gc)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1f\t%.1f\t%d\t%d\t%s\n", file, s.Count, s.TotalResidues,
			s.MinLength, s.MeanLength, s.MedianLength, s.MaxLength, s.N50, gc)
	}
	return nil
}

var kmerCmd = &cobra.Command{
	Use:   "kmer [file...]",
	Short: "Count the most frequent k-mers",
	Long: `Count the most frequent k-mers

K-mers are counted over all records of all files. Gaps are skipped; k-mers
containing the wildcard residue (N or X) are not counted.

Output columns (tab-delimited): kmer, count, frequency
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		alphabet := opt.Config.Alignment.Alphabet
		if cmd.Flags().Changed("alphabet") {
			alphabet = getFlagString(cmd, "alphabet")
		}
		files := args
		if len(files) == 0 {
			files = []string{"-"}
		}

		counter, err := countFiles(alphabet, files, getFlagPositiveInt(cmd, "kmer-size"))
		checkError(err)
		if opt.Verbose {
			log.Infof("%d distinct k-mer(s), %d in total", counter.UniqueCount(), counter.Total)
		}

		outfh, err := xopen.Wopen(getFlagString(cmd, "out-file"))
		checkError(err)
		defer func() {
			outfh.Flush()
			checkError(outfh.Close())
		}()

		top, err := counter.MostFrequent(getFlagPositiveInt(cmd, "top-n"))
		checkError(err)
		for _, kc := range top {
			f, _ := counter.Frequency(kc.KMer)
			fmt.Fprintf(outfh, "%s\t%d\t%.6f\n", kc.KMer, kc.Count, f)
		}
	},
}

// countFiles counts k-mers of every file separately and merges the counts.
func countFiles(alphabet string, files []string, k int) (*kmer.Counter, error) {
	total, err := kmer.NewCounter(k)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		c, _ := kmer.NewCounter(k)
		switch alphabet {
		case config.AlphabetNucleotide:
			seqs, err := seqio.ReadNucleotides(file)
			if err != nil {
				return nil, err
			}
			for _, s := range seqs {
				kmer.Add(c, s)
			}
		case config.AlphabetAminoAcid:
			seqs, err := seqio.ReadAminoAcids(file)
			if err != nil {
				return nil, err
			}
			for _, s := range seqs {
				kmer.Add(c, s)
			}
		default:
			return nil, errors.Errorf("unknown alphabet: %s", alphabet)
		}
		if err = total.Merge(c); err != nil {
			return nil, err
		}
	}
	return total, nil
}

func init() {
	RootCmd.AddCommand(statsCmd)
	RootCmd.AddCommand(kmerCmd)

	for _, cmd := range []*cobra.Command{statsCmd, kmerCmd} {
		cmd.Flags().StringP("alphabet", "a", residue.Nucleotides.Name(),
			formatFlagUsage(`Residue alphabet: nucleotide or amino-acid.`))
		cmd.Flags().StringP("out-file", "o", "-",
			formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))
		cmd.SetUsageTemplate(usageTemplate("[file...]"))
	}

	kmerCmd.Flags().IntP("kmer-size", "k", 21,
		formatFlagUsage(`K-mer size.`))
	kmerCmd.Flags().IntP("top-n", "n", 10,
		formatFlagUsage(`Number of most frequent k-mers to print.`))
}
