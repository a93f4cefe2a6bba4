package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/JCVenterInstitute/jillion-go/internal/config"
	"github.com/JCVenterInstitute/jillion-go/internal/kmer"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/stats"
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Align query sequences against many subjects in parallel",
	Long: `Align query sequences against many subjects in parallel

Every query is aligned against all subjects on -j/--threads workers sharing
one scoring matrix. Hits of each query are written in descending order of
score, ties in subject order.

With -k/--kmer-size, subjects sharing fewer than --min-shared-kmers k-mers
with the query are skipped without being aligned.

Interrupting the command (Ctrl-C) stops new alignments from starting; hits
already computed are still written.

Output formats (-f/--format): tsv (default), text or json, see "jillion align".
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

		bc := opt.Config.Batch
		if cmd.Flags().Changed("kmer-size") {
			bc.KmerSize = getFlagNonNegativeInt(cmd, "kmer-size")
		}
		if cmd.Flags().Changed("min-shared-kmers") {
			bc.MinSharedKmers = getFlagPositiveInt(cmd, "min-shared-kmers")
		}

		p := batchParams{
			queryFile:    getFlagString(cmd, "query"),
			subjectFile:  getFlagString(cmd, "subject"),
			queryLiteral: getFlagString(cmd, "query-seq"),
			format:       getFlagString(cmd, "format"),
			width:        getFlagPositiveInt(cmd, "line-width"),
			topN:         getFlagNonNegativeInt(cmd, "top-n"),
			verbose:      opt.Verbose,
		}
		if cmd.Flags().Changed("min-score") {
			p.minScore = float32(getFlagFloat64(cmd, "min-score"))
			p.useMinScore = true
		}
		if p.subjectFile == "" {
			checkError(errors.New("flag -s/--subject needed"))
		}
		if isStdin(p.queryFile) && isStdin(p.subjectFile) {
			checkError(errors.New("query and subject can not both be read from stdin"))
		}

		outFile := getFlagString(cmd, "out-file")
		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer func() {
			outfh.Flush()
			checkError(outfh.Close())
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var prog *progress
		var newTick func(int) func()
		if opt.Verbose {
			newTick = func(total int) func() {
				prog = newProgress(total)
				return prog.tick
			}
		}

		var report *batchReport
		switch a.Alphabet {
		case config.AlphabetNucleotide:
			report, err = runBatch(ctx, residue.Nucleotides, a, bc, p, outfh, newTick)
		case config.AlphabetAminoAcid:
			report, err = runBatch(ctx, residue.AminoAcids, a, bc, p, outfh, newTick)
		default:
			err = errors.Errorf("unknown alphabet: %s", a.Alphabet)
		}
		if prog != nil {
			prog.finish()
		}

		if errors.Is(err, context.Canceled) {
			log.Warningf("interrupted, %d of %d alignment(s) finished", report.aligned+report.skipped+report.failed,
				report.queries*report.subjects)
		} else {
			checkError(err)
		}

		if opt.Verbose || opt.Log2File {
			report.log()
		}
	},
}

type batchParams struct {
	queryFile, subjectFile, queryLiteral string
	format                               string
	width                                int
	topN                                 int
	minScore                             float32
	useMinScore                          bool
	verbose                              bool
}

type batchReport struct {
	queries, subjects        int
	aligned, skipped, failed int
	written                  int

	subjectStats   *stats.SequenceSetStats
	alignmentStats *stats.AlignmentSetStats
}

func (r *batchReport) log() {
	log.Infof("%d query(s) x %d subject(s): %d aligned, %d skipped by the k-mer prefilter, %d failed",
		r.queries, r.subjects, r.aligned, r.skipped, r.failed)
	log.Infof("%d hit(s) written", r.written)
	if r.subjectStats != nil {
		log.Info(r.subjectStats)
	}
	if r.alignmentStats != nil {
		log.Info(r.alignmentStats)
	}
}

// runBatch aligns every query against all subjects and writes the ranked
// hits. newTick, when not nil, is called once with the number of
// alignments and returns a function called after each one.
func runBatch[R residue.Residue](ctx context.Context, alphabet *residue.Alphabet[R], a config.Alignment, bc config.Batch,
	p batchParams, w io.Writer, newTick func(int) func()) (*batchReport, error) {
	report := &batchReport{}

	opts, err := alignmentOptions(a, alphabet)
	if err != nil {
		return report, err
	}
	hw, err := newHitWriter(w, p.format, p.width)
	if err != nil {
		return report, err
	}

	queries, err := readSequences(alphabet, p.queryFile, p.queryLiteral, "query")
	if err != nil {
		return report, err
	}
	subjects, err := readSequences(alphabet, p.subjectFile, "", "subject")
	if err != nil {
		return report, err
	}
	report.queries, report.subjects = len(queries), len(subjects)
	report.subjectStats, err = stats.FromSequences(subjects)
	if err != nil {
		return report, err
	}

	var tick func()
	if newTick != nil {
		tick = newTick(len(queries) * len(subjects))
	}

	var all []*alignment.Alignment[R]
	for i, q := range queries {
		b := &alignment.Batch[R]{Options: opts, Threads: bc.Threads}
		if bc.KmerSize > 0 {
			keep, err := kmer.Prefilter(q, bc.KmerSize, bc.MinSharedKmers)
			if err != nil {
				return report, errors.Wrapf(err, "prefilter %s", seqName(q, i))
			}
			b.Keep = keep
		}
		if tick != nil {
			b.OnDone = func(alignment.IndexedAlignment[R]) { tick() }
		}

		results, runErr := b.Run(ctx, q, subjects)
		for _, r := range results {
			switch {
			case r.Skipped:
				report.skipped++
			case r.Err != nil:
				report.failed++
				log.Warningf("%s vs %s: %s", seqName(q, i), seqName(r.Subject, r.Index), r.Err)
			case r.Alignment != nil:
				report.aligned++
				all = append(all, r.Alignment)
			}
		}

		if best, ok := alignment.FindBest(results); ok && p.verbose {
			log.Infof("best hit of %s: %s (score %g)", seqName(q, i), seqName(best.Subject, best.Index),
				best.Alignment.Score())
		}

		for k, r := range alignment.Rank(results) {
			if p.topN > 0 && k >= p.topN {
				break
			}
			if p.useMinScore && r.Alignment.Score() < p.minScore {
				break
			}
			if err = writeHit(hw, seqName(q, i), seqName(r.Subject, r.Index), r.Alignment); err != nil {
				return report, err
			}
			report.written++
		}

		if runErr != nil {
			return report, runErr
		}
	}

	if len(all) > 0 {
		report.alignmentStats, err = stats.Summarize(all)
	}
	return report, err
}

// progress is a progress bar of finished alignments.
type progress struct {
	pbs  *mpb.Progress
	bar  *mpb.Bar
	last time.Time
}

func newProgress(total int) *progress {
	pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	bar := pbs.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("aligned pairs: ", decor.WC{W: len("aligned pairs: "), C: decor.DindentRight}),
			decor.Name("", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.EwmaETA(decor.ET_STYLE_GO, 3),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	return &progress{pbs: pbs, bar: bar, last: time.Now()}
}

func (p *progress) tick() {
	now := time.Now()
	p.bar.EwmaIncrBy(1, now.Sub(p.last))
	p.last = now
}

// finish waits for the bar to be drawn, aborting it if it is incomplete.
func (p *progress) finish() {
	if !p.bar.Completed() {
		p.bar.Abort(false)
	}
	p.pbs.Wait()
}

func init() {
	RootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("query", "q", "",
		formatFlagUsage(`Query FASTA/FASTQ file ("-" for stdin).`))
	batchCmd.Flags().StringP("query-seq", "", "",
		formatFlagUsage(`Query sequence, instead of -q/--query.`))
	batchCmd.Flags().StringP("subject", "s", "",
		formatFlagUsage(`Subject FASTA/FASTQ file.`))
	batchCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))
	batchCmd.Flags().StringP("format", "f", formatTSV,
		formatFlagUsage(`Output format: tsv, text or json.`))
	batchCmd.Flags().IntP("line-width", "w", 60,
		formatFlagUsage(`Residues per line in text output.`))
	batchCmd.Flags().IntP("top-n", "n", 0,
		formatFlagUsage(`Keep the n best hits of every query. 0 for all.`))
	batchCmd.Flags().Float64P("min-score", "", 0,
		formatFlagUsage(`Minimum alignment score of a reported hit. Not applied unless given.`))
	batchCmd.Flags().IntP("kmer-size", "k", 0,
		formatFlagUsage(`K-mer size of the prefilter. 0 disables it.`))
	batchCmd.Flags().IntP("min-shared-kmers", "", 1,
		formatFlagUsage(`Minimum number of distinct k-mers a subject must share with the query.`))

	addAlignmentFlags(batchCmd)

	batchCmd.SetUsageTemplate(usageTemplate(""))
}
