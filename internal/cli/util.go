package cli

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/JCVenterInstitute/jillion-go/internal/config"
	"github.com/JCVenterInstitute/jillion-go/internal/logutil"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/seqio"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
)

// Options contains the global flags
type Options struct {
	NumCPUs int
	Verbose bool

	LogFile  string
	Log2File bool

	Config *config.Config
}

func getOptions(cmd *cobra.Command) *Options {
	cfg := config.Default()
	if file := getFlagString(cmd, "config"); file != "" {
		var err error
		cfg, err = config.Load(file)
		checkError(err)
	}

	threads := getFlagInt(cmd, "threads")
	if threads < 0 {
		threads = cfg.Batch.Threads
	}
	if threads == 0 {
		threads = runtime.NumCPU()
	}
	cfg.Batch.Threads = threads

	sorts.MaxProcs = threads
	runtime.GOMAXPROCS(threads)

	logfile := getFlagString(cmd, "log")
	return &Options{
		NumCPUs: threads,
		Verbose: !getFlagBool(cmd, "quiet"),

		LogFile:  logfile,
		Log2File: logfile != "",

		Config: cfg,
	}
}

// addLog sends log output to file as well; the caller closes the file.
func addLog(file string, verbose bool) *os.File {
	fh, err := logutil.ToFile(log, file, verbose)
	checkError(err)
	return fh
}

func checkError(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}

func isStdin(file string) bool {
	return file == "-"
}

func formatFlagUsage(s string) string {
	return "► " + s
}

func getFlagString(cmd *cobra.Command, flag string) string {
	value, err := cmd.Flags().GetString(flag)
	checkError(err)
	return value
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return value
}

func getFlagPositiveInt(cmd *cobra.Command, flag string) int {
	value := getFlagInt(cmd, flag)
	if value <= 0 {
		checkError(errors.Errorf("value of flag --%s should be greater than 0", flag))
	}
	return value
}

func getFlagNonNegativeInt(cmd *cobra.Command, flag string) int {
	value := getFlagInt(cmd, flag)
	if value < 0 {
		checkError(errors.Errorf("value of flag --%s should be greater than or equal to 0", flag))
	}
	return value
}

func getFlagInt64(cmd *cobra.Command, flag string) int64 {
	value, err := cmd.Flags().GetInt64(flag)
	checkError(err)
	return value
}

func getFlagFloat64(cmd *cobra.Command, flag string) float64 {
	value, err := cmd.Flags().GetFloat64(flag)
	checkError(err)
	return value
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	value, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return value
}

// addAlignmentFlags registers the scoring flags shared by the alignment
// commands. Their defaults only document the built-in configuration; a
// flag overrides the config file only when given.
func addAlignmentFlags(cmd *cobra.Command) {
	def := config.Default().Alignment

	cmd.Flags().StringP("mode", "m", def.Mode,
		formatFlagUsage(`Alignment mode: local (Smith-Waterman) or global (Needleman-Wunsch).`))
	cmd.Flags().StringP("alphabet", "a", def.Alphabet,
		formatFlagUsage(`Residue alphabet: nucleotide or amino-acid.`))
	cmd.Flags().StringP("matrix", "M", def.Matrix,
		formatFlagUsage(`Scoring matrix: identity (uses --match/--mismatch), an embedded matrix (see "jillion matrix") or an NCBI-format matrix file.`))
	cmd.Flags().Float64P("match", "", float64(def.Match),
		formatFlagUsage(`Match score of the identity matrix.`))
	cmd.Flags().Float64P("mismatch", "", float64(def.Mismatch),
		formatFlagUsage(`Mismatch score of the identity matrix.`))
	cmd.Flags().Float64P("gap-open", "O", float64(def.GapOpen),
		formatFlagUsage(`Score added when a gap is opened.`))
	cmd.Flags().Float64P("gap-extend", "E", float64(def.GapExtend),
		formatFlagUsage(`Score added for every further residue of an open gap.`))
	cmd.Flags().Int64P("max-cells", "", def.MaxCells,
		formatFlagUsage(`Refuse alignments whose traceback matrix has more cells than this. 0 for no limit.`))
}

// applyAlignmentFlags copies the alignment flags given on the command line
// into a.
func applyAlignmentFlags(cmd *cobra.Command, a *config.Alignment) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		a.Mode = getFlagString(cmd, "mode")
	}
	if flags.Changed("alphabet") {
		a.Alphabet = getFlagString(cmd, "alphabet")
	}
	if flags.Changed("matrix") {
		a.Matrix = getFlagString(cmd, "matrix")
	}
	if flags.Changed("match") {
		a.Match = float32(getFlagFloat64(cmd, "match"))
	}
	if flags.Changed("mismatch") {
		a.Mismatch = float32(getFlagFloat64(cmd, "mismatch"))
	}
	if flags.Changed("gap-open") {
		a.GapOpen = float32(getFlagFloat64(cmd, "gap-open"))
	}
	if flags.Changed("gap-extend") {
		a.GapExtend = float32(getFlagFloat64(cmd, "gap-extend"))
	}
	if flags.Changed("max-cells") {
		a.MaxCells = getFlagInt64(cmd, "max-cells")
	}
}

// alignmentOptions loads the matrix and builds engine options for one
// alphabet.
func alignmentOptions[R residue.Residue](a config.Alignment, alphabet *residue.Alphabet[R]) (alignment.Options[R], error) {
	matrix, err := config.Matrix(a, alphabet)
	if err != nil {
		return alignment.Options[R]{}, err
	}
	return config.Options[R](a, matrix)
}

// readSequences reads a file, or parses literal when it is not empty.
func readSequences[R residue.Residue](alphabet *residue.Alphabet[R], file, literal, id string) ([]*sequence.Sequence[R], error) {
	if literal != "" {
		s, err := sequence.New(alphabet, strings.TrimSpace(literal))
		if err != nil {
			return nil, errors.Wrapf(err, "%s sequence", id)
		}
		return []*sequence.Sequence[R]{s.WithID(id, "")}, nil
	}
	if file == "" {
		return nil, errors.Errorf("%s file or sequence needed", id)
	}
	seqs, err := seqio.Read(alphabet, file)
	if err != nil {
		return nil, err
	}
	if len(seqs) == 0 {
		return nil, errors.Errorf("no sequences in %s", file)
	}
	return seqs, nil
}

func seqName[R residue.Residue](s *sequence.Sequence[R], i int) string {
	if s.ID != "" {
		return s.ID
	}
	return "seq" + strconv.Itoa(i+1)
}
