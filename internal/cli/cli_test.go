package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JCVenterInstitute/jillion-go/internal/config"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/seqio"
	"github.com/JCVenterInstitute/jillion-go/internal/trim"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func proteinConfig() config.Alignment {
	a := config.Default().Alignment
	a.Alphabet = config.AlphabetAminoAcid
	a.Matrix = "BLOSUM50"
	a.GapOpen = -8
	a.GapExtend = -6
	return a
}

func TestApplyAlignmentFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addAlignmentFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"-m", "global", "--gap-open=-8", "--max-cells", "100"}))

	a := config.Default().Alignment
	applyAlignmentFlags(cmd, &a)

	assert.Equal(t, "global", a.Mode)
	assert.Equal(t, float32(-8), a.GapOpen)
	assert.Equal(t, float32(-1), a.GapExtend)
	assert.Equal(t, int64(100), a.MaxCells)
	assert.Equal(t, config.MatrixIdentity, a.Matrix)
}

func TestRunAlignTSV(t *testing.T) {
	var buf bytes.Buffer
	p := alignParams{queryLiteral: "PAWHEAE", subjectLiteral: "HEAGAWGHEE", format: formatTSV, width: 60}

	n, err := runAlign(residue.AminoAcids, proteinConfig(), p, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	out := lines(buf.String())
	require.Len(t, out, 2)
	assert.Equal(t, strings.TrimRight(tsvHeader, "\n"), out[0])
	assert.Equal(t, "query\tsubject\t28\t80.000\t5\t0\t1\t2\t5\t5\t9\t+\t2M1I2M", out[1])
}

func TestRunAlignFormats(t *testing.T) {
	p := alignParams{queryLiteral: "PAWHEAE", subjectLiteral: "HEAGAWGHEE", width: 60}

	var text bytes.Buffer
	p.format = formatText
	_, err := runAlign(residue.AminoAcids, proteinConfig(), p, &text)
	require.NoError(t, err)
	assert.Contains(t, text.String(), "# query vs subject\n")
	assert.Contains(t, text.String(), "Sbjct       5 AWGHE 9\n")

	var js bytes.Buffer
	p.format = formatJSON
	_, err = runAlign(residue.AminoAcids, proteinConfig(), p, &js)
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(js.Bytes(), &rec))
	assert.Equal(t, "query", rec["query"])
	assert.Equal(t, 28.0, rec["score"])
	assert.Equal(t, "AW-HE", rec["gapped_query"])
	assert.Equal(t, "2M1I2M", rec["cigar"])
}

func TestRunAlignFiles(t *testing.T) {
	queries := writeFile(t, "q.fa", ">q1\nACGTACGT\n>q2\nACGT\n")
	subjects := writeFile(t, "s.fa", ">s1\nACGACGT\n")

	a := config.Default().Alignment
	a.Mode = "global"
	a.GapExtend = 0

	var buf bytes.Buffer
	n, err := runAlign(residue.Nucleotides, a, alignParams{queryFile: queries, subjectFile: subjects, format: formatTSV}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := lines(buf.String())
	require.Len(t, out, 3)
	assert.True(t, strings.HasPrefix(out[1], "q1\ts1\t12\t"))
	assert.True(t, strings.HasSuffix(out[1], "\t3M1D4M"))
	assert.True(t, strings.HasPrefix(out[2], "q2\ts1\t"))
}

func TestRunAlignErrors(t *testing.T) {
	var buf bytes.Buffer
	a := config.Default().Alignment

	_, err := runAlign(residue.Nucleotides, a, alignParams{queryLiteral: "ACGT", subjectLiteral: "ACGT", format: "xml"}, &buf)
	require.Error(t, err)

	_, err = runAlign(residue.Nucleotides, a, alignParams{queryLiteral: "ACJT", subjectLiteral: "ACGT", format: formatTSV}, &buf)
	require.Error(t, err)

	_, err = runAlign(residue.Nucleotides, a, alignParams{queryLiteral: "ACGT", format: formatTSV}, &buf)
	require.Error(t, err)

	a.MaxCells = 4
	_, err = runAlign(residue.Nucleotides, a, alignParams{queryLiteral: "ACGT", subjectLiteral: "ACGT", format: formatTSV}, &buf)
	require.Error(t, err)

	a = proteinConfig()
	_, err = runAlign(residue.Nucleotides, a, alignParams{queryLiteral: "ACGT", subjectLiteral: "ACGT", format: formatTSV}, &buf)
	require.Error(t, err)
}

func TestRunBatch(t *testing.T) {
	subjects := writeFile(t, "s.fa", ">s1\nNNNN\n>s2\nACGTACGT\n>s3\nACGT\n")

	tests := []struct {
		name        string
		kmerSize    int
		topN        int
		wantHits    []string
		wantSkipped int
	}{
		{"all hits", 0, 0, []string{"s2", "s3", "s1"}, 0},
		{"top one", 0, 1, []string{"s2"}, 0},
		{"kmer prefilter", 4, 0, []string{"s2", "s3"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bc := config.Default().Batch
			bc.Threads = 2
			bc.KmerSize = tt.kmerSize
			p := batchParams{queryLiteral: "ACGTACGT", subjectFile: subjects, format: formatTSV, topN: tt.topN}

			ticks, total := 0, 0
			newTick := func(n int) func() {
				total = n
				return func() { ticks++ }
			}

			var buf bytes.Buffer
			report, err := runBatch(context.Background(), residue.Nucleotides, config.Default().Alignment, bc, p, &buf, newTick)
			require.NoError(t, err)

			var got []string
			for _, line := range lines(buf.String())[1:] {
				got = append(got, strings.Split(line, "\t")[1])
			}
			assert.Equal(t, tt.wantHits, got)
			assert.Equal(t, tt.wantSkipped, report.skipped)
			assert.Equal(t, 3-tt.wantSkipped, report.aligned)
			assert.Equal(t, 3, total)
			assert.Equal(t, 3, ticks)
			assert.Equal(t, 3, report.subjectStats.Count)
			require.NotNil(t, report.alignmentStats)
			assert.Equal(t, 16.0, report.alignmentStats.MaxScore)
		})
	}
}

func TestRunBatchMinScore(t *testing.T) {
	subjects := writeFile(t, "s.fa", ">s1\nNNNN\n>s2\nACGTACGT\n>s3\nACGT\n")
	p := batchParams{queryLiteral: "ACGTACGT", subjectFile: subjects, format: formatTSV, minScore: 10, useMinScore: true}

	var buf bytes.Buffer
	report, err := runBatch(context.Background(), residue.Nucleotides, config.Default().Alignment, config.Default().Batch, p, &buf, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.written)
	assert.Len(t, lines(buf.String()), 2)
}

func TestRunBatchCancelled(t *testing.T) {
	subjects := writeFile(t, "s.fa", ">s1\nACGT\n>s2\nACGT\n")
	p := batchParams{queryLiteral: "ACGT", subjectFile: subjects, format: formatTSV}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	report, err := runBatch(ctx, residue.Nucleotides, config.Default().Alignment, config.Default().Batch, p, &buf, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.aligned)
	assert.Equal(t, 0, report.written)
}

func TestRunTrim(t *testing.T) {
	const (
		forward = "GTTTCCCAGTCACGAC"
		insert  = "ATCGGATCCTTAGAATTCGCAAGCTTGG"
	)
	reads := writeFile(t, "reads.fa", ">r1\n"+forward+insert+"\n>r2\n"+insert+"\n>r3\nACGT\n")
	primers := writeFile(t, "primers.fa", ">M13F\n"+forward+"\n>M13R\nCAGGAAACAGCTATGAC\n")
	dir := t.TempDir()
	p := trimParams{
		readsFile:   reads,
		primersFile: primers,
		outFile:     filepath.Join(dir, "trimmed.fa"),
		hitsFile:    filepath.Join(dir, "hits.tsv"),
		minClear:    5,
	}

	trimmer := trim.NewPrimerTrimmer(trim.DefaultMinLength, trim.DefaultMinIdentity, true)
	report, err := runTrim(trimmer, p)
	require.NoError(t, err)
	assert.Equal(t, &trimReport{reads: 3, withHits: 1, hits: 1, dropped: 1}, report)

	trimmed, err := seqio.ReadNucleotides(p.outFile)
	require.NoError(t, err)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "r1", trimmed[0].ID)
	assert.Equal(t, insert, trimmed[0].String())
	assert.Equal(t, insert, trimmed[1].String())

	hits, err := os.ReadFile(p.hitsFile)
	require.NoError(t, err)
	assert.Equal(t, "r1\tM13F\t+\t1\t16\t100.000\t32\n", string(hits))
}

func TestPrintMatrix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printMatrix(&buf, ""))
	assert.Contains(t, buf.String(), "BLOSUM62\tamino-acid\n")
	assert.Contains(t, buf.String(), "NUC.4.4\tnucleotide\n")

	buf.Reset()
	require.NoError(t, printMatrix(&buf, "blosum50"))
	assert.NotEmpty(t, buf.String())

	require.Error(t, printMatrix(&buf, "PAM250"))
}

func TestWriteStats(t *testing.T) {
	file := writeFile(t, "seqs.fa", ">a\nATGC\n>b\nATGCATGC\n>c\nGGCC\n")

	var buf bytes.Buffer
	require.NoError(t, writeStats(&buf, config.AlphabetNucleotide, []string{file}))
	out := lines(buf.String())
	require.Len(t, out, 2)
	assert.Equal(t, file+"\t3\t16\t4\t5.3\t4.0\t8\t8\t66.67", out[1])

	buf.Reset()
	require.NoError(t, writeStats(&buf, config.AlphabetAminoAcid, []string{file}))
	assert.True(t, strings.HasSuffix(lines(buf.String())[1], "\t-"))

	require.Error(t, writeStats(&buf, "rna", []string{file}))
}

func TestCountFiles(t *testing.T) {
	f1 := writeFile(t, "a.fa", ">a\nATGATGATG\n")
	f2 := writeFile(t, "b.fa", ">b\nATG\n")

	c, err := countFiles(config.AlphabetNucleotide, []string{f1, f2}, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, c.Total)

	top, err := c.MostFrequent(1)
	require.NoError(t, err)
	assert.Equal(t, "ATG", top[0].KMer)
	assert.Equal(t, 4, top[0].Count)

	_, err = countFiles(config.AlphabetNucleotide, []string{f1}, 0)
	require.Error(t, err)
}
