package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/pkg/errors"
)

// Output formats of align and batch.
const (
	formatText = "text"
	formatTSV  = "tsv"
	formatJSON = "json"
)

const tsvHeader = "query\tsubject\tscore\tpident\talen\tmismatch\tgapopen\tqstart\tqend\tsstart\tsend\tsstr\tcigar\n"

// hitWriter writes alignments in one of the output formats.
type hitWriter struct {
	w      io.Writer
	format string
	width  int

	headerDone bool
}

func newHitWriter(w io.Writer, format string, width int) (*hitWriter, error) {
	switch format {
	case formatText, formatTSV, formatJSON:
	default:
		return nil, errors.Errorf("unknown output format: %s", format)
	}
	return &hitWriter{w: w, format: format, width: width}, nil
}

type hitRecord struct {
	Query   string `json:"query"`
	Subject string `json:"subject"`
	alignment.Summary
}

// writeHit writes one alignment. TSV positions are 1-based and inclusive.
func writeHit[R residue.Residue](hw *hitWriter, query, subject string, a *alignment.Alignment[R]) error {
	var err error
	switch hw.format {
	case formatText:
		_, err = fmt.Fprintf(hw.w, "# %s vs %s\n%s\n\n", query, subject, a.Format(hw.width))
	case formatJSON:
		var data []byte
		data, err = json.Marshal(hitRecord{Query: query, Subject: subject, Summary: a.Summary()})
		if err == nil {
			data = append(data, '\n')
			_, err = hw.w.Write(data)
		}
	case formatTSV:
		if !hw.headerDone {
			if _, err = io.WriteString(hw.w, tsvHeader); err != nil {
				return err
			}
			hw.headerDone = true
		}
		q, s := a.QueryRange(), a.SubjectRange()
		_, err = fmt.Fprintf(hw.w, "%s\t%s\t%g\t%.3f\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			query, subject, a.Score(), a.PercentIdentity(), a.Length(), a.Mismatches(), a.GapOpenings(),
			q.Begin+1, q.End, s.Begin+1, s.End, s.Strand, a.CIGAR())
	}
	return err
}
