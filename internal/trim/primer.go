// Package trim clips primer sequence from reads.
//
// Each primer is local-aligned against the read, as the query, with the read
// as the subject. The subject range of every good enough alignment is primer
// sequence; the read's clear range is the longest stretch left uncovered.
package trim

import (
	"fmt"
	"sort"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/pkg/errors"
)

// Default thresholds.
const (
	DefaultMinLength   = 10
	DefaultMinIdentity = 0.9
)

// PrimerTrimmer finds primer hits in reads.
type PrimerTrimmer struct {
	// MinLength is the minimum alignment length of a hit.
	MinLength int
	// MinIdentity is the minimum fraction of identical columns of a hit.
	MinIdentity float64
	// CheckReverseComplement also aligns each primer's reverse complement.
	CheckReverseComplement bool
	// Options holds the scoring; its Mode is ignored, trimming always uses
	// local alignment.
	Options alignment.Options[residue.Nucleotide]
}

// NewPrimerTrimmer returns a trimmer scoring matches +2, mismatches -1, gap
// open -2 and gap extension -1.
func NewPrimerTrimmer(minLength int, minIdentity float64, checkReverseComplement bool) *PrimerTrimmer {
	return &PrimerTrimmer{
		MinLength:              minLength,
		MinIdentity:            minIdentity,
		CheckReverseComplement: checkReverseComplement,
		Options: alignment.Options[residue.Nucleotide]{
			Matrix:    alignment.Identity(residue.Nucleotides, 2, -1),
			GapOpen:   -2,
			GapExtend: -1,
		},
	}
}

// Hit is one primer found in a read. Range is in ungapped read
// coordinates; its strand is Reverse when the reverse complement of the
// primer matched.
type Hit struct {
	Primer    *sequence.Sequence[residue.Nucleotide]
	Alignment *alignment.Alignment[residue.Nucleotide]
	Range     alignment.DirectedRange
}

// Result holds the primer hits of a read and its clear range.
type Result struct {
	Hits       []Hit
	ClearRange alignment.DirectedRange
}

func (r Result) String() string {
	return fmt.Sprintf("TrimResult { hits: %d, clear range: %s }", len(r.Hits), r.ClearRange)
}

// Trim aligns every primer against read and returns the hits and the
// longest range of the read not covered by any hit. Hits are ordered by
// read position.
func (p *PrimerTrimmer) Trim(read *sequence.Sequence[residue.Nucleotide], primers []*sequence.Sequence[residue.Nucleotide]) (Result, error) {
	if read == nil {
		return Result{}, errors.Wrap(alignment.ErrInvalidArgument, "nil read")
	}

	opts := p.Options
	opts.Mode = alignment.Local

	var hits []Hit
	for i, primer := range primers {
		if primer == nil {
			return Result{}, errors.Wrapf(alignment.ErrInvalidArgument, "nil primer %d", i)
		}

		strands := []alignment.Strand{alignment.Forward}
		if p.CheckReverseComplement {
			strands = append(strands, alignment.Reverse)
		}
		for _, strand := range strands {
			query := primer
			if strand == alignment.Reverse {
				query = sequence.ReverseComplement(primer)
			}

			a, err := alignment.Align(query, read, opts)
			if err != nil {
				return Result{}, errors.Wrapf(err, "align primer %s", primerName(primer, i))
			}
			if a.Length() < p.MinLength || a.Identity() < p.MinIdentity {
				continue
			}

			a = a.WithSubjectStrand(strand)
			hits = append(hits, Hit{Primer: primer, Alignment: a, Range: a.SubjectRange()})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Range.Begin < hits[j].Range.Begin
	})

	return Result{
		Hits:       hits,
		ClearRange: clearRange(hits, read.Ungapped().Len()),
	}, nil
}

// clearRange returns the longest interval of [0, n) outside every hit,
// the leftmost one on ties. hits must be sorted by Begin.
func clearRange(hits []Hit, n int) alignment.DirectedRange {
	var best alignment.DirectedRange
	found := false
	consider := func(begin, end int) {
		if !found || end-begin > best.Len() {
			best = alignment.DirectedRange{Begin: begin, End: end}
			found = true
		}
	}

	cursor := 0
	for _, h := range hits {
		if h.Range.Begin > cursor {
			consider(cursor, h.Range.Begin)
		}
		if h.Range.End > cursor {
			cursor = h.Range.End
		}
	}
	if cursor < n || !found {
		consider(cursor, n)
	}
	return best
}

func primerName(primer *sequence.Sequence[residue.Nucleotide], i int) string {
	if primer.ID != "" {
		return primer.ID
	}
	return fmt.Sprintf("#%d", i)
}
