package handlers

import (
	"net/http"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/JCVenterInstitute/jillion-go/internal/config"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/JCVenterInstitute/jillion-go/internal/trim"
	"github.com/pkg/errors"
)

// TrimRequest represents a primer trimming request. Unset thresholds take
// the [trim] defaults.
type TrimRequest struct {
	Read                   string          `json:"read"`
	Primers                []NamedSequence `json:"primers"`
	MinLength              *int            `json:"min_length,omitempty"`
	MinIdentity            *float64        `json:"min_identity,omitempty"`
	CheckReverseComplement *bool           `json:"check_reverse_complement,omitempty"`
}

// PrimerHit is one primer found in the read, in 0-based half-open read
// coordinates.
type PrimerHit struct {
	Primer   string  `json:"primer"`
	Strand   string  `json:"strand"`
	Begin    int     `json:"begin"`
	End      int     `json:"end"`
	Identity float64 `json:"identity"`
	Score    float32 `json:"score"`
	CIGAR    string  `json:"cigar"`
}

// TrimResponse represents the response for primer trimming.
type TrimResponse struct {
	Hits       []PrimerHit `json:"hits"`
	ClearBegin int         `json:"clear_begin"`
	ClearEnd   int         `json:"clear_end"`
	Trimmed    string      `json:"trimmed"`
}

// TrimPrimersHandler finds primers in a read and returns its clear range.
func (h *Handlers) TrimPrimersHandler(w http.ResponseWriter, r *http.Request) {
	var req TrimRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.trimRead(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) trimRead(req TrimRequest) (*TrimResponse, error) {
	tc := config.Default().Trim
	if req.MinLength != nil {
		tc.MinLength = *req.MinLength
	}
	if req.MinIdentity != nil {
		tc.MinIdentity = *req.MinIdentity
	}
	if req.CheckReverseComplement != nil {
		tc.CheckReverseComplement = *req.CheckReverseComplement
	}
	if tc.MinIdentity < 0 || tc.MinIdentity > 1 {
		return nil, errors.Errorf("min_identity must be in [0, 1], got %g", tc.MinIdentity)
	}
	if len(req.Primers) == 0 {
		return nil, errors.Wrap(alignment.ErrInvalidArgument, "no primers")
	}

	read, err := parse(residue.Nucleotides, req.Read, "read")
	if err != nil {
		return nil, err
	}
	primers := make([]*sequence.Sequence[residue.Nucleotide], len(req.Primers))
	for i, p := range req.Primers {
		seq, err := parse(residue.Nucleotides, p.Sequence, "primer")
		if err != nil {
			return nil, err
		}
		primers[i] = seq.WithID(p.ID, "")
	}

	trimmer := trim.NewPrimerTrimmer(tc.MinLength, tc.MinIdentity, tc.CheckReverseComplement)
	trimmer.Options.MaxCells = h.MaxCells
	result, err := trimmer.Trim(read, primers)
	if err != nil {
		return nil, err
	}

	resp := &TrimResponse{
		Hits:       make([]PrimerHit, len(result.Hits)),
		ClearBegin: result.ClearRange.Begin,
		ClearEnd:   result.ClearRange.End,
	}
	for i, hit := range result.Hits {
		resp.Hits[i] = PrimerHit{
			Primer:   hit.Primer.ID,
			Strand:   hit.Range.Strand.String(),
			Begin:    hit.Range.Begin,
			End:      hit.Range.End,
			Identity: hit.Alignment.Identity(),
			Score:    hit.Alignment.Score(),
			CIGAR:    hit.Alignment.CIGAR(),
		}
	}

	kept, err := read.Ungapped().Subsequence(result.ClearRange.Begin, result.ClearRange.End)
	if err != nil {
		return nil, err
	}
	resp.Trimmed = kept.String()
	return resp, nil
}
