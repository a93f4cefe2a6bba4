package handlers

import (
	"net/http"

	"github.com/JCVenterInstitute/jillion-go/internal/config"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/JCVenterInstitute/jillion-go/internal/stats"
	"github.com/pkg/errors"
)

// SequenceRequest represents a request with a sequence. Alphabet defaults
// to nucleotide.
type SequenceRequest struct {
	Sequence string `json:"sequence"`
	Alphabet string `json:"alphabet,omitempty"`
}

// ValidateResponse represents validation result. Length counts gaps.
type ValidateResponse struct {
	Valid    bool   `json:"valid"`
	Alphabet string `json:"alphabet"`
	Length   int    `json:"length"`
	Gapped   bool   `json:"gapped"`
	Message  string `json:"message,omitempty"`
	Position *int   `json:"position,omitempty"`
}

// ValidateHandler handles sequence validation requests. An invalid
// sequence is reported in the body, not as a failed request.
func (h *Handlers) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}

	alphabet, err := alphabetName(req.Alphabet)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var resp ValidateResponse
	switch alphabet {
	case config.AlphabetAminoAcid:
		resp = validate(residue.AminoAcids, req.Sequence)
	default:
		resp = validate(residue.Nucleotides, req.Sequence)
	}
	writeJSON(w, http.StatusOK, resp)
}

func validate[R residue.Residue](alphabet *residue.Alphabet[R], s string) ValidateResponse {
	resp := ValidateResponse{Alphabet: alphabet.Name()}
	seq, err := sequence.New(alphabet, s)
	if err != nil {
		resp.Message = err.Error()
		var invalid *sequence.InvalidResidueError
		if errors.As(err, &invalid) {
			resp.Position = &invalid.Position
		}
		return resp
	}
	resp.Valid = true
	resp.Length = seq.Len()
	resp.Gapped = seq.HasGaps()
	return resp
}

// ReverseComplementResponse represents the response for reverse
// complement.
type ReverseComplementResponse struct {
	ReverseComplement string `json:"reverse_complement"`
}

// ReverseComplementHandler handles nucleotide reverse complement requests.
func (h *Handlers) ReverseComplementHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}
	seq, err := nucleotideRequest(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReverseComplementResponse{
		ReverseComplement: sequence.ReverseComplement(seq).String(),
	})
}

// GCContentResponse represents the response for GC content.
type GCContentResponse struct {
	GCContent float64 `json:"gc_content"`
	Percent   float64 `json:"percent"`
}

// GCContentHandler handles GC content calculation requests.
func (h *Handlers) GCContentHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}
	seq, err := nucleotideRequest(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	gc := sequence.GCContent(seq)
	writeJSON(w, http.StatusOK, GCContentResponse{GCContent: gc, Percent: gc * 100})
}

func nucleotideRequest(req SequenceRequest) (*sequence.Sequence[residue.Nucleotide], error) {
	if req.Alphabet != "" && req.Alphabet != config.AlphabetNucleotide {
		return nil, errors.Errorf("nucleotide sequence required, got alphabet: %s", req.Alphabet)
	}
	return parse(residue.Nucleotides, req.Sequence, "sequence")
}

// SequenceSetRequest represents a request with multiple sequences.
type SequenceSetRequest struct {
	Sequences []string `json:"sequences"`
	Alphabet  string   `json:"alphabet,omitempty"`
}

// SequenceSetResponse holds length statistics of a sequence set and, for
// nucleotides, the mean GC content.
type SequenceSetResponse struct {
	*stats.SequenceSetStats
	GCContent *float64 `json:"gc_content,omitempty"`
}

// SequenceStatsHandler handles sequence set statistics requests.
func (h *Handlers) SequenceStatsHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceSetRequest
	if !decode(w, r, &req) {
		return
	}

	alphabet, err := alphabetName(req.Alphabet)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var resp SequenceSetResponse
	switch alphabet {
	case config.AlphabetAminoAcid:
		var seqs []*sequence.Sequence[residue.AminoAcid]
		if seqs, err = parseAll(residue.AminoAcids, req.Sequences); err == nil {
			resp.SequenceSetStats, err = stats.FromSequences(seqs)
		}
	default:
		var seqs []*sequence.Sequence[residue.Nucleotide]
		if seqs, err = parseAll(residue.Nucleotides, req.Sequences); err == nil {
			if resp.SequenceSetStats, err = stats.FromSequences(seqs); err == nil {
				gc := stats.MeanGCContent(seqs)
				resp.GCContent = &gc
			}
		}
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseAll[R residue.Residue](alphabet *residue.Alphabet[R], ss []string) ([]*sequence.Sequence[R], error) {
	seqs := make([]*sequence.Sequence[R], 0, len(ss))
	for i, s := range ss {
		seq, err := sequence.New(alphabet, s)
		if err != nil {
			return nil, errors.Wrapf(err, "sequence %d", i+1)
		}
		seqs = append(seqs, seq)
	}
	return seqs, nil
}
