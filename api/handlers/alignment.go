package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/JCVenterInstitute/jillion-go/internal/config"
	"github.com/JCVenterInstitute/jillion-go/internal/kmer"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/JCVenterInstitute/jillion-go/internal/stats"
)

const formatWidth = 60

// AlignmentRequest represents a pairwise alignment request.
type AlignmentRequest struct {
	Scoring
	Query   string `json:"query"`
	Subject string `json:"subject"`
}

// AlignmentResponse represents the response for alignment.
type AlignmentResponse struct {
	Mode string `json:"mode"`
	alignment.Summary
	Text string `json:"text"`
}

// GlobalAlignHandler handles global alignment requests.
func (h *Handlers) GlobalAlignHandler(w http.ResponseWriter, r *http.Request) {
	h.align(w, r, alignment.Global)
}

// LocalAlignHandler handles local alignment requests.
func (h *Handlers) LocalAlignHandler(w http.ResponseWriter, r *http.Request) {
	h.align(w, r, alignment.Local)
}

func (h *Handlers) align(w http.ResponseWriter, r *http.Request, mode alignment.Mode) {
	var req AlignmentRequest
	if !decode(w, r, &req) {
		return
	}

	a, err := h.alignmentConfig(req.Scoring, mode.String())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var resp *AlignmentResponse
	switch a.Alphabet {
	case config.AlphabetAminoAcid:
		resp, err = alignPair(residue.AminoAcids, a, req)
	default:
		resp, err = alignPair(residue.Nucleotides, a, req)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func alignPair[R residue.Residue](alphabet *residue.Alphabet[R], a config.Alignment, req AlignmentRequest) (*AlignmentResponse, error) {
	opts, err := buildOptions(a, alphabet)
	if err != nil {
		return nil, err
	}
	query, err := parse(alphabet, req.Query, "query")
	if err != nil {
		return nil, err
	}
	subject, err := parse(alphabet, req.Subject, "subject")
	if err != nil {
		return nil, err
	}

	aln, err := alignment.Align(query, subject, opts)
	if err != nil {
		return nil, err
	}
	return &AlignmentResponse{Mode: a.Mode, Summary: aln.Summary(), Text: aln.Format(formatWidth)}, nil
}

// ScoreRequest represents an alignment score request. Mode defaults to
// local.
type ScoreRequest struct {
	AlignmentRequest
	Mode string `json:"mode,omitempty"`
}

// ScoreResponse represents the response for alignment scoring.
type ScoreResponse struct {
	Mode  string  `json:"mode"`
	Score float32 `json:"score"`
}

// AlignmentScoreHandler computes the optimal score without a traceback.
func (h *Handlers) AlignmentScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !decode(w, r, &req) {
		return
	}

	a, err := h.alignmentConfig(req.Scoring, req.Mode)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var score float32
	switch a.Alphabet {
	case config.AlphabetAminoAcid:
		score, err = scorePair(residue.AminoAcids, a, req.AlignmentRequest)
	default:
		score, err = scorePair(residue.Nucleotides, a, req.AlignmentRequest)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ScoreResponse{Mode: a.Mode, Score: score})
}

func scorePair[R residue.Residue](alphabet *residue.Alphabet[R], a config.Alignment, req AlignmentRequest) (float32, error) {
	opts, err := buildOptions(a, alphabet)
	if err != nil {
		return 0, err
	}
	query, err := parse(alphabet, req.Query, "query")
	if err != nil {
		return 0, err
	}
	subject, err := parse(alphabet, req.Subject, "subject")
	if err != nil {
		return 0, err
	}
	return alignment.Score(query, subject, opts)
}

// NamedSequence is a sequence with an optional identifier.
type NamedSequence struct {
	ID       string `json:"id,omitempty"`
	Sequence string `json:"sequence"`
}

// BatchRequest represents a one-against-many alignment request.
type BatchRequest struct {
	Scoring
	Mode     string          `json:"mode,omitempty"`
	Query    string          `json:"query"`
	Subjects []NamedSequence `json:"subjects"`
	// KmerSize enables the shared k-mer prefilter when positive.
	KmerSize       int      `json:"kmer_size,omitempty"`
	MinSharedKmers int      `json:"min_shared_kmers,omitempty"`
	TopN           int      `json:"top_n,omitempty"`
	MinScore       *float32 `json:"min_score,omitempty"`
}

// BatchHit is one aligned subject.
type BatchHit struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	alignment.Summary
}

// BatchFailure is one subject that could not be aligned.
type BatchFailure struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BatchResponse represents the response for batch alignment. Hits are
// ordered by descending score.
type BatchResponse struct {
	Mode       string                   `json:"mode"`
	Hits       []BatchHit               `json:"hits"`
	Best       *int                     `json:"best"`
	Aligned    int                      `json:"aligned"`
	Skipped    int                      `json:"skipped"`
	Failures   []BatchFailure           `json:"failures,omitempty"`
	Subjects   *stats.SequenceSetStats  `json:"subjects,omitempty"`
	Alignments *stats.AlignmentSetStats `json:"alignments,omitempty"`
}

// BatchAlignHandler aligns a query against many subjects. The request is
// abandoned when the client goes away.
func (h *Handlers) BatchAlignHandler(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decode(w, r, &req) {
		return
	}

	a, err := h.alignmentConfig(req.Scoring, req.Mode)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var resp *BatchResponse
	switch a.Alphabet {
	case config.AlphabetAminoAcid:
		resp, err = alignBatch(r.Context(), residue.AminoAcids, a, h.Threads, req)
	default:
		resp, err = alignBatch(r.Context(), residue.Nucleotides, a, h.Threads, req)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func alignBatch[R residue.Residue](ctx context.Context, alphabet *residue.Alphabet[R], a config.Alignment,
	threads int, req BatchRequest) (*BatchResponse, error) {
	opts, err := buildOptions(a, alphabet)
	if err != nil {
		return nil, err
	}
	query, err := parse(alphabet, req.Query, "query")
	if err != nil {
		return nil, err
	}

	subjects := make([]*sequence.Sequence[R], len(req.Subjects))
	for i, ns := range req.Subjects {
		id := ns.ID
		if id == "" {
			id = "subject" + strconv.Itoa(i+1)
		}
		s, err := parse(alphabet, ns.Sequence, id)
		if err != nil {
			return nil, err
		}
		subjects[i] = s.WithID(id, "")
	}

	batch := &alignment.Batch[R]{Options: opts, Threads: threads}
	if req.KmerSize > 0 {
		minShared := req.MinSharedKmers
		if minShared <= 0 {
			minShared = 1
		}
		if batch.Keep, err = kmer.Prefilter(query, req.KmerSize, minShared); err != nil {
			return nil, err
		}
	}

	results, err := batch.Run(ctx, query, subjects)
	if err != nil {
		return nil, err
	}

	resp := &BatchResponse{Mode: a.Mode, Hits: []BatchHit{}}
	for _, res := range results {
		switch {
		case res.Skipped:
			resp.Skipped++
		case res.Err != nil:
			resp.Failures = append(resp.Failures, BatchFailure{Index: res.Index, ID: res.Subject.ID, Error: res.Err.Error()})
		case res.Alignment != nil:
			resp.Aligned++
		}
	}
	if best, ok := alignment.FindBest(results); ok {
		resp.Best = &best.Index
	}

	var alignments []*alignment.Alignment[R]
	for _, res := range alignment.Rank(results) {
		alignments = append(alignments, res.Alignment)
		if req.MinScore != nil && res.Alignment.Score() < *req.MinScore {
			continue
		}
		if req.TopN > 0 && len(resp.Hits) == req.TopN {
			continue
		}
		resp.Hits = append(resp.Hits, BatchHit{Index: res.Index, ID: res.Subject.ID, Summary: res.Alignment.Summary()})
	}

	if len(subjects) > 0 {
		resp.Subjects, _ = stats.FromSequences(subjects)
	}
	if len(alignments) > 0 {
		resp.Alignments, _ = stats.Summarize(alignments)
	}
	return resp, nil
}
