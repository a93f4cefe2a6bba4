package handlers

import (
	"net/http"

	"github.com/JCVenterInstitute/jillion-go/internal/config"
	"github.com/JCVenterInstitute/jillion-go/internal/kmer"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
)

const defaultTopKMers = 10

// KMerRequest represents a k-mer count request. Top defaults to 10.
type KMerRequest struct {
	Sequence string `json:"sequence"`
	Alphabet string `json:"alphabet,omitempty"`
	K        int    `json:"k"`
	Top      int    `json:"top,omitempty"`
}

// KMerItem represents a k-mer and its count.
type KMerItem struct {
	KMer      string  `json:"kmer"`
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"`
}

// KMerCountResponse represents the response for k-mer counting.
type KMerCountResponse struct {
	K           int        `json:"k"`
	UniqueCount int        `json:"unique_count"`
	TotalCount  int        `json:"total_count"`
	KMers       []KMerItem `json:"kmers"`
}

// KMerCountHandler handles k-mer counting requests.
func (h *Handlers) KMerCountHandler(w http.ResponseWriter, r *http.Request) {
	var req KMerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Top == 0 {
		req.Top = defaultTopKMers
	}

	alphabet, err := alphabetName(req.Alphabet)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	counter, err := kmer.NewCounter(req.K)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	switch alphabet {
	case config.AlphabetAminoAcid:
		err = countInto(counter, residue.AminoAcids, req.Sequence)
	default:
		err = countInto(counter, residue.Nucleotides, req.Sequence)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	top, err := counter.MostFrequent(req.Top)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items := make([]KMerItem, len(top))
	for i, kc := range top {
		f, _ := counter.Frequency(kc.KMer)
		items[i] = KMerItem{KMer: kc.KMer, Count: kc.Count, Frequency: f}
	}

	writeJSON(w, http.StatusOK, KMerCountResponse{
		K:           req.K,
		UniqueCount: counter.UniqueCount(),
		TotalCount:  counter.Total,
		KMers:       items,
	})
}

func countInto[R residue.Residue](c *kmer.Counter, alphabet *residue.Alphabet[R], s string) error {
	seq, err := parse(alphabet, s, "sequence")
	if err != nil {
		return err
	}
	kmer.Add(c, seq)
	return nil
}

// KMerDistanceRequest represents a k-mer distance request.
type KMerDistanceRequest struct {
	Sequence1 string `json:"sequence1"`
	Sequence2 string `json:"sequence2"`
	Alphabet  string `json:"alphabet,omitempty"`
	K         int    `json:"k"`
}

// KMerDistanceResponse represents the response for k-mer distance.
type KMerDistanceResponse struct {
	Jaccard    float64 `json:"jaccard_distance"`
	Cosine     float64 `json:"cosine_distance"`
	Similarity float64 `json:"similarity"`
	Shared     int     `json:"shared_kmers"`
}

// KMerDistanceHandler handles k-mer distance requests.
func (h *Handlers) KMerDistanceHandler(w http.ResponseWriter, r *http.Request) {
	var req KMerDistanceRequest
	if !decode(w, r, &req) {
		return
	}

	alphabet, err := alphabetName(req.Alphabet)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var resp *KMerDistanceResponse
	switch alphabet {
	case config.AlphabetAminoAcid:
		resp, err = distances(residue.AminoAcids, req)
	default:
		resp, err = distances(residue.Nucleotides, req)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func distances[R residue.Residue](alphabet *residue.Alphabet[R], req KMerDistanceRequest) (*KMerDistanceResponse, error) {
	seq1, err := parse(alphabet, req.Sequence1, "sequence1")
	if err != nil {
		return nil, err
	}
	seq2, err := parse(alphabet, req.Sequence2, "sequence2")
	if err != nil {
		return nil, err
	}

	resp := &KMerDistanceResponse{}
	if resp.Jaccard, err = kmer.JaccardDistance(seq1, seq2, req.K); err != nil {
		return nil, err
	}
	if resp.Cosine, err = kmer.CosineDistance(seq1, seq2, req.K); err != nil {
		return nil, err
	}
	if resp.Shared, err = kmer.SharedKMers(seq1, seq2, req.K); err != nil {
		return nil, err
	}
	resp.Similarity = 1.0 - resp.Jaccard
	return resp, nil
}
