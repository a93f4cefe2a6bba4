// Package handlers provides HTTP handlers for the jillion API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/JCVenterInstitute/jillion-go/internal/config"
	"github.com/JCVenterInstitute/jillion-go/internal/residue"
	"github.com/JCVenterInstitute/jillion-go/internal/sequence"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/shenwei356/go-logging"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 16 << 20

// Handlers serves the /api routes. The zero value has no traceback size
// limit and uses every CPU for batch requests.
type Handlers struct {
	// MaxCells caps the traceback matrix of every alignment; zero means
	// no limit.
	MaxCells int64
	// Threads is the number of workers of a batch request.
	Threads int
	// Log receives handler errors; nil disables logging.
	Log *logging.Logger
}

// New creates handlers configured from the [server] and [batch] sections.
func New(cfg *config.Config, log *logging.Logger) *Handlers {
	return &Handlers{
		MaxCells: cfg.Server.MaxCells,
		Threads:  cfg.Batch.Threads,
		Log:      log,
	}
}

// Routes returns a router of every endpoint, to be mounted at /api.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/alignment", func(r chi.Router) {
		r.Post("/global", h.GlobalAlignHandler)
		r.Post("/local", h.LocalAlignHandler)
		r.Post("/score", h.AlignmentScoreHandler)
		r.Post("/batch", h.BatchAlignHandler)
	})

	r.Route("/matrices", func(r chi.Router) {
		r.Get("/", h.ListMatricesHandler)
		r.Get("/{name}", h.MatrixHandler)
	})

	r.Route("/sequence", func(r chi.Router) {
		r.Post("/validate", h.ValidateHandler)
		r.Post("/reverse-complement", h.ReverseComplementHandler)
		r.Post("/gc-content", h.GCContentHandler)
		r.Post("/stats", h.SequenceStatsHandler)
	})

	r.Route("/kmer", func(r chi.Router) {
		r.Post("/count", h.KMerCountHandler)
		r.Post("/distance", h.KMerDistanceHandler)
	})

	r.Post("/trim/primers", h.TrimPrimersHandler)

	return r
}

// HealthHandler reports that the server is up.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fail writes err with a status chosen from its cause.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, alignment.ErrMatrixTooLarge):
		status = http.StatusRequestEntityTooLarge
	case r.Context().Err() != nil:
		status = http.StatusServiceUnavailable
	}
	if h.Log != nil {
		h.Log.Warningf("%s %s: %s", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// Scoring selects the alphabet, matrix and gap penalties of a request.
// Empty fields take the built-in defaults. Matrix is "identity" or the
// name of an embedded matrix; matrix files cannot be used over HTTP.
type Scoring struct {
	Alphabet  string   `json:"alphabet,omitempty"`
	Matrix    string   `json:"matrix,omitempty"`
	Match     *float32 `json:"match,omitempty"`
	Mismatch  *float32 `json:"mismatch,omitempty"`
	GapOpen   *float32 `json:"gap_open,omitempty"`
	GapExtend *float32 `json:"gap_extend,omitempty"`
}

// alignmentConfig merges s and mode over the defaults. An empty mode
// keeps the default.
func (h *Handlers) alignmentConfig(s Scoring, mode string) (config.Alignment, error) {
	a := config.Default().Alignment
	a.MaxCells = h.MaxCells
	if mode != "" {
		a.Mode = mode
	}
	if _, err := alignment.ParseMode(a.Mode); err != nil {
		return a, err
	}

	alphabet, err := alphabetName(s.Alphabet)
	if err != nil {
		return a, err
	}
	a.Alphabet = alphabet

	if s.Matrix != "" {
		a.Matrix = s.Matrix
	}
	if a.Matrix != config.MatrixIdentity {
		if _, err = alignment.MatrixText(a.Matrix); err != nil {
			return a, err
		}
	}

	if s.Match != nil {
		a.Match = *s.Match
	}
	if s.Mismatch != nil {
		a.Mismatch = *s.Mismatch
	}
	if s.GapOpen != nil {
		a.GapOpen = *s.GapOpen
	}
	if s.GapExtend != nil {
		a.GapExtend = *s.GapExtend
	}
	return a, nil
}

func buildOptions[R residue.Residue](a config.Alignment, alphabet *residue.Alphabet[R]) (alignment.Options[R], error) {
	matrix, err := config.Matrix(a, alphabet)
	if err != nil {
		return alignment.Options[R]{}, err
	}
	return config.Options[R](a, matrix)
}

func alphabetName(name string) (string, error) {
	switch name {
	case "", config.AlphabetNucleotide:
		return config.AlphabetNucleotide, nil
	case config.AlphabetAminoAcid:
		return config.AlphabetAminoAcid, nil
	default:
		return "", errors.Errorf("unknown alphabet: %s", name)
	}
}

// parse builds a sequence, prefixing errors with what.
func parse[R residue.Residue](alphabet *residue.Alphabet[R], s, what string) (*sequence.Sequence[R], error) {
	seq, err := sequence.New(alphabet, s)
	if err != nil {
		return nil, errors.Wrap(err, what)
	}
	return seq, nil
}
