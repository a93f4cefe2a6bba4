package handlers

import (
	"io"
	"net/http"

	"github.com/JCVenterInstitute/jillion-go/internal/alignment"
	"github.com/go-chi/chi/v5"
)

// ListMatricesHandler lists the embedded scoring matrices.
func (h *Handlers) ListMatricesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, alignment.Matrices())
}

// MatrixHandler returns one embedded matrix in NCBI text format.
func (h *Handlers) MatrixHandler(w http.ResponseWriter, r *http.Request) {
	text, err := alignment.MatrixText(chi.URLParam(r, "name"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, text)
}
