package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JCVenterInstitute/jillion-go/internal/logutil"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logutil.New("middleware-test", &buf, true)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(Logger(log))
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "[INFO] ")
	assert.Contains(t, buf.String(), " GET /ok 200 5B ")

	buf.Reset()
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Contains(t, buf.String(), "[WARN] ")
	assert.Contains(t, buf.String(), " GET /boom 500 ")
}
