// Package api assembles the HTTP interface of the jillion server.
package api

import (
	"net/http"
	"time"

	"github.com/JCVenterInstitute/jillion-go/api/handlers"
	"github.com/JCVenterInstitute/jillion-go/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/shenwei356/go-logging"
)

// RequestTimeout bounds the handling of one request.
const RequestTimeout = 60 * time.Second

// NewRouter returns the root router: middleware, /health, the home page
// and the handlers mounted at /api.
func NewRouter(h *handlers.Handlers, log *logging.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(RequestTimeout))

	r.Get("/health", handlers.HealthHandler)
	r.Mount("/api", h.Routes())
	r.Get("/", homeHandler)

	return r
}

func homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(homePage))
}

const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>jillion API</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
        h1 { color: #2563eb; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 0.5rem; overflow-x: auto; }
        .endpoint { margin: 1rem 0; padding: 1rem; border: 1px solid #e5e7eb; border-radius: 0.5rem; }
        .method { display: inline-block; padding: 0.25rem 0.5rem; background: #10b981; color: white; border-radius: 0.25rem; font-size: 0.875rem; }
    </style>
</head>
<body>
    <h1>jillion API</h1>
    <p>Affine-gap global and local sequence alignment.</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/local</code>
        <p>Smith-Waterman local alignment.</p>
        <pre>{"query": "PAWHEAE", "subject": "HEAGAWGHEE", "alphabet": "amino-acid", "matrix": "BLOSUM50", "gap_open": -8, "gap_extend": -6}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/global</code>
        <p>Needleman-Wunsch global alignment.</p>
        <pre>{"query": "ACGTACGT", "subject": "ACGACGT"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/batch</code>
        <p>Align one query against many subjects, best first.</p>
        <pre>{"query": "ACGTACGT", "subjects": [{"id": "s1", "sequence": "ACGT"}], "top_n": 10}</pre>
    </div>

    <div class="endpoint">
        <span class="method">GET</span> <code>/api/matrices</code>
        <p>List the embedded scoring matrices.</p>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/trim/primers</code>
        <p>Find primers in a read and return its clear range.</p>
        <pre>{"read": "GTTTCCCAGTCACGACATCGGATCC", "primers": [{"id": "M13F", "sequence": "GTTTCCCAGTCACGAC"}]}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/kmer/count</code>
        <p>Count k-mers in a sequence.</p>
        <pre>{"sequence": "ATGATGATG", "k": 3}</pre>
    </div>
</body>
</html>`
