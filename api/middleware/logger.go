// Package middleware holds HTTP middleware of the jillion server.
package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/shenwei356/go-logging"
)

// Logger returns middleware logging one line per request: request ID,
// method, path, status, bytes written and duration. Server errors are
// logged as warnings.
func Logger(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				reqID := chimiddleware.GetReqID(r.Context())
				if reqID == "" {
					reqID = "-"
				}
				if status >= http.StatusInternalServerError {
					log.Warningf("%s %s %s %d %dB %s", reqID, r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start))
					return
				}
				log.Infof("%s %s %s %d %dB %s", reqID, r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start))
			}()
			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
