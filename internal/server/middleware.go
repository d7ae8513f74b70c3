package server

import (
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"

	"github.com/valpere/pereval/internal/orchestrator"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 128
)

// CORSMiddleware allows any origin. Preflight requests are answered directly.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", requestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestIDMiddleware tags each request with an id (the caller's
// X-Request-ID when it is acceptable), exposes it on the response, and logs
// the request once it completes.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		log := clog.FromContext(r.Context()).With("request_id", id)
		ctx := clog.WithLogger(r.Context(), log)
		ctx = orchestrator.WithRequestID(ctx, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		log.With("method", r.Method, "path", r.URL.Path, "status", rec.status).
			Infof("handled in %s", time.Since(start).Round(time.Millisecond))
	})
}

// validRequestID accepts non-empty ids of at most maxRequestIDLen ASCII
// letters, digits and "-_.:".
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}
