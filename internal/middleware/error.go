package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"
)

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// responseRecorder captures plain-text error bodies so they can be rewritten as JSON
type responseRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	passthrough bool
	body        strings.Builder
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if r.wroteHeader {
		return
	}
	r.statusCode = statusCode
	r.wroteHeader = true
	// JSON error bodies written by handlers go straight through
	r.passthrough = statusCode < 400 || strings.HasPrefix(r.Header().Get("Content-Type"), "application/json")
	if r.passthrough {
		r.ResponseWriter.WriteHeader(statusCode)
	}
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	if r.passthrough {
		return r.ResponseWriter.Write(b)
	}
	return r.body.Write(b)
}

func writeJSONError(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Del("X-Content-Type-Options")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// ErrorHandler recovers panics and turns plain-text error replies into JSON error bodies
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("stack", string(debug.Stack())))
					if !rec.wroteHeader || !rec.passthrough {
						writeJSONError(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
					}
					return
				}
				if rec.wroteHeader && !rec.passthrough {
					writeJSONError(w, rec.statusCode, ErrorResponse{Error: strings.TrimSpace(rec.body.String())})
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
