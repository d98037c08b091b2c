package httpx

import (
	"log/slog"
	"net/http"
)

// HandlerFunc is an HTTP handler that reports failure through its return value.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn into an http.HandlerFunc. Returned errors are translated
// into the response envelope; unclassified ones are logged.
func Handle(logger *slog.Logger, fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		if status, _ := Classify(err); status >= http.StatusInternalServerError && logger != nil {
			logger.Error("request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err))
		}
		RespondError(w, err)
	}
}
