// Package greeting serves the root route: a fixed plain-text greeting that
// stays constant for the process lifetime.
package greeting

import (
	"net/http"

	"go.uber.org/zap"

	appmiddleware "github.com/devgrid/greeting-service/internal/middleware"
)

// Handler returns the root route handler. The message is captured once at
// startup; request handling is stateless and idempotent.
func Handler(message string) http.HandlerFunc {
	body := []byte(message)
	return func(w http.ResponseWriter, r *http.Request) {
		appmiddleware.LogInfo(r.Context(), "greeting served", zap.String("path", r.URL.Path))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}
