package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/fitpulse/internal/telemetry/metrics"
	"github.com/2beens/fitpulse/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a 500, counts it and reports it to sentry.
// Sentry reporting is a no-op when the client was never initialized.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				route := r.URL.Path
				if current := mux.CurrentRoute(r); current != nil && current.GetName() != "" {
					route = current.GetName()
				}
				log.Errorf("http: panic serving [%s] from %s: %v\n%s", route, pkg.ClientIP(r), recovered, debug.Stack())

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}

				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetTag("route", route)
				hub.Recover(recovered)

				http.Error(w, "internal error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
