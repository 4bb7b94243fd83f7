package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a 500. API clients get the usual JSON error body.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				log.Errorf("http: panic serving %s %s: %v\n%s", req.Method, req.URL.Path, rec, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}

				if strings.HasPrefix(req.URL.Path, "/api/") {
					pkg.WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				pkg.WriteResponse(w, pkg.ContentType.Text, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, req)
		})
	}
}
