package middleware

import (
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// MaxBodyDrain caps how much of an unread request body is discarded.
// Meal, exercise and profile payloads are a few hundred bytes.
const MaxBodyDrain = 64 << 10

// CloseRequestBody discards whatever the handler left unread, up to maxDrain
// bytes, and closes the body so the connection can be reused. A body with
// more left than that is closed without reading the rest, and net/http drops
// the connection instead.
func CloseRequestBody(maxDrain int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil || r.Body == http.NoBody {
				return
			}

			n, _ := io.CopyN(io.Discard, r.Body, maxDrain)
			if n == maxDrain {
				log.Debugf("request body for [%s %s] had at least %d unread bytes", r.Method, r.URL.Path, maxDrain)
			}
			if err := r.Body.Close(); err != nil {
				log.Tracef("close request body: %s", err)
			}
		})
	}
}
