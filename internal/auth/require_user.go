package auth

import (
	"errors"
	"net/http"

	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
)

// UserHandlerFunc is a handler that needs the signed in user.
type UserHandlerFunc func(w http.ResponseWriter, r *http.Request, user *User)

// RequireUser resolves the session user and passes it to fn.
// Requests without a valid session get a 401 and fn is never called.
func RequireUser(checker Checker, fn UserHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := checker.UserFromRequest(r)
		if err != nil {
			if !errors.Is(err, ErrSessionNotFound) {
				log.Errorf("resolve session for %s: %s", r.URL.Path, err)
			}
			pkg.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		fn(w, r, user)
	}
}
