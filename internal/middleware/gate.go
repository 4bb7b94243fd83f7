package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=middleware_mocks_test.go -package=middleware_test

type userChecker interface {
	UserFromRequest(r *http.Request) (*auth.User, error)
}

// SessionGate guards browser navigation. API routes are left to auth.RequireUser.
type SessionGate struct {
	checker           userChecker
	publicPaths       map[string]bool
	authPrefix        string
	protectedPrefixes []string
}

func NewSessionGate(checker userChecker) *SessionGate {
	return &SessionGate{
		checker: checker,
		publicPaths: map[string]bool{
			"/":                  true,
			"/auth/verify-email": true,
			// a signed in user must be able to leave
			"/auth/signout": true,
		},
		authPrefix: "/auth",
		protectedPrefixes: []string{
			"/dashboard",
			"/diet",
			"/exercise",
			"/profile",
		},
	}
}

func (g *SessionGate) isProtected(path string) bool {
	for _, prefix := range g.protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func (g *SessionGate) signedIn(r *http.Request) bool {
	user, err := g.checker.UserFromRequest(r)
	if err != nil {
		log.Tracef("[session gate] %s: %s", r.URL.Path, err)
		return false
	}
	return user != nil
}

func (g *SessionGate) Gate() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.session_gate")
			defer span.End()

			path := r.URL.Path
			switch {
			case g.publicPaths[path]:
				span.SetStatus(codes.Ok, "public")
			case path == g.authPrefix || strings.HasPrefix(path, g.authPrefix+"/"):
				if g.signedIn(r) {
					span.SetStatus(codes.Ok, "already-signed-in")
					http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
					return
				}
			case g.isProtected(path):
				if !g.signedIn(r) {
					log.Tracef("[session gate] anonymous request => %s", path)
					span.SetStatus(codes.Error, "not-signed-in")
					http.Redirect(w, r, "/auth/signin?redirectedFrom="+url.QueryEscape(path), http.StatusSeeOther)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
