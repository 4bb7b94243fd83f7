package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	minPasswordLength = 6
	defaultLandingURL = "/dashboard"
)

type Handler struct {
	provider     Provider
	sessions     SessionStore
	checker      *SessionChecker
	sessionTTL   time.Duration
	cookieSecure bool
}

func NewHandler(
	provider Provider,
	sessions SessionStore,
	checker *SessionChecker,
	sessionTTL time.Duration,
	cookieSecure bool,
) *Handler {
	return &Handler{
		provider:     provider,
		sessions:     sessions,
		checker:      checker,
		sessionTTL:   sessionTTL,
		cookieSecure: cookieSecure,
	}
}

type credentials struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RedirectedFrom string `json:"redirectedFrom"`
}

type userResponse struct {
	User    *User  `json:"user"`
	Message string `json:"message,omitempty"`
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON)
}

func readCredentials(r *http.Request) (credentials, error) {
	var creds credentials
	if isJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return creds, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return creds, err
		}
		creds.Email = r.Form.Get("email")
		creds.Password = r.Form.Get("password")
		creds.RedirectedFrom = r.Form.Get("redirectedFrom")
	}
	creds.Email = strings.TrimSpace(creds.Email)
	return creds, nil
}

func (c credentials) validate() string {
	if c.Email == "" || !strings.Contains(c.Email, "@") {
		return "Valid email is required"
	}
	if len(c.Password) < minPasswordLength {
		return "Password must be at least 6 characters"
	}
	return ""
}

// SafeRedirect only allows local paths, so redirectedFrom cannot send users off site.
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return defaultLandingURL
	}
	return target
}

func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.signIn")
	defer span.End()

	jsonReq := isJSONRequest(r)
	creds, err := readCredentials(r)
	if err != nil {
		h.signInFailed(w, r, jsonReq, creds.RedirectedFrom, "Invalid request", http.StatusBadRequest)
		return
	}
	if msg := creds.validate(); msg != "" {
		h.signInFailed(w, r, jsonReq, creds.RedirectedFrom, msg, http.StatusBadRequest)
		return
	}

	user, err := h.provider.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Tracef("sign in rejected for %s", creds.Email)
			h.signInFailed(w, r, jsonReq, creds.RedirectedFrom, "Invalid login credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("sign in %s: %s", creds.Email, err)
		h.signInFailed(w, r, jsonReq, creds.RedirectedFrom, "Unable to sign in at the moment", http.StatusBadGateway)
		return
	}

	token, err := h.sessions.Create(ctx, user)
	if err != nil {
		log.Errorf("create session for %s: %s", user.ID, err)
		h.signInFailed(w, r, jsonReq, creds.RedirectedFrom, "Unable to sign in at the moment", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, token)
	log.Debugf("user %s signed in", user.ID)

	if jsonReq {
		pkg.WriteJSONOK(w, userResponse{User: user})
		return
	}
	http.Redirect(w, r, SafeRedirect(creds.RedirectedFrom), http.StatusSeeOther)
}

func (h *Handler) signInFailed(w http.ResponseWriter, r *http.Request, jsonReq bool, redirectedFrom, msg string, status int) {
	if jsonReq {
		pkg.WriteJSONError(w, msg, status)
		return
	}
	q := url.Values{}
	q.Set("error", msg)
	if redirectedFrom != "" {
		q.Set("redirectedFrom", redirectedFrom)
	}
	http.Redirect(w, r, "/auth/signin?"+q.Encode(), http.StatusSeeOther)
}

func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.signUp")
	defer span.End()

	jsonReq := isJSONRequest(r)
	creds, err := readCredentials(r)
	if err != nil {
		h.signUpFailed(w, r, jsonReq, "Invalid request", http.StatusBadRequest)
		return
	}
	if msg := creds.validate(); msg != "" {
		h.signUpFailed(w, r, jsonReq, msg, http.StatusBadRequest)
		return
	}

	user, err := h.provider.SignUp(ctx, creds.Email, creds.Password)
	switch {
	case errors.Is(err, ErrSignUpNotSupported):
		h.signUpFailed(w, r, jsonReq, "Sign up is not available", http.StatusForbidden)
		return
	case errors.Is(err, ErrUserExists):
		h.signUpFailed(w, r, jsonReq, "User already registered", http.StatusConflict)
		return
	case err != nil:
		log.Errorf("sign up %s: %s", creds.Email, err)
		h.signUpFailed(w, r, jsonReq, "Unable to sign up at the moment", http.StatusBadGateway)
		return
	}

	log.Debugf("user %s signed up, waiting for email verification", user.ID)
	if jsonReq {
		pkg.WriteJSON(w, userResponse{User: user, Message: "Check your email to verify your account"}, http.StatusCreated)
		return
	}
	http.Redirect(w, r, "/auth/verify-email", http.StatusSeeOther)
}

func (h *Handler) signUpFailed(w http.ResponseWriter, r *http.Request, jsonReq bool, msg string, status int) {
	if jsonReq {
		pkg.WriteJSONError(w, msg, status)
		return
	}
	q := url.Values{}
	q.Set("error", msg)
	q.Set("mode", "signup")
	http.Redirect(w, r, "/auth/signin?"+q.Encode(), http.StatusSeeOther)
}

func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.signOut")
	defer span.End()

	if token := TokenFromRequest(r); token != "" {
		if err := h.sessions.Delete(ctx, token); err != nil {
			log.Errorf("delete session: %s", err)
		}
		if h.checker != nil {
			h.checker.Forget(token)
		}
	}
	h.clearSessionCookie(w)

	if isJSONRequest(r) {
		pkg.WriteJSONSuccess(w)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
