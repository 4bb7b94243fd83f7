package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	SessionCookieName = "fittrack_session"

	checkerCacheSize = 8 * 1024 * 1024
	// a signed out token can stay valid on other instances for at most this long
	checkerCacheTTLSeconds = 60
)

// Checker resolves the user behind a request. Anonymous requests get ErrSessionNotFound.
type Checker interface {
	UserFromRequest(r *http.Request) (*User, error)
}

var _ Checker = (*SessionChecker)(nil)

// SessionChecker reads the session cookie and resolves it through a small
// in-process cache in front of the session store.
type SessionChecker struct {
	store SessionStore
	cache *freecache.Cache
}

func NewSessionChecker(store SessionStore) *SessionChecker {
	return &SessionChecker{
		store: store,
		cache: freecache.NewCache(checkerCacheSize),
	}
}

func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c *SessionChecker) UserFromRequest(r *http.Request) (*User, error) {
	token := TokenFromRequest(r)
	if token == "" {
		return nil, ErrSessionNotFound
	}
	return c.UserForToken(r.Context(), token)
}

func (c *SessionChecker) UserForToken(ctx context.Context, token string) (*User, error) {
	if cached, err := c.cache.Get([]byte(token)); err == nil {
		user := &User{}
		if err := json.Unmarshal(cached, user); err == nil {
			return user, nil
		}
	}

	session, err := c.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := c.store.Refresh(ctx, token); err != nil && !errors.Is(err, ErrSessionNotFound) {
		log.Warnf("refresh session: %s", err)
	}

	user := session.User()
	if userBytes, err := json.Marshal(user); err == nil {
		if err := c.cache.Set([]byte(token), userBytes, checkerCacheTTLSeconds); err != nil {
			log.Warnf("cache session: %s", err)
		}
	}

	return user, nil
}

func (c *SessionChecker) Forget(token string) {
	c.cache.Del([]byte(token))
}
