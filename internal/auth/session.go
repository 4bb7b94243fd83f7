package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fittrack/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fittrack-session||"
	tokensSetKey     = "fittrack-sessions"
	tokenLength      = 35
)

type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) User() *User {
	return &User{ID: s.UserID, Email: s.Email}
}

type SessionStore interface {
	Create(ctx context.Context, user *User) (string, error)
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) error
}

var _ SessionStore = (*SessionService)(nil)

// SessionService keeps sessions in redis under sessionKeyPrefix+token, expiring after ttl.
// Tokens are also kept in a set, so dangling ones can be cleaned up.
type SessionService struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
	Now            func() time.Time
}

func NewSessionService(ttl time.Duration, redisClient *redis.Client) *SessionService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionService{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
		Now:            time.Now,
	}
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

func (s *SessionService) Create(ctx context.Context, user *User) (string, error) {
	if user == nil || user.ID == "" {
		return "", errors.New("session without user")
	}

	token, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	payload, err := json.Marshal(Session{
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: s.Now().UTC().Truncate(time.Second),
	})
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := s.redisClient.Set(ctx, sessionKeyPrefix+token, string(payload), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	// add token to the set of sessions
	if err := s.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", fmt.Errorf("track session: %w", err)
	}

	return token, nil
}

func (s *SessionService) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	val, err := s.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal([]byte(val), session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	session.Token = token

	return session, nil
}

func (s *SessionService) Delete(ctx context.Context, token string) error {
	if err := s.redisClient.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	// remove token from the set of sessions
	if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return fmt.Errorf("untrack session: %w", err)
	}

	return nil
}

// Refresh extends the session back to the full ttl once less than half of it is left.
func (s *SessionService) Refresh(ctx context.Context, token string) error {
	sessionKey := sessionKeyPrefix + token
	left, err := s.redisClient.TTL(ctx, sessionKey).Result()
	if err != nil {
		return fmt.Errorf("get session ttl: %w", err)
	}

	// -2: key does not exist, -1: no expiry set
	if left == -2 {
		return ErrSessionNotFound
	}

	if left > s.ttl/2 {
		return nil
	}

	if err := s.redisClient.Expire(ctx, sessionKey, s.ttl).Err(); err != nil {
		return fmt.Errorf("extend session: %w", err)
	}

	return nil
}

// ScanAndClean will run through all tracked tokens and drop the ones whose session expired
func (s *SessionService) ScanAndClean(ctx context.Context) {
	sessionTokens, err := s.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("!!! session service, scan and clean, get sessions: %s", err)
		return
	}

	if len(sessionTokens) == 0 {
		log.Debugln("=> session service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("=> session service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		exists, err := s.redisClient.Exists(ctx, sessionKeyPrefix+token).Result()
		if err != nil {
			log.Errorf("=> session service, scan and clean token: %s", err)
			continue
		}
		if exists == 0 {
			toRemove = append(toRemove, token)
		}
	}

	if len(toRemove) == 0 {
		return
	}

	members := make([]any, len(toRemove))
	for i, token := range toRemove {
		members[i] = token
	}
	if err := s.redisClient.SRem(ctx, tokensSetKey, members...).Err(); err != nil {
		log.Errorf("=> session service, clean %d tokens: %s", len(toRemove), err)
		return
	}

	log.Debugf("=> session service, cleaned %d expired sessions", len(toRemove))
}

// RunCleaner calls ScanAndClean every interval until ctx is done.
func (s *SessionService) RunCleaner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debugln("session cleaner stopped")
			return
		case <-ticker.C:
			s.ScanAndClean(ctx)
		}
	}
}
