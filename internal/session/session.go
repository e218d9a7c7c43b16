package session

import (
	"encoding/json"
	"sync"
	"time"

	"ironpress-terminal/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// StorageKey is the fixed key the session blob lives under. It matches the
// key the browser build used, so a backend operator can recognise it.
const StorageKey = "ironing_shop_user"

// BlobStore is the durable key/value storage the session is persisted to.
// Satisfied by storage.Store.
type BlobStore interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, value []byte) error
	Delete(key string) error
}

// Store holds the one operator session for this terminal and keeps it in
// sync with durable storage. It is constructed explicitly and passed down;
// there is no package-level singleton.
type Store struct {
	mu      sync.RWMutex
	blobs   BlobStore
	current *models.Session
	log     *logrus.Logger
}

// NewStore creates a session store and restores any persisted session.
// A malformed or absent blob yields a logged-out state, never an error:
// the worst case of corrupt local state is having to log in again.
func NewStore(blobs BlobStore, log *logrus.Logger) *Store {
	s := &Store{blobs: blobs, log: log}
	s.restore()
	return s
}

func (s *Store) restore() {
	raw, ok, err := s.blobs.Load(StorageKey)
	if err != nil {
		s.log.WithError(err).Warn("session: could not read persisted session, starting logged out")
		return
	}
	if !ok {
		return
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.log.WithError(err).Warn("session: persisted session is malformed, starting logged out")
		return
	}
	// A session without a usable access token is not a session.
	if sess.User == nil || sess.AccessToken == "" {
		s.log.Warn("session: persisted session has no access token, starting logged out")
		return
	}

	s.current = &sess
	if exp, ok := tokenExpiry(sess.AccessToken); ok {
		s.log.WithFields(logrus.Fields{
			"user":       sess.User.Email,
			"expires_at": exp.Format(time.RFC3339),
		}).Info("session: restored")
	} else {
		s.log.WithField("user", sess.User.Email).Info("session: restored")
	}
}

// Set replaces the session and persists it as one blob. Called on login.
func (s *Store) Set(sess *models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.blobs.Save(StorageKey, raw); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return nil
}

// ReplaceTokens swaps the token pair in place and persists the updated
// session. This is the only write path the refresh cycle uses.
func (s *Store) ReplaceTokens(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	updated := *s.current
	updated.AccessToken = accessToken
	updated.RefreshToken = refreshToken

	raw, err := json.Marshal(&updated)
	if err != nil {
		return err
	}
	if err := s.blobs.Save(StorageKey, raw); err != nil {
		return err
	}
	s.current = &updated
	return nil
}

// Clear drops the session from memory and durable storage. Storage errors
// are logged but do not keep the operator logged in.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.blobs.Delete(StorageKey); err != nil {
		s.log.WithError(err).Warn("session: could not delete persisted session")
	}
}

// Current returns a copy of the session, or nil when logged out.
func (s *Store) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	sess := *s.current
	return &sess
}

// CurrentUser returns the logged-in principal, or nil.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	return s.current.User
}

// CurrentStore returns the logged-in principal's store, or nil (super
// admins have none).
func (s *Store) CurrentStore() *models.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	return s.current.Store
}

// IsAuthenticated reports whether a session with an access token exists.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.User != nil && s.current.AccessToken != ""
}

// AccessToken returns the current access token, or "" when logged out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}

// RefreshToken returns the current refresh token, or "" when logged out.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.RefreshToken
}

// TokenExpiry reports when the current access token expires, if it carries
// an exp claim. The token is parsed without signature verification - the
// signing key belongs to the backend, the terminal only reads the clock.
func (s *Store) TokenExpiry() (time.Time, bool) {
	return tokenExpiry(s.AccessToken())
}

func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
