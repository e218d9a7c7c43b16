package auth

import (
	"context"
	"errors"

	"ironpress-terminal/internal/apiclient"
	"ironpress-terminal/internal/models"
	"ironpress-terminal/internal/session"

	"github.com/sirupsen/logrus"
)

// Service orchestrates login and logout against the backend and keeps the
// session store in sync.
type Service struct {
	api      *apiclient.Client
	sessions *session.Store
	log      *logrus.Logger
}

func NewService(api *apiclient.Client, sessions *session.Store, log *logrus.Logger) *Service {
	return &Service{api: api, sessions: sessions, log: log}
}

// Login authenticates against POST /auth/login. On success the full
// session (principal, store, token pair) is persisted and ok is true. On
// any failure nothing is persisted and message carries a human-readable
// explanation, preferring the server's own wording.
func (s *Service) Login(ctx context.Context, email, password string) (ok bool, message string) {
	result, err := s.api.Auth.Login(ctx, email, password)
	if err != nil {
		s.log.WithError(err).Warn("login failed")
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return false, apiErr.Message
		}
		return false, "Login failed. Please check your credentials."
	}
	if result.User == nil || result.AccessToken == "" {
		return false, "Login failed. Please check your credentials."
	}

	sess := &models.Session{
		User:         result.User,
		Store:        result.Store,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}
	if err := s.sessions.Set(sess); err != nil {
		s.log.WithError(err).Error("could not persist session")
		return false, "Login succeeded but the session could not be saved."
	}

	s.log.WithFields(logrus.Fields{"user": result.User.Email, "role": result.User.Role}).Info("logged in")
	return true, "Login successful!"
}

// Logout tells the server best-effort and then unconditionally clears the
// local session. A dead backend must never trap the operator in a session.
func (s *Service) Logout(ctx context.Context) {
	if err := s.api.Auth.Logout(ctx); err != nil {
		s.log.WithError(err).Warn("server logout failed, clearing local session anyway")
	}
	s.sessions.Clear()
	s.log.Info("logged out")
}

// Current returns the logged-in principal, or nil.
func (s *Service) Current() *models.User {
	return s.sessions.CurrentUser()
}
