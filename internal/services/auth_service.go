package services

import (
	"context"

	"freshthreads/internal/api"
	"freshthreads/internal/session"
)

// AuthService owns sign-out: the backend session is invalidated first,
// then the local one. A failed backend call never strands the user in a
// half-signed-in state.
type AuthService struct {
	API      *api.Client
	Sessions *session.Manager
}

func NewAuthService(c *api.Client, m *session.Manager) *AuthService {
	return &AuthService{API: c, Sessions: m}
}

func (s *AuthService) SignOut(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return nil
	}
	// Best effort: local teardown proceeds even if the backend is down.
	_ = s.API.Post(ctx, sess, "/auth/logout", nil, nil)
	return s.Sessions.Destroy(sess)
}
