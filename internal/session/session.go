// Package session projects a provider-issued identity into the request
// path. The cookie holds a sealed session id; the store holds the
// identity and the backend credential. Handlers see a read-only Session
// value; the only mutations are the token rotation driven by the API
// client and sign-in/sign-out.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"freshthreads/internal/domain"
)

const (
	CookieName = "ft_session"
	defaultTTL = 7 * 24 * time.Hour
)

// Session is the per-request projection of one signed-in user. It
// implements api.Credentials so the API client can rotate the access
// token transparently.
type Session struct {
	ID   string
	User domain.User

	store        *Store
	accessToken  string
	refreshToken string
}

func (s *Session) Token() string        { return s.accessToken }
func (s *Session) RefreshToken() string { return s.refreshToken }

func (s *Session) SetToken(tok string) error {
	s.accessToken = tok
	return s.store.UpdateAccessToken(s.ID, tok)
}

func (s *Session) Invalidate() error {
	return s.store.Delete(s.ID)
}

// HasBackendToken reports whether a backend credential is attached.
func (s *Session) HasBackendToken() bool { return s.accessToken != "" }

// TokenExpiry reads the exp claim of the backend access token. The
// backend verifies the signature; the client only uses the claim to
// display and schedule, so an unverified parse is sufficient.
func (s *Session) TokenExpiry() (time.Time, bool) {
	if s.accessToken == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.accessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Manager issues and resolves sessions. It performs no network calls;
// backend-side invalidation on sign-out belongs to the caller.
type Manager struct {
	store *Store
	key   [32]byte
	ttl   time.Duration
}

func NewManager(store *Store, secret string) *Manager {
	return &Manager{store: store, key: Key(secret), ttl: defaultTTL}
}

// Issue creates a session for a signed-in user and returns it together
// with the sealed cookie value.
func (m *Manager) Issue(u domain.User, accessToken, refreshToken string) (*Session, string, error) {
	sid := uuid.NewString()
	if err := m.store.Create(sid, u, accessToken, refreshToken); err != nil {
		return nil, "", err
	}
	cookie, err := Seal(m.key, sid, m.ttl)
	if err != nil {
		_ = m.store.Delete(sid)
		return nil, "", err
	}
	return &Session{
		ID:           sid,
		User:         u,
		store:        m.store,
		accessToken:  accessToken,
		refreshToken: refreshToken,
	}, cookie, nil
}

// Current resolves a cookie value to a live session. Anonymous requests
// (empty, tampered, expired, or unknown tokens) resolve to nil, nil.
func (m *Manager) Current(rawCookie string) (*Session, error) {
	if rawCookie == "" {
		return nil, nil
	}
	sid, err := Open(m.key, rawCookie)
	if err != nil {
		return nil, nil
	}
	row, err := m.store.Get(sid)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return &Session{
		ID: row.ID,
		User: domain.User{
			ID:       row.UserID,
			Email:    row.Email,
			Name:     row.Name,
			Username: row.Username,
			Role:     row.Role,
		},
		store:        m.store,
		accessToken:  row.AccessToken,
		refreshToken: row.RefreshToken,
	}, nil
}

// Destroy removes the local session state.
func (m *Manager) Destroy(s *Session) error {
	if s == nil {
		return nil
	}
	return m.store.Delete(s.ID)
}
