package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"freshthreads/internal/api"
	"freshthreads/internal/auth"
	"freshthreads/internal/config"
	"freshthreads/internal/domain"
	"freshthreads/internal/session"
)

func signedIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

// providerServer fakes the OAuth token endpoint.
func providerServer(t *testing.T, idToken string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "provider-access",
			"token_type":   "Bearer",
			"id_token":     idToken,
		})
	}))
}

func newOAuth(t *testing.T, provider, backend *httptest.Server) (*auth.OAuth, *session.Manager) {
	t.Helper()
	store, err := session.OpenStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	sessions := session.NewManager(store, "test-secret")
	cfg := config.Config{
		OAuthClientID:     "client",
		OAuthClientSecret: "secret",
		OAuthAuthURL:      provider.URL + "/auth",
		OAuthTokenURL:     provider.URL + "/token",
		OAuthRedirectURL:  "http://localhost:8080/auth/callback",
	}
	return auth.New(cfg, api.New(backend.URL), sessions), sessions
}

func TestAuthCodeURL_CarriesStateAndScopes(t *testing.T) {
	provider := providerServer(t, "")
	defer provider.Close()
	backend := httptest.NewServer(http.NotFoundHandler())
	defer backend.Close()

	o, _ := newOAuth(t, provider, backend)
	u := o.AuthCodeURL("nonce-123")
	for _, want := range []string{"state=nonce-123", "client_id=client", "scope=openid+email+profile"} {
		if !strings.Contains(u, want) {
			t.Fatalf("auth url %q missing %q", u, want)
		}
	}
}

func TestHandleCallback_SignsInAndIssuesSession(t *testing.T) {
	idToken := signedIDToken(t, jwt.MapClaims{
		"email":       "jamie@example.com",
		"given_name":  "Jamie",
		"family_name": "Rivera",
		"sub":         "google-uid-1",
	})
	provider := providerServer(t, idToken)
	defer provider.Close()

	var loginBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/oauth/login" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&loginBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"user":          domain.User{ID: 7, Email: "jamie@example.com", Name: "Jamie Rivera"},
				"access_token":  "backend-access",
				"refresh_token": "backend-refresh",
			},
		})
	}))
	defer backend.Close()

	o, sessions := newOAuth(t, provider, backend)
	s, cookie, err := o.HandleCallback(context.Background(), "auth-code")
	if err != nil {
		t.Fatal(err)
	}
	if s.User.ID != 7 || s.Token() != "backend-access" || s.RefreshToken() != "backend-refresh" {
		t.Fatalf("session = %+v", s)
	}

	// The id_token travels to the backend with the profile claims.
	if loginBody["token"] != idToken || loginBody["email"] != "jamie@example.com" {
		t.Fatalf("login request = %+v", loginBody)
	}
	if loginBody["providerId"] != "google-uid-1" || loginBody["firstName"] != "Jamie" {
		t.Fatalf("login request = %+v", loginBody)
	}

	// And the cookie resolves back to the issued session.
	resolved, err := sessions.Current(cookie)
	if err != nil {
		t.Fatal(err)
	}
	if resolved == nil || resolved.ID != s.ID {
		t.Fatalf("resolved = %+v", resolved)
	}
}

func TestHandleCallback_MissingIDTokenFails(t *testing.T) {
	provider := providerServer(t, "")
	defer provider.Close()
	backend := httptest.NewServer(http.NotFoundHandler())
	defer backend.Close()

	o, _ := newOAuth(t, provider, backend)
	if _, _, err := o.HandleCallback(context.Background(), "auth-code"); !errors.Is(err, auth.ErrNoIDToken) {
		t.Fatalf("err = %v, want ErrNoIDToken", err)
	}
}

func TestHandleCallback_BackendRejectionSurfaces(t *testing.T) {
	idToken := signedIDToken(t, jwt.MapClaims{"email": "jamie@example.com"})
	provider := providerServer(t, idToken)
	defer provider.Close()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Account disabled"})
	}))
	defer backend.Close()

	o, _ := newOAuth(t, provider, backend)
	_, _, err := o.HandleCallback(context.Background(), "auth-code")
	if err == nil {
		t.Fatal("expected backend rejection")
	}
	if got := api.Message(err); got != "Account disabled" {
		t.Fatalf("message = %q", got)
	}
}
