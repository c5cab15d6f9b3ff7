// Package auth runs the delegated sign-in: the user authenticates with
// the OAuth provider, the provider's id_token is forwarded to the
// backend, and the backend's own credential pair comes back and is bound
// to a local session.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"freshthreads/internal/api"
	"freshthreads/internal/config"
	"freshthreads/internal/domain"
	"freshthreads/internal/session"
)

var ErrNoIDToken = errors.New("provider response carried no id_token")

type loginRequest struct {
	Provider        string `json:"provider"`
	Token           string `json:"token"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	ProfileImageURL string `json:"profileImageUrl"`
	ProviderID      string `json:"providerId"`
}

type loginData struct {
	User         domain.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

type OAuth struct {
	cfg      *oauth2.Config
	api      *api.Client
	sessions *session.Manager
}

func New(cfg config.Config, apiClient *api.Client, sessions *session.Manager) *OAuth {
	return &OAuth{
		cfg: &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuthAuthURL,
				TokenURL: cfg.OAuthTokenURL,
			},
		},
		api:      apiClient,
		sessions: sessions,
	}
}

// AuthCodeURL builds the provider redirect for a CSRF state nonce.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// HandleCallback exchanges the authorization code, signs the user in at
// the backend, and issues the local session. It returns the session and
// the sealed cookie value.
func (o *OAuth) HandleCallback(ctx context.Context, code string) (*session.Session, string, error) {
	tok, err := o.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, "", err
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return nil, "", ErrNoIDToken
	}

	req := claimsToLoginRequest(idToken)

	var data loginData
	if err := o.api.Post(ctx, nil, "/auth/oauth/login", req, &data); err != nil {
		return nil, "", err
	}

	user := data.User
	if user.Email == "" {
		user.Email = req.Email
	}
	if user.Name == "" {
		user.Name = strings.TrimSpace(req.FirstName + " " + req.LastName)
	}

	return o.sessions.Issue(user, data.AccessToken, data.RefreshToken)
}

// claimsToLoginRequest reads the profile claims out of the provider
// id_token. The backend re-verifies the token against the provider; here
// the claims only pre-fill the login payload.
func claimsToLoginRequest(idToken string) loginRequest {
	req := loginRequest{Provider: "google", Token: idToken}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return req
	}
	req.Email, _ = claims["email"].(string)
	req.FirstName, _ = claims["given_name"].(string)
	req.LastName, _ = claims["family_name"].(string)
	req.ProfileImageURL, _ = claims["picture"].(string)
	req.ProviderID, _ = claims["sub"].(string)
	if name, _ := claims["name"].(string); name != "" && req.FirstName == "" {
		parts := strings.SplitN(name, " ", 2)
		req.FirstName = parts[0]
		if len(parts) > 1 {
			req.LastName = parts[1]
		}
	}
	return req
}
