package model

import (
	"context"
	"net/http"
	"time"

	"github.com/campusnex/backend/pkg/xcontext"
)

// Access Token and Refresh Token
type AccessToken struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type RefreshToken struct {
	Family  string `json:"family"`
	Counter uint64 `json:"counter"`
}

// OAuth2 Login
type OAuth2LoginRequest struct {
	Type        string `json:"type"`
	RedirectURI string `json:"redirect_uri"`
}

type OAuth2LoginResponse struct {
	RedirectURL string `json:"-"`
	State       string `json:"-"`
}

func (r OAuth2LoginResponse) RedirectInfo() (int, string) {
	return 307, r.RedirectURL
}

func (r OAuth2LoginResponse) SessionInfo() map[string]any {
	return map[string]any{"state": r.State}
}

// OAuth2 Verify
type OAuth2VerifyRequest struct {
	Type         string `json:"type"`
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	Code         string `json:"code"`
	CodeVerifier string `json:"code_verifier"`
	RedirectURI  string `json:"redirect_uri"`
	State        string `json:"state"`
	SessionState string `session:"state,delete"`
}

type OAuth2VerifyResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CookieInfo mirrors the access token into a cookie, so browser clients
// are authenticated without keeping the token themselves.
func (r OAuth2VerifyResponse) CookieInfo(ctx context.Context) []http.Cookie {
	cfg := xcontext.Configs(ctx).Auth.AccessToken
	return []http.Cookie{{
		Name:     cfg.Name,
		Value:    r.AccessToken,
		Path:     "/",
		Expires:  time.Now().Add(cfg.Expiration),
		Secure:   true,
		HttpOnly: false,
	}}
}

// Refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
