package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"kharcha/internal/core"
)

var errLoginFailed = errors.New("login failed")

type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

// Login validates credentials locally, exchanges them for a token pair,
// and persists the resulting session. Server-side failures surface the
// most specific field error the backend provided; a response without one
// becomes a generic "login failed". Transport failures propagate as-is.
//
// The exchange runs on the plain client: login is unauthenticated, and a
// 401 here means bad credentials, not an expired session, so it must
// never enter the refresh-and-retry path.
func (c *Client) Login(ctx context.Context, creds core.Credentials) (Session, error) {
	creds = creds.Normalize()
	if err := creds.Validate(); err != nil {
		return Session{}, err
	}

	var lr loginResponse
	payload := map[string]string{"email": creds.Email, "password": creds.Password}
	if err := c.do(ctx, c.plain, http.MethodPost, c.accounts("login/"), payload, &lr); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message == "" {
			return Session{}, errLoginFailed
		}
		return Session{}, err
	}

	sess := Session{
		AccessToken:  lr.Access,
		RefreshToken: lr.Refresh,
		Role:         lr.Role,
		IsAdmin:      lr.IsAdmin,
	}
	if err := c.store.Save(sess); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

// refreshAccessToken exchanges the refresh token for a new access token.
// It deliberately uses the plain client: the refresh endpoint must not go
// through the auth transport or a failed refresh would recurse.
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	var out struct {
		Access string `json:"access"`
	}
	payload := map[string]string{"refresh": refreshToken}
	if err := c.do(ctx, c.plain, http.MethodPost, c.accounts("token/refresh/"), payload, &out); err != nil {
		return "", err
	}
	if out.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}
	return out.Access, nil
}

// Logout clears the session synchronously. Server-side token invalidation,
// if any, is the server's concern.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// IsAuthenticated is a pure predicate on token presence.
func (c *Client) IsAuthenticated() bool {
	return c.store.Current().IsAuthenticated()
}

// Session returns the current stored session.
func (c *Client) Session() Session {
	return c.store.Current()
}

// Register creates a new account. The same local validation as login runs
// first so obviously bad input never reaches the network. Like login it is
// unauthenticated and stays off the auth transport.
func (c *Client) Register(ctx context.Context, name string, creds core.Credentials) error {
	creds = creds.Normalize()
	if err := creds.Validate(); err != nil {
		return err
	}
	payload := map[string]string{
		"name":     name,
		"email":    creds.Email,
		"password": creds.Password,
	}
	if err := c.do(ctx, c.plain, http.MethodPost, c.accounts("register/"), payload, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Profile is the authenticated user's account record.
type Profile struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

func (c *Client) Profile(ctx context.Context) (Profile, error) {
	var p Profile
	if err := c.do(ctx, c.httpc, http.MethodGet, c.accounts("profile/"), nil, &p); err != nil {
		return Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	return p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, p Profile) (Profile, error) {
	var out Profile
	if err := c.do(ctx, c.httpc, http.MethodPut, c.accounts("profile/"), p, &out); err != nil {
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return out, nil
}
