package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/sync/singleflight"
)

// ErrSessionExpired is returned when a 401 cannot be recovered: either no
// refresh token is stored or the refresh exchange itself failed. The
// session storage is already cleared when this error surfaces; the only
// way forward is a fresh login.
var ErrSessionExpired = errors.New("session expired, please log in again")

type refreshFunc func(ctx context.Context, refreshToken string) (string, error)

// authTransport attaches the bearer token to outgoing requests and
// recovers once per request from a 401 by exchanging the refresh token.
//
// Concurrent requests failing close together would each trigger their own
// refresh; the singleflight group collapses those into one exchange so the
// token slot is written exactly once per expiry.
type authTransport struct {
	base    http.RoundTripper
	store   *SessionStore
	refresh refreshFunc
	group   singleflight.Group
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.send(req, "")
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// One recovery attempt per original request, never more.
	drain(resp)
	access, err := t.refreshAccess(req.Context())
	if err != nil {
		return nil, err
	}
	return t.send(req, access)
}

// send issues the request with the bearer header set iff a token is
// available. A missing token is not an error; whether the endpoint
// requires auth is the server's call.
func (t *authTransport) send(req *http.Request, access string) (*http.Response, error) {
	r := req.Clone(req.Context())
	if req.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("replay request body: %w", err)
		}
		r.Body = body
	}
	if access == "" {
		access = t.store.Current().AccessToken
	}
	if access != "" {
		r.Header.Set("Authorization", "Bearer "+access)
	}
	return t.base.RoundTrip(r)
}

// refreshAccess exchanges the refresh token for a new access token and
// persists it. On any irrecoverable condition the session is cleared
// before the error is returned.
func (t *authTransport) refreshAccess(ctx context.Context) (string, error) {
	v, err, _ := t.group.Do("refresh", func() (any, error) {
		sess := t.store.Current()
		if sess.RefreshToken == "" {
			_ = t.store.Clear()
			return nil, ErrSessionExpired
		}
		access, err := t.refresh(ctx, sess.RefreshToken)
		if err != nil {
			_ = t.store.Clear()
			return nil, fmt.Errorf("%w: token refresh failed: %v", ErrSessionExpired, err)
		}
		if err := t.store.SetAccessToken(access); err != nil {
			return nil, fmt.Errorf("persist refreshed token: %w", err)
		}
		return access, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}
