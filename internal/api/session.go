package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Session is derived from token-pair presence and carries the role flags
// returned by the login endpoint. It is created on successful login and
// destroyed on logout or irrecoverable refresh failure.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
	IsAdmin      bool   `json:"is_admin"`
}

// IsAuthenticated reports whether an access token is present. Used by the
// CLI as a route-guard equivalent; it never triggers a refresh.
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// SessionStore persists the session as a JSON file. It is the single
// mutable slot shared by every in-flight request, so all access goes
// through the mutex. The store is handed to the Client explicitly rather
// than living in package-level state.
type SessionStore struct {
	mu      sync.Mutex
	path    string
	current Session
}

// NewSessionStore loads the session file at path if one exists. A missing
// file is not an error; it just means an anonymous session.
func NewSessionStore(path string) (*SessionStore, error) {
	st := &SessionStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(data, &st.current); err != nil {
		return nil, fmt.Errorf("decode session file %s: %w", path, err)
	}
	return st, nil
}

// Current returns a copy of the stored session.
func (st *SessionStore) Current() Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current
}

// Save replaces the session and persists it with user-only permissions.
func (st *SessionStore) Save(sess Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.write(sess)
}

// SetAccessToken swaps in a freshly minted access token, keeping the
// refresh token and role flags.
func (st *SessionStore) SetAccessToken(token string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess := st.current
	sess.AccessToken = token
	return st.write(sess)
}

// Clear wipes all session keys synchronously and removes the file.
func (st *SessionStore) Clear() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = Session{}
	if err := os.Remove(st.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (st *SessionStore) write(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(st.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	st.current = sess
	return nil
}
