package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"kharcha/internal/core"
)

func newLoginEnv(t *testing.T, status int, body string) (*Client, *SessionStore, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/login/" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	store, err := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	client, err := New(Config{AccountsBaseURL: srv.URL, ExpensesBaseURL: srv.URL, Store: store})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, store, &calls
}

func TestLoginLocalValidationSkipsNetwork(t *testing.T) {
	client, _, calls := newLoginEnv(t, http.StatusOK, `{}`)

	cases := []struct {
		creds   core.Credentials
		wantErr error
	}{
		{core.Credentials{Email: "notanemail", Password: "whatever"}, core.ErrInvalidEmail},
		{core.Credentials{Email: "", Password: "x"}, core.ErrMissingCredentials},
		{core.Credentials{Email: "a@b.c", Password: "   "}, core.ErrMissingCredentials},
	}
	for _, tc := range cases {
		if _, err := client.Login(context.Background(), tc.creds); !errors.Is(err, tc.wantErr) {
			t.Fatalf("Login(%+v) = %v, want %v", tc.creds, err, tc.wantErr)
		}
	}
	if calls.Load() != 0 {
		t.Fatalf("validation errors must not reach the network, got %d calls", calls.Load())
	}
}

func TestLoginPrefersMostSpecificServerError(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"email":["No account with this email"],"detail":"ignored"}`, "No account with this email"},
		{`{"password":["This field may not be blank."]}`, "This field may not be blank."},
		{`{"detail":"Account disabled"}`, "Account disabled"},
		{`{"non_field_errors":["Unable to log in with provided credentials."]}`, "Unable to log in with provided credentials."},
		{`{}`, "login failed"},
		{`not json at all`, "login failed"},
	}
	for _, tc := range cases {
		client, _, _ := newLoginEnv(t, http.StatusBadRequest, tc.body)
		_, err := client.Login(context.Background(), core.Credentials{Email: "user@example.com", Password: "pw"})
		if err == nil || err.Error() != tc.want {
			t.Fatalf("body %q: error = %v, want %q", tc.body, err, tc.want)
		}
	}
}

func TestLoginBadCredentials401SurfacesServerDetail(t *testing.T) {
	const detail = "No active account found with the given credentials"
	client, _, _ := newLoginEnv(t, http.StatusUnauthorized, `{"detail":"`+detail+`"}`)

	// No session is stored: a 401 here is bad credentials, and the login
	// exchange must never enter the refresh-and-retry path.
	_, err := client.Login(context.Background(), core.Credentials{Email: "user@example.com", Password: "wrong"})
	if errors.Is(err, ErrSessionExpired) {
		t.Fatalf("login 401 treated as expired session: %v", err)
	}
	if err == nil || err.Error() != detail {
		t.Fatalf("error = %v, want server detail %q", err, detail)
	}
}

func TestRegister401SurfacesServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Registration is closed"}`))
	}))
	t.Cleanup(srv.Close)

	store, err := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	client, err := New(Config{AccountsBaseURL: srv.URL, ExpensesBaseURL: srv.URL, Store: store})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.Register(context.Background(), "User", core.Credentials{Email: "user@example.com", Password: "pw"})
	if errors.Is(err, ErrSessionExpired) {
		t.Fatalf("register 401 treated as expired session: %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "Registration is closed") {
		t.Fatalf("error = %v, want server detail", err)
	}
}

func TestLoginSuccessPersistsSession(t *testing.T) {
	body := `{"access":"acc-1","refresh":"ref-1","role":"admin","is_admin":true}`
	client, store, _ := newLoginEnv(t, http.StatusOK, body)

	sess, err := client.Login(context.Background(), core.Credentials{Email: "admin@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	want := Session{AccessToken: "acc-1", RefreshToken: "ref-1", Role: "admin", IsAdmin: true}
	if sess != want {
		t.Fatalf("session = %+v, want %+v", sess, want)
	}
	if !client.IsAuthenticated() {
		t.Fatal("client must report authenticated after login")
	}

	// The session must survive a process restart.
	reloaded, err := NewSessionStore(store.path)
	if err != nil {
		t.Fatalf("reload store: %v", err)
	}
	if reloaded.Current() != want {
		t.Fatalf("persisted session = %+v, want %+v", reloaded.Current(), want)
	}

	if err := client.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if client.IsAuthenticated() {
		t.Fatal("logout must clear the session")
	}
}
