package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drewdunne/oscar/internal/provider"
)

// fakeGitLab serves the OAuth token endpoint, the current user and the star
// endpoint, answering star requests with starStatus.
func fakeGitLab(t *testing.T, starStatus int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/oauth/token":
			if err := r.ParseForm(); err != nil {
				t.Errorf("parsing token form: %v", err)
			}
			if r.Form.Get("username") != "alice" || r.Form.Get("password") != "hunter2" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "test-token",
				"token_type":   "bearer",
			})

		case r.URL.Path == "/api/v4/user":
			json.NewEncoder(w).Encode(map[string]interface{}{"id": 1, "username": "alice"})

		case strings.HasPrefix(r.URL.Path, "/api/v4/projects/") && strings.HasSuffix(r.URL.Path, "/star"):
			if r.Method != http.MethodPost {
				t.Errorf("unexpected method: %s", r.Method)
			}
			w.WriteHeader(starStatus)
			if starStatus != http.StatusNotModified {
				json.NewEncoder(w).Encode(map[string]interface{}{"id": 42, "path_with_namespace": "octocat/Hello-World"})
			}

		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestGitLabProvider_Name(t *testing.T) {
	p := New()
	if p.Name() != "gitlab" {
		t.Errorf("Name() = %q, want %q", p.Name(), "gitlab")
	}
}

func TestGitLabProvider_LoginAndStar(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "created", status: http.StatusCreated},
		{name: "already starred", status: http.StatusNotModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := fakeGitLab(t, tt.status)
			defer server.Close()

			p := New(WithBaseURL(server.URL))
			sess, err := p.Login(context.Background(), "alice", "hunter2")
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}

			err = sess.Star(context.Background(), provider.Repository{Owner: "octocat", Name: "Hello-World"})
			if err != nil {
				t.Errorf("Star() error = %v", err)
			}
		})
	}
}

func TestGitLabProvider_LoginBadCredentials(t *testing.T) {
	server := fakeGitLab(t, http.StatusCreated)
	defer server.Close()

	p := New(WithBaseURL(server.URL))
	if _, err := p.Login(context.Background(), "alice", "wrong"); err == nil {
		t.Fatal("Login() expected error for bad credentials, got nil")
	}
}

func TestGitLabProvider_StarUnexpectedStatus(t *testing.T) {
	server := fakeGitLab(t, http.StatusOK)
	defer server.Close()

	p := New(WithBaseURL(server.URL))
	sess, err := p.Login(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	err = sess.Star(context.Background(), provider.Repository{Owner: "octocat", Name: "Hello-World"})
	if !errors.Is(err, provider.ErrUnexpectedStatus) {
		t.Errorf("Star() error = %v, want ErrUnexpectedStatus", err)
	}
}
