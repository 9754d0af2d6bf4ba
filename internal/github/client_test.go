package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// fakeRunner returns a CommandRunner that responds with canned output based on args.
func fakeRunner(responses map[string]string) CommandRunner {
	return func(ctx context.Context, args ...string) (string, error) {
		key := strings.Join(args, " ")
		for pattern, response := range responses {
			if strings.Contains(key, pattern) {
				return response, nil
			}
		}
		return "", fmt.Errorf("unexpected command: gh %s", key)
	}
}

// fakeErrorRunner returns a CommandRunner that always errors.
func fakeErrorRunner(errMsg string) CommandRunner {
	return func(ctx context.Context, args ...string) (string, error) {
		return "", fmt.Errorf("%s", errMsg)
	}
}

// graphqlServer serves canned GraphQL replies keyed by a substring of the
// query text, and counts requests.
type graphqlServer struct {
	*httptest.Server
	calls atomic.Int32
}

func newGraphQLServer(t *testing.T, handle func(w http.ResponseWriter, req graphqlRequest)) *graphqlServer {
	t.Helper()
	s := &graphqlServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		var req graphqlRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		handle(w, req)
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login":"alice"}`)
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *graphqlServer) client() *Client {
	return NewTestClient(s.Server.Client(), s.URL)
}

func TestResolveToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		runner  CommandRunner
		want    string
		wantErr bool
	}{
		{"explicit token wins", " ghp_explicit ", fakeErrorRunner("should not run"), "ghp_explicit", false},
		{"falls back to gh", "", fakeRunner(map[string]string{"auth token": "gho_fromcli\n"}), "gho_fromcli", false},
		{"gh fails", "", fakeErrorRunner("not logged in"), "", true},
		{"gh returns nothing", "", fakeRunner(map[string]string{"auth token": "  \n"}), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveToken(context.Background(), tt.token, tt.runner)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewClientUsesRunnerFallback(t *testing.T) {
	c, err := NewClient(context.Background(), Options{
		Runner: fakeRunner(map[string]string{"auth token": "gho_token"}),
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.timeout != DefaultRequestTimeout {
		t.Errorf("timeout = %v, want %v", c.timeout, DefaultRequestTimeout)
	}
}

func TestLogin(t *testing.T) {
	s := newGraphQLServer(t, func(w http.ResponseWriter, req graphqlRequest) {})
	login, err := s.client().Login(context.Background())
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login != "alice" {
		t.Errorf("Login() = %q, want alice", login)
	}
}
