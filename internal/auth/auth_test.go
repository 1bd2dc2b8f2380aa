package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func tokenServer(t *testing.T, wantGrant string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing token request form: %v", err)
		}
		if got := r.Form.Get("grant_type"); got != wantGrant {
			t.Errorf("grant_type = %q, want %q", got, wantGrant)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer","expires_in":3600}`))
	}))
}

func TestClientCredentialsReturnsAccessToken(t *testing.T) {
	server := tokenServer(t, "client_credentials")
	defer server.Close()

	token, err := ClientCredentials(context.Background(), "id", "secret", server.URL, []string{"read"})
	if err != nil {
		t.Fatalf("ClientCredentials: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("token = %q, want tok-123", token)
	}
}

func TestPasswordReturnsAccessToken(t *testing.T) {
	server := tokenServer(t, "password")
	defer server.Close()

	token, err := Password(context.Background(), "id", "secret", server.URL, "user", "pass", []string{"read"})
	if err != nil {
		t.Fatalf("Password: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("token = %q, want tok-123", token)
	}
}

func TestClientCredentialsPropagatesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	if _, err := ClientCredentials(context.Background(), "id", "secret", server.URL, nil); err == nil {
		t.Error("expected an error when the token endpoint rejects the request")
	}
}
