package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestHTTPProvider_VerifyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"msg": "invalid token"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "id-1",
			"email": "ada@example.com",
			"user_metadata": map[string]string{
				"first_name": "Ada",
				"last_name":  "Lovelace",
			},
		})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "api-key", zap.NewNop())

	ident, err := p.VerifyToken(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ident.ID != "id-1" || ident.FirstName != "Ada" || ident.LastName != "Lovelace" {
		t.Fatalf("unexpected identity: %+v", ident)
	}

	if _, err := p.VerifyToken(context.Background(), "bad-token"); KindOf(err) != KindInvalidToken {
		t.Fatalf("expected invalid token, got %v", err)
	}
	if _, err := p.VerifyToken(context.Background(), "  "); KindOf(err) != KindInvalidToken {
		t.Fatalf("expected invalid token for blank input, got %v", err)
	}
}

func TestHTTPProvider_SignInFailurePreservesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error_description": "Invalid login credentials"})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "api-key", zap.NewNop())

	_, err := p.SignIn(context.Background(), "a@b.com", "pw")
	if KindOf(err) != KindInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if err.Error() != "Invalid login credentials" {
		t.Fatalf("provider message lost: %q", err.Error())
	}
}

func TestHTTPProvider_SignUpImmediateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string            `json:"email"`
			Data  map[string]string `json:"data"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Data["first_name"] != "Ada" {
			t.Errorf("metadata not forwarded: %+v", body.Data)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok",
			"user": map[string]any{
				"id":    "id-1",
				"email": body.Email,
			},
		})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "api-key", zap.NewNop())

	res, err := p.SignUp(context.Background(), "a@b.com", "secret1", SignUpAttrs{FirstName: "Ada"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if res.PendingVerification || res.SessionToken != "tok" || res.Identity.ID != "id-1" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestHTTPProvider_SignUpPendingVerification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Con confirmación activa el proveedor devuelve el usuario plano.
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "id-1",
			"email": "a@b.com",
		})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "api-key", zap.NewNop())

	res, err := p.SignUp(context.Background(), "a@b.com", "secret1", SignUpAttrs{})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if !res.PendingVerification || res.SessionToken != "" {
		t.Fatalf("expected pending verification, got %+v", res)
	}
	if res.Identity.Email != "a@b.com" {
		t.Fatalf("unexpected identity: %+v", res.Identity)
	}
}

func TestHTTPProvider_SignUpErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		body map[string]any
		want Kind
	}{
		{"database trigger failure", map[string]any{"error_code": "unexpected_failure", "msg": "Database error saving new user"}, KindProviderConfig},
		{"database error message", map[string]any{"msg": "Database error creating identity"}, KindProviderConfig},
		{"generic rejection", map[string]any{"msg": "User already registered"}, KindRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(tc.body)
			}))
			defer srv.Close()

			p := NewHTTPProvider(srv.URL, "api-key", zap.NewNop())
			_, err := p.SignUp(context.Background(), "a@b.com", "secret1", SignUpAttrs{})
			if KindOf(err) != tc.want {
				t.Fatalf("expected kind %v, got %v (%v)", tc.want, KindOf(err), err)
			}
		})
	}
}
