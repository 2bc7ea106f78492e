package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sonder-app/sonder-backend/internal/common"
)

func TestGoogleProvider_FetchUserInfo_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer provider-token" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"email": "alice@sonder.com",
			"email_verified": true,
			"given_name": "Alice",
			"family_name": "Example",
			"picture": "https://lh3.googleusercontent.com/photo.jpg"
		}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider(srv.URL)
	info, err := p.FetchUserInfo(context.Background(), "provider-token")
	if err != nil {
		t.Fatalf("FetchUserInfo error: %v", err)
	}
	if info.Email != "alice@sonder.com" || info.GivenName != "Alice" {
		t.Fatalf("unexpected profile: %+v", info)
	}
	if info.Picture == nil || *info.Picture == "" {
		t.Fatalf("expected picture URL")
	}
}

func TestGoogleProvider_FetchUserInfo_UnverifiedEmail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email": "bob@sonder.com", "email_verified": false}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider(srv.URL)
	_, err := p.FetchUserInfo(context.Background(), "provider-token")
	if !errors.Is(err, common.ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}
}

func TestGoogleProvider_FetchUserInfo_Rejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewGoogleProvider(srv.URL)
	_, err := p.FetchUserInfo(context.Background(), "bad-token")
	if !errors.Is(err, ErrTokenRejected) {
		t.Fatalf("expected ErrTokenRejected, got %v", err)
	}
}

func TestGoogleProvider_FetchUserInfo_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewGoogleProvider(srv.URL)
	_, err := p.FetchUserInfo(context.Background(), "provider-token")
	if err == nil {
		t.Fatalf("expected error for 500 response")
	}
}
