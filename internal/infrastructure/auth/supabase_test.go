package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/config"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/infrastructure/auth"
)

const secret = "super-secret-jwt-token-with-at-least-32-characters"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func TestVerifyLocal(t *testing.T) {
	rq := require.New(t)

	s := auth.NewSupabase(config.Supabase{JWTSecret: secret})
	exp := time.Now().Add(time.Hour).Unix()

	testCases := []struct {
		name    string
		token   string
		userID  string
		wantErr bool
	}{
		{
			name:   "Valid",
			token:  sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u1", "email": "a@b.c", "exp": exp}),
			userID: "u1",
		},
		{
			name:    "Expired",
			token:   sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Hour).Unix()}),
			wantErr: true,
		},
		{
			name:    "Wrong secret",
			token:   sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "u1", "exp": exp}),
			wantErr: true,
		},
		{
			name:    "No subject",
			token:   sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"exp": exp}),
			wantErr: true,
		},
		{
			name:    "Wrong algorithm",
			token:   sign(t, jwt.SigningMethodHS512, []byte(secret), jwt.MapClaims{"sub": "u1", "exp": exp}),
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			identity, err := s.Verify(context.Background(), tc.token)
			if tc.wantErr {
				rq.Error(err)
				return
			}

			rq.NoError(err)
			rq.Equal(tc.userID, identity.UserID.String())
		})
	}
}

func TestVerifyRemoteFallback(t *testing.T) {
	rq := require.New(t)

	var gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")

		if r.Header.Get("Authorization") != "Bearer opaque-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		_, _ = w.Write([]byte(`{"id":"u-remote","email":"r@x.io"}`))
	}))
	t.Cleanup(srv.Close)

	s := auth.NewSupabase(config.Supabase{URL: srv.URL, AnonKey: "anon", JWTSecret: secret})

	identity, err := s.Verify(context.Background(), "opaque-token")
	rq.NoError(err)
	rq.Equal("u-remote", identity.UserID.String())
	rq.Equal("r@x.io", identity.Email)
	rq.Equal("anon", gotAPIKey)

	_, err = s.Verify(context.Background(), "bad-token")
	rq.Error(err)
}

func TestVerifyNotConfigured(t *testing.T) {
	_, err := auth.NewSupabase(config.Supabase{}).Verify(context.Background(), "x")
	require.Error(t, err)
}
