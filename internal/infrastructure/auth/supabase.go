// Package auth verifies Supabase access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/config"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/middlewarex"
)

var (
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
)

var (
	errNoVerifier  = errors.New("no JWT secret or Supabase URL configured")
	errMissingSub  = errors.New("token has no subject")
	errRemoteCheck = errors.New("supabase rejected token")
)

const verifyTimeout = 10 * time.Second

type supabaseUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Supabase checks HS256 tokens locally with the project JWT secret and falls
// back to GET /auth/v1/user when that fails or no secret is set.
type Supabase struct {
	cfg    config.Supabase
	client *http.Client
}

func NewSupabase(cfg config.Supabase) *Supabase {
	return &Supabase{
		cfg:    cfg,
		client: httpx.NewClient(verifyTimeout, ""),
	}
}

func (s *Supabase) Verify(ctx context.Context, token string) (middlewarex.Identity, error) {
	if s.cfg.JWTSecret != "" {
		identity, err := s.verifyLocal(token)
		if err == nil {
			return identity, nil
		}

		if s.cfg.URL == "" {
			return middlewarex.Identity{}, err
		}

		logger(ctx).Debug("local token check failed, asking supabase", logx.Error(err))
	}

	if s.cfg.URL == "" {
		return middlewarex.Identity{}, errNoVerifier
	}

	return s.verifyRemote(ctx, token)
}

func (s *Supabase) verifyLocal(token string) (middlewarex.Identity, error) {
	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return middlewarex.Identity{}, fmt.Errorf("jwt.ParseWithClaims: %w", err)
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return middlewarex.Identity{}, errMissingSub
	}

	email, _ := claims["email"].(string)

	return middlewarex.Identity{UserID: contextx.UserID(sub), Email: email}, nil
}

func (s *Supabase) verifyRemote(ctx context.Context, token string) (middlewarex.Identity, error) {
	url := strings.TrimRight(s.cfg.URL, "/") + "/auth/v1/user"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return middlewarex.Identity{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", s.cfg.AnonKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return middlewarex.Identity{}, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return middlewarex.Identity{}, fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return middlewarex.Identity{}, fmt.Errorf("%w: status %d", errRemoteCheck, resp.StatusCode)
	}

	var user supabaseUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return middlewarex.Identity{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if user.ID == "" {
		return middlewarex.Identity{}, errMissingSub
	}

	return middlewarex.Identity{UserID: contextx.UserID(user.ID), Email: user.Email}, nil
}
