package middlewarex

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/reply"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

type Identity struct {
	UserID contextx.UserID
	Email  string
}

//go:generate moq -rm -out token_verifier_mock.gen.go . TokenVerifier:TokenVerifierMock
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Auth resolves an optional bearer token. Requests without a token pass
// through anonymously; a token that fails verification is rejected with 401.
func Auth(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := verifier.Verify(ctx, token)
			if err != nil {
				reply.Error(ctx, w, middlewareError{
					code:    errcodes.AccessTokenInvalid,
					message: "Invalid or expired access token",
					cause:   err,
				})

				return
			}

			ctx = contextx.WithUserID(ctx, identity.UserID)
			if identity.Email != "" {
				ctx = contextx.WithUserEmail(ctx, identity.Email)
			}

			ctx = contextx.WithLogger(ctx, logger(ctx).With(
				slog.String(logx.FieldUserID, identity.UserID.String()),
			))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests that Auth did not attach a user to.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if _, err := contextx.UserIDFromContext(ctx); err != nil {
			reply.Error(ctx, w, middlewareError{
				code:    errcodes.AuthenticationRequired,
				message: "Sign in required",
				cause:   err,
			})

			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
