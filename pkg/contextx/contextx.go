package contextx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var ErrNoValue = errors.New("no value in context")

type (
	contextKeyLogger   struct{}
	contextKeyTraceID  struct{}
	contextKeyUserID   struct{}
	contextKeyClientID struct{}
	contextKeyEmail    struct{}
)

// TraceID identifies a single inbound request across logs and error replies.
type TraceID string

func (t TraceID) String() string {
	return string(t)
}

// UserID is the authenticated account id (the Supabase "sub" claim).
type UserID string

func (u UserID) String() string {
	return string(u)
}

// ClientID identifies an anonymous caller for quota purposes.
type ClientID string

func (c ClientID) String() string {
	return string(c)
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger{}, logger)
}

func LoggerFromContext(ctx context.Context) (*slog.Logger, error) {
	return valueFrom[*slog.Logger](ctx, contextKeyLogger{}, "logger")
}

// LoggerFromContextOrDefault never returns nil: it falls back to slog.Default.
func LoggerFromContextOrDefault(ctx context.Context) *slog.Logger {
	logger, err := LoggerFromContext(ctx)
	if err != nil || logger == nil {
		return slog.Default()
	}

	return logger
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	return valueFrom[TraceID](ctx, contextKeyTraceID{}, "trace id")
}

func WithUserID(ctx context.Context, userID UserID) context.Context {
	return context.WithValue(ctx, contextKeyUserID{}, userID)
}

func UserIDFromContext(ctx context.Context) (UserID, error) {
	return valueFrom[UserID](ctx, contextKeyUserID{}, "user id")
}

func WithClientID(ctx context.Context, clientID ClientID) context.Context {
	return context.WithValue(ctx, contextKeyClientID{}, clientID)
}

func ClientIDFromContext(ctx context.Context) (ClientID, error) {
	return valueFrom[ClientID](ctx, contextKeyClientID{}, "client id")
}

func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, contextKeyEmail{}, email)
}

func UserEmailFromContext(ctx context.Context) (string, error) {
	return valueFrom[string](ctx, contextKeyEmail{}, "user email")
}

func valueFrom[T any](ctx context.Context, key any, name string) (T, error) {
	v, ok := ctx.Value(key).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w", name, ErrNoValue)
	}

	return v, nil
}
