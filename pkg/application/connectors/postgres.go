package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

type Postgres struct {
	value           *sqlx.DB
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	init            sync.Once
	err             error
}

// Client connects once and panics on failure. Use Connect where the database is
// optional.
func (p *Postgres) Client(ctx context.Context) *sqlx.DB {
	return lo.Must(p.Connect(ctx))
}

// Connect opens the pool on first use and returns the same result afterwards.
func (p *Postgres) Connect(ctx context.Context) (*sqlx.DB, error) {
	p.init.Do(func() {
		db, err := sqlx.ConnectContext(ctx, "pgx", p.DSN)
		if err != nil {
			p.err = fmt.Errorf("sqlx.ConnectContext: %w", err)
			return
		}

		db.SetMaxOpenConns(p.MaxOpenConns)
		db.SetMaxIdleConns(p.MaxIdleConns)
		db.SetConnMaxLifetime(p.ConnMaxLifetime)

		p.value = db

		logger(ctx).Info("postgres connected", slog.String("database", p.database()))
	})

	return p.value, p.err
}

func (p *Postgres) Ping(ctx context.Context) error {
	if p.value == nil {
		return fmt.Errorf("postgres: %w", errNotConnected)
	}

	return p.value.PingContext(ctx) //nolint:wrapcheck
}

func (p *Postgres) Close(ctx context.Context) {
	if p.value == nil {
		return
	}

	if err := p.value.Close(); err != nil {
		logger(ctx).Error("postgresClient.Close", logx.Error(err))
	}

	logger(ctx).Info("postgres disconnected", slog.String("database", p.database()))
}

func (p *Postgres) database() string {
	u, err := url.Parse(p.DSN)
	if err != nil {
		return ""
	}

	return u.Path
}
