package config

import "time"

// Postgres is optional. Without a DSN billing, the blog, saved reports and the
// watchlist answer 503.
type Postgres struct {
	DSN             string        `env:"PG_DSN" json:"-"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"5m"`
	AutoMigrate     bool          `env:"PG_AUTO_MIGRATE" envDefault:"true"`
}

func (p Postgres) Enabled() bool {
	return p.DSN != ""
}
