package config

import "time"

type Server struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8000"`
	ProbeAddr       string        `env:"PROBE_ADDR" envDefault:":8081"`
	MetricsAddr     string        `env:"METRICS_ADDR" envDefault:":9090"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	// WriteTimeout must cover a full report generation.
	WriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"190s"`
	StaticDir      string        `env:"STATIC_DIR"`
	PublicURL      string        `env:"PUBLIC_URL" envDefault:"https://stockfortress.com"`
	ClientURL      string        `env:"CLIENT_URL" envDefault:"http://localhost:5173"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"20"`
	LogFieldMaxLen int           `env:"LOG_FIELD_MAX_LEN" envDefault:"2048"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"text"`
	AppName        string        `env:"APP_NAME" envDefault:"stock-fortress"`
	AppVersion     string        `env:"APP_VERSION" envDefault:"2.0.0"`
}
