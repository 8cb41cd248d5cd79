package config

type Watcher struct {
	Schedule    string   `env:"WATCH_SCHEDULE" envDefault:"@every 5m"`
	MovePercent float64  `env:"WATCH_MOVE_PERCENT" envDefault:"5"`
	Tickers     []string `env:"WATCH_TICKERS" envSeparator:","`
}
