package config

// Bot drives ops notifications and the admin commands. An empty token disables
// both.
type Bot struct {
	Token   string `env:"BOT_TOKEN" json:"-"`
	ChatID  int64  `env:"BOT_CHAT_ID"`
	AdminID int64  `env:"BOT_ADMIN_ID"`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}
