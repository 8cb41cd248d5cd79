package config

type Supabase struct {
	URL       string `env:"SUPABASE_URL"`
	AnonKey   string `env:"SUPABASE_ANON_KEY" json:"-"`
	JWTSecret string `env:"SUPABASE_JWT_SECRET" json:"-"`
}

func (s Supabase) Enabled() bool {
	return s.JWTSecret != "" || s.URL != ""
}
