package config

type Stripe struct {
	SecretKey           string `env:"STRIPE_SECRET_KEY" json:"-"`
	WebhookSecret       string `env:"STRIPE_WEBHOOK_SECRET" json:"-"`
	ProMonthlyPrice     string `env:"STRIPE_PRO_MONTHLY" envDefault:"price_1T0Q6qFdnWupMmG9THaoLl8d"`
	ProYearlyPrice      string `env:"STRIPE_PRO_YEARLY" envDefault:"price_1T0Q7sFdnWupMmG9hpxawfjp"`
	PremiumMonthlyPrice string `env:"STRIPE_PREMIUM_MONTHLY" envDefault:"price_1T0Q8YFdnWupMmG9sIM0fLDi"`
	PremiumYearlyPrice  string `env:"STRIPE_PREMIUM_YEARLY" envDefault:"price_1T0Q9AFdnWupMmG9wWjuOfLF"`
}

func (s Stripe) Enabled() bool {
	return s.SecretKey != ""
}

// Prices maps "plan:cycle" to the Stripe price id.
func (s Stripe) Prices() map[string]string {
	return map[string]string{
		"pro:monthly":     s.ProMonthlyPrice,
		"pro:yearly":      s.ProYearlyPrice,
		"premium:monthly": s.PremiumMonthlyPrice,
		"premium:yearly":  s.PremiumYearlyPrice,
	}
}
