package entity

import (
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

// Quota is a subject's report allowance for one calendar month.
type Quota struct {
	Used      int        `json:"used"`
	Limit     int        `json:"limit"`
	Unlimited bool       `json:"unlimited"`
	Period    string     `json:"period"`
	Plan      value.Plan `json:"plan,omitempty"`
	Anonymous bool       `json:"anonymous"`
}

func NewQuota(used, limit int, period string, plan value.Plan, anonymous bool) Quota {
	return Quota{
		Used:      used,
		Limit:     limit,
		Unlimited: value.IsUnlimited(limit),
		Period:    period,
		Plan:      plan,
		Anonymous: anonymous,
	}
}

func (q Quota) Remaining() int {
	if q.Unlimited {
		return q.Limit
	}

	return max(0, q.Limit-q.Used)
}

func (q Quota) Exhausted() bool {
	return !q.Unlimited && q.Used >= q.Limit
}
