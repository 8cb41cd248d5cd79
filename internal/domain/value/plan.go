package value

import (
	"fmt"
	"strings"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
)

type Plan string

const (
	PlanFree    Plan = "free"
	PlanPro     Plan = "pro"
	PlanPremium Plan = "premium"
)

const (
	// UnlimitedReports is stored for premium subscriptions.
	UnlimitedReports = 999999
	// unlimitedThreshold: any limit above it is presented as unlimited.
	unlimitedThreshold = 1000

	AnonymousMonthlyLimit = 1
)

//nolint:gochecknoglobals
var planReports = map[Plan]int{
	PlanFree:    3,
	PlanPro:     30,
	PlanPremium: UnlimitedReports,
}

func ParsePlan(s string) (Plan, error) {
	p := Plan(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := planReports[p]; !ok {
		return "", domain.NewError(errcodes.InvalidPlan, fmt.Sprintf("Invalid plan %q", s))
	}

	return p, nil
}

// ReportsLimit is the monthly report allowance. Unknown plans get the free limit.
func (p Plan) ReportsLimit() int {
	if limit, ok := planReports[p]; ok {
		return limit
	}

	return planReports[PlanFree]
}

func (p Plan) Paid() bool {
	return p == PlanPro || p == PlanPremium
}

func (p Plan) String() string {
	return string(p)
}

func IsUnlimited(limit int) bool {
	return limit > unlimitedThreshold
}

type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// ParseBillingCycle defaults an empty value to monthly.
func ParseBillingCycle(s string) (BillingCycle, error) {
	switch c := BillingCycle(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CycleMonthly, nil
	case CycleMonthly, CycleYearly:
		return c, nil
	default:
		return "", domain.NewError(errcodes.InvalidPlan, fmt.Sprintf("Invalid billing cycle %q", s))
	}
}

func (c BillingCycle) String() string {
	return string(c)
}
