package cli

import (
	"strconv"

	md "github.com/nao1215/markdown"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

// paywall describes the spent quota and what the caller can do about it.
func paywall(doc *md.Markdown, q *rest.Quota) {
	doc.H2("🔒 Report Limit Reached")

	if q != nil {
		doc.PlainTextf("You've used %s reports this month.", md.Bold(fmtUsed(q))).LF()
	}

	if q == nil || q.Anonymous {
		doc.PlainTextf("Sign up for a free account to get %d reports/month.", value.PlanFree.ReportsLimit()).LF()
		doc.Tip("Create an account on the website, then run `fortressctl login --token TOKEN`.")

		return
	}

	doc.PlainTextf(
		"Upgrade to %s for %d reports/month, or %s for unlimited.",
		md.Bold("Pro"), value.PlanPro.ReportsLimit(), md.Bold("Premium"),
	).LF()
	doc.Important("See `fortressctl plans` and start a checkout with `fortressctl checkout pro`.")
}

func fmtUsed(q *rest.Quota) string {
	if q.Unlimited {
		return "unlimited"
	}

	return strconv.Itoa(q.Used) + "/" + strconv.Itoa(q.Limit)
}
