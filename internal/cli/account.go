package cli

import (
	"fmt"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/apiclient"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

func newUsageCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show this month's report usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := a.client.Usage(cmd.Context())
			if err != nil {
				return a.apiError(err)
			}

			return a.printDoc(func(doc *md.Markdown) { quotaTable(doc, q) })
		},
	}
}

func newMeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in profile and subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.client.Me(cmd.Context())
			if err != nil {
				return a.apiError(err)
			}

			return a.printDoc(func(doc *md.Markdown) { session(doc, s) })
		},
	}
}

func newPlansCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List subscription plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.Plans(cmd.Context())
			if err != nil {
				return a.apiError(err)
			}

			rows := make([][]string, 0, len(resp.Plans))
			for _, p := range resp.Plans {
				reports := strconv.Itoa(p.Reports) + "/mo"
				if p.Unlimited {
					reports = "Unlimited"
				}

				rows = append(rows, []string{
					p.Name,
					fmt.Sprintf("$%.2f", p.MonthlyPrice),
					fmt.Sprintf("$%.2f", p.YearlyPrice),
					reports,
				})
			}

			return a.printDoc(func(doc *md.Markdown) {
				doc.H2("Plans")
				doc.Table(md.TableSet{Header: []string{"Plan", "Monthly", "Yearly", "Reports"}, Rows: rows})
			})
		},
	}
}

func newCheckoutCommand(a *app) *cobra.Command {
	var cycle string

	cmd := &cobra.Command{
		Use:     "checkout PLAN",
		Short:   "Start a paid subscription checkout",
		Example: "  fortressctl checkout pro --cycle yearly",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := value.ParsePlan(args[0])
			if err != nil || !plan.Paid() {
				return usageErrorf("plan must be pro or premium, got %q", args[0])
			}

			billingCycle, err := value.ParseBillingCycle(cycle)
			if err != nil {
				return usageErrorf("cycle must be monthly or yearly, got %q", cycle)
			}

			me, err := a.client.Me(cmd.Context())
			if err != nil {
				return a.apiError(err)
			}

			resp, err := a.client.CreateCheckout(cmd.Context(), rest.CheckoutRequest{
				UserID:       me.UserID,
				Plan:         plan.String(),
				BillingCycle: billingCycle.String(),
				Email:        me.Email,
			})
			if err != nil {
				return a.apiError(err)
			}

			a.printf("Open this link to finish the checkout:\n%s\n", resp.URL)

			return nil
		},
	}

	cmd.Flags().StringVar(&cycle, "cycle", "monthly", "billing cycle (monthly, yearly)")

	return cmd
}

func newLoginCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login ACCESS_TOKEN",
		Short: "Save an access token to the profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := strings.TrimSpace(args[0])

			client := apiclient.New(a.apiURL, httpx.NewClient(a.timeout, token)).
				WithClientID(a.profile.ClientID)

			me, err := client.Me(cmd.Context())
			if err != nil {
				return a.apiError(err)
			}

			profile := a.profile
			profile.APIURL = a.apiURL
			profile.AccessToken = token

			if err := SaveProfile(a.configPath, profile); err != nil {
				return err
			}

			who := me.Email
			if who == "" {
				who = me.UserID
			}

			a.printf("Logged in as %s (%s plan).\n", who, me.Subscription.PlanName)

			return nil
		},
	}
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the access token from the profile",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			profile := a.profile
			profile.AccessToken = ""

			if err := SaveProfile(a.configPath, profile); err != nil {
				return err
			}

			a.printf("Logged out.\n")

			return nil
		},
	}
}

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show backend status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.client.Health(cmd.Context())
			if err != nil {
				return a.apiError(err)
			}

			return a.printDoc(func(doc *md.Markdown) {
				doc.Table(md.TableSet{
					Header: []string{"Check", "Value"},
					Rows: [][]string{
						{"Status", h.Status},
						{"AI provider", h.AIProvider},
						{"AI configured", yesNo(h.AIConfigured)},
						{"Cached reports", strconv.Itoa(h.CacheEntries)},
						{"Billing", yesNo(h.BillingConfigured)},
						{"Database", yesNo(h.DatabaseConfigured)},
						{"Redis", yesNo(h.RedisConfigured)},
					},
				})
			})
		},
	}
}

func quotaTable(doc *md.Markdown, q rest.Quota) {
	limit := strconv.Itoa(q.Limit)
	if q.Unlimited {
		limit = "unlimited"
	}

	plan := q.Plan
	if q.Anonymous {
		plan = "anonymous"
	}

	doc.Table(md.TableSet{
		Header: []string{"Period", "Plan", "Used", "Limit"},
		Rows:   [][]string{{q.Period, plan, strconv.Itoa(q.Used), limit}},
	})
}

func session(doc *md.Markdown, s rest.Session) {
	doc.H2f("Signed in as %s", orDash(s.Email))

	sub := s.Subscription
	rows := [][]string{
		{"User", s.UserID},
		{"Plan", sub.PlanName},
		{"Billing cycle", orDash(sub.BillingCycle)},
		{"Status", orDash(sub.Status)},
	}

	if sub.CurrentPeriodEnd != nil {
		renews := "Renews"
		if sub.CancelAtPeriodEnd {
			renews = "Ends"
		}

		rows = append(rows, []string{renews, sub.CurrentPeriodEnd.Format("2006-01-02")})
	}

	doc.Table(md.TableSet{Header: []string{"Field", "Value"}, Rows: rows})
	doc.LF()
	quotaTable(doc, s.Usage)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
