package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/wizard"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/apiclient"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

const wizardPrompt = "[n]ext [p]rev [q]uit or a step (1-8, 2a, gut): "

var errLimitReached = errors.New("report limit reached") //nolint:gochecknoglobals

func newReportCommand(a *app) *cobra.Command {
	var (
		step string
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "report TICKER",
		Short: "Walk through the research report for a ticker",
		Example: "  fortressctl report AAPL\n" +
			"  fortressctl report brk.b --step verdict\n" +
			"  fortressctl report NVDA --all --plain",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticker, err := value.ParseTicker(args[0])
			if err != nil {
				return usageErrorf("invalid ticker %q: use up to 10 letters, digits, dots or dashes", args[0])
			}

			start := 0
			if step != "" {
				i, ok := wizard.StepIndex(stepAlias(step))
				if !ok {
					return usageErrorf("unknown step %q", step)
				}

				start = i
			}

			report, resp, err := a.fetchReport(cmd.Context(), ticker)
			if err != nil {
				return err
			}

			switch {
			case all:
				var buf bytes.Buffer
				if err := wizard.RenderAll(&buf, report); err != nil {
					return fmt.Errorf("wizard.RenderAll: %w", err)
				}

				if err := a.print(buf.String()); err != nil {
					return err
				}
			case step != "":
				if err := a.renderStep(report, wizard.Steps[start]); err != nil {
					return err
				}
			default:
				w := wizard.New()
				if err := a.walk(report, w); err != nil {
					return err
				}
			}

			a.printFooter(resp)

			return nil
		},
	}

	cmd.Flags().StringVar(&step, "step", "", "print one step (landing, 1-8, 2a, gut, verdict)")
	cmd.Flags().BoolVar(&all, "all", false, "print every step")
	cmd.MarkFlagsMutuallyExclusive("step", "all")

	return cmd
}

func (a *app) fetchReport(ctx context.Context, ticker value.Ticker) (entity.Report, rest.ReportResponse, error) {
	resp, err := a.client.Report(ctx, ticker.String())
	if err != nil {
		return entity.Report{}, rest.ReportResponse{}, a.apiError(err)
	}

	report, err := entity.ParseReport(string(resp.Report))
	if err != nil {
		return entity.Report{}, rest.ReportResponse{}, fmt.Errorf("entity.ParseReport: %w", err)
	}

	return report, resp, nil
}

// apiError turns API failures into exit codes, rendering the paywall when the
// report quota is spent.
func (a *app) apiError(err error) error {
	apiErr, ok := apiclient.AsError(err)
	if !ok {
		return fmt.Errorf("request failed: %w", err)
	}

	switch {
	case string(apiErr.Body.Code) == string(errcodes.UsageLimitReached) ||
		apiErr.StatusCode == http.StatusPaymentRequired:
		if perr := a.printDoc(func(doc *md.Markdown) { paywall(doc, apiErr.Body.Detail) }); perr != nil {
			return perr
		}

		return &ExitError{Code: ExitCodeLimit, Err: errLimitReached}
	case apiErr.StatusCode == http.StatusUnauthorized:
		return &ExitError{Code: ExitCodeAuthFail, Err: fmt.Errorf("%w: run `%s login --token TOKEN`", apiErr, appName)}
	case apiErr.StatusCode == http.StatusBadRequest:
		return &ExitError{Code: ExitCodeUsage, Err: apiErr}
	default:
		return apiErr
	}
}

func (a *app) renderStep(report entity.Report, step wizard.Step) error {
	var buf bytes.Buffer
	if err := wizard.Render(&buf, report, step); err != nil {
		return fmt.Errorf("wizard.Render: %w", err)
	}

	return a.print(buf.String())
}

// walk runs the interactive wizard until the reader is exhausted, the user
// quits, or they step past the last screen.
func (a *app) walk(report entity.Report, w *wizard.Wizard) error {
	scanner := bufio.NewScanner(a.in)
	redraw := true

	for {
		if redraw {
			if err := a.renderStep(report, w.Current()); err != nil {
				return err
			}

			if p := w.Progress(); p != "" {
				a.printf("%s  [%d%%]\n", p, w.Percent())
			}
		}

		a.printf(wizardPrompt)

		if !scanner.Scan() {
			a.printf("\n")
			return scanner.Err() //nolint:wrapcheck
		}

		redraw = true

		switch input := strings.ToLower(strings.TrimSpace(scanner.Text())); input {
		case "", "n", "next":
			if !w.Next() {
				a.printf("End of report.\n")
				return nil
			}
		case "p", "prev", "back":
			if !w.Prev() {
				redraw = false
			}
		case "q", "quit", "exit":
			return nil
		default:
			i, ok := wizard.StepIndex(stepAlias(input))
			if !ok {
				a.printf("Unknown command %q\n", input)
				redraw = false

				continue
			}

			w.Jump(i)
		}
	}
}

func (a *app) printFooter(resp rest.ReportResponse) {
	if resp.Cached {
		a.printf("Served from cache.\n")
	}

	if q := resp.Usage; q != nil {
		if q.Unlimited {
			a.printf("Reports used in %s: %d (unlimited)\n", q.Period, q.Used)
		} else {
			a.printf("Reports used in %s: %d/%d\n", q.Period, q.Used, q.Limit)
		}
	}
}

func stepAlias(s string) string {
	switch strings.ToLower(s) {
	case "verdict":
		return "s7"
	case "home":
		return "landing"
	default:
		return s
	}
}

func newReportsCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List your saved reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.Reports(cmd.Context(), limit)
			if err != nil {
				return a.apiError(err)
			}

			rows := make([][]string, 0, len(resp.Reports))
			for _, r := range resp.Reports {
				rows = append(rows, []string{r.Ticker, r.Verdict, r.GeneratedAt.Format("2006-01-02 15:04"), r.Model})
			}

			return a.printDoc(func(doc *md.Markdown) {
				doc.H2("Saved reports")

				if len(rows) == 0 {
					doc.PlainText("No saved reports yet.")
					return
				}

				doc.Table(md.TableSet{Header: []string{"Ticker", "Verdict", "Generated", "Model"}, Rows: rows})
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of reports")

	return cmd
}
