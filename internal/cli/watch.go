package cli

import (
	md "github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

func newWatchlistCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watchlist",
		Short: "Show your watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.Watchlist(cmd.Context())
			if err != nil {
				return a.apiError(err)
			}

			return a.printDoc(func(doc *md.Markdown) {
				doc.H2("Watchlist")

				if len(resp.Items) == 0 {
					doc.PlainText("Nothing watched yet. Add a ticker with `fortressctl watch TICKER`.")
					return
				}

				rows := make([][]string, 0, len(resp.Items))
				for _, it := range resp.Items {
					verdict := "-"
					if it.LastVerdict != nil {
						verdict = *it.LastVerdict
					}

					rows = append(rows, []string{it.Ticker, verdict, it.CreatedAt.Format("2006-01-02")})
				}

				doc.Table(md.TableSet{Header: []string{"Ticker", "Last verdict", "Added"}, Rows: rows})
			})
		},
	}
}

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch TICKER",
		Short: "Add a ticker to your watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticker, err := value.ParseTicker(args[0])
			if err != nil {
				return usageErrorf("invalid ticker %q", args[0])
			}

			item, err := a.client.Watch(cmd.Context(), ticker.String())
			if err != nil {
				return a.apiError(err)
			}

			a.printf("Watching %s.\n", item.Ticker)

			return nil
		},
	}
}

func newUnwatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unwatch TICKER",
		Short: "Remove a ticker from your watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticker, err := value.ParseTicker(args[0])
			if err != nil {
				return usageErrorf("invalid ticker %q", args[0])
			}

			if err := a.client.Unwatch(cmd.Context(), ticker.String()); err != nil {
				return a.apiError(err)
			}

			a.printf("Removed %s.\n", ticker)

			return nil
		},
	}
}
