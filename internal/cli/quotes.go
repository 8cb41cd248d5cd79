package cli

import (
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

func newQuotesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "quotes TICKER...",
		Short:   "Show live quotes",
		Example: "  fortressctl quotes AAPL MSFT,NVDA",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tickers, err := value.ParseTickerList(strings.Join(args, ","))
			if err != nil {
				return usageErrorf("invalid tickers: %s", strings.Join(args, " "))
			}

			symbols := make([]string, 0, len(tickers))
			for _, t := range tickers {
				symbols = append(symbols, t.String())
			}

			quotes, err := a.client.Quotes(cmd.Context(), symbols)
			if err != nil {
				return a.apiError(err)
			}

			rows := make([][]string, 0, len(symbols))
			for _, s := range symbols {
				q, ok := quotes[s]
				if !ok {
					rows = append(rows, []string{s, "N/A", "", ""})
					continue
				}

				rows = append(rows, []string{
					s,
					fmt.Sprintf("%.2f", q.Price),
					fmt.Sprintf("%+.2f", q.Change),
					fmt.Sprintf("%+.2f%%", q.Percent),
				})
			}

			return a.printDoc(func(doc *md.Markdown) {
				doc.Table(md.TableSet{Header: []string{"Ticker", "Price", "Change", "%"}, Rows: rows})
			})
		},
	}
}
