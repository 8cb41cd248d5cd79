package cli

import (
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/apiclient"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

func newBlogCommand(a *app) *cobra.Command {
	var q apiclient.BlogQuery

	cmd := &cobra.Command{
		Use:   "blog [SLUG]",
		Short: "List blog posts, or read one",
		Example: "  fortressctl blog --verdict BUY\n" +
			"  fortressctl blog aapl-stock-analysis",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return a.showPost(cmd, args[0])
			}

			q.Verdict = strings.ToUpper(q.Verdict)
			q.Ticker = strings.ToUpper(q.Ticker)

			page, err := a.client.Blog(cmd.Context(), q)
			if err != nil {
				return a.apiError(err)
			}

			return a.printDoc(func(doc *md.Markdown) { postList(doc, page) })
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&q.Page, "page", 1, "page number")
	flags.IntVar(&q.Limit, "limit", 12, "posts per page")
	flags.StringVar(&q.Verdict, "verdict", "", "filter by verdict (BUY, WATCH, AVOID)")
	flags.StringVar(&q.Ticker, "ticker", "", "filter by ticker")

	return cmd
}

func (a *app) showPost(cmd *cobra.Command, slug string) error {
	post, err := a.client.BlogPost(cmd.Context(), slug, false)
	if err != nil {
		return a.apiError(err)
	}

	related, err := a.client.RelatedPosts(cmd.Context(), slug)
	if err != nil {
		return a.apiError(err)
	}

	return a.printDoc(func(doc *md.Markdown) {
		doc.PlainTextf("%s · %s · %s", md.Bold(post.Verdict), post.AuthorName, post.CreatedAt.Format("Jan 2, 2006")).LF()
		doc.PlainText(post.Content).LF()

		if len(post.Tags) > 0 {
			doc.PlainText(md.Italic("Tags: " + strings.Join(post.Tags, ", "))).LF()
		}

		if len(related.Posts) > 0 {
			doc.H3("Related analyses")

			items := make([]string, 0, len(related.Posts))
			for _, p := range related.Posts {
				items = append(items, p.Title+" "+md.Code(p.Slug))
			}

			doc.BulletList(items...)
		}
	})
}

func postList(doc *md.Markdown, page rest.PostPage) {
	doc.H2("Stock Fortress Blog")

	if len(page.Posts) == 0 {
		doc.PlainText("No posts found.")
		return
	}

	rows := make([][]string, 0, len(page.Posts))
	for _, p := range page.Posts {
		rows = append(rows, []string{p.Ticker, p.Verdict, p.Title, p.Slug, p.CreatedAt.Format("2006-01-02")})
	}

	doc.Table(md.TableSet{Header: []string{"Ticker", "Verdict", "Title", "Slug", "Date"}, Rows: rows})
	doc.LF().PlainText(md.Italic("Page " + strconv.Itoa(page.Page) + " of " + strconv.Itoa(max(page.Pages, 1)) +
		", " + strconv.Itoa(page.Total) + " posts"))
}
