package cli_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/cli"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

const reportJSON = `{
	"meta": {"ticker": "AAPL", "company_name": "Apple Inc.", "current_price": "190.5"},
	"step_1_know_what_you_own": {"one_liner": "Sells iPhones"},
	"step_7_verdict": {"action": "buy", "confidence": "High", "one_line_reason": "Durable moat"},
	"investor_gut_check": {"question_1": "Would you hold through a 30% drop?", "mindset_reminder": "Think in years"}
}`

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsoniter.NewEncoder(w).Encode(v)
}

func reportHandler(hits *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, rest.ReportResponse{
			Ticker: strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/api/report/")),
			Report: jsoniter.RawMessage(reportJSON),
			Usage:  &rest.Quota{Used: 1, Limit: 3, Period: "2026-10"},
		})
	}
}

type runResult struct {
	out string
	err error
}

func run(t *testing.T, baseURL, stdin string, args ...string) runResult {
	t.Helper()

	cfg := filepath.Join(t.TempDir(), "config.yaml")

	return runWithConfig(t, cfg, baseURL, stdin, args...)
}

func runWithConfig(t *testing.T, cfg, baseURL, stdin string, args ...string) runResult {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := cli.NewRootCommand(strings.NewReader(stdin), &out, &errOut, "test")
	cmd.SetArgs(append([]string{"--config", cfg, "--api-url", baseURL, "--plain"}, args...))

	err := cmd.ExecuteContext(context.Background())

	return runResult{out: out.String(), err: err}
}

func TestReportInvalidTicker(t *testing.T) {
	rq := require.New(t)

	var hits atomic.Int32

	srv := httptest.NewServer(reportHandler(&hits))
	defer srv.Close()

	testCases := []struct {
		ticker string
		want   string
	}{
		{ticker: "$$$", want: "invalid ticker"},
		{ticker: "TOOLONGTICKER1", want: "invalid ticker"},
		{ticker: "-AAPL", want: "unknown shorthand flag"},
		{ticker: "--aapl", want: "unknown flag"},
	}

	for _, tc := range testCases {
		res := run(t, srv.URL, "", "report", tc.ticker)
		rq.Error(res.err)
		rq.Contains(res.err.Error(), tc.want)
		rq.Equal(cli.ExitCodeUsage, cli.ExitCode(res.err))
	}

	rq.Zero(hits.Load())
}

func TestReportNonInteractive(t *testing.T) {
	rq := require.New(t)

	var hits atomic.Int32

	srv := httptest.NewServer(reportHandler(&hits))
	defer srv.Close()

	testCases := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
		wantErr bool
	}{
		{
			name: "all steps",
			args: []string{"report", "aapl", "--all"},
			want: []string{"# Apple Inc. (AAPL)", "Step 2A: Earnings Deep-Dive", "Step 8: Gut Check", "Reports used in 2026-10: 1/3"},
		},
		{
			name:    "verdict only",
			args:    []string{"report", "AAPL", "--step", "verdict"},
			want:    []string{"[!TIP]", "BUY (confidence: High): Durable moat"},
			notWant: []string{"Gut Check"},
		},
		{
			name:    "unknown step",
			args:    []string{"report", "AAPL", "--step", "s9"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := run(t, srv.URL, "", tc.args...)

			if tc.wantErr {
				rq.Error(res.err)
				return
			}

			rq.NoError(res.err)

			for _, s := range tc.want {
				rq.Contains(res.out, s)
			}

			for _, s := range tc.notWant {
				rq.NotContains(res.out, s)
			}
		})
	}

	rq.Equal(int32(2), hits.Load())
}

func TestReportWalk(t *testing.T) {
	rq := require.New(t)

	var hits atomic.Int32

	srv := httptest.NewServer(reportHandler(&hits))
	defer srv.Close()

	testCases := []struct {
		name  string
		stdin string
		want  []string
	}{
		{
			name:  "next then quit",
			stdin: "n\nq\n",
			want:  []string{"# Apple Inc. (AAPL)", "Step 1 of 8 · Know What You Own", "Sells iPhones"},
		},
		{
			name:  "jump and back",
			stdin: "2a\np\nq\n",
			want:  []string{"Step 2A of 8 · Earnings Deep-Dive", "Step 2 of 8 · Check Financials"},
		},
		{
			name:  "past the end",
			stdin: "gut\nn\n",
			want:  []string{"Step 8 of 8 · Gut Check", "End of report."},
		},
		{
			name:  "unknown input",
			stdin: "zz\n",
			want:  []string{`Unknown command "zz"`},
		},
		{
			name:  "eof",
			stdin: "",
			want:  []string{"[n]ext [p]rev [q]uit"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := run(t, srv.URL, tc.stdin, "report", "AAPL")
			rq.NoError(res.err)

			for _, s := range tc.want {
				rq.Contains(res.out, s)
			}
		})
	}
}

func TestReportPaywall(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		quota   rest.Quota
		want    []string
		notWant []string
	}{
		{
			name:    "anonymous",
			quota:   rest.Quota{Used: 1, Limit: 1, Anonymous: true},
			want:    []string{"Report Limit Reached", "**1/1**", "Sign up for a free account to get 3 reports/month."},
			notWant: []string{"Premium"},
		},
		{
			name:    "free plan",
			quota:   rest.Quota{Used: 3, Limit: 3, Plan: "free"},
			want:    []string{"**3/3**", "Upgrade to **Pro** for 30 reports/month, or **Premium** for unlimited."},
			notWant: []string{"Sign up"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				q := tc.quota
				writeJSON(w, http.StatusPaymentRequired, rest.Error{
					Code:    "UsageLimitReached",
					Message: "Report limit reached",
					Detail:  &q,
				})
			}))
			defer srv.Close()

			res := run(t, srv.URL, "", "report", "MSFT")
			rq.Error(res.err)
			rq.Equal(cli.ExitCodeLimit, cli.ExitCode(res.err))

			for _, s := range tc.want {
				rq.Contains(res.out, s)
			}

			for _, s := range tc.notWant {
				rq.NotContains(res.out, s)
			}
		})
	}
}

func TestLoginSavesProfile(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			writeJSON(w, http.StatusUnauthorized, rest.Error{Code: "AccessTokenInvalid", Message: "Invalid token"})
			return
		}

		writeJSON(w, http.StatusOK, rest.Session{
			UserID:       "user-1",
			Email:        "ann@example.com",
			Subscription: rest.Subscription{PlanName: "pro"},
		})
	}))
	defer srv.Close()

	cfg := filepath.Join(t.TempDir(), "config.yaml")

	res := runWithConfig(t, cfg, srv.URL, "", "login", "bad-token")
	rq.Error(res.err)
	rq.Equal(cli.ExitCodeAuthFail, cli.ExitCode(res.err))

	p, err := cli.LoadProfile(cfg)
	rq.NoError(err)
	rq.Empty(p.AccessToken)
	rq.NotEmpty(p.ClientID)

	res = runWithConfig(t, cfg, srv.URL, "", "login", "good-token")
	rq.NoError(res.err)
	rq.Contains(res.out, "Logged in as ann@example.com (pro plan).")

	p, err = cli.LoadProfile(cfg)
	rq.NoError(err)
	rq.Equal("good-token", p.AccessToken)
	rq.Equal(srv.URL, p.APIURL)

	res = runWithConfig(t, cfg, srv.URL, "", "me")
	rq.NoError(res.err)
	rq.Contains(res.out, "Signed in as ann@example.com")

	res = runWithConfig(t, cfg, srv.URL, "", "logout")
	rq.NoError(res.err)

	p, err = cli.LoadProfile(cfg)
	rq.NoError(err)
	rq.Empty(p.AccessToken)
}

func TestClientIDIsStable(t *testing.T) {
	rq := require.New(t)

	var seen []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("X-Client-Id"))
		writeJSON(w, http.StatusOK, rest.Quota{Used: 0, Limit: 1, Period: "2026-10", Anonymous: true})
	}))
	defer srv.Close()

	cfg := filepath.Join(t.TempDir(), "config.yaml")

	for range 2 {
		res := runWithConfig(t, cfg, srv.URL, "", "usage")
		rq.NoError(res.err)
		rq.Contains(res.out, "anonymous")
	}

	rq.Len(seen, 2)
	rq.NotEmpty(seen[0])
	rq.Equal(seen[0], seen[1])
}

func TestQuotes(t *testing.T) {
	rq := require.New(t)

	var query string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("tickers")
		writeJSON(w, http.StatusOK, map[string]rest.Quote{
			"AAPL": {Price: 190.5, Change: 1.25, Percent: 0.66},
		})
	}))
	defer srv.Close()

	res := run(t, srv.URL, "", "quotes", "aapl", "msft,aapl")
	rq.NoError(res.err)
	rq.Equal("AAPL,MSFT", query)
	rq.Contains(res.out, "| AAPL")
	rq.Contains(res.out, "190.50")
	rq.Contains(res.out, "+0.66%")
	rq.Contains(res.out, "| MSFT")
	rq.Contains(res.out, "N/A")

	res = run(t, srv.URL, "", "quotes", "bad ticker!")
	rq.Equal(cli.ExitCodeUsage, cli.ExitCode(res.err))
}

func TestBlog(t *testing.T) {
	rq := require.New(t)

	var verdict string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/blog", func(w http.ResponseWriter, r *http.Request) {
		verdict = r.URL.Query().Get("verdict")
		writeJSON(w, http.StatusOK, rest.PostPage{
			Posts: []rest.Post{{Ticker: "AAPL", Verdict: "BUY", Title: "Apple analysis", Slug: "aapl-stock-analysis"}},
			Total: 1, Page: 1, Limit: 12, Pages: 1,
		})
	})
	mux.HandleFunc("GET /api/blog/{slug}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("slug") != "aapl-stock-analysis" {
			writeJSON(w, http.StatusNotFound, rest.Error{Code: "PostNotFound", Message: "Post not found"})
			return
		}

		writeJSON(w, http.StatusOK, rest.Post{Title: "Apple analysis", Verdict: "BUY", Content: "## Apple body", Tags: []string{"AAPL"}})
	})
	mux.HandleFunc("GET /api/blog/{slug}/related", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, rest.PostsResponse{Posts: []rest.Post{{Title: "Microsoft analysis", Slug: "msft-stock-analysis"}}})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	res := run(t, srv.URL, "", "blog", "--verdict", "buy")
	rq.NoError(res.err)
	rq.Equal("BUY", verdict)
	rq.Contains(res.out, "Apple analysis")
	rq.Contains(res.out, "Page 1 of 1, 1 posts")

	res = run(t, srv.URL, "", "blog", "aapl-stock-analysis")
	rq.NoError(res.err)
	rq.Contains(res.out, "## Apple body")
	rq.Contains(res.out, "Microsoft analysis `msft-stock-analysis`")

	res = run(t, srv.URL, "", "blog", "missing")
	rq.Error(res.err)
	rq.Contains(res.err.Error(), "PostNotFound")
}

func TestWatchCommands(t *testing.T) {
	rq := require.New(t)

	var deleted string

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/watchlist", func(w http.ResponseWriter, r *http.Request) {
		var req rest.WatchRequest
		rq.NoError(jsoniter.NewDecoder(r.Body).Decode(&req))
		writeJSON(w, http.StatusOK, rest.WatchlistItem{Ticker: req.Ticker})
	})
	mux.HandleFunc("DELETE /api/watchlist/{ticker}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("ticker")
		writeJSON(w, http.StatusOK, rest.SuccessResponse{Success: true})
	})
	mux.HandleFunc("GET /api/watchlist", func(w http.ResponseWriter, _ *http.Request) {
		buy := "BUY"
		writeJSON(w, http.StatusOK, rest.WatchlistResponse{Items: []rest.WatchlistItem{{Ticker: "NVDA", LastVerdict: &buy}}})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	res := run(t, srv.URL, "", "watch", "nvda")
	rq.NoError(res.err)
	rq.Contains(res.out, "Watching NVDA.")

	res = run(t, srv.URL, "", "watchlist")
	rq.NoError(res.err)
	rq.Contains(res.out, "| NVDA")
	rq.Contains(res.out, "BUY")

	res = run(t, srv.URL, "", "unwatch", "nvda")
	rq.NoError(res.err)
	rq.Equal("NVDA", deleted)
}

func TestLoadProfileMissing(t *testing.T) {
	rq := require.New(t)

	p, err := cli.LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	rq.NoError(err)
	rq.Equal("http://localhost:8080", p.APIURL)
	rq.Empty(p.AccessToken)
}

func TestSaveProfileRoundTrip(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := cli.Profile{APIURL: "https://stockfortress.example", AccessToken: "tok", ClientID: "cid"}

	rq.NoError(cli.SaveProfile(path, want))

	got, err := cli.LoadProfile(path)
	rq.NoError(err)
	rq.Equal(want, got)
}
