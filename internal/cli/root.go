// Package cli implements fortressctl, the terminal client of the API.
package cli

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/apiclient"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

const (
	defaultTimeout = 90 * time.Second
	defaultWidth   = 100
)

type app struct {
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	version string

	configPath string
	apiURL     string
	token      string
	debug      bool
	plain      bool
	width      int
	timeout    time.Duration

	profile  Profile
	client   *apiclient.Client
	renderer *glamour.TermRenderer
}

// NewRootCommand builds the command tree. Input is read from in by the
// interactive report wizard.
func NewRootCommand(in io.Reader, out, errOut io.Writer, version string) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut, version: version}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Stock Fortress terminal client",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%w", err)
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "profile path (default $XDG_CONFIG_HOME/fortressctl/config.yaml)")
	flags.StringVar(&a.apiURL, "api-url", "", "API base URL, overrides the profile")
	flags.StringVar(&a.token, "token", "", "access token, overrides the profile")
	flags.BoolVar(&a.debug, "debug", false, "log HTTP traffic to stderr")
	flags.BoolVar(&a.plain, "plain", false, "print raw markdown")
	flags.IntVar(&a.width, "width", defaultWidth, "word wrap width")
	flags.DurationVar(&a.timeout, "timeout", defaultTimeout, "request timeout")

	cmd.AddCommand(
		newReportCommand(a),
		newReportsCommand(a),
		newBlogCommand(a),
		newQuotesCommand(a),
		newUsageCommand(a),
		newMeCommand(a),
		newPlansCommand(a),
		newCheckoutCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newWatchlistCommand(a),
		newWatchCommand(a),
		newUnwatchCommand(a),
		newHealthCommand(a),
	)

	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath == "" {
		path, err := DefaultProfilePath()
		if err != nil {
			return err
		}

		a.configPath = path
	}

	profile, err := LoadProfile(a.configPath)
	if err != nil {
		return err
	}

	if profile.ClientID == "" {
		profile.ClientID = xid.New().String()
		if err := SaveProfile(a.configPath, profile); err != nil {
			return err
		}
	}

	a.profile = profile

	if a.apiURL == "" {
		a.apiURL = profile.APIURL
	}

	if a.token == "" {
		a.token = profile.AccessToken
	}

	var log *slog.Logger
	if a.debug {
		log = logx.NewLogger(a.errOut, true, slog.String(logx.FieldAppName, appName))
	} else {
		log = slog.New(slog.DiscardHandler)
	}

	cmd.SetContext(contextx.WithLogger(cmd.Context(), log))

	a.client = apiclient.New(a.apiURL, httpx.NewClient(a.timeout, a.token)).
		WithClientID(profile.ClientID)

	return nil
}
