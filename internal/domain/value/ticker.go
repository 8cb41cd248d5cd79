package value

import (
	"fmt"
	"regexp"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
)

const MaxTickerLen = 10

var tickerPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,9}$`) //nolint:gochecknoglobals

// Ticker is an upper-cased exchange symbol such as AAPL or BRK.B.
type Ticker string

func (t Ticker) String() string {
	return string(t)
}

// Slug is the canonical blog slug for the ticker.
func (t Ticker) Slug() string {
	return strings.ToLower(string(t)) + "-stock-analysis"
}

func ParseTicker(s string) (Ticker, error) {
	t := strings.ToUpper(strings.TrimSpace(s))

	if t == "" || len(t) > MaxTickerLen || !tickerPattern.MatchString(t) {
		return "", failure.NewInvalidArgumentError(
			fmt.Sprintf("invalid ticker %q", s),
			failure.WithCode(errcodes.InvalidTicker),
			failure.WithDescription("Invalid ticker"),
		)
	}

	return Ticker(t), nil
}

// ParseTickerList parses a comma separated list, skipping empty entries and
// duplicates while keeping the first-seen order.
func ParseTickerList(s string) ([]Ticker, error) {
	parts := strings.Split(s, ",")
	seen := make(map[Ticker]struct{}, len(parts))
	tickers := make([]Ticker, 0, len(parts))

	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}

		t, err := ParseTicker(part)
		if err != nil {
			return nil, err
		}

		if _, ok := seen[t]; ok {
			continue
		}

		seen[t] = struct{}{}
		tickers = append(tickers, t)
	}

	return tickers, nil
}
