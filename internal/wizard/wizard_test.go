package wizard_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/wizard"
)

func TestWizardBounds(t *testing.T) {
	rq := require.New(t)

	w := wizard.New()
	rq.Equal("landing", w.Current().Key)
	rq.Empty(w.Progress())
	rq.False(w.Prev())

	for i := 1; i < len(wizard.Steps); i++ {
		rq.True(w.Next())
	}

	rq.True(w.AtEnd())
	rq.Equal("gut", w.Current().Key)
	rq.False(w.Next())
	rq.Equal(len(wizard.Steps)-1, w.Index())
	rq.Equal(100, w.Percent())
	rq.Equal("Step 8 of 8 · Gut Check", w.Progress())

	rq.True(w.Prev())
	rq.Equal("s7", w.Current().Key)
}

func TestWizardJump(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		in   int
		want string
	}{
		{in: -3, want: "landing"},
		{in: 3, want: "s2a"},
		{in: 99, want: "gut"},
	}

	for _, tc := range testCases {
		w := wizard.New()
		w.Jump(tc.in)
		rq.Equal(tc.want, w.Current().Key)
	}

	w := wizard.New()
	w.Jump(3)
	rq.Equal("Step 2A of 8 · Earnings Deep-Dive", w.Progress())
}

func TestStepIndex(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "s2a", want: 3, wantOK: true},
		{in: "2a", want: 3, wantOK: true},
		{in: "GUT", want: 9, wantOK: true},
		{in: "7", want: 8, wantOK: true},
		{in: "landing", want: 0, wantOK: true},
		{in: "9", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := wizard.StepIndex(tc.in)
			rq.Equal(tc.wantOK, ok)
			rq.Equal(tc.want, got)
		})
	}
}

const reportJSON = `{
	"meta": {"ticker": "AAPL", "company_name": "Apple Inc.", "current_price": 190.5, "sector": "Technology"},
	"step_1_know_what_you_own": {"one_liner": "Sells iPhones", "key_products_or_services": ["iPhone", "Mac"]},
	"step_2_check_the_financials": {"financial_health_grade": "A", "red_flags": "China exposure", "green_flags": ["Buybacks"]},
	"step_4_know_the_risks": {"top_risks": [{"risk": "Regulation", "severity": "HIGH", "likelihood": "MEDIUM", "explanation": "App Store"}]},
	"step_7_verdict": {"action": "buy", "confidence": "High", "one_line_reason": "Durable moat"},
	"investor_gut_check": {"question_1": "Would you hold through a 30% drop?", "question_5": "ignored", "mindset_reminder": "Think in years"}
}`

func TestRender(t *testing.T) {
	rq := require.New(t)

	report, err := entity.ParseReport(reportJSON)
	rq.NoError(err)

	testCases := []struct {
		step    string
		want    []string
		notWant []string
	}{
		{step: "landing", want: []string{"# Apple Inc. (AAPL)", "| Price", "190.5", "N/A"}},
		{step: "s1", want: []string{"## 🏢 Step 1: Know What You Own", "Sells iPhones", "- iPhone", "- Mac"}},
		{step: "s2", want: []string{"Financial Health Grade:", "🚩 Red Flags", "- China exposure", "- Buybacks"}},
		{step: "s4", want: []string{"Regulation", "HIGH", "App Store"}},
		{step: "s7", want: []string{"[!TIP]", "BUY (confidence: High): Durable moat"}},
		{step: "gut", want: []string{"1. Would you hold through a 30% drop?", "> Think in years"}, notWant: []string{"ignored"}},
		{step: "s3", notWant: []string{"Bull Case"}},
	}

	for _, tc := range testCases {
		t.Run(tc.step, func(t *testing.T) {
			i, ok := wizard.StepIndex(tc.step)
			rq.True(ok)

			var buf bytes.Buffer
			rq.NoError(wizard.Render(&buf, report, wizard.Steps[i]))

			for _, s := range tc.want {
				rq.Contains(buf.String(), s)
			}

			for _, s := range tc.notWant {
				rq.NotContains(buf.String(), s)
			}
		})
	}
}

func TestRenderAll(t *testing.T) {
	rq := require.New(t)

	report, err := entity.ParseReport(reportJSON)
	rq.NoError(err)

	var buf bytes.Buffer
	rq.NoError(wizard.RenderAll(&buf, report))
	rq.Contains(buf.String(), "Step 2A: Earnings Deep-Dive")
	rq.Contains(buf.String(), "## 🧠 Step 8: Gut Check")
}

func TestRenderUnknownStep(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, wizard.Render(&buf, entity.Report{}, wizard.Step{Key: "nope"}))
}
