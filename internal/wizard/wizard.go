// Package wizard walks a research report one step at a time.
package wizard

import (
	"fmt"
	"strings"
)

type Step struct {
	Key    string
	Label  string
	Icon   string
	Number string
}

// Steps is the fixed walk order. The landing step has no number and is not
// counted by Progress.
var Steps = []Step{ //nolint:gochecknoglobals
	{Key: "landing"},
	{Key: "s1", Label: "Know What You Own", Icon: "🏢", Number: "1"},
	{Key: "s2", Label: "Check Financials", Icon: "📊", Number: "2"},
	{Key: "s2a", Label: "Earnings Deep-Dive", Icon: "🔍", Number: "2A"},
	{Key: "s3", Label: "Understand The Story", Icon: "📖", Number: "3"},
	{Key: "s4", Label: "Know The Risks", Icon: "⚠️", Number: "4"},
	{Key: "s5", Label: "Competition", Icon: "⚔️", Number: "5"},
	{Key: "s6", Label: "Valuation Check", Icon: "💰", Number: "6"},
	{Key: "s7", Label: "The Verdict", Icon: "🎯", Number: "7"},
	{Key: "gut", Label: "Gut Check", Icon: "🧠", Number: "8"},
}

// NumberedSteps is the highest step number shown to the reader.
const NumberedSteps = 8

// StepIndex resolves a step key or number ("s2a", "2A", "gut", "8") to its
// index.
func StepIndex(s string) (int, bool) {
	s = strings.TrimSpace(s)

	for i, step := range Steps {
		if strings.EqualFold(step.Key, s) || (step.Number != "" && strings.EqualFold(step.Number, s)) {
			return i, true
		}
	}

	return 0, false
}

// Wizard is a bounded cursor over Steps.
type Wizard struct {
	step int
}

func New() *Wizard {
	return &Wizard{}
}

func (w *Wizard) Index() int {
	return w.step
}

func (w *Wizard) Current() Step {
	return Steps[w.step]
}

// Next moves forward and reports false when already on the last step.
func (w *Wizard) Next() bool {
	if w.AtEnd() {
		return false
	}

	w.step++

	return true
}

// Prev moves back and reports false on the landing step, where the caller
// leaves the wizard.
func (w *Wizard) Prev() bool {
	if w.step == 0 {
		return false
	}

	w.step--

	return true
}

// Jump moves to i, clamped to the valid range.
func (w *Wizard) Jump(i int) {
	w.step = max(0, min(i, len(Steps)-1))
}

func (w *Wizard) AtEnd() bool {
	return w.step == len(Steps)-1
}

// Progress renders the position as "Step 2A of 8 · Earnings Deep-Dive". It is
// empty on the landing step.
func (w *Wizard) Progress() string {
	step := w.Current()
	if step.Number == "" {
		return ""
	}

	return fmt.Sprintf("Step %s of %d · %s", step.Number, NumberedSteps, step.Label)
}

// Percent is the share of research steps reached, landing excluded.
func (w *Wizard) Percent() int {
	return w.step * 100 / (len(Steps) - 1)
}
