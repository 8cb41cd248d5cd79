package wizard

import (
	"fmt"
	"io"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

const notAvailable = "N/A"

// Render writes the markdown for one step of the report to w.
func Render(w io.Writer, r entity.Report, step Step) error {
	doc := md.NewMarkdown(w)

	if step.Number != "" {
		doc.H2f("%s Step %s: %s", step.Icon, step.Number, step.Label)
	}

	switch step.Key {
	case "landing":
		renderLanding(doc, r)
	case "s1":
		renderKnowWhatYouOwn(doc, r.KnowWhatYouOwn)
	case "s2":
		renderFinancials(doc, r.Financials)
	case "s2a":
		renderEarnings(doc, r.Earnings)
	case "s3":
		renderStory(doc, r.Story)
	case "s4":
		renderRisks(doc, r.Risks)
	case "s5":
		renderCompetition(doc, r.Competition)
	case "s6":
		renderValuation(doc, r.Valuation)
	case "s7":
		renderVerdict(doc, r.Verdict)
	case "gut":
		renderGutCheck(doc, r.GutCheck)
	default:
		return fmt.Errorf("unknown step %q", step.Key)
	}

	if err := doc.Build(); err != nil {
		return fmt.Errorf("doc.Build: %w", err)
	}

	return nil
}

// RenderAll writes every step in order, separated by rules.
func RenderAll(w io.Writer, r entity.Report) error {
	for i, step := range Steps {
		if i > 0 {
			if _, err := io.WriteString(w, "\n\n---\n\n"); err != nil {
				return fmt.Errorf("io.WriteString: %w", err)
			}
		}

		if err := Render(w, r, step); err != nil {
			return err
		}
	}

	return nil
}

func renderLanding(doc *md.Markdown, r entity.Report) {
	m := r.Meta

	doc.H1f("%s (%s)", orNA(m.CompanyName), orNA(m.Ticker))

	if s := m.Sector.String(); s != "" {
		doc.PlainText(md.Italic(s)).LF()
	}

	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Price", orNA(m.CurrentPrice)},
			{"Market Cap", orNA(m.MarketCap)},
			{"52W Range", orNA(m.FiftyTwoWeekRange)},
			{"Trailing P/E", orNA(m.TrailingPE)},
			{"Forward P/E", orNA(m.ForwardPE)},
			{"Beta", orNA(m.Beta)},
			{"Avg Volume", orNA(m.AvgVolume)},
			{"Report Date", orNA(m.ReportDate)},
		},
	})

	if note := m.DataFreshnessNote.String(); note != "" {
		doc.LF().Note(note)
	}
}

func renderKnowWhatYouOwn(doc *md.Markdown, s entity.KnowWhatYouOwn) {
	section(doc, "In Plain English", s.OneLiner)
	section(doc, "How They Make Money", s.HowItMakesMoney)
	list(doc, "Key Products", s.KeyProducts)
	section(doc, "Target Customer", s.CustomerType)

	if pf := s.PassFail.String(); pf != "" {
		doc.PlainText(md.Bold("Understandable? ") + pf).LF()
	}
}

func renderFinancials(doc *md.Markdown, s entity.Financials) {
	doc.PlainTextf("%s %s · latest: %s", md.Bold("Financial Health Grade:"), orNA(s.HealthGrade), orNA(s.LatestQuarter)).LF()

	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Revenue", orNA(s.RevenueLatest)},
			{"Revenue vs estimates", orNA(s.RevenueBeatMiss)},
			{"YoY Growth", orNA(s.RevenueGrowthYoY)},
			{"EPS", orNA(s.EPSLatest)},
			{"EPS vs estimates", orNA(s.EPSBeatMiss)},
			{"Net Income", orNA(s.NetIncomeLatest)},
			{"Profitable", orNA(s.Profitable)},
			{"Gross Margin", orNA(s.GrossMargin)},
			{"Operating Margin", orNA(s.OperatingMarginTrend)},
			{"FCF", orNA(s.FreeCashFlowLatest)},
			{"Cash", orNA(s.CashPosition)},
			{"Debt", orNA(s.DebtLevel)},
		},
	})

	if len(s.RevenueBreakdown) > 0 {
		rows := make([][]string, 0, len(s.RevenueBreakdown))
		for _, seg := range s.RevenueBreakdown {
			rows = append(rows, []string{orNA(seg.Segment), orNA(seg.Percentage), orNA(seg.Revenue)})
		}

		doc.LF().H3("Revenue Breakdown").Table(md.TableSet{
			Header: []string{"Segment", "Share", "Revenue"},
			Rows:   rows,
		})
	}

	list(doc, "🚩 Red Flags", s.RedFlags)
	list(doc, "✅ Green Flags", s.GreenFlags)
}

func renderEarnings(doc *md.Markdown, s entity.EarningsReview) {
	section(doc, "🎙️ Management Tone", s.ManagementTone)
	section(doc, "📊 Segment Performance", s.SegmentBreakdown)
	section(doc, "One-Time Adjustments", s.OneTimeItems)
	section(doc, "📈 Guidance Update", s.GuidanceChanges)
	section(doc, "🏦 Analyst Reaction", s.AnalystReaction)

	if note := s.ForwardStatementsNote.String(); note != "" {
		doc.Note(note).LF()
	}
}

func renderStory(doc *md.Markdown, s entity.Story) {
	section(doc, "Bull Case", s.BullCase)
	section(doc, "Base Case", s.BaseCase)
	section(doc, "Bear Case", s.BearCase)
	section(doc, "Macro Overlay", s.MacroOverlay)
	list(doc, "Must Go Right", s.MustGoRight)
	list(doc, "Bearish Catalysts", s.CouldBreak)
	list(doc, "Timeline", s.CatalystTimeline)
}

func renderRisks(doc *md.Markdown, s entity.Risks) {
	if len(s.TopRisks) > 0 {
		rows := make([][]string, 0, len(s.TopRisks))
		for _, r := range s.TopRisks {
			rows = append(rows, []string{orNA(r.Risk), orNA(r.Severity), orNA(r.Likelihood), orNA(r.Explanation)})
		}

		doc.Table(md.TableSet{
			Header: []string{"Risk", "Severity", "Likelihood", "Why"},
			Rows:   rows,
		}).LF()
	}

	section(doc, "Ownership Signals", s.OwnershipSignals)
	section(doc, "Regulatory Exposure", s.RegulatoryExposure)
	section(doc, "Concentration Risk", s.ConcentrationRisk)
}

func renderCompetition(doc *md.Markdown, s entity.Competition) {
	if len(s.MainCompetitors) > 0 {
		rows := make([][]string, 0, len(s.MainCompetitors))
		for _, c := range s.MainCompetitors {
			rows = append(rows, []string{orNA(c.Name), orNA(c.WhyCompete), orNA(c.TheirAdvantage)})
		}

		doc.Table(md.TableSet{
			Header: []string{"Competitor", "Overlap", "Their Edge"},
			Rows:   rows,
		}).LF()
	}

	doc.PlainText(md.Bold("Competitive Moat: ") + orNA(s.MoatStrength)).LF()

	if e := s.MoatExplanation.String(); e != "" {
		doc.PlainText(e).LF()
	}
}

func renderValuation(doc *md.Markdown, s entity.Valuation) {
	doc.H3("📊 Peer Comparison").Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Current P/E", orNA(s.CurrentPE)},
			{"Forward P/E", orNA(s.ForwardPE)},
			{"Peer Avg P/E", orNA(s.PeerAvgPE)},
			{"Price/Sales", orNA(s.PriceToSales)},
			{"EV/EBITDA", orNA(s.EVEBITDA)},
		},
	}).LF()

	section(doc, "🧮 DCF Implied Value", s.SimpleDCF)

	doc.H3("Price targets").Table(md.TableSet{
		Header: []string{"Bear", "Base", "Bull"},
		Rows:   [][]string{{orNA(s.BearCaseTarget), orNA(s.BaseCaseTarget), orNA(s.BullCaseTarget)}},
	}).LF()

	if e := s.IsItExpensive.String(); e != "" {
		doc.PlainText(md.Bold("Is it expensive? ") + e).LF()
	}

	section(doc, "Context", s.ValuationContext)
}

func renderVerdict(doc *md.Markdown, s entity.Verdict) {
	action := strings.ToUpper(strings.TrimSpace(s.Action.String()))
	if action == "" {
		action = entity.VerdictWatch
	}

	headline := fmt.Sprintf("%s (confidence: %s)", action, orNA(s.Confidence))
	if reason := s.OneLineReason.String(); reason != "" {
		headline += ": " + reason
	}

	switch action {
	case entity.VerdictBuy:
		doc.Tip(headline)
	case entity.VerdictAvoid:
		doc.Caution(headline)
	default:
		doc.Important(headline)
	}

	doc.LF()

	section(doc, "Signal to Change Course", s.SignalToChange)
	section(doc, "Metric to Track", s.MetricToTrack)
	section(doc, "Revisit", s.SuggestedRevisitDate)
}

func renderGutCheck(doc *md.Markdown, s entity.GutCheck) {
	if qs := s.Questions(); len(qs) > 0 {
		doc.OrderedList(qs...).LF()
	}

	if m := s.MindsetReminder.String(); m != "" {
		doc.Blockquote(m)
	}
}

func section(doc *md.Markdown, title string, text value.FlexString) {
	if s := strings.TrimSpace(text.String()); s != "" {
		doc.H3(title).PlainText(s).LF()
	}
}

func list(doc *md.Markdown, title string, items value.FlexStrings) {
	if len(items) == 0 {
		return
	}

	doc.H3(title).BulletList(items...).LF()
}

func orNA(s value.FlexString) string {
	if v := strings.TrimSpace(s.String()); v != "" {
		return v
	}

	return notAvailable
}
