package entity

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var ErrReportNotObject = errors.New("report is not a JSON object")

type ReportMeta struct {
	Ticker            value.FlexString `json:"ticker"`
	CompanyName       value.FlexString `json:"company_name"`
	Sector            value.FlexString `json:"sector"`
	CurrentPrice      value.FlexString `json:"current_price"`
	MarketCap         value.FlexString `json:"market_cap"`
	TrailingPE        value.FlexString `json:"trailing_pe"`
	ForwardPE         value.FlexString `json:"forward_pe"`
	FiftyTwoWeekRange value.FlexString `json:"fifty_two_week_range"`
	AvgVolume         value.FlexString `json:"avg_volume"`
	Beta              value.FlexString `json:"beta"`
	ReportDate        value.FlexString `json:"report_date"`
	DataFreshnessNote value.FlexString `json:"data_freshness_note"`
}

type KnowWhatYouOwn struct {
	OneLiner        value.FlexString  `json:"one_liner"`
	HowItMakesMoney value.FlexString  `json:"how_it_makes_money"`
	KeyProducts     value.FlexStrings `json:"key_products_or_services"`
	CustomerType    value.FlexString  `json:"customer_type"`
	PassFail        value.FlexString  `json:"pass_fail"`
}

type RevenueSegment struct {
	Segment    value.FlexString `json:"segment"`
	Percentage value.FlexString `json:"percentage"`
	Revenue    value.FlexString `json:"revenue"`
}

type Financials struct {
	LatestQuarter        value.FlexString  `json:"latest_quarter"`
	RevenueLatest        value.FlexString  `json:"revenue_latest"`
	RevenueGrowthYoY     value.FlexString  `json:"revenue_growth_yoy"`
	RevenueBeatMiss      value.FlexString  `json:"revenue_beat_miss"`
	EPSLatest            value.FlexString  `json:"eps_latest"`
	EPSBeatMiss          value.FlexString  `json:"eps_beat_miss"`
	NetIncomeLatest      value.FlexString  `json:"net_income_latest"`
	Profitable           value.FlexString  `json:"profitable"`
	GrossMargin          value.FlexString  `json:"gross_margin"`
	OperatingMarginTrend value.FlexString  `json:"operating_margin_trend"`
	DebtLevel            value.FlexString  `json:"debt_level"`
	FreeCashFlowLatest   value.FlexString  `json:"free_cash_flow_latest"`
	CashPosition         value.FlexString  `json:"cash_position"`
	HealthGrade          value.FlexString  `json:"financial_health_grade"`
	RedFlags             value.FlexStrings `json:"red_flags"`
	GreenFlags           value.FlexStrings `json:"green_flags"`
	RevenueBreakdown     []RevenueSegment  `json:"revenue_breakdown"`
}

type EarningsReview struct {
	OneTimeItems          value.FlexString `json:"one_time_items"`
	SegmentBreakdown      value.FlexString `json:"segment_breakdown"`
	GuidanceChanges       value.FlexString `json:"guidance_changes"`
	ManagementTone        value.FlexString `json:"management_tone"`
	AnalystReaction       value.FlexString `json:"analyst_reaction"`
	ForwardStatementsNote value.FlexString `json:"forward_statements_note"`
}

type Story struct {
	BullCase         value.FlexString  `json:"bull_case"`
	BaseCase         value.FlexString  `json:"base_case"`
	BearCase         value.FlexString  `json:"bear_case"`
	MustGoRight      value.FlexStrings `json:"what_must_go_right"`
	CouldBreak       value.FlexStrings `json:"what_could_break_the_story"`
	MacroOverlay     value.FlexString  `json:"macro_overlay"`
	CatalystTimeline value.FlexStrings `json:"catalyst_timeline"`
}

type Risk struct {
	Risk        value.FlexString `json:"risk"`
	Severity    value.FlexString `json:"severity"`
	Likelihood  value.FlexString `json:"likelihood"`
	Explanation value.FlexString `json:"explanation"`
}

type Risks struct {
	TopRisks           []Risk           `json:"top_risks"`
	OwnershipSignals   value.FlexString `json:"ownership_signals"`
	RegulatoryExposure value.FlexString `json:"regulatory_exposure"`
	ConcentrationRisk  value.FlexString `json:"concentration_risk"`
}

type Competitor struct {
	Name           value.FlexString `json:"name"`
	WhyCompete     value.FlexString `json:"why_compete"`
	TheirAdvantage value.FlexString `json:"their_advantage"`
}

type Competition struct {
	MainCompetitors []Competitor     `json:"main_competitors"`
	MoatStrength    value.FlexString `json:"moat_strength"`
	MoatExplanation value.FlexString `json:"moat_explanation"`
}

type Valuation struct {
	CurrentPE        value.FlexString `json:"current_pe"`
	ForwardPE        value.FlexString `json:"forward_pe"`
	PeerAvgPE        value.FlexString `json:"sector_or_peer_avg_pe"`
	PriceToSales     value.FlexString `json:"price_to_sales"`
	EVEBITDA         value.FlexString `json:"ev_ebitda_if_relevant"`
	SimpleDCF        value.FlexString `json:"simple_dcf_implied_value"`
	IsItExpensive    value.FlexString `json:"is_it_expensive"`
	ValuationContext value.FlexString `json:"valuation_context"`
	BaseCaseTarget   value.FlexString `json:"base_case_target"`
	BullCaseTarget   value.FlexString `json:"bull_case_target"`
	BearCaseTarget   value.FlexString `json:"bear_case_target"`
}

type Verdict struct {
	Action               value.FlexString `json:"action"`
	Confidence           value.FlexString `json:"confidence"`
	OneLineReason        value.FlexString `json:"one_line_reason"`
	SignalToChange       value.FlexString `json:"what_signal_would_change_this"`
	MetricToTrack        value.FlexString `json:"most_important_metric_to_track"`
	SuggestedRevisitDate value.FlexString `json:"suggested_revisit_date"`
}

type GutCheck struct {
	Question1       value.FlexString `json:"question_1"`
	Question2       value.FlexString `json:"question_2"`
	Question3       value.FlexString `json:"question_3"`
	Question4       value.FlexString `json:"question_4"`
	Question5       value.FlexString `json:"question_5"`
	MindsetReminder value.FlexString `json:"mindset_reminder"`
}

// Questions returns the non-empty gut check questions in order. The model is
// told to fill question_5 with "ignored".
func (g GutCheck) Questions() []string {
	var out []string

	for _, q := range []value.FlexString{g.Question1, g.Question2, g.Question3, g.Question4, g.Question5} {
		if s := strings.TrimSpace(q.String()); s != "" && !strings.EqualFold(s, "ignored") {
			out = append(out, s)
		}
	}

	return out
}

// Report is the AI-produced research document. The typed view covers the keys
// the wizard renders; the raw document is kept verbatim so unknown keys
// survive a round trip through the cache.
type Report struct {
	Meta           ReportMeta     `json:"meta"`
	KnowWhatYouOwn KnowWhatYouOwn `json:"step_1_know_what_you_own"`
	Financials     Financials     `json:"step_2_check_the_financials"`
	Earnings       EarningsReview `json:"step_2a_earnings_and_guidance_review"`
	Story          Story          `json:"step_3_understand_the_story"`
	Risks          Risks          `json:"step_4_know_the_risks"`
	Competition    Competition    `json:"step_5_check_the_competition"`
	Valuation      Valuation      `json:"step_6_valuation_reality_check"`
	Verdict        Verdict        `json:"step_7_verdict"`
	GutCheck       GutCheck       `json:"investor_gut_check"`

	raw []byte
}

type reportAlias Report

func (r *Report) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrReportNotObject
	}

	var typed reportAlias
	if err := json.Unmarshal(trimmed, &typed); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	*r = Report(typed)
	r.raw = append([]byte(nil), trimmed...)

	return nil
}

func (r Report) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}

	b, err := json.Marshal(reportAlias(r))
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return b, nil
}

// ParseReport decodes model output that has already been stripped of fences.
func ParseReport(text string) (Report, error) {
	var r Report
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return Report{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return r, nil
}

// Action returns the verdict in upper case, WATCH when the model left it out.
func (r Report) Action() string {
	action := strings.ToUpper(strings.TrimSpace(r.Verdict.Action.String()))
	if action == "" {
		return VerdictWatch
	}

	return action
}

func (r Report) CompanyName() string {
	return strings.TrimSpace(r.Meta.CompanyName.String())
}

const (
	VerdictBuy   = "BUY"
	VerdictWatch = "WATCH"
	VerdictAvoid = "AVOID"
)

// ReportResult is what the report endpoint returns.
type ReportResult struct {
	Ticker value.Ticker `json:"ticker"`
	Cached bool         `json:"cached"`
	Report Report       `json:"report"`
	Saved  bool         `json:"saved"`
	Usage  *Quota       `json:"usage,omitempty"`
}

// SavedReport is a report stored in a user's history.
type SavedReport struct {
	ID          uuid.UUID    `json:"id"`
	UserID      string       `json:"user_id"`
	Ticker      value.Ticker `json:"ticker"`
	Report      Report       `json:"report_data"`
	Model       string       `json:"gemini_model"`
	Verdict     string       `json:"verdict"`
	GeneratedAt time.Time    `json:"generated_at"`
}
