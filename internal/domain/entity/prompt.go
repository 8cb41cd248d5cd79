package entity

type PromptPurpose string

const (
	PurposeReport PromptPurpose = "report"
	PurposeBlog   PromptPurpose = "blog"
)

// Prompt is one completion request to an AI provider.
type Prompt struct {
	Purpose     PromptPurpose
	Model       string
	System      string
	User        string
	Temperature float32
	// Grounding enables live web search where the provider supports it.
	Grounding bool
}
