package llm

import "fmt"

// Insights holds the structured fields extracted from one earnings call.
type Insights struct {
	EPS      string   `json:"eps"`
	Revenue  string   `json:"revenue"`
	Guidance string   `json:"guidance"`
	KeyRisks []string `json:"key_risks"`
	CEOQuote string   `json:"ceo_quote"`
}

type ExtractClient interface {
	Summarize(transcript string) (string, error)
	ExtractInsights(transcript string) (*Insights, error)
	ModelName() string
}

// Model calls are priced per token; anything past this point rarely adds
// signal for the fields we extract.
const maxTranscriptChars = 8000

func truncateTranscript(transcript string) string {
	if len(transcript) > maxTranscriptChars {
		return transcript[:maxTranscriptChars]
	}
	return transcript
}

const summaryPromptTemplate = `You are a financial analyst assistant. Read the following earnings call transcript and summarize it in 5-7 sentences, highlighting:
- Key financial metrics (e.g. EPS, revenue)
- Forward guidance
- Major product or strategy updates
- Sentiment or tone of executives

Transcript:
%s`

const structurePromptTemplate = `Extract the following fields from this earnings call transcript and return them as a JSON object:
- eps
- revenue
- guidance
- key_risks
- ceo_quote

Example:
{
  "eps": "2.15",
  "revenue": "123.9B",
  "guidance": "Revenue growth expected in Q2",
  "key_risks": ["foreign exchange volatility", "supply chain issues"],
  "ceo_quote": "We're optimistic about the future and focused on innovation."
}

Transcript:
%s

Only return a valid JSON object.`

func summaryPrompt(transcript string) string {
	return fmt.Sprintf(summaryPromptTemplate, truncateTranscript(transcript))
}

func structurePrompt(transcript string) string {
	return fmt.Sprintf(structurePromptTemplate, truncateTranscript(transcript))
}
