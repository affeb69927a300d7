package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseInsights decodes the model's structured-fields response. When the
// response is not valid JSON it falls back to pulling individual fields out
// with regexes, which recovers most partially-mangled outputs.
func ParseInsights(content string) (*Insights, error) {
	content = cleanJSONResponse(content)

	var insights Insights
	if err := json.Unmarshal([]byte(content), &insights); err == nil {
		if insights.KeyRisks == nil {
			insights.KeyRisks = []string{}
		}
		return &insights, nil
	}

	return parseInsightsFallback(content)
}

var (
	epsPattern      = regexp.MustCompile(`"eps"\s*:\s*"([^"]+)"`)
	revenuePattern  = regexp.MustCompile(`"revenue"\s*:\s*"([^"]+)"`)
	guidancePattern = regexp.MustCompile(`"guidance"\s*:\s*"([^"]+)"`)
	risksPattern    = regexp.MustCompile(`(?s)"key_risks"\s*:\s*\[(.*?)\]`)
	quotePattern    = regexp.MustCompile(`"ceo_quote"\s*:\s*"([^"]+)"`)
)

func parseInsightsFallback(content string) (*Insights, error) {
	insights := &Insights{KeyRisks: []string{}}
	matched := false

	if m := epsPattern.FindStringSubmatch(content); m != nil {
		insights.EPS = m[1]
		matched = true
	}
	if m := revenuePattern.FindStringSubmatch(content); m != nil {
		insights.Revenue = m[1]
		matched = true
	}
	if m := guidancePattern.FindStringSubmatch(content); m != nil {
		insights.Guidance = m[1]
		matched = true
	}
	if m := quotePattern.FindStringSubmatch(content); m != nil {
		insights.CEOQuote = m[1]
		matched = true
	}
	if m := risksPattern.FindStringSubmatch(content); m != nil {
		insights.KeyRisks = parseRiskList(m[1])
		matched = true
	}

	if !matched {
		return nil, fmt.Errorf("no insight fields found in model output")
	}

	return insights, nil
}

// parseRiskList salvages the key_risks array body: valid JSON first, then a
// plain comma split.
func parseRiskList(body string) []string {
	var risks []string
	if err := json.Unmarshal([]byte("["+body+"]"), &risks); err == nil {
		return risks
	}

	risks = []string{}
	for _, part := range strings.Split(body, ",") {
		part = strings.Trim(part, `" `)
		if part != "" {
			risks = append(risks, part)
		}
	}
	return risks
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
