package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rtj1/stock-earnings/pkg/llm"
)

const (
	UnknownTicker  = "UNKNOWN_TICKER"
	UnknownQuarter = "UNKNOWN_QUARTER"
)

// InsightRecord is one extracted earnings-call result, keyed by the source
// transcript file name. The same shape backs both the raw and cleaned tables.
type InsightRecord struct {
	File     string
	Ticker   string
	Quarter  string
	Summary  string
	Insights llm.Insights
	Model    string
}

// TranscriptDocument is the on-disk JSON form of one ingested transcript.
type TranscriptDocument struct {
	Company    string `json:"company"`
	Ticker     string `json:"ticker"`
	Quarter    string `json:"quarter"`
	Date       string `json:"date"`
	Transcript string `json:"transcript"`
	Text       string `json:"text,omitempty"`
}

// TranscriptText returns the transcript body, accepting the legacy "text" key.
func (d *TranscriptDocument) TranscriptText() string {
	if d.Transcript != "" {
		return d.Transcript
	}
	return d.Text
}

var quarterKeyPattern = regexp.MustCompile(`^Q\d+_\d{4}$`)

// QuarterKey builds a fiscal-period label like "Q2_2006".
func QuarterKey(quarter, year int) string {
	return fmt.Sprintf("Q%d_%d", quarter, year)
}

// ParseQuarterKey splits a "Qn_YYYY" label into its quarter label and year.
func ParseQuarterKey(key string) (string, int, error) {
	if !quarterKeyPattern.MatchString(key) {
		return "", 0, fmt.Errorf("invalid quarter key %q, expected QX_YYYY", key)
	}
	parts := strings.SplitN(key, "_", 2)
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid quarter key %q: %w", key, err)
	}
	return parts[0], year, nil
}

// BelongsToTicker reports whether a transcript file name is for the given
// ticker, per the TICKER_Qn_YYYY.json naming scheme.
func BelongsToTicker(file, ticker string) bool {
	return strings.HasPrefix(file, strings.ToUpper(ticker)+"_")
}

// QuarterNumber returns the numeric part of a quarter label like "Q2".
func QuarterNumber(label string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(label, "Q"))
	if err != nil {
		return 0
	}
	return n
}
