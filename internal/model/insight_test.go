package model

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestQuarterKeyRoundTrip(t *testing.T) {
	key := QuarterKey(2, 2006)
	assert.Equal(t, "Q2_2006", key)

	label, year, err := ParseQuarterKey(key)
	assert.Equal(t, nil, err)
	assert.Equal(t, "Q2", label)
	assert.Equal(t, 2006, year)
}

func TestParseQuarterKeyMalformed(t *testing.T) {
	malformed := []string{"Q1-2006", "q1_2006", "1_2006", "Q1_06", "Q1_2006_extra", ""}

	for _, key := range malformed {
		_, _, err := ParseQuarterKey(key)
		assert.NotEqual(t, nil, err)
	}
}

func TestBelongsToTicker(t *testing.T) {
	assert.Equal(t, true, BelongsToTicker("AAPL_Q2_2006.json", "AAPL"))
	assert.Equal(t, true, BelongsToTicker("AAPL_Q2_2006.json", "aapl"))
	assert.Equal(t, false, BelongsToTicker("MSFT_Q3_2020.json", "AAPL"))
	// A ticker that prefixes another must not match its files.
	assert.Equal(t, false, BelongsToTicker("AAPLX_Q1_2006.json", "AAPL"))
}

func TestTranscriptTextLegacyKey(t *testing.T) {
	doc := TranscriptDocument{Text: "legacy body"}
	assert.Equal(t, "legacy body", doc.TranscriptText())

	doc = TranscriptDocument{Transcript: "current body", Text: "legacy body"}
	assert.Equal(t, "current body", doc.TranscriptText())
}
