// Package cleaner filters low-quality model outputs out of the raw insight
// table. It is a pure filter-and-copy pass, safe to re-run in full.
package cleaner

import (
	"log/slog"
	"strings"

	"github.com/rtj1/stock-earnings/internal/model"
)

// refusalPhrases mark summaries where the model refused or asked for input
// instead of summarizing. Matched case-insensitively as substrings.
var refusalPhrases = []string{
	"please provide the content",
	"certainly! please provide",
	"i'm sorry, but you need to",
	"as an ai language model",
	"i cannot fulfill this request",
	"i lack the ability to",
	"i do not have access to real-time",
}

// IsClean reports whether a summary is free of refusal phrases.
func IsClean(summary string) bool {
	lower := strings.ToLower(summary)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}

type Store interface {
	ListRaw() ([]model.InsightRecord, error)
	UpsertCleaned(rec *model.InsightRecord) error
}

type Stats struct {
	Processed int
	Kept      int
	Filtered  int
	Errors    int
}

// Run copies every clean raw record into the cleaned table. Per-record
// storage errors are logged and counted; only listing the raw table can fail
// the whole pass.
func Run(store Store) (Stats, error) {
	var stats Stats

	records, err := store.ListRaw()
	if err != nil {
		return stats, err
	}

	for i := range records {
		rec := &records[i]
		stats.Processed++

		if !IsClean(rec.Summary) {
			stats.Filtered++
			slog.Warn("filtered entry with refusal summary", "file", rec.File)
			continue
		}

		if err := store.UpsertCleaned(rec); err != nil {
			stats.Errors++
			slog.Error("error saving cleaned record", "file", rec.File, "error", err)
			continue
		}
		stats.Kept++
	}

	return stats, nil
}
