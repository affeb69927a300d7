// Package cache holds the cleaned insight table in memory for the API. The
// cache is read-only after Load; a restart picks up new data.
package cache

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/rtj1/stock-earnings/internal/model"
)

type CleanedLister interface {
	ListCleaned() ([]model.InsightRecord, error)
}

// InsightCache maps ticker -> year -> quarter label -> record.
type InsightCache struct {
	records map[string]map[int]map[string]model.InsightRecord
	total   int
}

func New() *InsightCache {
	return &InsightCache{records: make(map[string]map[int]map[string]model.InsightRecord)}
}

// Load reads every cleaned record into a new cache. Records with an
// unparsable quarter label are logged and dropped.
func Load(store CleanedLister) (*InsightCache, error) {
	c := New()

	records, err := store.ListCleaned()
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		label, year, err := model.ParseQuarterKey(rec.Quarter)
		if err != nil {
			slog.Warn("skipping record with unparsable quarter", "file", rec.File, "quarter", rec.Quarter)
			continue
		}

		ticker := strings.ToUpper(rec.Ticker)
		if c.records[ticker] == nil {
			c.records[ticker] = make(map[int]map[string]model.InsightRecord)
		}
		if c.records[ticker][year] == nil {
			c.records[ticker][year] = make(map[string]model.InsightRecord)
		}
		c.records[ticker][year][label] = rec
		c.total++
	}

	return c, nil
}

func (c *InsightCache) Len() int {
	return c.total
}

// TickersQuarters returns every ticker with its years and sorted quarter
// labels, the shape the dashboard dropdowns consume.
func (c *InsightCache) TickersQuarters() map[string]map[int][]string {
	out := make(map[string]map[int][]string, len(c.records))
	for ticker, years := range c.records {
		out[ticker] = make(map[int][]string, len(years))
		for year, quarters := range years {
			labels := make([]string, 0, len(quarters))
			for label := range quarters {
				labels = append(labels, label)
			}
			sort.Strings(labels)
			out[ticker][year] = labels
		}
	}
	return out
}

// Latest returns the record for the ticker's most recent quarter, selected
// by year first, then quarter number.
func (c *InsightCache) Latest(ticker string) (model.InsightRecord, bool) {
	years, ok := c.records[strings.ToUpper(ticker)]
	if !ok || len(years) == 0 {
		return model.InsightRecord{}, false
	}

	latestYear := 0
	for year := range years {
		if year > latestYear {
			latestYear = year
		}
	}

	var latestLabel string
	for label := range years[latestYear] {
		if latestLabel == "" || model.QuarterNumber(label) > model.QuarterNumber(latestLabel) {
			latestLabel = label
		}
	}

	return years[latestYear][latestLabel], true
}

// Get returns the record for one ticker and fiscal period.
func (c *InsightCache) Get(ticker, quarterLabel string, year int) (model.InsightRecord, bool) {
	years, ok := c.records[strings.ToUpper(ticker)]
	if !ok {
		return model.InsightRecord{}, false
	}
	quarters, ok := years[year]
	if !ok {
		return model.InsightRecord{}, false
	}
	rec, ok := quarters[quarterLabel]
	return rec, ok
}
