package cache

import (
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/rtj1/stock-earnings/internal/model"
)

type fakeLister struct {
	records []model.InsightRecord
}

func (f *fakeLister) ListCleaned() ([]model.InsightRecord, error) {
	return f.records, nil
}

func TestLoadSkipsUnparsableQuarters(t *testing.T) {
	c, err := Load(&fakeLister{records: []model.InsightRecord{
		{File: "a.json", Ticker: "AAPL", Quarter: "Q1_2006"},
		{File: "b.json", Ticker: "AAPL", Quarter: "garbage"},
	}})

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, c.Len())
}

func TestLatestPicksMaxYearThenQuarter(t *testing.T) {
	c, err := Load(&fakeLister{records: []model.InsightRecord{
		{File: "a.json", Ticker: "AAPL", Quarter: "Q1_2006", Summary: "q1 2006"},
		{File: "b.json", Ticker: "AAPL", Quarter: "Q2_2006", Summary: "q2 2006"},
		{File: "c.json", Ticker: "AAPL", Quarter: "Q4_2005", Summary: "q4 2005"},
	}})
	assert.Equal(t, nil, err)

	rec, ok := c.Latest("AAPL")
	assert.Equal(t, true, ok)
	assert.Equal(t, "q2 2006", rec.Summary)

	// Lookup is case-insensitive on ticker.
	rec, ok = c.Latest("aapl")
	assert.Equal(t, true, ok)
	assert.Equal(t, "q2 2006", rec.Summary)

	_, ok = c.Latest("MSFT")
	assert.Equal(t, false, ok)
}

func TestTickersQuartersSorted(t *testing.T) {
	c, err := Load(&fakeLister{records: []model.InsightRecord{
		{File: "a.json", Ticker: "AAPL", Quarter: "Q3_2006"},
		{File: "b.json", Ticker: "AAPL", Quarter: "Q1_2006"},
		{File: "c.json", Ticker: "MSFT", Quarter: "Q2_2020"},
	}})
	assert.Equal(t, nil, err)

	out := c.TickersQuarters()
	assert.Equal(t, 2, len(out))
	assert.Equal(t, []string{"Q1", "Q3"}, out["AAPL"][2006])
	assert.Equal(t, []string{"Q2"}, out["MSFT"][2020])
}

func TestGet(t *testing.T) {
	c, err := Load(&fakeLister{records: []model.InsightRecord{
		{File: "a.json", Ticker: "AAPL", Quarter: "Q1_2006", Summary: "found"},
	}})
	assert.Equal(t, nil, err)

	rec, ok := c.Get("AAPL", "Q1", 2006)
	assert.Equal(t, true, ok)
	assert.Equal(t, "found", rec.Summary)

	_, ok = c.Get("AAPL", "Q2", 2006)
	assert.Equal(t, false, ok)

	_, ok = c.Get("AAPL", "Q1", 2007)
	assert.Equal(t, false, ok)
}
