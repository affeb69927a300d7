package repository

import (
	"database/sql"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/rtj1/stock-earnings/db"
	"github.com/rtj1/stock-earnings/internal/model"
	"github.com/rtj1/stock-earnings/pkg/llm"
	_ "modernc.org/sqlite"
)

func newTestRepository(t *testing.T) *InsightRepository {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	// In-memory SQLite gives every connection its own database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.InitSchema(sqlDB); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return NewInsightRepository(sqlDB)
}

func testRecord() *model.InsightRecord {
	return &model.InsightRecord{
		File:    "AAPL_Q2_2006.json",
		Ticker:  "AAPL",
		Quarter: "Q2_2006",
		Summary: "Strong quarter driven by iPod sales.",
		Insights: llm.Insights{
			EPS:      "0.47",
			Revenue:  "4.36B",
			Guidance: "Revenue growth expected next quarter",
			KeyRisks: []string{"component pricing", "competition"},
			CEOQuote: "We are thrilled with these results.",
		},
		Model: "gpt-4o",
	}
}

func TestUpsertRawIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	rec := testRecord()

	assert.Equal(t, nil, repo.UpsertRaw(rec))

	rec.Summary = "Revised summary after reprocessing."
	assert.Equal(t, nil, repo.UpsertRaw(rec))

	total, err := repo.CountRaw()
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, total)

	records, err := repo.ListRaw()
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(records))
	assert.Equal(t, "Revised summary after reprocessing.", records[0].Summary)
}

func TestRawRecordRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	rec := testRecord()

	assert.Equal(t, nil, repo.UpsertRaw(rec))

	records, err := repo.ListRaw()
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(records))

	got := records[0]
	assert.Equal(t, rec.File, got.File)
	assert.Equal(t, rec.Ticker, got.Ticker)
	assert.Equal(t, rec.Quarter, got.Quarter)
	assert.Equal(t, rec.Summary, got.Summary)
	assert.Equal(t, rec.Insights, got.Insights)
	assert.Equal(t, rec.Model, got.Model)
}

func TestProcessedFiles(t *testing.T) {
	repo := newTestRepository(t)

	processed, err := repo.ProcessedFiles()
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(processed))

	assert.Equal(t, nil, repo.UpsertRaw(testRecord()))

	processed, err = repo.ProcessedFiles()
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(processed))

	_, ok := processed["AAPL_Q2_2006.json"]
	assert.Equal(t, true, ok)
}

func TestCleanedTableSeparateFromRaw(t *testing.T) {
	repo := newTestRepository(t)
	rec := testRecord()

	assert.Equal(t, nil, repo.UpsertRaw(rec))

	cleaned, err := repo.ListCleaned()
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(cleaned))

	assert.Equal(t, nil, repo.UpsertCleaned(rec))
	assert.Equal(t, nil, repo.UpsertCleaned(rec))

	total, err := repo.CountCleaned()
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, total)
}
