package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/rtj1/stock-earnings/internal/model"
	"github.com/rtj1/stock-earnings/pkg/llm"
)

type InsightRepository struct {
	db *sql.DB
}

func NewInsightRepository(db *sql.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// UpsertRaw writes one extraction result, replacing any previous run's row
// for the same file.
func (r *InsightRepository) UpsertRaw(rec *model.InsightRecord) error {
	keyRisks, insightsJSON, err := encodeInsights(rec.Insights)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT OR REPLACE INTO earnings_raw (
			file, ticker, quarter, summary, eps, revenue, guidance, key_risks, ceo_quote, raw_insights_json, model_used
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.File, rec.Ticker, rec.Quarter, rec.Summary,
		rec.Insights.EPS, rec.Insights.Revenue, rec.Insights.Guidance,
		keyRisks, rec.Insights.CEOQuote, insightsJSON, rec.Model)
	return err
}

func (r *InsightRepository) UpsertCleaned(rec *model.InsightRecord) error {
	keyRisks, insightsJSON, err := encodeInsights(rec.Insights)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT OR REPLACE INTO earnings_cleaned (
			file, ticker, quarter, summary, eps, revenue, guidance, key_risks, ceo_quote, raw_insights_json, model_used
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.File, rec.Ticker, rec.Quarter, rec.Summary,
		rec.Insights.EPS, rec.Insights.Revenue, rec.Insights.Guidance,
		keyRisks, rec.Insights.CEOQuote, insightsJSON, rec.Model)
	return err
}

// ProcessedFiles returns the file names already present in the raw table, so
// a rerun only touches new transcripts.
func (r *InsightRepository) ProcessedFiles() (map[string]struct{}, error) {
	rows, err := r.db.Query(`SELECT file FROM earnings_raw`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	processed := make(map[string]struct{})
	for rows.Next() {
		var file string
		if err := rows.Scan(&file); err != nil {
			return nil, err
		}
		processed[file] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return processed, nil
}

func (r *InsightRepository) ListRaw() ([]model.InsightRecord, error) {
	rows, err := r.db.Query(`
		SELECT file, ticker, quarter, summary, eps, revenue, guidance, key_risks, ceo_quote, raw_insights_json, model_used
		FROM earnings_raw
		ORDER BY file
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *InsightRepository) ListCleaned() ([]model.InsightRecord, error) {
	rows, err := r.db.Query(`
		SELECT file, ticker, quarter, summary, eps, revenue, guidance, key_risks, ceo_quote, raw_insights_json, model_used
		FROM earnings_cleaned
		ORDER BY file
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *InsightRepository) CountRaw() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM earnings_raw`).Scan(&total)
	return total, err
}

func (r *InsightRepository) CountCleaned() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM earnings_cleaned`).Scan(&total)
	return total, err
}

func encodeInsights(insights llm.Insights) (string, string, error) {
	if insights.KeyRisks == nil {
		insights.KeyRisks = []string{}
	}

	keyRisks, err := json.Marshal(insights.KeyRisks)
	if err != nil {
		return "", "", err
	}

	insightsJSON, err := json.Marshal(insights)
	if err != nil {
		return "", "", err
	}

	return string(keyRisks), string(insightsJSON), nil
}

func scanRecords(rows *sql.Rows) ([]model.InsightRecord, error) {
	var records []model.InsightRecord
	for rows.Next() {
		var rec model.InsightRecord
		var keyRisks, insightsJSON sql.NullString
		var eps, revenue, guidance, ceoQuote, modelUsed sql.NullString

		err := rows.Scan(&rec.File, &rec.Ticker, &rec.Quarter, &rec.Summary,
			&eps, &revenue, &guidance, &keyRisks, &ceoQuote, &insightsJSON, &modelUsed)
		if err != nil {
			return nil, err
		}
		rec.Model = modelUsed.String

		if insightsJSON.Valid {
			// Malformed stored JSON degrades to zero-value fields.
			json.Unmarshal([]byte(insightsJSON.String), &rec.Insights)
		}
		rec.Insights.EPS = eps.String
		rec.Insights.Revenue = revenue.String
		rec.Insights.Guidance = guidance.String
		rec.Insights.CEOQuote = ceoQuote.String
		if keyRisks.Valid {
			var risks []string
			if err := json.Unmarshal([]byte(keyRisks.String), &risks); err == nil {
				rec.Insights.KeyRisks = risks
			}
		}
		if rec.Insights.KeyRisks == nil {
			rec.Insights.KeyRisks = []string{}
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
