package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var DB *sql.DB

const defaultPath = "data/earnings_insights.db"

// Connect opens the SQLite store at DATABASE_PATH and ensures the schema exists.
func Connect() error {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = defaultPath
	}
	return ConnectPath(path)
}

func ConnectPath(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create db directory: %w", err)
		}
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	var err error
	DB, err = sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}

	// Single writer; SQLite serializes writes anyway.
	DB.SetMaxOpenConns(1)

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("ping sqlite db: %w", err)
	}

	return InitSchema(DB)
}

// InitSchema creates the raw and cleaned insight tables if they do not exist.
func InitSchema(sqlDB *sql.DB) error {
	_, err := sqlDB.Exec(`
		CREATE TABLE IF NOT EXISTS earnings_raw (
			file TEXT PRIMARY KEY,
			ticker TEXT,
			quarter TEXT,
			summary TEXT,
			eps TEXT,
			revenue TEXT,
			guidance TEXT,
			key_risks TEXT,
			ceo_quote TEXT,
			raw_insights_json TEXT,
			model_used TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("create earnings_raw table: %w", err)
	}

	_, err = sqlDB.Exec(`
		CREATE TABLE IF NOT EXISTS earnings_cleaned (
			file TEXT PRIMARY KEY,
			ticker TEXT,
			quarter TEXT,
			summary TEXT,
			eps TEXT,
			revenue TEXT,
			guidance TEXT,
			key_risks TEXT,
			ceo_quote TEXT,
			raw_insights_json TEXT,
			model_used TEXT,
			cleaned_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create earnings_cleaned table: %w", err)
	}

	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}
