package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rtj1/stock-earnings/db"
	"github.com/rtj1/stock-earnings/internal/model"
	"github.com/rtj1/stock-earnings/pkg/transcripts"
)

const pageSize = 100

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	rawDir := filepath.Join(dataDir, "raw")

	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		slog.Error("error creating raw directory", "dir", rawDir, "error", err)
		os.Exit(1)
	}

	redisConnected := false
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		if err := db.ConnectRedis(redisURL); err != nil {
			slog.Warn("error connecting to Redis, skipping queue pushes", "error", err)
		} else {
			redisConnected = true
			defer db.CloseRedis()
		}
	}

	source := transcripts.NewHuggingFaceClient(os.Getenv("TRANSCRIPT_DATASET"))

	var saved, failed int
	offset := 0

	for {
		page, total, err := source.FetchPage(offset, pageSize)
		if err != nil {
			slog.Error("error fetching transcript page", "source", source.Name(), "offset", offset, "error", err)
			break
		}

		if len(page) == 0 {
			break
		}

		for _, tr := range page {
			doc := model.TranscriptDocument{
				Company:    tr.Company,
				Ticker:     tr.Ticker,
				Quarter:    model.QuarterKey(tr.Quarter, tr.Year),
				Date:       tr.Date,
				Transcript: tr.Content,
			}

			name := fmt.Sprintf("%s_%s.json", doc.Ticker, doc.Quarter)
			if err := writeDocument(filepath.Join(rawDir, name), doc); err != nil {
				slog.Error("error saving transcript", "file", name, "error", err)
				failed++
				continue
			}
			saved++

			if redisConnected {
				if err := db.PushToQueue(db.IngestQueueKey, name); err != nil {
					slog.Error("error pushing to ingest queue", "file", name, "error", err)
				}
			}
		}

		offset += len(page)
		slog.Info("ingest progress", "source", source.Name(), "saved", saved, "total", total)

		if offset >= total {
			break
		}
	}

	slog.Info("ingest complete", "source", source.Name(), "saved", saved, "failed", failed, "dir", rawDir)
}

func writeDocument(path string, doc model.TranscriptDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript document: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
