package main

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rtj1/stock-earnings/db"
	"github.com/rtj1/stock-earnings/internal/model"
	"github.com/rtj1/stock-earnings/internal/pipeline"
	"github.com/rtj1/stock-earnings/internal/repository"
	"github.com/rtj1/stock-earnings/pkg/llm"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if len(os.Args) < 2 {
		slog.Error("missing ticker argument")
		slog.Info("usage: extractor <TICKER_SYMBOL>")
		os.Exit(1)
	}
	ticker := strings.ToUpper(os.Args[1])

	err := db.Connect()
	if err != nil {
		log.Fatalf("error opening insight store: %v", err)
	}
	defer db.Close()

	redisConnected := false
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		if err := db.ConnectRedis(redisURL); err != nil {
			slog.Warn("error connecting to Redis, skipping dead letter pushes", "error", err)
		} else {
			redisConnected = true
			defer db.CloseRedis()
		}
	}

	if redisConnected {
		keepOtherTickers := func(file string) bool {
			return !model.BelongsToTicker(file, ticker)
		}
		if acked, err := db.SweepQueue(db.IngestQueueKey, keepOtherTickers); err != nil {
			slog.Warn("error sweeping ingest queue", "error", err)
		} else if acked > 0 {
			slog.Info("consumed ingest notifications", "ticker", ticker, "count", acked)
		}
		// This run retries the ticker's previous failures, so its dead
		// letters are stale.
		if cleared, err := db.SweepQueue(db.DeadLetterKey, keepOtherTickers); err != nil {
			slog.Warn("error sweeping dead letter queue", "error", err)
		} else if cleared > 0 {
			slog.Info("cleared dead letters before rerun", "ticker", ticker, "count", cleared)
		}
	}

	repo := repository.NewInsightRepository(db.DB)

	processed, err := repo.ProcessedFiles()
	if err != nil {
		log.Fatalf("error listing processed files: %v", err)
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	rawDir := filepath.Join(dataDir, "raw_"+strings.ToLower(ticker))

	matches, err := filepath.Glob(filepath.Join(rawDir, "*.json"))
	if err != nil {
		log.Fatalf("error listing transcript files: %v", err)
	}

	var files []string
	for _, path := range matches {
		if _, done := processed[filepath.Base(path)]; !done {
			files = append(files, path)
		}
	}
	sort.Strings(files)

	slog.Info("starting extraction run", "ticker", ticker,
		"already_processed", len(processed), "to_process", len(files))

	if len(files) == 0 {
		slog.Info("no new files to process", "ticker", ticker)
		return
	}

	workers := 2
	if raw := os.Getenv("MAX_WORKERS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			workers = n
		} else {
			slog.Warn("invalid MAX_WORKERS, using default", "value", raw)
		}
	}

	p := pipeline.New(workers, newExtractClient)

	var saved, skipped, failed, storageErrors int

	// Results are consumed here on the main goroutine, so all storage writes
	// stay on one connection in sequence.
	for result := range p.Run(files) {
		switch result.Status {
		case pipeline.StatusSuccess:
			if err := repo.UpsertRaw(result.Record); err != nil {
				slog.Error("error saving insight record", "file", result.File, "error", err)
				storageErrors++
				continue
			}
			saved++
		case pipeline.StatusSkipped:
			slog.Info("skipped transcript", "file", result.File, "reason", result.Err)
			skipped++
		case pipeline.StatusFailed:
			slog.Error("processing failed", "file", result.File, "error", result.Err)
			failed++
			if redisConnected {
				if err := db.PushToQueue(db.DeadLetterKey, result.File); err != nil {
					slog.Error("error pushing to dead letter queue", "file", result.File, "error", err)
				}
			}
		}
	}

	slog.Info("extraction run complete", "ticker", ticker,
		"saved", saved, "skipped", skipped, "failed", failed, "storage_errors", storageErrors)

	if redisConnected {
		if backlog, err := db.QueueLength(db.DeadLetterKey); err == nil {
			slog.Info("dead letter backlog", "length", backlog)
		}
	}
}

func newExtractClient() llm.ExtractClient {
	if strings.EqualFold(os.Getenv("LLM_PROVIDER"), "anthropic") {
		return llm.NewAnthropicClient(os.Getenv("ANTHROPIC_API_KEY"))
	}
	return llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"))
}
