package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/rtj1/stock-earnings/db"
	"github.com/rtj1/stock-earnings/internal/cleaner"
	"github.com/rtj1/stock-earnings/internal/repository"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error opening insight store: %v", err)
	}
	defer db.Close()

	repo := repository.NewInsightRepository(db.DB)

	stats, err := cleaner.Run(repo)
	if err != nil {
		log.Fatalf("error running cleaning pass: %v", err)
	}

	slog.Info("cleaning pass complete",
		"processed", stats.Processed, "kept", stats.Kept,
		"filtered", stats.Filtered, "errors", stats.Errors)
}
