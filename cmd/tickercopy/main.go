package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if len(os.Args) < 2 {
		slog.Error("missing ticker argument")
		slog.Info("usage: tickercopy <TICKER_SYMBOL>")
		os.Exit(1)
	}
	ticker := strings.ToUpper(os.Args[1])

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	sourceDir := filepath.Join(dataDir, "raw")
	destDir := filepath.Join(dataDir, "raw_"+strings.ToLower(ticker))

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		slog.Error("error creating destination directory", "dir", destDir, "error", err)
		os.Exit(1)
	}

	matches, err := filepath.Glob(filepath.Join(sourceDir, ticker+"_*.json"))
	if err != nil {
		slog.Error("error listing transcript files", "dir", sourceDir, "error", err)
		os.Exit(1)
	}

	slog.Info("starting ticker extraction", "ticker", ticker, "found", len(matches), "source", sourceDir)

	if len(matches) == 0 {
		slog.Warn("no transcript files found for ticker, run the ingester first", "ticker", ticker)
		return
	}

	var copied int
	for _, src := range matches {
		dest := filepath.Join(destDir, filepath.Base(src))
		if err := copyFile(src, dest); err != nil {
			slog.Error("error copying transcript", "file", filepath.Base(src), "error", err)
			continue
		}
		copied++
		slog.Info("copied transcript", "file", filepath.Base(src), "dest", destDir)
	}

	slog.Info("ticker extraction complete", "ticker", ticker, "copied", copied, "dest", destDir)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
