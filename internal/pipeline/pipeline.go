// Package pipeline runs transcript files through the LLM extraction step with
// a bounded worker pool. Every input file yields exactly one Result; failures
// never stop the run.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rtj1/stock-earnings/internal/model"
	"github.com/rtj1/stock-earnings/pkg/llm"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

type Result struct {
	Status Status
	File   string
	Record *model.InsightRecord
	Err    error
}

type Pipeline struct {
	workers   int
	newClient func() llm.ExtractClient
}

// New builds a pipeline with the given pool size. Each worker gets its own
// client from the factory, so clients are never shared across goroutines.
func New(workers int, newClient func() llm.ExtractClient) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{workers: workers, newClient: newClient}
}

// Run processes the given files and streams results as tasks finish. The
// returned channel closes after all files are accounted for; the caller is
// the single writer to storage.
func (p *Pipeline) Run(paths []string) <-chan Result {
	files := make(chan string)
	results := make(chan Result, p.workers)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := p.newClient()
			for path := range files {
				results <- processFile(client, path)
			}
		}()
	}

	go func() {
		for _, path := range paths {
			files <- path
		}
		close(files)
		wg.Wait()
		close(results)
	}()

	return results
}

func processFile(client llm.ExtractClient, path string) Result {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Status: StatusFailed, File: name, Err: fmt.Errorf("read transcript: %w", err)}
	}

	var doc model.TranscriptDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Result{Status: StatusFailed, File: name, Err: fmt.Errorf("decode transcript document: %w", err)}
	}

	transcript := doc.TranscriptText()
	if transcript == "" {
		return Result{Status: StatusSkipped, File: name, Err: errors.New("no transcript text found")}
	}

	summary, err := client.Summarize(transcript)
	if err != nil {
		return Result{Status: StatusFailed, File: name, Err: fmt.Errorf("summary request: %w", err)}
	}

	insights, err := client.ExtractInsights(transcript)
	if err != nil {
		return Result{Status: StatusFailed, File: name, Err: fmt.Errorf("insights request: %w", err)}
	}

	ticker := doc.Ticker
	if ticker == "" {
		ticker = model.UnknownTicker
	}
	quarter := doc.Quarter
	if quarter == "" {
		quarter = model.UnknownQuarter
	}

	return Result{
		Status: StatusSuccess,
		File:   name,
		Record: &model.InsightRecord{
			File:     name,
			Ticker:   ticker,
			Quarter:  quarter,
			Summary:  summary,
			Insights: *insights,
			Model:    client.ModelName(),
		},
	}
}
