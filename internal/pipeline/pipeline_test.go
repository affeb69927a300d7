package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/rtj1/stock-earnings/internal/model"
	"github.com/rtj1/stock-earnings/pkg/llm"
)

type fakeClient struct {
	failOn string
}

func (f *fakeClient) ModelName() string { return "fake" }

func (f *fakeClient) Summarize(transcript string) (string, error) {
	if f.failOn != "" && strings.Contains(transcript, f.failOn) {
		return "", errors.New("model unavailable")
	}
	return "summary of: " + transcript[:min(len(transcript), 20)], nil
}

func (f *fakeClient) ExtractInsights(transcript string) (*llm.Insights, error) {
	return &llm.Insights{EPS: "1.00", KeyRisks: []string{}}, nil
}

func writeTranscript(t *testing.T, dir, name string, doc model.TranscriptDocument) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal transcript: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	return path
}

func TestRunClassifiesEveryFileExactlyOnce(t *testing.T) {
	dir := t.TempDir()

	var paths []string
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("AAPL_Q%d_200%d.json", i%4+1, i%10)
		doc := model.TranscriptDocument{
			Ticker:     "AAPL",
			Quarter:    fmt.Sprintf("Q%d_200%d", i%4+1, i%10),
			Transcript: fmt.Sprintf("transcript body %d", i),
		}
		if i%5 == 0 {
			doc.Transcript = "" // forces a skip
		}
		paths = append(paths, writeTranscript(t, dir, name, doc))
	}
	// A file that fails to decode.
	badPath := filepath.Join(dir, "AAPL_bad.json")
	if err := os.WriteFile(badPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write bad file: %v", err)
	}
	paths = append(paths, badPath)

	var clientsBuilt atomic.Int32
	p := New(4, func() llm.ExtractClient {
		clientsBuilt.Add(1)
		return &fakeClient{}
	})

	seen := make(map[string]int)
	var success, skipped, failed int
	for result := range p.Run(paths) {
		seen[result.File]++
		switch result.Status {
		case StatusSuccess:
			success++
			assert.NotEqual(t, nil, result.Record)
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
			assert.NotEqual(t, nil, result.Err)
		}
	}

	assert.Equal(t, len(paths), success+skipped+failed)
	assert.Equal(t, len(paths), len(seen))
	for file, count := range seen {
		if count != 1 {
			t.Errorf("file %s classified %d times", file, count)
		}
	}

	assert.Equal(t, 3, skipped)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 9, success)

	// One client per worker.
	assert.Equal(t, int32(4), clientsBuilt.Load())
}

func TestRunModelErrorMarksFileFailed(t *testing.T) {
	dir := t.TempDir()

	good := writeTranscript(t, dir, "AAPL_Q1_2006.json", model.TranscriptDocument{
		Ticker: "AAPL", Quarter: "Q1_2006", Transcript: "steady quarter",
	})
	bad := writeTranscript(t, dir, "AAPL_Q2_2006.json", model.TranscriptDocument{
		Ticker: "AAPL", Quarter: "Q2_2006", Transcript: "poison transcript",
	})

	p := New(2, func() llm.ExtractClient {
		return &fakeClient{failOn: "poison"}
	})

	byFile := make(map[string]Result)
	for result := range p.Run([]string{good, bad}) {
		byFile[result.File] = result
	}

	assert.Equal(t, StatusSuccess, byFile["AAPL_Q1_2006.json"].Status)
	assert.Equal(t, "fake", byFile["AAPL_Q1_2006.json"].Record.Model)
	assert.Equal(t, StatusFailed, byFile["AAPL_Q2_2006.json"].Status)
}

func TestRunMissingFileFails(t *testing.T) {
	p := New(1, func() llm.ExtractClient { return &fakeClient{} })

	results := p.Run([]string{"/nonexistent/AAPL_Q1_2006.json"})

	result := <-results
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, "AAPL_Q1_2006.json", result.File)

	_, open := <-results
	assert.Equal(t, false, open)
}

func TestRunRecordDefaultsUnknownIdentity(t *testing.T) {
	dir := t.TempDir()
	path := writeTranscript(t, dir, "mystery.json", model.TranscriptDocument{
		Transcript: "a transcript with no ticker metadata",
	})

	p := New(1, func() llm.ExtractClient { return &fakeClient{} })

	result := <-p.Run([]string{path})
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, model.UnknownTicker, result.Record.Ticker)
	assert.Equal(t, model.UnknownQuarter, result.Record.Quarter)
}
