package transcripts

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const DefaultDataset = "kurry/sp500_earnings_transcripts"

type HuggingFaceClient struct {
	dataset    string
	baseURL    string
	httpClient *http.Client
}

func NewHuggingFaceClient(dataset string) *HuggingFaceClient {
	if dataset == "" {
		dataset = DefaultDataset
	}
	return &HuggingFaceClient{
		dataset:    dataset,
		baseURL:    "https://datasets-server.huggingface.co",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HuggingFaceClient) Name() string {
	return "HuggingFace"
}

func (c *HuggingFaceClient) FetchPage(offset, length int) ([]Transcript, int, error) {
	reqURL := fmt.Sprintf(
		"%s/rows?dataset=%s&config=default&split=train&offset=%d&length=%d",
		c.baseURL, url.QueryEscape(c.dataset), offset, length,
	)

	resp, err := c.httpClient.Get(reqURL)
	if err != nil {
		return nil, 0, fmt.Errorf("huggingface fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("huggingface fetch: unexpected status %d", resp.StatusCode)
	}

	var raw hfRowsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, 0, fmt.Errorf("huggingface decode: %w", err)
	}

	transcripts := make([]Transcript, 0, len(raw.Rows))
	for _, item := range raw.Rows {
		transcripts = append(transcripts, Transcript{
			Company: item.Row.CompanyName,
			Ticker:  item.Row.Symbol,
			Quarter: item.Row.Quarter,
			Year:    item.Row.Year,
			Date:    item.Row.Date,
			Content: item.Row.Content,
		})
	}

	return transcripts, raw.NumRowsTotal, nil
}

type hfRowsResponse struct {
	Rows         []hfRowItem `json:"rows"`
	NumRowsTotal int         `json:"num_rows_total"`
}

type hfRowItem struct {
	Row hfRow `json:"row"`
}

type hfRow struct {
	CompanyName string `json:"company_name"`
	Symbol      string `json:"symbol"`
	Quarter     int    `json:"quarter"`
	Year        int    `json:"year"`
	Date        string `json:"date"`
	Content     string `json:"content"`
}
