package handler

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/rtj1/stock-earnings/internal/model"
)

type InsightStore interface {
	TickersQuarters() map[string]map[int][]string
	Latest(ticker string) (model.InsightRecord, bool)
	Get(ticker, quarterLabel string, year int) (model.InsightRecord, bool)
	Len() int
}

type InsightHandler struct {
	store InsightStore
}

func NewInsightHandler(store InsightStore) *InsightHandler {
	return &InsightHandler{store: store}
}

func (h *InsightHandler) GetTickersQuarters(c *gin.Context) {
	out := h.store.TickersQuarters()
	if len(out) == 0 {
		slog.Warn("tickers requested but cache is empty")
	}
	c.JSON(http.StatusOK, out)
}

func (h *InsightHandler) GetSummary(c *gin.Context) {
	ticker := c.Param("ticker")

	rec, ok := h.store.Latest(ticker)
	if !ok {
		slog.Warn("summary not found", "ticker", ticker)
		c.JSON(http.StatusNotFound, gin.H{"error": "Summary for ticker '" + ticker + "' not found"})
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{Ticker: rec.Ticker, Summary: rec.Summary})
}

func (h *InsightHandler) GetInsights(c *gin.Context) {
	ticker := c.Param("ticker")

	rec, ok := h.store.Latest(ticker)
	if !ok {
		slog.Warn("insights not found", "ticker", ticker)
		c.JSON(http.StatusNotFound, gin.H{"error": "Insights for ticker '" + ticker + "' not found"})
		return
	}

	c.JSON(http.StatusOK, InsightsOnlyResponse{Ticker: rec.Ticker, Insights: toInsightsResponse(rec)})
}

func (h *InsightHandler) GetCompanyRecord(c *gin.Context) {
	ticker := c.Param("ticker")
	quarterKey := c.Param("quarter_key")

	label, year, err := model.ParseQuarterKey(quarterKey)
	if err != nil {
		slog.Warn("invalid quarter key", "quarter_key", quarterKey)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quarter_key format. Expected QX_YYYY (e.g. Q1_2006)"})
		return
	}

	rec, ok := h.store.Get(ticker, label, year)
	if !ok {
		slog.Warn("company record not found", "ticker", ticker, "quarter_key", quarterKey)
		c.JSON(http.StatusNotFound, gin.H{"error": "Record for ticker '" + ticker + "', quarter '" + quarterKey + "' not found"})
		return
	}

	c.JSON(http.StatusOK, toCompanyResponse(rec))
}

func (h *InsightHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"records": h.store.Len(),
	})
}

// GetDashboard renders the server-side dashboard with one row per available
// ticker/quarter, linking to the JSON endpoints.
func (h *InsightHandler) GetDashboard(c *gin.Context) {
	type quarterRow struct {
		Ticker     string
		Year       int
		Quarters   []string
		QuarterKey map[string]string
	}

	all := h.store.TickersQuarters()

	tickers := make([]string, 0, len(all))
	for ticker := range all {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	var rows []quarterRow
	for _, ticker := range tickers {
		years := make([]int, 0, len(all[ticker]))
		for year := range all[ticker] {
			years = append(years, year)
		}
		sort.Ints(years)
		for _, year := range years {
			keys := make(map[string]string, len(all[ticker][year]))
			for _, label := range all[ticker][year] {
				keys[label] = model.QuarterKey(model.QuarterNumber(label), year)
			}
			rows = append(rows, quarterRow{
				Ticker:     ticker,
				Year:       year,
				Quarters:   all[ticker][year],
				QuarterKey: keys,
			})
		}
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Rows":    rows,
		"Records": h.store.Len(),
	})
}
