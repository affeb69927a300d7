package handler

import "github.com/rtj1/stock-earnings/internal/model"

type InsightsResponse struct {
	EPS      string   `json:"eps"`
	Revenue  string   `json:"revenue"`
	Guidance string   `json:"guidance"`
	KeyRisks []string `json:"key_risks"`
	CEOQuote string   `json:"ceo_quote"`
}

type SummaryResponse struct {
	Ticker  string `json:"ticker"`
	Summary string `json:"summary"`
}

type InsightsOnlyResponse struct {
	Ticker   string           `json:"ticker"`
	Insights InsightsResponse `json:"insights"`
}

type CompanyRecordResponse struct {
	File     string           `json:"file"`
	Ticker   string           `json:"ticker"`
	Quarter  string           `json:"quarter"`
	Summary  string           `json:"summary"`
	Insights InsightsResponse `json:"insights"`
}

func toInsightsResponse(rec model.InsightRecord) InsightsResponse {
	risks := rec.Insights.KeyRisks
	if risks == nil {
		risks = []string{}
	}
	return InsightsResponse{
		EPS:      rec.Insights.EPS,
		Revenue:  rec.Insights.Revenue,
		Guidance: rec.Insights.Guidance,
		KeyRisks: risks,
		CEOQuote: rec.Insights.CEOQuote,
	}
}

func toCompanyResponse(rec model.InsightRecord) CompanyRecordResponse {
	return CompanyRecordResponse{
		File:     rec.File,
		Ticker:   rec.Ticker,
		Quarter:  rec.Quarter,
		Summary:  rec.Summary,
		Insights: toInsightsResponse(rec),
	}
}
