package http

import (
	"net/http"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/report"
	"github.com/staffops-hq/staffops-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	CycleSummary(w http.ResponseWriter, r *http.Request)
	Leaderboard(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// CycleSummary implements ReportHandler. The cycle is picked by an anchor
// date (default today) plus a whole-cycle offset, so ?offset=-1 is "last
// pay cycle".
func (h *reportHandlerImpl) CycleSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.CycleSummary(
		r.Context(),
		r.URL.Query().Get("date"),
		queryInt(r, "offset", 0),
		queryStringPtr(r, "team_id"),
	)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Leaderboard implements ReportHandler.
func (h *reportHandlerImpl) Leaderboard(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = "POINTS"
	}

	result, err := h.reportService.Leaderboard(
		r.Context(),
		currency,
		queryInt(r, "offset", 0),
		queryInt(r, "limit", 10),
	)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
