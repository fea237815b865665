package api

import (
	"net/http"
	"strconv"

	"github.com/jonwraymond/opsdash/health"
)

const defaultHistoryLimit = 50

type historyQuery struct {
	Limit int `query:"limit" validate:"min=0"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := historyQuery{Limit: defaultHistoryLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		q.Limit = n
	}
	if errs := validateStruct(q); errs != nil {
		jsonValidationError(w, errs)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"count":   s.hist.Len(),
		"history": s.hist.Query(q.Limit),
	})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.hist.Clear()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "History cleared"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	report, err := s.agg.Generate(r.Context(), health.Request{})
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	s.recordReport(r.Context(), report)

	stats := s.hist.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"total_tasks":      stats.Total,
		"successful_tasks": stats.Succeeded,
		"failed_tasks":     stats.Failed,
		"system_health":    report.OverallHealth,
		"cpu_usage":        report.CPU.UsagePercent,
		"memory_usage":     report.Memory.Percent,
		"disk_usage":       report.Disk.Percent,
		"timestamp":        s.now(),
	})
}
