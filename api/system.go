package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jonwraymond/opsdash/health"
	"github.com/jonwraymond/opsdash/history"
)

// systemQuery holds the optional query parameters of the system routes.
type systemQuery struct {
	Path string `query:"path" validate:"omitempty,max=4096"`
	TopN *int   `query:"top_n" validate:"omitempty,min=0,max=1000"`
}

// parseSystemQuery reads path and top_n. It writes the error response and
// returns false when a parameter is unusable.
func parseSystemQuery(w http.ResponseWriter, r *http.Request) (systemQuery, bool) {
	q := systemQuery{Path: r.URL.Query().Get("path")}
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "top_n must be an integer")
			return q, false
		}
		q.TopN = &n
	}
	if errs := validateStruct(q); errs != nil {
		jsonValidationError(w, errs)
		return q, false
	}
	return q, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": s.now(),
		"version":   s.opts.Version,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"api_status":          "running",
		"dashboard_connected": true,
		"scripts_available":   []string{"system_monitor", "data_processor", "file_manager"},
		"alert_threshold":     s.agg.Threshold(),
		"history_capacity":    s.hist.Capacity(),
		"timestamp":           s.now(),
	}
	if st, ok := s.sampler.(samplerStats); ok {
		body["sampler"] = st.Stats()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleSystemHealth(w http.ResponseWriter, r *http.Request) {
	q, ok := parseSystemQuery(w, r)
	if !ok {
		return
	}
	s.serveTracked(w, r, "system_health", categorySystem, func(ctx context.Context) (outcome, error) {
		report, err := s.agg.Generate(ctx, health.Request{DiskPath: q.Path, TopProcesses: q.TopN})
		if err != nil {
			return outcome{}, err
		}
		s.recordReport(ctx, report)
		return outcome{
			body:    report,
			details: map[string]history.Value{"health": history.Str(report.OverallHealth.String())},
		}, nil
	})
}

func (s *Server) handleCPU(w http.ResponseWriter, r *http.Request) {
	s.serveTracked(w, r, "cpu_stats", categorySystem, func(ctx context.Context) (outcome, error) {
		cpu, err := s.sampler.CPU(ctx)
		return outcome{body: cpu}, err
	})
}

func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	s.serveTracked(w, r, "memory_stats", categorySystem, func(ctx context.Context) (outcome, error) {
		mem, err := s.sampler.Memory(ctx)
		return outcome{body: mem}, err
	})
}

func (s *Server) handleDisk(w http.ResponseWriter, r *http.Request) {
	q, ok := parseSystemQuery(w, r)
	if !ok {
		return
	}
	s.serveTracked(w, r, "disk_stats", categorySystem, func(ctx context.Context) (outcome, error) {
		disk, err := s.sampler.Disk(ctx, q.Path)
		if err != nil {
			return outcome{}, err
		}
		return outcome{body: disk, details: map[string]history.Value{"path": history.Str(disk.Path)}}, nil
	})
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	s.serveTracked(w, r, "network_stats", categorySystem, func(ctx context.Context) (outcome, error) {
		n, err := s.sampler.Network(ctx)
		return outcome{body: n}, err
	})
}

func (s *Server) handleProcesses(w http.ResponseWriter, r *http.Request) {
	q, ok := parseSystemQuery(w, r)
	if !ok {
		return
	}
	s.serveTracked(w, r, "processes_info", categorySystem, func(ctx context.Context) (outcome, error) {
		topN := s.agg.TopProcesses()
		if q.TopN != nil {
			topN = *q.TopN
		}
		procs, err := s.sampler.Processes(ctx, topN)
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			body:    procs,
			details: map[string]history.Value{"count": history.Int(int64(len(procs.TopProcesses)))},
		}, nil
	})
}
