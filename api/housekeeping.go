package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jonwraymond/opsdash/history"
)

const defaultCleanupDays = 30

type cleanupRequest struct {
	Directory  string   `json:"directory" validate:"max=4096"`
	Days       *int     `json:"days" validate:"omitempty,min=0,max=36500"`
	Extensions []string `json:"extensions" validate:"omitempty,max=64,dive,required,max=32,excludesall=/\\"`
}

type organizeRequest struct {
	Directory string `json:"directory" validate:"max=4096"`
}

type backupRequest struct {
	Source      string `json:"source" validate:"required,max=4096"`
	Destination string `json:"destination" validate:"required,max=4096"`
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("directory")
	recursive, _ := strconv.ParseBool(r.URL.Query().Get("recursive"))

	s.serveTracked(w, r, "list_files", categoryFiles, func(ctx context.Context) (outcome, error) {
		entries, err := s.files.List(dir, recursive)
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			body: map[string]any{
				"status": "success",
				"count":  len(entries),
				"files":  entries,
			},
			details: map[string]history.Value{"count": history.Int(int64(len(entries)))},
		}, nil
	})
}

func (s *Server) handleDirectorySize(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("directory")

	s.serveTracked(w, r, "directory_size", categoryFiles, func(ctx context.Context) (outcome, error) {
		info, err := s.files.Size(dir)
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			body: info,
			details: map[string]history.Value{
				"total_bytes": history.Int(info.TotalBytes),
				"file_count":  history.Int(int64(info.FileCount)),
			},
		}, nil
	})
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	var req cleanupRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	days := defaultCleanupDays
	if req.Days != nil {
		days = *req.Days
	}

	s.serveTracked(w, r, "cleanup_files", categoryFiles, func(ctx context.Context) (outcome, error) {
		n, err := s.files.Cleanup(req.Directory, days, req.Extensions)
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			body:    map[string]any{"status": "success", "deleted_count": n},
			details: map[string]history.Value{"deleted": history.Int(int64(n))},
		}, nil
	})
}

func (s *Server) handleOrganize(w http.ResponseWriter, r *http.Request) {
	var req organizeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	s.serveTracked(w, r, "organize_files", categoryFiles, func(ctx context.Context) (outcome, error) {
		n, err := s.files.Organize(req.Directory)
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			body:    map[string]any{"status": "success", "message": "Files organized", "moved": n},
			details: map[string]history.Value{"moved": history.Int(int64(n))},
		}, nil
	})
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	var req backupRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	s.serveTracked(w, r, "backup_files", categoryFiles, func(ctx context.Context) (outcome, error) {
		stats, err := s.files.Backup(req.Source, req.Destination)
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			body: map[string]any{
				"status":  "success",
				"message": "Backup completed",
				"files":   stats.Files,
				"bytes":   stats.Bytes,
			},
			details: map[string]history.Value{
				"source":      history.Str(req.Source),
				"destination": history.Str(req.Destination),
				"files":       history.Int(int64(stats.Files)),
			},
		}, nil
	})
}

// decodeAndValidate decodes the JSON body into dst and validates it,
// writing the error response and returning false on failure.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(r, dst); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if errs := validateStruct(dst); errs != nil {
		jsonValidationError(w, errs)
		return false
	}
	return true
}
