package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonwraymond/opsdash/files"
	"github.com/jonwraymond/opsdash/history"
	"github.com/jonwraymond/opsdash/tabular"
)

const (
	defaultProcessOutput = "processed_output.csv"
	multipartMemory      = 32 << 20
	sniffBytes           = 4100
)

type processRequest struct {
	FilePath   string `json:"filepath" validate:"required,max=4096"`
	OutputPath string `json:"output_path" validate:"omitempty,max=4096"`
}

// analysisKey identifies one version of an uploaded file.
type analysisKey struct {
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	ModTime int64  `json:"mod_time"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
			jsonError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.opts.MaxUploadBytes))
			return
		}
		jsonError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	name := filepath.Base(filepath.Clean("/" + header.Filename))
	if header.Filename == "" || name == "/" || name == "." {
		jsonError(w, http.StatusBadRequest, "No file selected")
		return
	}

	s.serveTracked(w, r, "data_processing", categoryData, func(ctx context.Context) (outcome, error) {
		dest, err := s.uploadPath(name)
		if err != nil {
			return outcome{}, err
		}
		s.forgetAnalysis(ctx, dest)
		if err := saveUpload(file, dest); err != nil {
			return outcome{}, err
		}

		frame, err := tabular.Load(dest)
		if err != nil {
			return outcome{}, err
		}
		frame.Clean()
		stats := frame.Summarize()

		return outcome{
			body: map[string]any{
				"status":     "success",
				"filename":   name,
				"statistics": stats,
			},
			details: map[string]history.Value{
				"filename":      history.Str(name),
				"total_rows":    history.Int(int64(stats.TotalRows)),
				"total_columns": history.Int(int64(stats.TotalColumns)),
				"memory_usage":  history.Str(stats.MemoryUsage),
			},
		}, nil
	})
}

// saveUpload writes src to dest, rejecting content with a known binary
// signature.
func saveUpload(src io.Reader, dest string) error {
	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	head = head[:n]
	if mime, known := files.DetectMIME(head); known {
		return fmt.Errorf("%w: %s", ErrBinaryUpload, mime)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, io.MultiReader(bytes.NewReader(head), src))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

// forgetAnalysis drops the cached summary of the file currently at path,
// which an upload is about to replace.
func (s *Server) forgetAnalysis(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	_ = s.loader.Invalidate(ctx, "data_analysis", s.analysisKey(path, info))
}

func (s *Server) analysisKey(path string, info os.FileInfo) analysisKey {
	return analysisKey{Path: s.files.Rel(path), Size: info.Size(), ModTime: info.ModTime().UnixNano()}
}

func (s *Server) uploadPath(name string) (string, error) {
	return s.files.Resolve(filepath.Join(s.opts.UploadDir, name))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	if name != filepath.Base(name) || name == ".." {
		jsonError(w, http.StatusBadRequest, "Invalid filename")
		return
	}
	path, err := s.uploadPath(name)
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		jsonError(w, http.StatusNotFound, "File not found")
		return
	}

	s.serveTracked(w, r, "data_analysis", categoryData, func(ctx context.Context) (outcome, error) {
		body, hit, err := s.loader.Load(ctx, "data_analysis", s.analysisKey(path, info), func(context.Context) ([]byte, error) {
			frame, err := tabular.Load(path)
			if err != nil {
				return nil, err
			}
			frame.Clean()
			return json.Marshal(frame.Summarize())
		})
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			body: rawJSON(body),
			details: map[string]history.Value{
				"filename": history.Str(name),
				"cached":   history.Bool(hit),
			},
		}, nil
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validateStruct(req); errs != nil {
		jsonValidationError(w, errs)
		return
	}
	if req.OutputPath == "" {
		req.OutputPath = defaultProcessOutput
	}

	in, err := s.files.Resolve(req.FilePath)
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	out, err := s.files.Resolve(req.OutputPath)
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	if info, err := os.Stat(in); err != nil || !info.Mode().IsRegular() {
		jsonError(w, http.StatusNotFound, "File not found")
		return
	}

	s.serveTracked(w, r, "data_process", categoryData, func(ctx context.Context) (outcome, error) {
		frame, err := tabular.Load(in)
		if err != nil {
			return outcome{}, err
		}
		cleaned := frame.Clean()
		if err := frame.Save(out); err != nil {
			return outcome{}, err
		}
		rel := s.files.Rel(out)
		return outcome{
			body: map[string]any{
				"status":      "success",
				"output_file": rel,
				"message":     "Data processed and saved",
				"cleaning":    cleaned,
			},
			details: map[string]history.Value{
				"output":             history.Str(rel),
				"duplicates_removed": history.Int(int64(cleaned.DuplicatesRemoved)),
				"missing_handled":    history.Int(int64(cleaned.MissingHandled)),
			},
		}, nil
	})
}
