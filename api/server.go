package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jonwraymond/opsdash/cache"
	"github.com/jonwraymond/opsdash/files"
	"github.com/jonwraymond/opsdash/health"
	"github.com/jonwraymond/opsdash/history"
	"github.com/jonwraymond/opsdash/observe"
	"github.com/jonwraymond/opsdash/resilience"
	"github.com/jonwraymond/opsdash/sample"
)

// Operation categories used for telemetry.
const (
	categorySystem = "system"
	categoryData   = "data"
	categoryFiles  = "files"
)

// Options configures a Server.
type Options struct {
	// Version is reported by /api/health.
	Version string

	// UploadDir is the upload directory, relative to the files root.
	// Default: "uploads"
	UploadDir string

	// MaxUploadBytes bounds multipart uploads.
	// Default: 100 MiB
	MaxUploadBytes int64

	// AllowedOrigins lists CORS origins; "*" allows any.
	AllowedOrigins []string
}

// Deps are the collaborators a Server calls. Sampler, Aggregator,
// History and Files are required.
type Deps struct {
	Sampler    health.Sampler
	Aggregator *health.Aggregator
	History    *history.Log
	Files      *files.Manager

	// Analyses caches data_analysis summaries. Default: a 256-entry
	// memory cache with cache.DefaultPolicy.
	Analyses *cache.Loader

	// Housekeeping guards the mutating file operations, typically with a
	// rate limiter. Nil leaves them unguarded.
	Housekeeping *resilience.Executor

	// Middleware instruments tracked operations. Default: no-op telemetry.
	Middleware *observe.Middleware

	// Logger receives access and panic logs. Default: the middleware's
	// logger.
	Logger observe.Logger

	// Metrics serves /metrics when non-nil.
	Metrics http.Handler
}

// Server is the HTTP facade.
type Server struct {
	opts         Options
	sampler      health.Sampler
	agg          *health.Aggregator
	hist         *history.Log
	files        *files.Manager
	loader       *cache.Loader
	housekeeping *resilience.Executor
	mw           *observe.Middleware
	logger       observe.Logger
	metrics      http.Handler
	now          func() time.Time
}

// New creates a Server.
func New(opts Options, deps Deps) (*Server, error) {
	switch {
	case deps.Sampler == nil:
		return nil, fmt.Errorf("%w: sampler", ErrMissingDependency)
	case deps.Aggregator == nil:
		return nil, fmt.Errorf("%w: aggregator", ErrMissingDependency)
	case deps.History == nil:
		return nil, fmt.Errorf("%w: history", ErrMissingDependency)
	case deps.Files == nil:
		return nil, fmt.Errorf("%w: files", ErrMissingDependency)
	}

	if opts.UploadDir == "" {
		opts.UploadDir = "uploads"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 100 << 20
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	mw := deps.Middleware
	if mw == nil {
		var err error
		if mw, err = observe.MiddlewareFromObserver(observe.Nop()); err != nil {
			return nil, err
		}
	}
	logger := deps.Logger
	if logger == nil {
		logger = mw.Logger()
	}
	loader := deps.Analyses
	if loader == nil {
		loader = cache.NewLoader(cache.NewMemoryCache(256), cache.HashKeyer{}, cache.DefaultPolicy())
	}

	return &Server{
		opts:         opts,
		sampler:      deps.Sampler,
		agg:          deps.Aggregator,
		hist:         deps.History,
		files:        deps.Files,
		loader:       loader,
		housekeeping: deps.Housekeeping,
		mw:           mw,
		logger:       logger,
		metrics:      deps.Metrics,
		now:          time.Now,
	}, nil
}

// Handler returns the routed handler with CORS, access logging and panic
// recovery applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.handleStatus)

	mux.HandleFunc("GET /api/system/health", s.handleSystemHealth)
	mux.HandleFunc("GET /api/system/cpu", s.handleCPU)
	mux.HandleFunc("GET /api/system/memory", s.handleMemory)
	mux.HandleFunc("GET /api/system/disk", s.handleDisk)
	mux.HandleFunc("GET /api/system/network", s.handleNetwork)
	mux.HandleFunc("GET /api/system/processes", s.handleProcesses)

	mux.HandleFunc("POST /api/data/upload", s.handleUpload)
	mux.HandleFunc("GET /api/data/analyze/{filename}", s.handleAnalyze)
	mux.HandleFunc("POST /api/data/process", s.handleProcess)

	housekeeping := NewChain().Use(s.guardHousekeeping)
	mux.HandleFunc("GET /api/files/list", s.handleListFiles)
	mux.HandleFunc("GET /api/files/size", s.handleDirectorySize)
	mux.Handle("POST /api/files/cleanup", housekeeping.ThenFunc(s.handleCleanup))
	mux.Handle("POST /api/files/organize", housekeeping.ThenFunc(s.handleOrganize))
	mux.Handle("POST /api/files/backup", housekeeping.ThenFunc(s.handleBackup))

	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("POST /api/history/clear", s.handleClearHistory)
	mux.HandleFunc("GET /api/dashboard/summary", s.handleDashboard)

	health.RegisterHandlers(mux, s.agg)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "Endpoint not found")
	})

	return NewChain().
		Use(Recover(s.logger)).
		Use(AccessLog(s.logger)).
		Use(CORS(s.opts.AllowedOrigins)).
		Then(mux)
}

// outcome is what a tracked operation produces on success.
type outcome struct {
	body    any
	details map[string]history.Value
}

type opFunc func(ctx context.Context) (outcome, error)

// track runs fn as the named operation, encodes its body and records its
// history entry. Encoding is part of the operation: a body that cannot be
// encoded fails the operation.
func (s *Server) track(ctx context.Context, name, category string, fn opFunc) ([]byte, error) {
	exec := s.mw.Wrap(func(ctx context.Context, _ observe.OpMeta) (any, error) {
		out, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if raw, ok := out.body.(rawJSON); ok {
			out.body = append([]byte(raw), '\n')
			return out, nil
		}
		body, err := encodeJSON(out.body)
		if err != nil {
			return nil, err
		}
		out.body = body
		return out, nil
	})
	res, err := exec(ctx, observe.OpMeta{Name: name, Category: category})
	if err != nil {
		s.hist.Record(name, history.StatusFailed, map[string]history.Value{
			"error": history.Str(err.Error()),
		})
		return nil, err
	}
	out := res.(outcome)
	s.hist.Record(name, history.StatusSuccess, out.details)
	return out.body.([]byte), nil
}

// serveTracked runs a tracked operation and writes its JSON result or the
// mapped error.
func (s *Server) serveTracked(w http.ResponseWriter, r *http.Request, name, category string, fn opFunc) {
	body, err := s.track(r.Context(), name, category, fn)
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// rawJSON is a pre-encoded response body.
type rawJSON []byte

// guardHousekeeping runs the handler through the housekeeping executor.
// Requests the executor turns away get 429.
func (s *Server) guardHousekeeping(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.housekeeping == nil {
			next.ServeHTTP(w, r)
			return
		}
		err := s.housekeeping.Execute(r.Context(), func(context.Context) error {
			next.ServeHTTP(w, r)
			return nil
		})
		if err != nil {
			jsonError(w, statusFor(err), err.Error())
		}
	})
}

func (s *Server) recordReport(ctx context.Context, r health.Report) {
	s.mw.Metrics().RecordReport(ctx, observe.HostReading{
		CPUPercent:    r.CPU.UsagePercent,
		MemoryPercent: r.Memory.Percent,
		DiskPercent:   r.Disk.Percent,
		Status:        r.OverallHealth.String(),
	})
}

// samplerStats is implemented by *sample.Sampler.
type samplerStats interface {
	Stats() sample.Stats
}
