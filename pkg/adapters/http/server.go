package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/flowline/internal/compiler"
	"github.com/aretw0/flowline/internal/logging"
	"github.com/aretw0/flowline/internal/presentation/graph"
	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/ports"
	"github.com/aretw0/flowline/pkg/schema"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server -o api.gen.go openapi.yaml

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Engine is the registry surface of *flowline.Engine used by the API.
type Engine interface {
	RegisterWorkflow(g domain.Graph) error
	Workflow(name string) (domain.Graph, error)
	WorkflowNames() []string
	HandlerNames() []string
}

// RunTracker launches and reports background runs. *runs.Manager satisfies it.
type RunTracker interface {
	Start(ctx context.Context, workflow string, initialData map[string]any) (domain.Run, error)
	Get(ctx context.Context, id string) (domain.Run, error)
	List(ctx context.Context) ([]string, error)
}

// Server implements the generated ServerInterface.
type Server struct {
	Engine  Engine
	Runs    RunTracker
	router  routers.Router
	logger  *slog.Logger
	metrics http.Handler
	origins []string
	version string

	apiVersion string
}

var _ ServerInterface = (*Server)(nil)

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler mounts h (usually promhttp) at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithCORSOrigins sets the allowed origins. "*" allows any origin.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithVersion sets the version reported by GET /.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewHandler creates a new HTTP handler for the engine and run tracker.
func NewHandler(engine Engine, runs RunTracker, opts ...Option) http.Handler {
	s := &Server{
		Engine:  engine,
		Runs:    runs,
		logger:  logging.NewNop(),
		origins: []string{"*"},
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := GetSwagger()
	if err == nil {
		s.apiVersion = doc.Info.Version
		s.router, err = routerFor(doc)
	}
	if err != nil {
		panic(fmt.Sprintf("embedded OpenAPI document: %v", err))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(s.enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(rawSpec())
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return HandlerWithOptions(s, ChiServerOptions{
		BaseRouter:  r,
		Middlewares: []MiddlewareFunc{s.validateRequests},
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			s.fail(w, http.StatusBadRequest, err.Error(), nil)
		},
	})
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message:    "Welcome to the Flowline API",
		Version:    s.version,
		ApiVersion: &s.apiVersion,
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// CreateWorkflow handles POST /api/v1/workflows/.
func (s *Server) CreateWorkflow(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	g, err := compiler.Parse(body)
	if err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Sprintf("Failed to create workflow: %v", err), err)
		return
	}
	if err := s.Engine.RegisterWorkflow(g); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Sprintf("Failed to create workflow: %v", err), err)
		return
	}

	s.logger.Info("workflow registered", "name", g.Name, "nodes", len(g.Nodes))
	writeJSON(w, http.StatusCreated, workflowFromDomain(g))
}

// RunWorkflow handles POST /api/v1/workflows/run/.
func (s *Server) RunWorkflow(w http.ResponseWriter, r *http.Request) {
	var req RunWorkflowJSONRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.WorkflowName == "" {
		s.fail(w, http.StatusBadRequest, "workflow_name is required", nil)
		return
	}

	var initial map[string]any
	if req.InitialState != nil {
		initial = *req.InitialState
	}

	run, err := s.Runs.Start(r.Context(), req.WorkflowName, initial)
	if err != nil {
		if errors.Is(err, domain.ErrWorkflowNotFound) {
			s.fail(w, http.StatusNotFound, err.Error(), nil)
			return
		}
		if errors.Is(err, schema.ErrInvalidInput) {
			s.fail(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		s.fail(w, http.StatusInternalServerError, "Failed to start workflow", err)
		return
	}

	writeJSON(w, http.StatusOK, RunResponse{
		RunId:  run.ID,
		Status: string(domain.RunStarted),
		State:  stateFromDomain(run.State),
	})
}

// GetRunState handles GET /api/v1/workflows/state/{run_id}.
func (s *Server) GetRunState(w http.ResponseWriter, r *http.Request, id string) {
	run, err := s.Runs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrRunNotFound) {
			s.fail(w, http.StatusNotFound, fmt.Sprintf("Workflow run with ID %s not found", id), nil)
			return
		}
		s.fail(w, http.StatusInternalServerError, "Failed to load run", err)
		return
	}

	switch {
	case !run.Status.Done():
		writeJSON(w, http.StatusOK, runningState())
	case run.Status == domain.RunFailed:
		writeJSON(w, http.StatusOK, failedState(run))
	default:
		if run.State == nil {
			s.fail(w, http.StatusInternalServerError, "Workflow state is not available", nil)
			return
		}
		writeJSON(w, http.StatusOK, stateFromDomain(run.State))
	}
}

// GetGraph handles GET /api/v1/workflows/{name}/graph.
// With ?run_id= the run's progress is overlaid on the diagram.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request, name string, params GetGraphParams) {
	g, err := s.Engine.Workflow(name)
	if err != nil {
		s.fail(w, http.StatusNotFound, err.Error(), nil)
		return
	}

	var overlay *graph.GraphOverlay
	if params.RunId != nil && *params.RunId != "" {
		id := *params.RunId
		run, err := s.Runs.Get(r.Context(), id)
		if err != nil {
			s.fail(w, http.StatusNotFound, fmt.Sprintf("Workflow run with ID %s not found", id), nil)
			return
		}
		overlay = graph.OverlayFromState(run.State)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, graph.GenerateMermaid(g, overlay))
}

// ListWorkflows handles GET /api/v1/workflows/.
func (s *Server) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(s.Engine.WorkflowNames()))
}

// ListFunctions handles GET /api/v1/functions/.
func (s *Server) ListFunctions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(s.Engine.HandlerNames()))
}

// ListRuns handles GET /api/v1/runs/.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Runs.List(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(ids))
}

// fail writes a {"detail": ...} error body and logs server-side causes.
func (s *Server) fail(w http.ResponseWriter, status int, detail string, cause error) {
	if cause != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(context.Background(), level, detail, "status", status, "err", cause)
	}
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && s.allowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowed(origin string) bool {
	for _, o := range s.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
