package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/flowline/internal/logging"
	"github.com/aretw0/flowline/internal/presentation/graph"
	"github.com/aretw0/flowline/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Engine defines what the MCP server needs from *flowline.Engine.
type Engine interface {
	Execute(ctx context.Context, name string, initialData map[string]any) (*domain.State, error)
	Workflow(name string) (domain.Graph, error)
	WorkflowNames() []string
	HandlerNames() []string
}

// RunTracker launches background runs. *runs.Manager satisfies it.
type RunTracker interface {
	Start(ctx context.Context, workflow string, initialData map[string]any) (domain.Run, error)
	Get(ctx context.Context, id string) (domain.Run, error)
}

// ExecuteArgs are the arguments of execute_workflow and start_run.
type ExecuteArgs struct {
	WorkflowName string         `json:"workflow_name"`
	InitialState map[string]any `json:"initial_state,omitempty"`
}

// ExecuteResult is the structured output of execute_workflow.
type ExecuteResult struct {
	State *domain.State `json:"state,omitempty" jsonschema_description:"Final state of the run"`
	Error string        `json:"error,omitempty" jsonschema_description:"Failure message when the run failed"`
}

// RunArgs are the arguments of get_run.
type RunArgs struct {
	RunID string `json:"run_id"`
}

// Server exposes a flowline engine as MCP tools.
type Server struct {
	engine    Engine
	runs      RunTracker
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithRunTracker enables the start_run and get_run tools.
func WithRunTracker(runs RunTracker) Option {
	return func(s *Server) {
		s.runs = runs
	}
}

// WithLogger sets the server logger. On stdio it must not write to stdout.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, version string, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("flowline-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over Server-Sent Events until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_workflows",
		mcp.WithDescription("List the names of registered workflows."),
	), s.handleListWorkflows)

	s.mcpServer.AddTool(mcp.NewTool("list_functions",
		mcp.WithDescription("List the names of registered node functions."),
	), s.handleListFunctions)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get a workflow definition as JSON or as a Mermaid diagram."),
		mcp.WithString("workflow_name", mcp.Required(), mcp.Description("Workflow to describe")),
		mcp.WithString("format", mcp.Description("'json' (default) or 'mermaid'"), mcp.Enum("json", "mermaid")),
	), s.handleGetGraph)

	s.mcpServer.AddTool(mcp.NewTool("execute_workflow",
		mcp.WithDescription("Run a workflow to completion and return its final state."),
		mcp.WithString("workflow_name", mcp.Required(), mcp.Description("Workflow to run")),
		mcp.WithObject("initial_state", mcp.Description("Initial data of the run")),
		mcp.WithOutputSchema[ExecuteResult](),
	), mcp.NewStructuredToolHandler(s.handleExecute))

	if s.runs == nil {
		return
	}

	s.mcpServer.AddTool(mcp.NewTool("start_run",
		mcp.WithDescription("Start a workflow in the background and return its run record."),
		mcp.WithString("workflow_name", mcp.Required(), mcp.Description("Workflow to run")),
		mcp.WithObject("initial_state", mcp.Description("Initial data of the run")),
		mcp.WithOutputSchema[domain.Run](),
	), mcp.NewStructuredToolHandler(s.handleStartRun))

	s.mcpServer.AddTool(mcp.NewTool("get_run",
		mcp.WithDescription("Get the record of a background run."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run identifier")),
		mcp.WithOutputSchema[domain.Run](),
	), mcp.NewStructuredToolHandler(s.handleGetRun))
}

func (s *Server) handleListWorkflows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.engine.WorkflowNames())
}

func (s *Server) handleListFunctions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.engine.HandlerNames())
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("workflow_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := s.engine.Workflow(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if request.GetString("format", "json") == "mermaid" {
		return mcp.NewToolResultText(graph.GenerateMermaid(g, nil)), nil
	}
	return jsonResult(g)
}

// handleExecute reports run failures in the result rather than as a tool
// error, so the caller still sees the partial state.
func (s *Server) handleExecute(ctx context.Context, request mcp.CallToolRequest, args ExecuteArgs) (ExecuteResult, error) {
	if args.WorkflowName == "" {
		return ExecuteResult{}, errors.New("workflow_name is required")
	}

	state, err := s.engine.Execute(ctx, args.WorkflowName, args.InitialState)
	if err != nil {
		if state == nil {
			return ExecuteResult{}, err
		}
		s.logger.Warn("MCP execute_workflow failed", "workflow", args.WorkflowName, "err", err)
		return ExecuteResult{State: state, Error: err.Error()}, nil
	}
	return ExecuteResult{State: state}, nil
}

func (s *Server) handleStartRun(ctx context.Context, request mcp.CallToolRequest, args ExecuteArgs) (domain.Run, error) {
	if args.WorkflowName == "" {
		return domain.Run{}, errors.New("workflow_name is required")
	}
	return s.runs.Start(ctx, args.WorkflowName, args.InitialState)
}

func (s *Server) handleGetRun(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (domain.Run, error) {
	if args.RunID == "" {
		return domain.Run{}, errors.New("run_id is required")
	}
	return s.runs.Get(ctx, args.RunID)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("flowline://workflows", "Registered workflows",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		graphs := make(map[string]domain.Graph)
		for _, name := range s.engine.WorkflowNames() {
			g, err := s.engine.Workflow(name)
			if err != nil {
				continue
			}
			graphs[name] = g
		}
		data, err := json.Marshal(graphs)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "flowline://workflows",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
