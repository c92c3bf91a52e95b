// Package server exposes a riskboard Session to agents as an MCP server.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/nox-hq/riskboard/core"
	"github.com/nox-hq/riskboard/core/nav"
)

const (
	// maxOutputBytes is the maximum response size before truncation (1 MB).
	maxOutputBytes = 1 << 20
)

// Server is the riskboard MCP server. Every tool call goes through the
// shared Session, so agents observe the same navigation state a terminal
// user would.
type Server struct {
	session      *core.Session
	version      string
	allowedPaths []string
	logger       *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a new MCP server over session. If allowedPaths is empty,
// load_snapshot accepts any path.
func New(session *core.Session, version string, allowedPaths []string, opts ...Option) *Server {
	resolved := make([]string, 0, len(allowedPaths))
	for _, p := range allowedPaths {
		abs, err := filepath.Abs(p)
		if err == nil {
			resolved = append(resolved, abs)
		}
	}
	s := &Server{
		session:      session,
		version:      version,
		allowedPaths: resolved,
		logger:       slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Serve starts the MCP server on stdio and blocks until the client disconnects.
func (s *Server) Serve() error {
	return mcpserver.ServeStdio(s.mcpServer())
}

func (s *Server) mcpServer() *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer(
		"riskboard",
		s.version,
		mcpserver.WithRecovery(),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithResourceCapabilities(false, false),
	)

	s.registerTools(srv)
	s.registerResources(srv)
	return srv
}

func viewSlugs() []string {
	views := nav.Views()
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Slug()
	}
	return out
}

func (s *Server) registerTools(srv *mcpserver.MCPServer) {
	srv.AddTool(
		mcp.NewTool("list_views",
			mcp.WithDescription("List the dashboard views, marking the active one"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleListViews,
	)

	srv.AddTool(
		mcp.NewTool("get_state",
			mcp.WithDescription("Get the current navigation state and snapshot generation"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleGetState,
	)

	srv.AddTool(
		mcp.NewTool("navigate",
			mcp.WithDescription("Switch the active view; clears any detail selection"),
			mcp.WithString("view",
				mcp.Description("View to open"),
				mcp.Required(),
				mcp.Enum(viewSlugs()...),
			),
			mcp.WithReadOnlyHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
		s.handleNavigate,
	)

	srv.AddTool(
		mcp.NewTool("select_detail",
			mcp.WithDescription("Open the detail page of a user; only valid on the risk-profile view"),
			mcp.WithString("id",
				mcp.Description("User ID"),
				mcp.Required(),
			),
			mcp.WithReadOnlyHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
		s.handleSelectDetail,
	)

	srv.AddTool(
		mcp.NewTool("clear_detail",
			mcp.WithDescription("Return from a detail page to the list form of the view"),
			mcp.WithReadOnlyHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
		s.handleClearDetail,
	)

	srv.AddTool(
		mcp.NewTool("get_view",
			mcp.WithDescription("Render a page. Without arguments renders the current navigation state; with a view (and optional id) renders that page without navigating"),
			mcp.WithString("view",
				mcp.Description("View to render instead of the current one"),
				mcp.Enum(viewSlugs()...),
			),
			mcp.WithString("id",
				mcp.Description("User ID for the risk-profile detail page"),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleGetView,
	)

	srv.AddTool(
		mcp.NewTool("load_snapshot",
			mcp.WithDescription("Load a JSON or YAML snapshot file, replacing the current data"),
			mcp.WithString("path",
				mcp.Description("Absolute path to the snapshot file"),
				mcp.Required(),
			),
			mcp.WithReadOnlyHintAnnotation(false),
			mcp.WithDestructiveHintAnnotation(false),
		),
		s.handleLoadSnapshot,
	)
}

func (s *Server) registerResources(srv *mcpserver.MCPServer) {
	srv.AddResource(
		mcp.NewResource("riskboard://state", "Navigation State",
			mcp.WithResourceDescription("Current view, selection and snapshot generation"),
			mcp.WithMIMEType("application/json"),
		),
		s.handleResourceState,
	)

	srv.AddResource(
		mcp.NewResource("riskboard://view", "Current Page",
			mcp.WithResourceDescription("View-model of the page for the current navigation state"),
			mcp.WithMIMEType("application/json"),
		),
		s.handleResourceView,
	)

	srv.AddResource(
		mcp.NewResource("riskboard://report.html", "HTML Report",
			mcp.WithResourceDescription("Self-contained HTML report of every view"),
			mcp.WithMIMEType("text/html"),
		),
		s.handleResourceReport,
	)
}

// isPathAllowed checks if the given path is under one of the allowed workspace roots.
func (s *Server) isPathAllowed(path string) error {
	if len(s.allowedPaths) == 0 {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve path: %w", err)
	}

	for _, allowed := range s.allowedPaths {
		rel, err := filepath.Rel(allowed, abs)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(rel, "..") {
			return nil
		}
	}

	return fmt.Errorf("path %q is outside allowed workspaces", path)
}

type viewInfo struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Detail  bool   `json:"detail"`
	Current bool   `json:"current"`
}

type stateInfo struct {
	nav.State
	Loaded     bool   `json:"loaded"`
	Generation uint64 `json:"generation"`
}

func (s *Server) stateInfo(state nav.State) stateInfo {
	return stateInfo{
		State:      state,
		Loaded:     s.session.Loaded(),
		Generation: s.session.Generation(),
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(truncate(string(data))), nil
}

func (s *Server) handleListViews(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current := s.session.State().View
	var out []viewInfo
	for _, v := range nav.Views() {
		out = append(out, viewInfo{
			Slug:    v.Slug(),
			Title:   v.Title(),
			Detail:  v.SupportsDetail(),
			Current: v == current,
		})
	}
	return jsonResult(out)
}

func (s *Server) handleGetState(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.stateInfo(s.session.State()))
}

func (s *Server) handleNavigate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("view")
	if err != nil {
		return mcp.NewToolResultError("missing required argument: view"), nil
	}
	v, err := nav.ParseView(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state, err := s.session.Navigate(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.stateInfo(state))
}

func (s *Server) handleSelectDetail(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required argument: id"), nil
	}
	state, err := s.session.SelectDetail(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.stateInfo(state))
}

func (s *Server) handleClearDetail(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.session.ClearDetail()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.stateInfo(state))
}

func (s *Server) handleGetView(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.session.Loaded() {
		return mcp.NewToolResultError("no snapshot loaded: run the load_snapshot tool first"), nil
	}

	name := request.GetString("view", "")
	id := request.GetString("id", "")
	if name == "" {
		if id != "" {
			return mcp.NewToolResultError("id requires a view"), nil
		}
		return jsonResult(s.session.Render())
	}

	v, err := nav.ParseView(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := s.session.Peek(nav.State{View: v, Selection: id})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(page)
}

func (s *Server) handleLoadSnapshot(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required argument: path"), nil
	}

	if err := s.isPathAllowed(path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.session.LoadFile(path); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}

	users, _ := s.session.Store().Users()
	events, _ := s.session.Store().Events()
	s.logger.Info("snapshot loaded over mcp", "path", path, "generation", s.session.Generation())

	summary := fmt.Sprintf("Snapshot loaded: generation %d, %d users, %d events",
		s.session.Generation(), len(users), len(events))
	return mcp.NewToolResultText(summary), nil
}

// Resource handlers.

func (s *Server) handleResourceState(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.stateInfo(s.session.State()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleResourceView(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if !s.session.Loaded() {
		return nil, fmt.Errorf("no snapshot loaded")
	}

	data, err := json.MarshalIndent(s.session.Render(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding page: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     truncate(string(data)),
		},
	}, nil
}

func (s *Server) handleResourceReport(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	html, err := GenerateReportHTML(s.session, s.version)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/html",
			Text:     truncate(html),
		},
	}, nil
}

// truncate limits output to maxOutputBytes, appending a truncation notice if needed.
func truncate(s string) string {
	if len(s) <= maxOutputBytes {
		return s
	}
	return s[:maxOutputBytes] + "\n... [truncated: output exceeded 1MB limit]"
}
