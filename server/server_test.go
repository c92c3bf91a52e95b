package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nox-hq/riskboard/core"
	"github.com/nox-hq/riskboard/core/nav"
)

const testSnapshot = "../core/store/testdata/snapshot.yaml"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newTestServer(t *testing.T, allowed []string) *Server {
	t.Helper()
	session := core.NewSession(core.WithLogger(quietLogger()))
	return New(session, "0.1.0", allowed, WithLogger(quietLogger()))
}

func loadedServer(t *testing.T) *Server {
	t.Helper()
	s := newTestServer(t, nil)
	if err := s.session.LoadFile(testSnapshot); err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	return s
}

func TestIsPathAllowed_NoRestrictions(t *testing.T) {
	s := newTestServer(t, nil)

	if err := s.isPathAllowed("/any/path"); err != nil {
		t.Fatalf("expected no error for unrestricted server, got: %v", err)
	}
}

func TestIsPathAllowed(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, []string{dir})

	tests := []struct {
		name    string
		path    string
		allowed bool
	}{
		{"exact root", dir, true},
		{"nested", filepath.Join(dir, "data", "snapshot.json"), true},
		{"traversal", filepath.Join(dir, "..", "escape.json"), false},
		{"elsewhere", "/other/snapshot.json", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.isPathAllowed(tt.path)
			if tt.allowed && err != nil {
				t.Fatalf("expected %s to be allowed, got: %v", tt.path, err)
			}
			if !tt.allowed && err == nil {
				t.Fatalf("expected %s to be rejected", tt.path)
			}
		})
	}
}

func TestHandleListViews(t *testing.T) {
	s := loadedServer(t)

	result, err := s.handleListViews(context.Background(), makeToolRequest(t, "list_views", nil))
	if err != nil || result.IsError {
		t.Fatalf("list_views failed: %v %s", err, toolResultText(result))
	}

	var views []viewInfo
	if err := json.Unmarshal([]byte(toolResultText(result)), &views); err != nil {
		t.Fatalf("decoding views: %v", err)
	}
	if len(views) != 9 {
		t.Fatalf("expected 9 views, got %d", len(views))
	}
	if !views[0].Current || views[0].Slug != "dashboard" {
		t.Errorf("first view = %+v, want current dashboard", views[0])
	}
	if !views[1].Detail || views[1].Slug != "risk-profile" {
		t.Errorf("second view = %+v, want detailable risk-profile", views[1])
	}
}

func TestNavigateSelectClear(t *testing.T) {
	s := loadedServer(t)
	ctx := context.Background()

	result, _ := s.handleNavigate(ctx, makeToolRequest(t, "navigate", map[string]any{"view": "risk-profile"}))
	if result.IsError {
		t.Fatalf("navigate failed: %s", toolResultText(result))
	}
	if !strings.Contains(toolResultText(result), `"view": "risk-profile"`) {
		t.Fatalf("unexpected state: %s", toolResultText(result))
	}

	result, _ = s.handleSelectDetail(ctx, makeToolRequest(t, "select_detail", map[string]any{"id": "u-002"}))
	if result.IsError {
		t.Fatalf("select_detail failed: %s", toolResultText(result))
	}
	if got := s.session.State(); got.Selection != "u-002" {
		t.Fatalf("selection = %q, want u-002", got.Selection)
	}

	result, _ = s.handleGetView(ctx, makeToolRequest(t, "get_view", nil))
	if result.IsError || !strings.Contains(toolResultText(result), "James Smith") {
		t.Fatalf("get_view did not render the detail page: %s", toolResultText(result))
	}

	result, _ = s.handleClearDetail(ctx, makeToolRequest(t, "clear_detail", nil))
	if result.IsError {
		t.Fatalf("clear_detail failed: %s", toolResultText(result))
	}
	if got := s.session.State(); got.InDetail() || got.View != nav.RiskProfile {
		t.Fatalf("state after clear = %+v", got)
	}
}

func TestSelectDetail_RejectedLeavesState(t *testing.T) {
	s := loadedServer(t)

	result, err := s.handleSelectDetail(context.Background(), makeToolRequest(t, "select_detail", map[string]any{"id": "u-001"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected select_detail on the dashboard to fail")
	}
	if !strings.Contains(toolResultText(result), "invalid navigation transition") {
		t.Errorf("unexpected error text: %s", toolResultText(result))
	}
	if got := s.session.State(); got.View != nav.Dashboard || got.InDetail() {
		t.Errorf("state changed: %+v", got)
	}
}

func TestNavigate_Errors(t *testing.T) {
	s := loadedServer(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing view", map[string]any{}, "missing required argument"},
		{"unknown view", map[string]any{"view": "settings"}, "unknown view"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := s.handleNavigate(context.Background(), makeToolRequest(t, "navigate", tt.args))
			if !result.IsError || !strings.Contains(toolResultText(result), tt.want) {
				t.Fatalf("expected error containing %q, got: %s", tt.want, toolResultText(result))
			}
		})
	}
}

func TestGetView_PeekDoesNotNavigate(t *testing.T) {
	s := loadedServer(t)

	req := makeToolRequest(t, "get_view", map[string]any{"view": "risk-profile", "id": "u-001"})
	result, _ := s.handleGetView(context.Background(), req)
	if result.IsError {
		t.Fatalf("get_view failed: %s", toolResultText(result))
	}
	if !strings.Contains(toolResultText(result), "Julia Martinez") {
		t.Errorf("expected detail page for u-001: %s", toolResultText(result))
	}
	if got := s.session.State(); got.View != nav.Dashboard {
		t.Errorf("get_view navigated to %s", got.View)
	}
}

func TestGetView_Errors(t *testing.T) {
	s := loadedServer(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"unknown user", map[string]any{"view": "risk-profile", "id": "ghost"}},
		{"detail on list-only view", map[string]any{"view": "team-risk", "id": "u-001"}},
		{"id without view", map[string]any{"id": "u-001"}},
		{"unknown view", map[string]any{"view": "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := s.handleGetView(context.Background(), makeToolRequest(t, "get_view", tt.args))
			if !result.IsError {
				t.Fatalf("expected error, got: %s", toolResultText(result))
			}
		})
	}
}

func TestGetView_NotLoaded(t *testing.T) {
	s := newTestServer(t, nil)

	result, _ := s.handleGetView(context.Background(), makeToolRequest(t, "get_view", nil))
	if !result.IsError || !strings.Contains(toolResultText(result), "load_snapshot") {
		t.Fatalf("expected not-loaded error, got: %s", toolResultText(result))
	}
}

func TestLoadSnapshot(t *testing.T) {
	data, err := os.ReadFile(testSnapshot)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s := newTestServer(t, []string{dir})
	result, _ := s.handleLoadSnapshot(context.Background(), makeToolRequest(t, "load_snapshot", map[string]any{"path": path}))
	if result.IsError {
		t.Fatalf("load_snapshot failed: %s", toolResultText(result))
	}
	if text := toolResultText(result); !strings.Contains(text, "generation 1, 2 users") {
		t.Errorf("unexpected summary: %s", text)
	}

	result, _ = s.handleGetState(context.Background(), makeToolRequest(t, "get_state", nil))
	if !strings.Contains(toolResultText(result), `"loaded": true`) {
		t.Errorf("state not loaded: %s", toolResultText(result))
	}
}

func TestLoadSnapshot_Errors(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, []string{dir})

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing path", map[string]any{}, "missing required argument"},
		{"outside workspace", map[string]any{"path": "/etc/snapshot.json"}, "outside allowed workspaces"},
		{"missing file", map[string]any{"path": filepath.Join(dir, "nope.json")}, "load failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := s.handleLoadSnapshot(context.Background(), makeToolRequest(t, "load_snapshot", tt.args))
			if !result.IsError || !strings.Contains(toolResultText(result), tt.want) {
				t.Fatalf("expected error containing %q, got: %s", tt.want, toolResultText(result))
			}
		})
	}
	if s.session.Loaded() {
		t.Error("failed loads must leave the session empty")
	}
}

func TestResources(t *testing.T) {
	s := loadedServer(t)
	ctx := context.Background()

	contents, err := s.handleResourceState(ctx, makeResourceRequest("riskboard://state"))
	if err != nil {
		t.Fatalf("state resource: %v", err)
	}
	text := contents[0].(mcp.TextResourceContents)
	if text.URI != "riskboard://state" || !strings.Contains(text.Text, `"generation": 1`) {
		t.Errorf("unexpected state resource: %+v", text)
	}

	contents, err = s.handleResourceView(ctx, makeResourceRequest("riskboard://view"))
	if err != nil {
		t.Fatalf("view resource: %v", err)
	}
	if !strings.Contains(contents[0].(mcp.TextResourceContents).Text, `"dashboard"`) {
		t.Error("view resource should hold the dashboard page")
	}

	if _, err := newTestServer(t, nil).handleResourceView(ctx, makeResourceRequest("riskboard://view")); err == nil {
		t.Error("expected error before load")
	}
}

func TestMCPServerBuilds(t *testing.T) {
	if loadedServer(t).mcpServer() == nil {
		t.Fatal("expected an MCP server")
	}
}

func TestTruncate(t *testing.T) {
	short := "hello"
	if truncate(short) != short {
		t.Fatal("short strings must pass through")
	}
	long := strings.Repeat("x", maxOutputBytes+10)
	got := truncate(long)
	if !strings.HasSuffix(got, "[truncated: output exceeded 1MB limit]") {
		t.Fatal("expected truncation notice")
	}
}

func makeToolRequest(t *testing.T, name string, args map[string]any) mcp.CallToolRequest {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshaling args: %v", err)
	}
	var raw any
	if err := json.Unmarshal(argsJSON, &raw); err != nil {
		t.Fatalf("unmarshaling args: %v", err)
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: raw,
		},
	}
}

func makeResourceRequest(uri string) mcp.ReadResourceRequest {
	var req mcp.ReadResourceRequest
	req.Params.URI = uri
	return req
}

func toolResultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
