package server

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestGenerateReportHTML(t *testing.T) {
	s := loadedServer(t)

	html, err := GenerateReportHTML(s.session, "0.1.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<html") {
		t.Fatal("expected HTML output")
	}
	if strings.Contains(html, "__RISKBOARD_DATA__ !==") {
		t.Fatal("expected the data placeholder to be replaced")
	}
	for _, want := range []string{`"version":"0.1.0"`, `"view":"organization-overview"`, "Julia Martinez"} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestGenerateReportHTML_NotLoaded(t *testing.T) {
	s := newTestServer(t, nil)
	if _, err := GenerateReportHTML(s.session, "0.1.0"); err == nil {
		t.Fatal("expected error before a snapshot is loaded")
	}
}

func TestResourceReport(t *testing.T) {
	s := loadedServer(t)

	contents, err := s.handleResourceReport(context.Background(), makeResourceRequest("riskboard://report.html"))
	if err != nil {
		t.Fatalf("report resource: %v", err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	if tc.MIMEType != "text/html" || !strings.Contains(tc.Text, "<html") {
		t.Fatalf("unexpected report resource: %s", tc.MIMEType)
	}
}
