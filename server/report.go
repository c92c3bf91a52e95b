package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nox-hq/riskboard/core"
	"github.com/nox-hq/riskboard/core/viewmodel"
)

//go:embed report/report.html
var reportFS embed.FS

// reportPlaceholder is the statement in the template replaced with the data.
const reportPlaceholder = "const DATA = typeof __RISKBOARD_DATA__ !== 'undefined' ? __RISKBOARD_DATA__ : {};"

// reportData is the JSON structure injected into the HTML template.
type reportData struct {
	Version      string            `json:"version"`
	Organization string            `json:"organization"`
	Generation   uint64            `json:"generation"`
	ExportedAt   time.Time         `json:"exported_at"`
	Pages        []*viewmodel.Page `json:"pages"`
}

// GenerateReportHTML renders a self-contained HTML report holding the list
// form of every view for the session's current snapshot.
func GenerateReportHTML(session *core.Session, version string) (string, error) {
	tmplBytes, err := reportFS.ReadFile("report/report.html")
	if err != nil {
		return "", fmt.Errorf("reading report template: %w", err)
	}

	pages, err := session.Pages()
	if err != nil {
		return "", fmt.Errorf("rendering report pages: %w", err)
	}

	data := reportData{
		Version:    version,
		Generation: session.Generation(),
		ExportedAt: time.Now().UTC(),
		Pages:      pages,
	}
	for _, p := range pages {
		if p.Organization != nil {
			data.Organization = p.Organization.Name
		}
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshalling report data: %w", err)
	}

	// Keep "</script>" inside string values from closing the script block.
	safe := strings.ReplaceAll(string(dataJSON), "</", `<\/`)

	return strings.Replace(string(tmplBytes), reportPlaceholder, "const DATA = "+safe+";", 1), nil
}
