package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/nox-hq/riskboard/server"
)

// runExport writes every view into one self-contained HTML report.
func runExport(e *env, args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	var (
		output    string
		noBrowser bool
	)
	fs.StringVar(&output, "output", "", "output HTML file path (default: temp file)")
	fs.BoolVar(&noBrowser, "no-browser", false, "write HTML file without opening browser")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	session, err := e.loadSession(e.logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitCode(err)
	}

	html, err := server.GenerateReportHTML(session, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: generating report: %v\n", err)
		return 1
	}

	// Determine output path.
	outPath := output
	if outPath == "" {
		outPath = filepath.Join(os.TempDir(), "riskboard-report.html")
	}

	if err := writeFileAtomic(outPath, []byte(html)); err != nil {
		fmt.Fprintf(os.Stderr, "error: writing report: %v\n", err)
		return 1
	}

	fmt.Printf("[export] wrote %s (generation %d)\n", outPath, session.Generation())

	if !noBrowser {
		if err := openBrowser(outPath); err != nil {
			fmt.Printf("[export] could not open browser: %v\n", err)
			fmt.Printf("[export] open %s in your browser\n", outPath)
		}
	}

	return 0
}

func openBrowser(path string) error {
	url := "file://" + absPath(path)
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("cmd", "/c", "start", url).Start()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
