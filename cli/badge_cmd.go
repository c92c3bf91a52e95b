package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nox-hq/riskboard/core/badge"
	"github.com/nox-hq/riskboard/core/nav"
)

// runBadge writes the posture badge and one event-count badge per level.
func runBadge(e *env, args []string) int {
	fs := flag.NewFlagSet("badge", flag.ContinueOnError)
	var (
		outDir string
		label  string
	)
	fs.StringVar(&outDir, "output", ".", "directory to write SVG badges to")
	fs.StringVar(&label, "label", "posture", "label of the posture badge")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	session, err := e.loadSession(e.logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitCode(err)
	}

	org, err := session.Peek(nav.State{View: nav.OrganizationOverview})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	events, err := session.Peek(nav.State{View: nav.RiskEvents})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	posture := badge.Posture(org.Organization.Grade, label)
	files := map[string]*badge.Result{"posture.svg": posture}
	for level, r := range badge.LevelBadges(events.RiskEvents.Distribution, "events") {
		files["events-"+strings.ToLower(string(level))+".svg"] = r
	}

	for name, r := range files {
		if err := writeBadge(filepath.Join(outDir, name), r); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	fmt.Printf("[badge] %s: %s\n", posture.Label, posture.Value)
	fmt.Printf("[badge] wrote %d badges to %s\n", len(files), outDir)
	return 0
}

func writeBadge(path string, r *badge.Result) error {
	if err := writeFileAtomic(path, []byte(r.SVG)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
