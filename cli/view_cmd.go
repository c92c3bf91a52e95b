package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nox-hq/riskboard/core/nav"
	"github.com/nox-hq/riskboard/core/viewmodel"
)

// runView implements "riskboard view <view>": render one page as JSON.
func runView(e *env, args []string) int {
	flagArgs, positional := splitArgs(args)

	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	var (
		selectID string
		search   string
		output   string
	)
	fs.StringVar(&selectID, "select", "", "user ID to open (risk-profile only)")
	fs.StringVar(&search, "search", "", "filter the risk-profile list by name, email, department, role or ID")
	fs.StringVar(&output, "output", "", "write JSON to this file instead of stdout")
	if err := fs.Parse(flagArgs); err != nil {
		return 2
	}
	positional = append(positional, fs.Args()...)

	name := nav.Dashboard.Slug()
	if len(positional) > 0 {
		name = positional[0]
	}
	v, err := nav.ParseView(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if search != "" && (v != nav.RiskProfile || selectID != "") {
		fmt.Fprintln(os.Stderr, "error: --search applies to the risk-profile list")
		return 2
	}

	session, err := e.loadSession(e.logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitCode(err)
	}

	page, err := session.RenderAt(v, selectID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if search != "" && page.RiskProfiles != nil {
		filtered := *page
		filtered.RiskProfiles = viewmodel.FilterUsers(page.RiskProfiles, search)
		page = &filtered
	}

	if err := writeJSON(output, page); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runViews implements "riskboard views".
func runViews(args []string) int {
	fs := flag.NewFlagSet("views", flag.ContinueOnError)
	var jsonOutput bool
	fs.BoolVar(&jsonOutput, "json", false, "output as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := printViews(os.Stdout, jsonOutput); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

type viewEntry struct {
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Detail bool   `json:"detail"`
}

func printViews(w io.Writer, jsonOutput bool) error {
	views := nav.Views()
	if jsonOutput {
		entries := make([]viewEntry, len(views))
		for i, v := range views {
			entries[i] = viewEntry{Slug: v.Slug(), Title: v.Title(), Detail: v.SupportsDetail()}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	for i, v := range views {
		detail := ""
		if v.SupportsDetail() {
			detail = "  (--select <user>)"
		}
		if _, err := fmt.Fprintf(w, "%d  %-22s %s%s\n", i+1, v.Slug(), v.Title(), detail); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON writes v as indented JSON to path, or to stdout when path is
// empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling JSON: %w", err)
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := writeFileAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// splitArgs separates positional arguments from flags so that
// "riskboard view risk-profile --select u-1" works like
// "riskboard view --select u-1 risk-profile".
func splitArgs(args []string) (flagArgs, positional []string) {
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			flagArgs = append(flagArgs, args[i])
			// A non-boolean flag consumes the next arg as its value.
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") &&
				!strings.Contains(args[i], "=") && !isBoolFlag(args[i]) {
				i++
				flagArgs = append(flagArgs, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return flagArgs, positional
}

// isBoolFlag returns true if the given flag name is a boolean flag
// (i.e., it does not consume a following value argument).
func isBoolFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	switch name {
	case "json", "no-browser":
		return true
	default:
		return false
	}
}
