package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/nox-hq/riskboard/cli/tui"
	"github.com/nox-hq/riskboard/core/nav"
)

// runShow implements "riskboard show": the interactive dashboard, or the
// current page as JSON when stdout is not a terminal.
func runShow(e *env, args []string) int {
	flagArgs, positional := splitArgs(args)

	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	var (
		selectID   string
		jsonOutput bool
	)
	fs.StringVar(&selectID, "select", "", "user ID to open on the risk-profile view")
	fs.BoolVar(&jsonOutput, "json", false, "output JSON instead of TUI")
	if err := fs.Parse(flagArgs); err != nil {
		return 2
	}
	positional = append(positional, fs.Args()...)

	interactive := !jsonOutput && isTerminal()

	// The alternate screen owns the terminal; logging to stderr would
	// corrupt it.
	logger := e.logger
	if interactive {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	session, err := e.loadSession(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitCode(err)
	}

	if len(positional) > 0 || selectID != "" {
		// --select alone opens the risk profile.
		name := nav.RiskProfile.Slug()
		if len(positional) > 0 {
			name = positional[0]
		}
		v, err := nav.ParseView(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
		if _, err := session.RenderAt(v, selectID); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
	}

	if !interactive {
		if err := writeJSON("", session.Render()); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	m := tui.New(session, tui.WithReload(func() error {
		return session.LoadFile(e.snapshot)
	}))
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: TUI failed: %v\n", err)
		return 1
	}
	return 0
}

// isTerminal returns true if stdout is connected to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
