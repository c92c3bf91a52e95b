package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nox-hq/riskboard/assist"
	"github.com/nox-hq/riskboard/core/nav"
	"github.com/nox-hq/riskboard/core/viewmodel"
)

// runBrief writes an LLM-generated risk briefing for one user.
func runBrief(e *env, args []string) int {
	flagArgs, positional := splitArgs(args)

	fs := flag.NewFlagSet("brief", flag.ContinueOnError)
	var (
		model   string
		baseURL string
		timeout time.Duration
		output  string
	)
	fs.StringVar(&model, "model", e.cfg.Brief.Model, "LLM model name")
	fs.StringVar(&baseURL, "base-url", e.cfg.Brief.BaseURL, "custom OpenAI-compatible API base URL")
	fs.DurationVar(&timeout, "timeout", e.cfg.BriefTimeout(), "per-request timeout")
	fs.StringVar(&output, "output", "", "write the briefing to this file instead of stdout")
	if err := fs.Parse(flagArgs); err != nil {
		return 2
	}
	positional = append(positional, fs.Args()...)

	if len(positional) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: riskboard brief <user-id> [flags]")
		return 2
	}
	userID := positional[0]

	settings := e.cfg.Brief
	settings.Model = model
	settings.BaseURL = baseURL
	settings.Timeout = timeout.String()
	provider, err := assist.NewBriefingProvider(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v (or pass --base-url for a local endpoint)\n", err)
		return 2
	}

	session, err := e.loadSession(e.logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitCode(err)
	}

	page, err := session.Peek(nav.State{View: nav.RiskProfile, Selection: userID})
	if err != nil {
		if errors.Is(err, viewmodel.ErrSelectionNotFound) {
			fmt.Fprintf(os.Stderr, "error: user %q is not in %s\n", userID, e.snapshot)
			return 2
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	briefer := assist.NewBriefer(provider,
		assist.WithLogger(e.logger),
		assist.WithModelName(provider.Model()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e.logger.Info("requesting briefing", "user", userID, "model", provider.Model())
	b, err := briefer.Brief(ctx, page.RiskProfile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: brief failed: %v\n", err)
		return 1
	}

	if output == "" {
		data, err := b.JSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}
	if err := b.WriteFile(output); err != nil {
		fmt.Fprintf(os.Stderr, "error: writing %s: %v\n", output, err)
		return 1
	}
	fmt.Printf("[brief] wrote %s (%d tokens)\n", output, b.Usage.TotalTokens)
	return 0
}
