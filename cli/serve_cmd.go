package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nox-hq/riskboard/server"
)

// runServe implements "riskboard serve": an MCP server on stdio. Logs go to
// stderr; stdout carries the protocol.
func runServe(e *env, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	var allowedPaths string
	fs.StringVar(&allowedPaths, "allowed-paths", "", "comma-separated roots load_snapshot may read from (default: serve.allowed_paths)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	paths := e.cfg.Serve.AllowedPaths
	if allowedPaths != "" {
		paths = splitList(allowedPaths)
	}

	// Without a configured snapshot the server starts empty and the client
	// loads one with load_snapshot.
	session := e.newSession(e.logger)
	if e.snapshot != "" {
		if err := session.LoadFile(e.snapshot); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	srv := server.New(session, version, paths, server.WithLogger(e.logger))
	if err := srv.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
