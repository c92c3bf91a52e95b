// Package main is the entry point for the riskboard CLI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nox-hq/riskboard/core"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// errNoSnapshot is returned when a command needs data but no snapshot path
// was configured.
var errNoSnapshot = errors.New("no snapshot: pass --snapshot or set snapshot in " + core.ConfigFileName)

// env is the resolved global configuration handed to every command.
type env struct {
	cfg      *core.Config
	logger   *slog.Logger
	snapshot string
}

// run executes the CLI and returns the exit code.
// 0 = success, 1 = runtime failure, 2 = usage or configuration error.
func run(args []string) int {
	fs := flag.NewFlagSet("riskboard", flag.ContinueOnError)

	var (
		configPath  string
		snapshot    string
		logFormat   string
		verboseFlag bool
		versionFlag bool
	)

	fs.StringVar(&configPath, "config", core.ConfigFileName, "path to the configuration file")
	fs.StringVar(&snapshot, "snapshot", "", "snapshot file (JSON or YAML); overrides the config file")
	fs.StringVar(&logFormat, "log-format", "", "log format: text or json")
	fs.BoolVar(&verboseFlag, "verbose", false, "enable debug logging")
	fs.BoolVar(&verboseFlag, "v", false, "enable debug logging (shorthand)")
	fs.BoolVar(&versionFlag, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: riskboard [flags] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  view <view>    Render one page as JSON\n")
		fmt.Fprintf(os.Stderr, "  show           Interactive terminal dashboard\n")
		fmt.Fprintf(os.Stderr, "  watch          Reload the snapshot on change and print KPIs\n")
		fmt.Fprintf(os.Stderr, "  serve          Start MCP server on stdio\n")
		fmt.Fprintf(os.Stderr, "  brief <user>   Write an LLM risk briefing for one user\n")
		fmt.Fprintf(os.Stderr, "  export         Write a self-contained HTML report\n")
		fmt.Fprintf(os.Stderr, "  badge          Write SVG posture and event badges\n")
		fmt.Fprintf(os.Stderr, "  views          List the dashboard views\n")
		fmt.Fprintf(os.Stderr, "  completion     Print a shell completion script\n")
		fmt.Fprintf(os.Stderr, "  version        Print version and exit\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if versionFlag {
		printVersion()
		return 0
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: riskboard [flags] <command> [args]")
		return 2
	}

	command, cmdArgs := remaining[0], remaining[1:]
	switch command {
	case "version":
		printVersion()
		return 0
	case "completion":
		return runCompletion(cmdArgs)
	case "views":
		return runViews(cmdArgs)
	}

	e, err := setup(configPath, snapshot, logFormat, verboseFlag, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	switch command {
	case "view":
		return runView(e, cmdArgs)
	case "show":
		return runShow(e, cmdArgs)
	case "watch":
		return runWatch(e, cmdArgs)
	case "serve":
		return runServe(e, cmdArgs)
	case "brief":
		return runBrief(e, cmdArgs)
	case "export":
		return runExport(e, cmdArgs)
	case "badge":
		return runBadge(e, cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		fmt.Fprintln(os.Stderr, "Usage: riskboard [flags] <command> [args]")
		return 2
	}
}

func printVersion() {
	fmt.Printf("riskboard %s (commit: %s, built: %s)\n", version, commit, date)
}

// setup loads the config file and builds the process logger. Flags override
// config values.
func setup(configPath, snapshot, logFormat string, verbose bool, logOut io.Writer) (*env, error) {
	cfg, err := core.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger, snapshot: cfg.Snapshot}
	if snapshot != "" {
		e.snapshot = snapshot
	}
	return e, nil
}

func newLogger(s core.LogSettings, w io.Writer) (*slog.Logger, error) {
	level, err := core.ParseLogLevel(s.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch s.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q (want text or json)", s.Format)
}

// newSession creates a session configured from e, logging to logger.
func (e *env) newSession(logger *slog.Logger) *core.Session {
	return core.NewSession(
		core.WithLogger(logger),
		core.WithDevelopment(e.cfg.Development),
		core.WithAssemblerOptions(e.cfg.AssemblerOptions()),
	)
}

// loadSession creates a session and loads the configured snapshot.
func (e *env) loadSession(logger *slog.Logger) (*core.Session, error) {
	if e.snapshot == "" {
		return nil, errNoSnapshot
	}
	s := e.newSession(logger)
	if err := s.LoadFile(e.snapshot); err != nil {
		return nil, err
	}
	return s, nil
}

// exitCode maps a session setup error to an exit code.
func exitCode(err error) int {
	if errors.Is(err, errNoSnapshot) {
		return 2
	}
	return 1
}
