package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/nox-hq/riskboard/core"
	"github.com/nox-hq/riskboard/core/nav"
)

func runWatch(e *env, args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	var (
		debounce  time.Duration
		perMinute int
		jsonFlag  bool
	)
	fs.DurationVar(&debounce, "debounce", e.cfg.WatchDebounce(), "debounce interval for file changes")
	fs.IntVar(&perMinute, "max-reloads", e.cfg.Watch.ReloadsPerMinute, "maximum reloads per minute")
	fs.BoolVar(&jsonFlag, "json", false, "output as JSON lines")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if perMinute <= 0 {
		fmt.Fprintln(os.Stderr, "error: --max-reloads must be positive")
		return 2
	}

	session, err := e.loadSession(e.logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitCode(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating watcher: %v\n", err)
		return 1
	}
	defer watcher.Close()

	// Editors often replace the file rather than write it in place, so the
	// directory is watched and events are filtered by name.
	target := absPath(e.snapshot)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		fmt.Fprintf(os.Stderr, "error: watching %s: %v\n", filepath.Dir(target), err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handling.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	fmt.Printf("watch: %s (debounce: %s, max %d reloads/min)\n", e.snapshot, debounce, perMinute)
	r := newReloader(session, e.snapshot, os.Stdout, jsonFlag, perMinute, e.logger)
	r.report()
	go r.run(ctx)

	// Debounced event loop.
	var mu sync.Mutex
	var timer *time.Timer

	resetTimer := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, r.request)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if isSnapshotChange(event, target) {
				e.logger.Debug("snapshot changed", "op", event.Op.String())
				resetTimer()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			e.logger.Error("watch error", "error", err)
		case <-sigCh:
			fmt.Println("\nwatch: stopped")
			return 0
		}
	}
}

// isSnapshotChange reports whether event rewrote the file at target.
func isSnapshotChange(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// reloader reloads the session on request, no faster than its limiter
// allows. Requests that arrive while one is pending are coalesced.
type reloader struct {
	session  *core.Session
	path     string
	out      io.Writer
	json     bool
	limiter  *rate.Limiter
	logger   *slog.Logger
	requests chan struct{}
}

func newReloader(session *core.Session, path string, out io.Writer, jsonOut bool, perMinute int, logger *slog.Logger) *reloader {
	return &reloader{
		session:  session,
		path:     path,
		out:      out,
		json:     jsonOut,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		logger:   logger,
		requests: make(chan struct{}, 1),
	}
}

func (r *reloader) request() {
	select {
	case r.requests <- struct{}{}:
	default:
	}
}

func (r *reloader) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.requests:
			if err := r.limiter.Wait(ctx); err != nil {
				return
			}
			r.reload()
		}
	}
}

// reload loads the snapshot again and prints the KPIs. A rejected snapshot
// keeps the previous generation on screen.
func (r *reloader) reload() bool {
	if err := r.session.LoadFile(r.path); err != nil {
		r.logger.Error("reload failed, keeping previous snapshot",
			"generation", r.session.Generation(),
			"error", err,
		)
		return false
	}
	r.report()
	return true
}

func (r *reloader) report() {
	if err := printKPIs(r.out, r.session, r.json); err != nil {
		r.logger.Error("printing KPIs", "error", err)
	}
}

// kpiLine is the JSON form of one watch update.
type kpiLine struct {
	Generation      uint64    `json:"generation"`
	GeneratedAt     time.Time `json:"generated_at"`
	Users           int       `json:"users"`
	OrgScore        float64   `json:"org_score"`
	OrgLevel        string    `json:"org_level"`
	HighRiskUsers   int       `json:"high_risk_users"`
	RecentAnomalies int       `json:"recent_anomalies"`
	ClickRate       float64   `json:"click_rate"`
}

// printKPIs writes the dashboard KPIs of the session's current generation.
func printKPIs(w io.Writer, session *core.Session, jsonOut bool) error {
	page, err := session.Peek(nav.State{View: nav.Dashboard})
	if err != nil {
		return err
	}
	d := page.Dashboard
	line := kpiLine{
		Generation:      page.Generation,
		GeneratedAt:     page.GeneratedAt,
		Users:           d.TotalUsers,
		OrgScore:        d.OrgScore,
		OrgLevel:        string(d.OrgLevel),
		HighRiskUsers:   d.HighRiskUsers,
		RecentAnomalies: d.RecentAnomalies,
		ClickRate:       d.ClickRate,
	}
	if jsonOut {
		data, err := json.Marshal(line)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	_, err = fmt.Fprintf(w, "[gen %d] %d users, org risk %.1f (%s), %d high risk, %d recent anomalies, click rate %.1f%%\n",
		line.Generation, line.Users, line.OrgScore, line.OrgLevel,
		line.HighRiskUsers, line.RecentAnomalies, line.ClickRate)
	return err
}
