package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/renditional/internal/config"
	"github.com/vango-dev/renditional/internal/errors"
	"github.com/vango-dev/renditional/pkg/dom/memdom"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "renditional.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: error\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.PortEnv, "")
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level, format string
		wantErr       bool
	}{
		{"", "", false},
		{"debug", "text", false},
		{"WARN", "json", false},
		{"error", "JSON", false},
		{"loud", "text", true},
		{"info", "xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			l, err := newLogger(io.Discard, tt.level, tt.format)
			if tt.wantErr {
				if errors.CodeOf(err) != errors.CodeConfigInvalid {
					t.Errorf("expected %s, got %v", errors.CodeConfigInvalid, err)
				}
				return
			}
			if err != nil || l == nil {
				t.Errorf("expected logger, got %v", err)
			}
		})
	}
}

func TestLoggerFlagsOverrideConfig(t *testing.T) {
	var buf bytes.Buffer
	g := &globalOptions{logFormat: "json"}
	cfg := config.New()
	cfg.Log.Level = "debug"

	logger, err := g.logger(&buf, cfg)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hello", "k", 1)
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON debug line, got %q", buf.String())
	}
}

func TestRenderToStdout(t *testing.T) {
	stdout, _, err := execute(t, "render", "--config", writeConfig(t), "--clicks", "3", "--todo", "a", "--todo", "b")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<div class="test">Counter: 3 Fizz!</div>`,
		"#0: a (Waiting)",
		"#1: b (Waiting)",
		"<button>Shuffle Todos</button> [0,1]",
		"<li>Extra: not a todo</li>",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "<!--") {
		t.Error("expected markers to be omitted from the snapshot")
	}
}

func TestRenderToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pages", "index.html")
	_, stderr, err := execute(t, "render", "--config", writeConfig(t), "--clicks", "5", "--out", out)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Counter: 5 Buzz!") {
		t.Errorf("expected Buzz in snapshot, got:\n%s", data)
	}
	if !strings.Contains(stderr, "Wrote "+out) {
		t.Errorf("expected success message, got %q", stderr)
	}
}

func TestRenderBadTarget(t *testing.T) {
	_, _, err := execute(t, "render", "--config", writeConfig(t), "--out", "s3://bucket-only")
	if errors.CodeOf(err) != errors.CodeSnapshot {
		t.Errorf("expected %s, got %v", errors.CodeSnapshot, err)
	}
}

func TestRenderShuffleIsDeterministic(t *testing.T) {
	opts := renderOptions{todos: []string{"a", "b", "c"}, shuffles: 3, seed: 9}
	first, err := renderDemo(opts, config.DefaultMaxRunsPerFlush, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	second, err := renderDemo(opts, config.DefaultMaxRunsPerFlush, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("expected identical renders for the same seed")
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(stdout) != version {
		t.Errorf("expected %q, got %q", version, stdout)
	}
}

func TestServerConfig(t *testing.T) {
	cfg := config.New()
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 9999
	cfg.Server.ReadTimeout = "3s"
	cfg.Scheduler.MaxRunsPerFlush = 77
	cfg.Tracing.TracerName = "t"
	disabled := false
	cfg.Metrics.Enabled = &disabled

	sc := serverConfig(cfg)
	if sc.Addr != "0.0.0.0:9999" {
		t.Errorf("expected 0.0.0.0:9999, got %q", sc.Addr)
	}
	if sc.ReadTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", sc.ReadTimeout)
	}
	if sc.MetricsPath != "" {
		t.Errorf("expected metrics disabled, got %q", sc.MetricsPath)
	}
	if sc.TracerName != "t" {
		t.Errorf("expected tracer t, got %q", sc.TracerName)
	}
	if sc.Session.MaxRunsPerFlush != 77 {
		t.Errorf("expected 77, got %d", sc.Session.MaxRunsPerFlush)
	}
}

func TestFindButton(t *testing.T) {
	doc := memdom.NewDocument()
	div := doc.NewElement("div")
	other := doc.NewElement("button")
	other.AppendChild(doc.NewText("Other"))
	btn := doc.NewElement("button")
	btn.AppendChild(doc.NewText("Click "))
	btn.AppendChild(doc.NewText("me!"))
	div.AppendChild(other)
	div.AppendChild(btn)
	doc.Body().AppendChild(div)

	if id := findButton(doc.Body().Snapshot(), "Click me!"); id != btn.ID() {
		t.Errorf("expected %d, got %d", btn.ID(), id)
	}
	if id := findButton(doc.Body().Snapshot(), "Missing"); id != 0 {
		t.Errorf("expected 0, got %d", id)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		p    float64
		want time.Duration
	}{
		{0, 1},
		{0.5, 5},
		{0.95, 10},
		{1, 10},
	}
	for _, tt := range tests {
		if got := percentile(sorted, tt.p); got != tt.want {
			t.Errorf("p%.2f: expected %d, got %d", tt.p, tt.want, got)
		}
	}
	if percentile(nil, 0.5) != 0 {
		t.Error("expected 0 for no samples")
	}
}

func TestRunBench(t *testing.T) {
	report, err := runBench(context.Background(), benchOptions{
		Clients:  3,
		Duration: 500 * time.Millisecond,
		RPS:      20,
		Seed:     1,
	}, quietLogger())
	if err != nil {
		t.Fatalf("runBench: %v", err)
	}
	if report.EventsTotal == 0 {
		t.Fatalf("expected events, got report %+v", report)
	}
	if report.Errors != 0 {
		t.Errorf("expected no client errors, got %d", report.Errors)
	}
	if report.LatencyMS.Max < report.LatencyMS.Min {
		t.Errorf("expected max >= min, got %+v", report.LatencyMS)
	}
	if report.AvgMutations <= 0 {
		t.Errorf("expected mutations per event, got %v", report.AvgMutations)
	}

	var buf bytes.Buffer
	writeSummary(&buf, report)
	if !strings.Contains(buf.String(), "p95") {
		t.Errorf("expected latency summary, got %q", buf.String())
	}
}

func TestRunBenchRejectsBadOptions(t *testing.T) {
	if _, err := runBench(context.Background(), benchOptions{}, quietLogger()); err == nil {
		t.Error("expected error for zero options")
	}
}
