package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/vango-dev/renditional/internal/demo"
	"github.com/vango-dev/renditional/pkg/dom/memdom"
	"github.com/vango-dev/renditional/pkg/live"
)

type benchOptions struct {
	Clients      int
	Duration     time.Duration
	RPS          float64
	EventTimeout time.Duration
	JSONOutput   string
	Seed         uint64
}

type benchCounters struct {
	eventsSent     atomic.Uint64
	eventsComplete atomic.Uint64
	patchBytes     atomic.Uint64
	mutations      atomic.Uint64
	errors         atomic.Uint64
}

type benchReport struct {
	Clients      int         `json:"clients"`
	DurationMS   int64       `json:"duration_ms"`
	RPSPerClient float64     `json:"rps_per_client"`
	EventsTotal  uint64      `json:"events_total"`
	EventsPerSec float64     `json:"events_per_sec"`
	Errors       uint64      `json:"errors"`
	LatencyMS    latencyInfo `json:"latency_ms"`
	AvgPatchB    float64     `json:"avg_patch_bytes"`
	AvgMutations float64     `json:"avg_mutations"`
}

type latencyInfo struct {
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

func benchCmd(g *globalOptions) *cobra.Command {
	opts := benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Load-test an in-process live server",
		Long: `Start the demo on a loopback live server, connect simulated browsers
over WebSocket and click the counter at a fixed rate. Reports round-trip
latency from event send to patch receipt.

Examples:
  renditional bench
  renditional bench --clients=200 --duration=30s --rps=5 --json=bench.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			logger, err := g.logger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			report, err := runBench(cmdContext(cmd), opts, logger)
			if err != nil {
				return err
			}
			writeSummary(cmd.ErrOrStderr(), report)
			if opts.JSONOutput != "" {
				return writeJSON(cmd.OutOrStdout(), opts.JSONOutput, report)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Clients, "clients", 50, "Concurrent sessions")
	cmd.Flags().DurationVar(&opts.Duration, "duration", 10*time.Second, "Run length")
	cmd.Flags().Float64Var(&opts.RPS, "rps", 2, "Events per second per client")
	cmd.Flags().DurationVar(&opts.EventTimeout, "event-timeout", 0, "Max wait for a patch (default: 4x the event period, at least 2s)")
	cmd.Flags().StringVar(&opts.JSONOutput, "json", "", "Write the report as JSON to a path, or - for stdout")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "Seed of the todo shuffle")

	return cmd
}

// runBench serves the demo on 127.0.0.1 and drives opts.Clients sessions
// until opts.Duration elapses.
func runBench(ctx context.Context, opts benchOptions, logger *slog.Logger) (benchReport, error) {
	if opts.Clients < 1 || opts.RPS <= 0 || opts.Duration <= 0 {
		return benchReport{}, fmt.Errorf("bench: clients, rps and duration must be positive")
	}
	if opts.EventTimeout <= 0 {
		opts.EventTimeout = eventTimeout(opts.RPS)
	}

	sc := live.DefaultServerConfig()
	sc.MetricsPath = ""
	sc.CheckOrigin = func(*http.Request) bool { return true }
	srv := live.NewServer(demo.Factory(opts.Seed),
		live.WithServerConfig(sc),
		live.WithLogger(logger),
	)

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		return benchReport{}, fmt.Errorf("listen: %w", err)
	}
	srvCtx, stopServer := context.WithCancel(ctx)
	served := make(chan error, 1)
	go func() { served <- srv.Serve(srvCtx, ln) }()
	defer func() {
		stopServer()
		<-served
	}()

	wsURL := "ws://" + ln.Addr().String() + "/ws"
	runCtx, cancel := context.WithTimeout(ctx, opts.Duration)
	defer cancel()

	var (
		counters benchCounters
		mu       sync.Mutex
		samples  []time.Duration
		wg       sync.WaitGroup
	)
	record := func(rtt time.Duration) {
		mu.Lock()
		samples = append(samples, rtt)
		mu.Unlock()
	}

	start := time.Now()
	wg.Add(opts.Clients)
	for i := 0; i < opts.Clients; i++ {
		go func() {
			defer wg.Done()
			if err := runClient(runCtx, wsURL, opts, &counters, record); err != nil {
				counters.errors.Add(1)
				logger.Debug("bench client failed", "client", i, "error", err)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	slices.Sort(samples)
	return buildReport(opts, elapsed, samples, &counters), nil
}

func eventTimeout(rps float64) time.Duration {
	timeout := 4 * time.Duration(float64(time.Second)/rps)
	if timeout < 2*time.Second {
		timeout = 2 * time.Second
	}
	return timeout
}

// runClient plays one browser: read the initial tree, then click the
// counter button and wait for the resulting patch, at opts.RPS.
func runClient(ctx context.Context, wsURL string, opts benchOptions, counters *benchCounters, record func(time.Duration)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	var first live.ServerMessage
	conn.SetReadDeadline(time.Now().Add(opts.EventTimeout))
	if err := conn.ReadJSON(&first); err != nil {
		return fmt.Errorf("read init: %w", err)
	}
	if first.Type != live.MessageInit || first.Tree == nil {
		return fmt.Errorf("expected init message, got %q", first.Type)
	}
	target := findButton(first.Tree, "Click me!")
	if target == 0 {
		return fmt.Errorf("counter button not found in initial tree")
	}

	period := time.Duration(float64(time.Second) / opts.RPS)
	for {
		if ctx.Err() != nil {
			return nil
		}

		begin := time.Now()
		if err := conn.WriteJSON(live.ClientEvent{Type: "click", Target: target}); err != nil {
			return fmt.Errorf("event write: %w", err)
		}
		counters.eventsSent.Add(1)

		conn.SetReadDeadline(time.Now().Add(opts.EventTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read patch: %w", err)
		}
		var msg live.ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("decode patch: %w", err)
		}
		if msg.Type == live.MessageError {
			return fmt.Errorf("server error: %s", msg.Error)
		}

		record(time.Since(begin))
		counters.eventsComplete.Add(1)
		counters.patchBytes.Add(uint64(len(data)))
		counters.mutations.Add(uint64(len(msg.Mutations)))

		if sleep := period - time.Since(begin); sleep > 0 {
			timer := time.NewTimer(sleep)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
	}
}

// findButton returns the ID of the first button whose text starts with
// label, or 0.
func findButton(s *memdom.Snapshot, label string) uint64 {
	if s.Tag == "button" && strings.HasPrefix(snapshotText(s), label) {
		return s.ID
	}
	for _, c := range s.Children {
		if id := findButton(c, label); id != 0 {
			return id
		}
	}
	return 0
}

func snapshotText(s *memdom.Snapshot) string {
	if s.Kind == memdom.KindText.String() {
		return s.Data
	}
	var b strings.Builder
	for _, c := range s.Children {
		b.WriteString(snapshotText(c))
	}
	return b.String()
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func buildReport(opts benchOptions, elapsed time.Duration, sorted []time.Duration, c *benchCounters) benchReport {
	r := benchReport{
		Clients:      opts.Clients,
		DurationMS:   elapsed.Milliseconds(),
		RPSPerClient: opts.RPS,
		EventsTotal:  c.eventsComplete.Load(),
		Errors:       c.errors.Load(),
	}
	if elapsed > 0 {
		r.EventsPerSec = float64(r.EventsTotal) / elapsed.Seconds()
	}
	if r.EventsTotal > 0 {
		r.AvgPatchB = float64(c.patchBytes.Load()) / float64(r.EventsTotal)
		r.AvgMutations = float64(c.mutations.Load()) / float64(r.EventsTotal)
	}
	if len(sorted) > 0 {
		r.LatencyMS = latencyInfo{
			Min: ms(sorted[0]),
			P50: ms(percentile(sorted, 0.50)),
			P95: ms(percentile(sorted, 0.95)),
			P99: ms(percentile(sorted, 0.99)),
			Max: ms(sorted[len(sorted)-1]),
		}
	}
	return r
}

func writeSummary(w io.Writer, r benchReport) {
	fmt.Fprintln(w, "=== renditional live benchmark ===")
	fmt.Fprintf(w, "Clients: %d\n", r.Clients)
	fmt.Fprintf(w, "Duration: %s\n", time.Duration(r.DurationMS)*time.Millisecond)
	fmt.Fprintf(w, "Target per-client rate: %.2f events/s\n", r.RPSPerClient)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total events: %d\n", r.EventsTotal)
	fmt.Fprintf(w, "Throughput: %.1f events/s\n", r.EventsPerSec)
	fmt.Fprintf(w, "Errors: %d\n", r.Errors)
	fmt.Fprintln(w)
	if r.EventsTotal == 0 {
		fmt.Fprintln(w, "No latency samples recorded.")
		return
	}
	fmt.Fprintln(w, "RTT (event send -> flush -> patch receive):")
	fmt.Fprintf(w, "  min: %.2f ms\n", r.LatencyMS.Min)
	fmt.Fprintf(w, "  p50: %.2f ms\n", r.LatencyMS.P50)
	fmt.Fprintf(w, "  p95: %.2f ms\n", r.LatencyMS.P95)
	fmt.Fprintf(w, "  p99: %.2f ms\n", r.LatencyMS.P99)
	fmt.Fprintf(w, "  max: %.2f ms\n", r.LatencyMS.Max)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Patch: %.1f bytes, %.2f mutations per event\n", r.AvgPatchB, r.AvgMutations)
}

func writeJSON(stdout io.Writer, path string, report benchReport) error {
	out := stdout
	if path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
