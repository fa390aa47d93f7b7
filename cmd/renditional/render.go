package main

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/renditional/internal/config"
	"github.com/vango-dev/renditional/internal/demo"
	"github.com/vango-dev/renditional/pkg/dom/memdom"
	"github.com/vango-dev/renditional/pkg/reactive"
	"github.com/vango-dev/renditional/pkg/render"
	"github.com/vango-dev/renditional/pkg/snapshot"
)

// renderOptions drive one scripted render of the demo.
type renderOptions struct {
	clicks   int
	shuffles int
	todos    []string
	seed     uint64
	out      string
}

func renderCmd(g *globalOptions) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the demo application to HTML",
		Long: `Render the demo application into an in-memory tree, replay a script
of interactions against it and write the resulting HTML.

The output goes to stdout, a file, or an S3 object.

Examples:
  renditional render --clicks=15
  renditional render --todo="buy milk" --todo="write docs" --shuffles=2 --out=page.html
  renditional render --out=s3://my-bucket/renders/index.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			logger, err := g.logger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}

			html, err := renderDemo(opts, cfg.Scheduler.MaxRunsPerFlush, logger)
			if err != nil {
				return err
			}

			if opts.out == "" || opts.out == "-" {
				_, err := cmd.OutOrStdout().Write(html)
				return err
			}
			store, key, err := snapshot.OpenTarget(snapshotConfig(cfg), opts.out)
			if err != nil {
				return err
			}
			if err := store.Put(cmdContext(cmd), key, html); err != nil {
				return err
			}
			logger.Info("snapshot written", "target", opts.out, "bytes", len(html))
			success(cmd.ErrOrStderr(), "Wrote %s", opts.out)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.clicks, "clicks", 0, "Clicks on the counter button")
	cmd.Flags().IntVar(&opts.shuffles, "shuffles", 0, "Presses of the shuffle button")
	cmd.Flags().StringArrayVar(&opts.todos, "todo", nil, "Todo to add (repeatable)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Seed of the todo shuffle")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output: a path, s3://bucket/key, or - for stdout")

	return cmd
}

// renderDemo mounts the demo, replays opts and returns the page HTML.
func renderDemo(opts renderOptions, maxRuns int, logger *slog.Logger) ([]byte, error) {
	rt := reactive.NewRuntime(
		reactive.WithMaxRunsPerFlush(maxRuns),
		reactive.WithLogger(logger),
	)
	restore := reactive.Bind(rt)
	defer restore()

	doc := memdom.NewDocument()
	app := demo.New(opts.seed)
	destroy, err := render.Mount(doc.Body(), app.Render())
	if err != nil {
		return nil, err
	}
	defer destroy.Run()

	for _, todo := range opts.todos {
		app.Todos.Add(todo)
	}
	if err := rt.Flush(); err != nil {
		return nil, err
	}
	for i := 0; i < opts.clicks; i++ {
		if err := press(rt, doc.Body(), "Click me!"); err != nil {
			return nil, err
		}
	}
	for i := 0; i < opts.shuffles; i++ {
		if err := press(rt, doc.Body(), "Shuffle Todos"); err != nil {
			return nil, err
		}
	}
	logger.Debug("demo rendered",
		"clicks", opts.clicks,
		"shuffles", opts.shuffles,
		"todos", app.Todos.IDs(),
	)

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>renditional</title>\n</head>\n")
	if err := doc.Body().WriteHTML(&buf, memdom.HTMLOptions{}); err != nil {
		return nil, err
	}
	buf.WriteString("\n</html>\n")
	return buf.Bytes(), nil
}

func press(rt *reactive.Runtime, root *memdom.Node, label string) error {
	if err := demo.Press(root, label); err != nil {
		return fmt.Errorf("render script: %w", err)
	}
	return rt.Flush()
}

// snapshotConfig maps the file configuration onto the snapshot stores.
func snapshotConfig(cfg *config.Config) snapshot.Config {
	return snapshot.Config{
		Dir: cfg.SnapshotDir(),
		S3: snapshot.S3Config{
			Bucket:   cfg.Snapshot.S3.Bucket,
			Prefix:   cfg.Snapshot.S3.Prefix,
			Region:   cfg.Snapshot.S3.Region,
			Endpoint: cfg.Snapshot.S3.Endpoint,
		},
	}
}
