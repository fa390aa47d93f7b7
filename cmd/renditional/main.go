package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/renditional/internal/config"
	"github.com/vango-dev/renditional/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "renditional",
		Short: "Fine-grained reactive rendering engine",
		Long: `renditional renders reactive templates into a host tree without a
virtual tree. Cells record who read them, writes are coalesced into a
single flush, and conditionals and keyed lists are reconciled in place.

Commands:
  serve   run the demo application as a live server
  render  render the demo application to an HTML snapshot
  bench   load-test an in-process live server`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "Config file (default: renditional.json or renditional.yaml in the working directory)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	flags.StringVar(&g.logFormat, "log-format", "", "Log format: text or json (default from config)")

	rootCmd.AddCommand(
		serveCmd(g),
		renderCmd(g),
		benchCmd(g),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig loads --config, or the working directory's config, or
// defaults.
func (g *globalOptions) loadConfig() (*config.Config, error) {
	if g.configPath != "" {
		return config.LoadFile(g.configPath)
	}
	return config.LoadFromWorkingDir()
}

// logger builds the process logger. Flags win over the config file.
func (g *globalOptions) logger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, format := cfg.Log.Level, cfg.Log.Format
	if g.logLevel != "" {
		level = g.logLevel
	}
	if g.logFormat != "" {
		format = g.logFormat
	}
	return newLogger(w, level, format)
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "", "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetailf("unknown log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetailf("unknown log format %q", format)
	}
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
