package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hookdom/internal/config"
	"github.com/vango-dev/hookdom/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hookdom",
		Short: "Hooks and a positional reconciler over a host tree",
		Long: `hookdom renders components built from hooks onto a host tree.

Each render builds a fresh virtual tree; the reconciler walks it against
the previous one by position and issues the minimal host mutations it can
see. The server streams those mutations to remote mirrors.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		demoCmd(),
		serveCmd(),
		versionCmd(),
	)
	return root
}

// newLogger builds the process logger from the log section of cfg.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var h slog.Handler
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}
