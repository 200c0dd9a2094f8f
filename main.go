package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tphakala/inatdiff-go/cmd"
	"github.com/tphakala/inatdiff-go/internal/conf"
	"github.com/tphakala/inatdiff-go/internal/logging"
	"github.com/tphakala/inatdiff-go/internal/mcp"
)

// version is overridden at build time via -ldflags
var version = "dev"

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error while loading configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(settings.Debug)
	mcp.Version = version
	if settings.INat.UserAgent == "" {
		settings.INat.UserAgent = fmt.Sprintf("%s/%s", settings.Main.Name, version)
	}

	if settings.Main.Log.Enabled {
		fileLogger, closeLog, err := logging.NewFileLogger(settings.Main.Log.Path, settings.Main.Name, slog.LevelInfo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: service log disabled: %v\n", err)
		} else {
			defer closeLog() //nolint:errcheck // best-effort flush on exit
			fileLogger.Info("starting", "version", version, "args", os.Args[1:])
		}
	}

	// Interrupts cancel the per-species loop between API calls; no partial
	// result is emitted.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
