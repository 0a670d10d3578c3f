// Package common holds the pieces shared by all gridstore binaries:
// logger setup and build metadata.
package common

import (
	"log/slog"
	"os"
)

// PackageName tags logs and diagnostics emitted by this module.
const PackageName = "gridstore"

// Version is set at build time via ldflags.
var Version = "dev"

type LoggingOpts struct {
	// Debug lowers the log level to debug.
	Debug bool

	// JSON enables JSON output, the default is human-readable text.
	JSON bool

	// Service is added as a "service" attribute to every record when set.
	Service string

	// Version is added as a "version" attribute to every record when set.
	Version string
}

// SetupLogger creates the process logger and installs it as the slog
// default.
func SetupLogger(opts *LoggingOpts) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	log := slog.New(handler)
	if opts.Service != "" {
		log = log.With("service", opts.Service)
	}
	if opts.Version != "" {
		log = log.With("version", opts.Version)
	}

	slog.SetDefault(log)
	return log
}
