package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/gridforge/gridstore/auth"
	"github.com/gridforge/gridstore/common"
	"github.com/gridforge/gridstore/httpserver"
	"github.com/gridforge/gridstore/storeconfig"
	"github.com/gridforge/gridstore/storefamily"
	_ "github.com/gridforge/gridstore/stores/all"
)

var logFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  "log-json",
		Value: false,
		Usage: "log in JSON format",
	},
	&cli.BoolFlag{
		Name:  "log-debug",
		Value: false,
		Usage: "log debug messages",
	},
	&cli.BoolFlag{
		Name:  "log-uid",
		Value: false,
		Usage: "generate a uuid and add to all log messages",
	},
	&cli.StringFlag{
		Name:  "log-service",
		Value: "gridstore",
		Usage: "add 'service' tag to logs",
	},
}

func main() {
	app := &cli.App{
		Name:  "gridstore",
		Usage: "Resolve, inspect and serve store configurations",
		Flags: logFlags,
		Commands: []*cli.Command{
			{
				Name:      "resolve",
				Usage:     "Resolve a store descriptor and print the configuration",
				ArgsUsage: "<descriptor>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "document",
						Usage: "resolve an XML document locator instead of a flat descriptor",
					},
					&cli.BoolFlag{
						Name:  "probe",
						Usage: "construct every store kind to verify backend connectivity",
					},
				},
				Action: runResolve,
			},
			{
				Name:  "serve",
				Usage: "Run the configuration inspection HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen-addr",
						Value: "127.0.0.1:8080",
						Usage: "address to listen on for API",
					},
					&cli.BoolFlag{
						Name:  "pprof",
						Value: false,
						Usage: "enable pprof debug endpoint",
					},
					&cli.Int64Flag{
						Name:  "drain-seconds",
						Value: 45,
						Usage: "seconds to wait in drain HTTP request",
					},
				},
				Action: runServe,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(cCtx *cli.Context) *slog.Logger {
	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   cCtx.Bool("log-debug"),
		JSON:    cCtx.Bool("log-json"),
		Service: cCtx.String("log-service"),
		Version: common.Version,
	})

	if cCtx.Bool("log-uid") {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

func runResolve(cCtx *cli.Context) error {
	logger := setupLogger(cCtx)

	descriptor := cCtx.Args().First()
	locator := cCtx.String("document")
	if (descriptor == "") == (locator == "") {
		return errors.New("provide either a descriptor argument or --document")
	}

	cache := storeconfig.NewCache(logger)
	ctx := cCtx.Context

	var cfg *storeconfig.Config
	var err error
	if descriptor != "" {
		cfg, err = cache.Resolve(ctx, descriptor)
	} else {
		cfg, err = cache.ResolveDocument(ctx, locator)
	}
	if err != nil {
		logger.Error("Resolution failed", "err", err)
		return err
	}

	out := map[string]any{
		"descriptor":    cfg.Descriptor(),
		"family":        cfg.Family().Name(),
		"params":        cfg.StoreParams(),
		"auth_provider": cfg.AuthorizationFactory().Name(),
	}
	if u := cfg.AuthorizationURL(); u != nil {
		out["auth_url"] = u.String()
	}

	if cCtx.Bool("probe") {
		if err := probeStores(ctx, cfg); err != nil {
			logger.Error("Store probe failed", "err", err)
			return err
		}
		out["probe"] = "ok"
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func probeStores(ctx context.Context, cfg *storeconfig.Config) error {
	if _, err := cfg.DataStore(ctx); err != nil {
		return err
	}
	if _, err := cfg.IndexStore(ctx); err != nil {
		return err
	}
	if _, err := cfg.AdapterStore(ctx); err != nil {
		return err
	}
	if _, err := cfg.InternalAdapterStore(ctx); err != nil {
		return err
	}
	if _, err := cfg.StatisticsStore(ctx); err != nil {
		return err
	}
	if _, err := cfg.IndexMappingStore(ctx); err != nil {
		return err
	}
	return nil
}

func runServe(cCtx *cli.Context) error {
	logger := setupLogger(cCtx)

	cache := storeconfig.DefaultCache()
	handler := httpserver.NewHandler(cache, storefamily.Default(), auth.Default(), logger)

	cfg := &httpserver.HTTPServerConfig{
		ListenAddr:               cCtx.String("listen-addr"),
		Log:                      logger,
		EnablePprof:              cCtx.Bool("pprof"),
		DrainDuration:            time.Duration(cCtx.Int64("drain-seconds")) * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}

	server, err := httpserver.New(cfg, handler)
	if err != nil {
		logger.Error("Failed to create server", "err", err)
		return err
	}

	logger.Info("Known backend families", "families", storefamily.Names())
	server.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	logger.Info("Server is running, press Ctrl+C to stop")
	<-exit
	logger.Info("Shutdown signal received")

	server.Shutdown()
	logger.Info("Server shutdown complete")

	return nil
}
