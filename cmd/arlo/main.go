// cmd/arlo/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"arlo/internal/adapters/output"
	"arlo/internal/adapters/server"
	"arlo/internal/core/domain"
	"arlo/internal/core/ports"
	"arlo/internal/core/usecases"
	"arlo/internal/platform/config"
	"arlo/internal/platform/httpclient"
	"arlo/internal/platform/logx"
	"arlo/internal/platform/registry"
	"arlo/internal/platform/ui"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	ctx, cancel := rootContextWithSignals()
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run ejecuta arlo y retorna el código de salida. stdout recibe solo el JSON.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// 1. Load centralized config
	cfg, err := config.Load(args, version, commit, date)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintln(stderr, "Usage: arlo [options] <keyword>")
		fmt.Fprintln(stderr, "Try: arlo -h for help")
		return exitUsage
	}
	if cfg.Core.PrintHelp {
		config.PrintHelp(stdout)
		return exitOK
	}
	if cfg.Core.PrintVersion {
		config.PrintVersion(stdout, version, commit, date)
		return exitOK
	}

	// 2. Shared logger
	logger := logx.NewWithWriter(stderr, logx.ParseLevel(cfg.Core.LogLevel))

	logger.Info("arlo starting",
		"version", version,
		"commit", commit,
		"date", date,
		"timeout_ms", cfg.Core.TimeoutMS,
		"config_file", cfg.File,
	)

	// 3. Source catalog
	catalog, err := registry.NewCatalogFromEntries(cfg.Source.Sources, logger)
	if err != nil {
		logger.Err(err, "phase", "catalog")
		return exitUsage
	}

	// 4. Transport
	client, err := httpclient.New(httpclient.Config{
		UserAgent:    cfg.Network.UserAgent,
		RateLimit:    cfg.Network.RateLimit,
		ProxyURL:     cfg.Network.ProxyURL,
		MaxBodyBytes: cfg.Network.MaxBodyBytes,
	}, logger)
	if err != nil {
		logger.Err(err, "phase", "transport")
		return exitUsage
	}
	logger.Debug("transport configured", "client", client.String())

	// 5. Presenter
	var presenter ui.Presenter = ui.NewNoopPresenter()
	if !cfg.Output.UIDisabled && !cfg.Server.Enabled {
		presenter = ui.NewPTermPresenterWithWriter(stderr)
	}
	defer presenter.Close()
	observers := []ports.Notifier{presenter}

	// 6. Pipeline
	orch := usecases.NewOrchestrator(usecases.OrchestratorOptions{
		Fetcher:   client,
		Logger:    logger,
		Observers: observers,
		Timeout:   cfg.Timeout(),
		Grace:     cfg.Grace(),
	})
	search := usecases.NewSearchService(usecases.SearchServiceOptions{
		Catalog:      catalog,
		Orchestrator: orch,
		Merger:       usecases.NewMergeService(logger, cfg.Source.IDField),
		Observers:    observers,
		Logger:       logger,
		Pretty:       cfg.Output.Pretty,
	})

	if cfg.Server.Enabled {
		return runServer(ctx, cfg, search, logger)
	}

	// 7. Execute search
	result, err := search.Search(ctx, cfg.Core.Keyword)
	if err != nil {
		logger.Err(err, "phase", "search")
		presenter.Error(fmt.Sprintf("search failed: %v", err))
		return exitFatal
	}

	if result.Succeeded() == 0 {
		presenter.Warning("no source answered in time, output is empty")
	}

	// 8. Write output
	if err := writeOutput(cfg, stdout, result); err != nil {
		logger.Err(err, "phase", "output")
		presenter.Error(fmt.Sprintf("unable to write output: %v", err))
		return exitFatal
	}
	if cfg.Output.File != "" && cfg.Output.File != "-" {
		presenter.Info(fmt.Sprintf("%d records written to %s", len(result.Records), cfg.Output.File))
	}

	logger.Info("arlo finished",
		"records", len(result.Records),
		"failed_sources", len(result.Failed()),
		"elapsed_ms", result.Duration().Milliseconds(),
	)
	return exitOK
}

func runServer(ctx context.Context, cfg config.Config, search *usecases.SearchService, logger logx.Logger) int {
	srv := server.New(server.Options{
		Addr:          cfg.Server.Listen,
		Searcher:      search,
		Logger:        logger,
		SearchTimeout: cfg.Timeout() + cfg.Grace(),
	})
	if err := srv.Run(ctx); err != nil {
		logger.Err(err, "phase", "serve")
		return exitFatal
	}
	return exitOK
}

// writeOutput escribe a stdout o, si se configuró, a un archivo.
func writeOutput(cfg config.Config, stdout io.Writer, result *domain.SearchResult) error {
	if cfg.Output.File == "" || cfg.Output.File == "-" {
		return output.WriteJSON(stdout, result.Payload)
	}
	return output.OutputJSON(cfg.Output.File, result)
}

// rootContextWithSignals creates a root context cancelled on SIGINT/SIGTERM.
// The returned cancel function releases the signal handler.
func rootContextWithSignals() (context.Context, context.CancelFunc) {
	base, baseCancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanupCancel := func() {
		signal.Stop(ch)
		baseCancel()
	}

	return base, cleanupCancel
}
