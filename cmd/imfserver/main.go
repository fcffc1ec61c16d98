package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"imf-reader/internal/catalog"
	"imf-reader/internal/demux"
	"imf-reader/internal/handlers"
	"imf-reader/internal/imf"
	"imf-reader/internal/logging"
	"imf-reader/internal/memory"
	"imf-reader/internal/metrics"
	"imf-reader/internal/middleware"
	"imf-reader/internal/startup"
	"imf-reader/internal/transport"
)

const (
	shutdownTimeout         = 30 * time.Second
	statsCollectionInterval = time.Minute
)

func main() {
	startTime := time.Now()

	logging.SetDefault(logging.New(logging.ConfigFromEnv()))
	log := logging.Default()
	defer func() { _ = log.Sync() }()

	memory.ConfigureFromEnv(log)

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.InitializeMetrics()
	metrics.AppInfo.WithLabelValues(startup.Version, startup.Commit, runtime.Version()).Set(1)
	transport.SetObserver(metrics.NewTransportObserver())

	ctx := context.Background()

	registry := demux.NewRegistry()
	if err := imf.Register(registry, packageOptions(config, log)); err != nil {
		startup.LogFatal("Failed to register demuxer: %v", err)
	}

	pkgStart := time.Now()
	pkg, err := openPackage(ctx, registry, config)
	if err != nil {
		startup.LogFatal("Failed to open package: %v", err)
	}
	startup.LogPackageLoaded(pkg.CPL().ID.String(), pkg.CPL().ContentTitle, len(pkg.Assets()), time.Since(pkgStart))

	var cat *catalog.Catalog
	var collector *metrics.Collector
	if config.CatalogPath != "" {
		catStart := time.Now()
		cat, err = catalog.New(ctx, config.CatalogPath, log)
		if err != nil {
			startup.LogFatal("Failed to initialize catalog: %v", err)
		}
		if err := cat.RecordPackage(ctx, pkg); err != nil {
			log.Error("Failed to record package in catalog: %v", err)
		}
		startup.LogCatalogInit(config.CatalogPath, time.Since(catStart))

		collector = metrics.NewCollector(cat, statsCollectionInterval, log)
		collector.Start()
	}

	h := handlers.New(pkg, cat, config.VerifyWorkers, log)
	router := setupRouter(h, config.MetricsEnabled)
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	handler, err := buildHandler(router, config, log)
	if err != nil {
		startup.LogFatal("Failed to configure middleware: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		handleShutdown(sigChan, srv, pkg, cat, collector)
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}

	// ListenAndServe returns as soon as Shutdown starts; wait for the
	// catalog and package to close.
	<-done
}

func packageOptions(config *startup.Config, log *logging.Logger) imf.Options {
	return imf.Options{
		MaxReadSize: config.MaxReadSize,
		MaxAssets:   config.MaxAssets,
		StrictPaths: config.StrictPaths,
		Transport:   config.TransportOptions(),
		Logger:      log,
	}
}

// openPackage opens the configured CPL through the first demuxer that
// claims its extension.
func openPackage(ctx context.Context, registry *demux.Registry, config *startup.Config) (*imf.Package, error) {
	candidates := registry.ForURL(config.CPLPath)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no demuxer handles %s (registered: %v)", config.CPLPath, registry.Names())
	}

	opts := demux.Options{Format: map[string]string{}}
	if config.AssetMapPath != "" {
		opts.Format[imf.OptAssetMap] = config.AssetMapPath
	}

	session, err := candidates[0].Open(ctx, config.CPLPath, opts)
	if err != nil {
		return nil, err
	}
	pkg, ok := session.(*imf.Package)
	if !ok {
		_ = session.Close()
		return nil, fmt.Errorf("demuxer %s did not return an IMF package", candidates[0].Name())
	}
	return pkg, nil
}

func setupRouter(h *handlers.Handlers, metricsEnabled bool) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// Registered on the root router so a method mismatch answers 405.
	r.HandleFunc("/api/composition", h.GetComposition).Methods("GET")
	r.HandleFunc("/api/assets", h.GetAssets).Methods("GET")
	r.HandleFunc("/api/resolve/{uuid}", h.ResolveAsset).Methods("GET")
	r.HandleFunc("/api/verify", h.VerifyPackage).Methods("GET")

	r.HandleFunc("/api/catalog/packages", h.ListCatalogPackages).Methods("GET")
	r.HandleFunc("/api/catalog/assets/{uuid}", h.FindCatalogAsset).Methods("GET")

	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	return r
}

// buildHandler wraps the router in logging and compression middleware.
func buildHandler(router http.Handler, config *startup.Config, log *logging.Logger) (http.Handler, error) {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	logged := middleware.Logger(loggingConfig, log)(router)

	compress, err := middleware.Compression(middleware.DefaultCompressionConfig())
	if err != nil {
		return nil, err
	}
	return compress(logged), nil
}

// handleShutdown waits for a signal, then stops the server, the collector,
// the catalog and the package in that order.
func handleShutdown(sigChan <-chan os.Signal, srv *http.Server, pkg *imf.Package, cat *catalog.Catalog, collector *metrics.Collector) {
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	if cat != nil {
		startup.LogShutdownStep("Closing catalog")
		if err := cat.Close(); err != nil {
			logging.Warn("Catalog close error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Catalog closed")
		}
	}

	startup.LogShutdownStep("Closing package")
	_ = pkg.Close()
	startup.LogShutdownStepComplete("Package closed")

	startup.LogShutdownComplete()
}
