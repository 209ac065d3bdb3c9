package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/smashden/smashden/internal/adapters/http/api"
	"github.com/smashden/smashden/internal/adapters/http/live"
	"github.com/smashden/smashden/internal/adapters/http/site"
	"github.com/smashden/smashden/internal/adapters/http/swagger"
	"github.com/smashden/smashden/internal/adapters/media"
	"github.com/smashden/smashden/internal/adapters/repository"
	app "github.com/smashden/smashden/internal/app"
	"github.com/smashden/smashden/internal/config"
	"github.com/smashden/smashden/pkg/logger"
	"github.com/smashden/smashden/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second

	rosterDirPerm = 0o755
)

func main() {
	// The hub's metrics live on a dedicated registry; put the runtime
	// collectors on it too so /healthz serves everything in one place.
	metrics.GetRegistry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// The roster's directory must exist before the first save; the file
	// itself may not, a fresh hub starts with an empty ladder.
	if err := os.MkdirAll(filepath.Dir(cfg.RosterPath), rosterDirPerm); err != nil {
		os.Stderr.WriteString("failed to create roster directory: " + err.Error() + "\n")
		return
	}

	// Roster storage, the video gallery, and the live roster fan-out.
	store := repository.NewCSVStore(cfg.RosterPath)
	library := media.NewLibrary(cfg.MediaDir)
	if _, err := os.Stat(cfg.MediaDir); err != nil {
		loggerInstance.Warn(ctx, "media directory not found; gallery starts empty", logger.String("media_dir", cfg.MediaDir))
	}
	hub := live.NewHub()
	go hub.Run(ctx)

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithStore(store),
		app.WithMediaLibrary(library),
		app.WithBroadcaster(hub),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithInitialRating(cfg.InitialRating),
		app.WithSeason(cfg.Season),
		app.WithMaxRosterLimit(cfg.MaxRosterLimit),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register the embedded front end and the API reference.
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	// Gallery files and the live roster socket.
	mux.Handle("/media/", library.Handler("/media/"))
	mux.HandleFunc("/live", hub.ServeWS)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	if err := apiServer.Register(ctx, mux); err != nil {
		os.Stderr.WriteString("failed to register API routes: " + err.Error() + "\n")
		return
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// startServiceMetricsUpdater starts a background goroutine that refreshes
// service gauges between mutations.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval) // Update every 5 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	// Get current stats from the service
	stats := svc.GetStats()

	// The GetStats method already refreshes the roster gauge, but we can
	// also update additional metrics here if needed
	if players, ok := stats["players"].(int); ok {
		metrics.UpdateRosterSize(players)
	}
}
