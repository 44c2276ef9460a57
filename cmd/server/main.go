package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hdr-bracket-sync/internal/bracket"
	"hdr-bracket-sync/internal/camera"
	"hdr-bracket-sync/internal/platform/config"
	"hdr-bracket-sync/internal/platform/logger"
	"hdr-bracket-sync/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

const (
	shutdownTimeout = 10 * time.Second
	metricsPath     = "/metrics"
)

func main() {
	_ = config.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	var syncOpts []bracket.Option
	if cfg.LenientLookup {
		syncOpts = append(syncOpts, bracket.WithLenientLookup())
	}
	repo := camera.NewInMemoryRepository(log, syncOpts...)
	svc := camera.NewService(repo, cfg.SwitchRetries)
	met := metrics.New()
	h := camera.NewHandler(svc, log, met)

	if cfg.PresetsFile != "" {
		if err := applyPresets(svc, log, cfg.PresetsFile); err != nil {
			log.Error("presets", "path", cfg.PresetsFile, "error", err)
			os.Exit(1)
		}
	}

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met, metricsPath))
	r.Get(metricsPath, func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() { met.SetConfiguredCameras(repo.ConfiguredCount()) }).ServeHTTP(w, r)
	})
	h.Routes(r)

	addr := ":" + cfg.Port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", cfg.Port,
		"lenient_lookup", cfg.LenientLookup,
		"switch_retries", cfg.SwitchRetries,
		"log_level", cfg.LogLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// applyPresets configures every camera listed in the presets file.
func applyPresets(svc *camera.Service, log *slog.Logger, path string) error {
	presets, err := config.LoadPresets(path)
	if err != nil {
		return err
	}
	for _, p := range presets {
		res, err := svc.Configure(camera.CameraID(p.Camera), camera.ConfigureRequest{
			HDRSequence:  p.HDRSequence,
			HDRSequence2: p.HDRSequence2,
		})
		if err != nil {
			return err
		}
		log.Info("preset applied",
			"camera_id", p.Camera,
			"hdr_sequence", res.AdjustedHDRSequence,
			"hdr_sequence2", res.AdjustedHDRSequence2,
		)
	}
	return nil
}
