package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/reactssr"
	"github.com/3-lines-studio/reactssr/internal/config"
	"github.com/3-lines-studio/reactssr/internal/logging"
)

func serveCmd(configPath *string) *cobra.Command {
	var (
		addr       string
		reactPages []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pages over HTTP",
		Long: `Serve the built-in pages plus any React component files given with --page.

Component files are rendered by a Bun process, which requires
runtime.enabled in the config.

Examples:
  reactssr serve
  reactssr serve --addr :3000 --page /blog=./pages/blog.tsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return runServe(cmd.Context(), cfg, reactPages)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")
	cmd.Flags().StringArrayVarP(&reactPages, "page", "p", nil, "React page as pattern=component path, repeatable")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, reactPages []string) error {
	log := logging.New(cfg.LogLevel, cfg.Dev)

	handler, app, err := newServer(cfg, log, reactPages)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(); err != nil {
			log.Warn().Err(err).Msg("failed to stop renderer")
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Bool("dev", cfg.Dev).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newServer(cfg *config.Config, log zerolog.Logger, reactPages []string) (http.Handler, *reactssr.App, error) {
	routes := demoRoutes()
	for _, p := range reactPages {
		pattern, path, ok := strings.Cut(p, "=")
		if !ok || pattern == "" || path == "" {
			return nil, nil, fmt.Errorf("invalid --page %q, want pattern=path", p)
		}
		if !cfg.Runtime.Enabled {
			return nil, nil, fmt.Errorf("--page %s needs runtime.enabled", pattern)
		}
		routes = append(routes, reactssr.ReactPage(pattern, path))
	}

	opts := []reactssr.Option{
		reactssr.WithDev(cfg.Dev),
		reactssr.WithLogger(log),
		reactssr.WithStrategy(cfg.StyleStrategy()),
		reactssr.WithAssetPrefix(cfg.AssetPrefix),
		reactssr.WithCache(cfg.CacheTTL),
		reactssr.WithBun(cfg.Runtime.Bun),
	}
	if info, err := os.Stat(cfg.AssetsDir); err == nil && info.IsDir() {
		opts = append(opts, reactssr.WithAssets(os.DirFS(cfg.AssetsDir)))
		if cfg.Manifest != "" {
			opts = append(opts, reactssr.WithManifest(cfg.Manifest))
		}
	} else if cfg.Manifest != "" {
		return nil, nil, fmt.Errorf("manifest %s: assets dir %s not found", cfg.Manifest, cfg.AssetsDir)
	}

	app, err := reactssr.New(routes, opts...)
	if err != nil {
		return nil, nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return app.Wrap(r), app, nil
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			log.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
