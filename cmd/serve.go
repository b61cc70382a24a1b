package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"bikefit/config"
	httpLayer "bikefit/http"
	"bikefit/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ln, err := net.Listen("tcp", a.cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", a.cfg.Server.Addr, err)
			}
			return runServe(cmd.Context(), a.cfg, a.logger, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

// runServe serves the API on ln until ctx is cancelled, then shuts down
// gracefully.
func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger, ln net.Listener) error {
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		ln.Close()
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close stores", zap.Error(err))
		}
	}()

	calc := service.NewCalculatorService(service.NewFitService(fitOptions(cfg)), st.calculations, st.cache, logger)
	search := service.NewSearchService(st.bikes, cfg.Search.MaxResults, logger)

	handlers := httpLayer.Handlers{
		Calculate: httpLayer.NewCalculateHandler(calc, logger),
		Search:    httpLayer.NewSearchHandler(search, logger),
		Logger:    logger,
	}
	if cfg.RateLimit.Enabled {
		limiter := httpLayer.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Per, cfg.RateLimit.IdleTTL)
		defer limiter.Stop()
		handlers.Limiter = limiter
	}

	server := &http.Server{
		Handler:      httpLayer.NewRouter(handlers),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API listening", zap.String("addr", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	logger.Info("server exited")
	return err
}
