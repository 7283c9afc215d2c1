package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/govql/auth"
	"github.com/jonwraymond/govql/config"
	"github.com/jonwraymond/govql/gov"
	"github.com/jonwraymond/govql/health"
	"github.com/jonwraymond/govql/mcp"
	"github.com/jonwraymond/govql/observe"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve governance tools over MCP (stdio by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if httpAddr != "" {
				cfg.Serve.HTTP = httpAddr
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "govql.yaml", "path to the config file")
	cmd.Flags().StringVar(&httpAddr, "http", "", "serve JSON-RPC over HTTP on this address instead of stdio")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs, err := buildObserver(ctx, cfg)
	if err != nil {
		return fmt.Errorf("telemetry setup: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	logger := obs.Logger()

	var metrics observe.Metrics
	if cfg.Observe.MetricsExporter != "" && cfg.Observe.MetricsExporter != "none" {
		metrics, err = observe.NewMetrics(obs.Meter())
		if err != nil {
			return fmt.Errorf("metrics setup: %w", err)
		}
	}

	qc, err := buildClient(cfg, metrics)
	if err != nil {
		return err
	}

	srv := mcp.New(gov.NewService(qc), qc, mcp.Config{
		Name:    "govql",
		Version: version,
		Logger:  logger,
		Metrics: metrics,
	})

	if cfg.Serve.HTTP == "" {
		logger.Info(ctx, "serving over stdio")
		return srv.Run(ctx, os.Stdin, os.Stdout)
	}
	return serveHTTP(ctx, cfg, srv, qc, logger)
}

// serveHTTP exposes the JSON-RPC dispatch on POST /rpc plus health
// endpoints, with optional inbound auth per config.
func serveHTTP(ctx context.Context, cfg *config.Config, srv *mcp.Server, qc health.Querier, logger observe.Logger) error {
	rpc := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req mcp.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		resp := srv.Dispatch(r.Context(), &req)
		w.Header().Set("Content-Type", "application/json")
		if resp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	var rpcHandler http.Handler = rpc
	switch cfg.Serve.Auth.Mode {
	case "bearer":
		rpcHandler = auth.Middleware(auth.NewBearerVerifier(cfg.Serve.Auth.Token), rpc)
	case "jwt":
		verifier := auth.NewJWTVerifier(auth.JWTVerifierConfig{
			Issuer:   cfg.Serve.Auth.Issuer,
			Audience: cfg.Serve.Auth.Audience,
		}, []byte(cfg.Serve.Auth.JWTSecret))
		rpcHandler = auth.Middleware(verifier, rpc)
	}

	mux := http.NewServeMux()
	mux.Handle("/rpc", rpcHandler)
	mux.HandleFunc("/healthz", health.LivenessHandler())
	mux.HandleFunc("/readyz", health.ReadinessHandler(health.NewUpstreamChecker(qc)))

	httpSrv := &http.Server{
		Addr:              cfg.Serve.HTTP,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(ctx, "serving over http", observe.F("addr", cfg.Serve.HTTP))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if err == context.Canceled {
		return nil
	}
	return err
}
