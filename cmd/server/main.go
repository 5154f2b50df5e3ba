package main

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/optisim/matchbook/pkg/api"
	"github.com/optisim/matchbook/pkg/config"
	"github.com/optisim/matchbook/pkg/engine"
	"github.com/optisim/matchbook/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	registry := engine.NewRegistry(log)
	api.Init(registry, log, cfg.DefaultDepth)

	// pprof on its own listener
	if cfg.PprofAddr != "" {
		go func() {
			log.Infow("pprof server starting", "addr", cfg.PprofAddr)
			if err := http.ListenAndServe(cfg.PprofAddr, nil); err != nil {
				log.Warnw("pprof listen error", "err", err)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", api.HealthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	// Orders API
	mux.HandleFunc("/api/v1/orders", api.CreateOrderHandler) // POST
	mux.HandleFunc("/api/v1/orders/", api.OrderByIDHandler)  // GET/DELETE by id
	mux.HandleFunc("/api/v1/orderbook/", api.GetOrderBookHandler)
	mux.HandleFunc("/api/v1/trades/", api.GetTradesHandler)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("listen failed", "err", err)
		}
	}()

	// Graceful shutdown on Ctrl+C
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server shutdown failed", "err", err)
	}
	log.Info("server stopped")
}
