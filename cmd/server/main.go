package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"namecraft/backend/internal/ai"
	"namecraft/backend/internal/api"
	"namecraft/backend/internal/config"
	"namecraft/backend/internal/metrics"
	"namecraft/backend/internal/naming"
	"namecraft/backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := config.ConfigureLogging(cfg); err != nil {
		logrus.Fatalf("configure logging: %v", err)
	}

	client, err := ai.NewClient(cfg.AI())
	if err != nil {
		logrus.Fatalf("ai client: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.New(registry)
	if err != nil {
		logrus.Fatalf("metrics: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	history, err := store.Connect(ctx, cfg.Store())
	if err != nil {
		logrus.Fatalf("open history store: %v", err)
	}
	defer func() {
		if cerr := history.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("close history store")
		}
	}()

	generator := naming.NewGenerator(client, naming.Options{Observer: recorder})

	server, err := api.NewServer(api.Config{
		Generator:      generator,
		Store:          history,
		Observer:       recorder,
		Gatherer:       registry,
		AllowedOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":  cfg.Addr(),
			"model": client.Model(),
			"mongo": cfg.MongoURL != "",
		}).Info("starting namecraft backend")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("server exited: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("forced shutdown")
	}
}
