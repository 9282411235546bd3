package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lineflow-mfg/lineflow-backend/api/controllers"
	"github.com/lineflow-mfg/lineflow-backend/api/routes"
	"github.com/lineflow-mfg/lineflow-backend/internal/capacity"
	"github.com/lineflow-mfg/lineflow-backend/internal/lines"
	"github.com/lineflow-mfg/lineflow-backend/internal/scheduling"
	"github.com/lineflow-mfg/lineflow-backend/internal/workorders"
	"github.com/lineflow-mfg/lineflow-backend/pkg/clock"
	"github.com/lineflow-mfg/lineflow-backend/pkg/config"
	"github.com/lineflow-mfg/lineflow-backend/pkg/db"
	"github.com/lineflow-mfg/lineflow-backend/pkg/logger"
	"github.com/lineflow-mfg/lineflow-backend/pkg/metrics"
	"github.com/lineflow-mfg/lineflow-backend/pkg/migrate"
	"github.com/lineflow-mfg/lineflow-backend/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logg := logger.New("lineflow-api", cfg.App.Env, cfg.App.LogLevel)

	loc, err := time.LoadLocation(cfg.Scheduling.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", cfg.Scheduling.Timezone, err)
	}
	clk := clock.NewReal(loc)

	dbClient, err := db.New(cfg.DB)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	ctx := context.Background()
	if err := migrate.AutoRun(ctx, cfg.DB, dbClient, logg); err != nil {
		return err
	}

	redisClient := redis.New(cfg.Redis)
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedMetrics := metrics.NewScheduler(registry)

	lineRepo := lines.NewRepository(dbClient)
	orderRepo := workorders.NewRepository(dbClient)
	capacityRepo := capacity.NewRepository(dbClient)

	lineSvc, err := lines.NewService(lines.ServiceParams{Logg: logg, Repo: lineRepo})
	if err != nil {
		return err
	}
	orderSvc, err := workorders.NewService(workorders.ServiceParams{
		Logg:         logg,
		Repo:         orderRepo,
		Lines:        lineRepo,
		Clock:        clk,
		TrolleyLimit: cfg.Scheduling.TrolleyLimit,
	})
	if err != nil {
		return err
	}
	capacitySvc, err := capacity.NewService(capacity.ServiceParams{
		Logg:   logg,
		Repo:   capacityRepo,
		Lines:  lineRepo,
		Queues: orderRepo,
		Clock:  clk,
	})
	if err != nil {
		return err
	}
	schedSvc, err := scheduling.NewService(scheduling.ServiceParams{
		Logg:    logg,
		Lines:   lineRepo,
		Orders:  orderRepo,
		Lock:    scheduling.NewRunLock(redisClient, cfg.Scheduling.RunLockTTL),
		Metrics: schedMetrics,
		Clock:   clk,
		Cfg:     cfg.Scheduling,
	})
	if err != nil {
		return err
	}

	handler := routes.New(logg, cfg.App.CORSOrigins, registry, routes.Controllers{
		Health: controllers.NewHealthController(map[string]controllers.Pinger{
			"postgres": dbClient,
			"redis":    redisClient,
		}),
		Scheduling: controllers.NewSchedulingController(schedSvc),
		Lines:      controllers.NewLinesController(lineSvc),
		WorkOrders: controllers.NewWorkOrdersController(orderSvc),
		Capacity:   controllers.NewCapacityController(capacitySvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info().Int("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logg.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
