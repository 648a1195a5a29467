package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"clinic/internal/audit"
	auditmemory "clinic/internal/audit/store/memory"
	"clinic/internal/clinic/handler"
	clinicmetrics "clinic/internal/clinic/metrics"
	"clinic/internal/clinic/models"
	"clinic/internal/clinic/service"
	appointmentstore "clinic/internal/clinic/store/appointment"
	doctorstore "clinic/internal/clinic/store/doctor"
	patientstore "clinic/internal/clinic/store/patient"
	recordstore "clinic/internal/clinic/store/record"
	"clinic/internal/platform/config"
	"clinic/internal/platform/httpserver"
	"clinic/internal/platform/logger"
	"clinic/internal/platform/metrics"
	"clinic/internal/platform/middleware"
	"clinic/internal/platform/tracing"
	"clinic/pkg/platform/httputil"
	"clinic/pkg/platform/middleware/metadata"
	"clinic/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies and owns the server lifecycle. Business
// logic lives in the internal/clinic packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "clinic: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}

	auditStore := auditmemory.NewInMemoryStore()
	auditPublisher, inbox := audit.NewQueuePublisher(auditStore, cfg.Clinic.AuditBuffer, log)
	auditWorker := audit.NewWorker(auditStore, inbox, log)

	registry := service.New(service.Stores{
		Patients:     patientstore.NewInMemoryStore(),
		Doctors:      doctorstore.NewInMemoryStore(),
		Appointments: appointmentstore.NewInMemoryStore(),
		Records:      recordstore.NewInMemoryStore(),
	},
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(clinicmetrics.New(prometheus.DefaultRegisterer)),
		service.WithTx(service.NewInMemoryTx(cfg.Clinic.TxTimeout)),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics(metrics.New(prometheus.DefaultRegisterer)))
	r.Use(chimw.Timeout(cfg.Server.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		handler.New(registry, auditPublisher, log, models.ParseLanguage(cfg.Clinic.DisplayLang), cfg.Clinic.Location).Register(r)
	})

	srv := httpserver.New(cfg.Server.Addr, r)

	// The worker outlives the server so events emitted by in-flight requests
	// during srv.Shutdown are still persisted.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting clinic registry", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := auditWorker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		stopWorker()
		if err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return tp.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("clinic registry stopped", zap.Error(err))
		return err
	}
	log.Info("clinic registry stopped")
	return nil
}
