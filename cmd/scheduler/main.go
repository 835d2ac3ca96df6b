package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-engine/internal/config"
	"github.com/segyhp/loan-engine/internal/repository"
	"github.com/segyhp/loan-engine/internal/service"
	"github.com/segyhp/loan-engine/pkg/logger"
)

const purgeTimeout = 5 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log := logger.New(cfg.Logging)
	log.Info("starting calculation scheduler")

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer db.Close()

	// The purge job never reads the cache
	calculatorService := service.NewCalculatorService(repository.NewCalculationRepository(db), nil, cfg, log)

	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(cfg.GetSchedulerLocation()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	if err := setupCronJobs(c, cfg, calculatorService, log); err != nil {
		log.WithError(err).Fatal("failed to schedule jobs")
	}

	c.Start()
	log.Info("scheduler started")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down scheduler")
	// Wait for a running purge to finish
	<-c.Stop().Done()
	log.Info("scheduler stopped")
}

type purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, svc purger, log *logrus.Logger) error {
	_, err := c.AddFunc(cfg.Scheduler.PurgeSpec, func() {
		purgeExpiredCalculations(svc, log)
	})
	if err != nil {
		return err
	}

	log.WithField("spec", cfg.Scheduler.PurgeSpec).Info("purge job scheduled")
	return nil
}

func purgeExpiredCalculations(svc purger, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	deleted, err := svc.PurgeExpired(ctx)
	if err != nil {
		log.WithError(err).Error("purge of expired calculations failed")
		return
	}
	log.WithField("deleted", deleted).Debug("purge job finished")
}
