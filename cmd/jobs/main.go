package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm/internal/envutil"
	"crm/internal/jobs"
	"crm/internal/logger"
)

func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	cfg := jobs.DefaultConfig()
	cfg.BaseURL = envutil.String("CRM_API_URL", cfg.BaseURL)
	cfg.HeartbeatLogPath = envutil.String("HEARTBEAT_LOG", cfg.HeartbeatLogPath)
	cfg.RestockLogPath = envutil.String("RESTOCK_LOG", cfg.RestockLogPath)
	cfg.ReminderLogPath = envutil.String("REMINDER_LOG", cfg.ReminderLogPath)
	cfg.ReportLogPath = envutil.String("REPORT_LOG", cfg.ReportLogPath)
	cfg.RestockThreshold = envutil.Int64("RESTOCK_THRESHOLD", cfg.RestockThreshold)
	cfg.RestockIncrement = envutil.Int64("RESTOCK_INCREMENT", cfg.RestockIncrement)
	cfg.ReminderWindow = time.Duration(envutil.Int("REMINDER_WINDOW_DAYS", 7)) * 24 * time.Hour

	sched, err := jobs.NewScheduler(cfg, jobs.NewClient(cfg.BaseURL), log)
	if err != nil {
		log.Fatal("scheduler init failed", "error", err)
	}
	sched.Start()
	log.Info("job scheduler running", "api", cfg.BaseURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sched.Stop(ctx)
}
