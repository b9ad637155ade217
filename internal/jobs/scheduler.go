package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"crm/internal/logger"
)

// Schedules mirror the cron setup of the deployment: frequent heartbeat,
// twice-daily restock, daily reminders, weekly report.
const (
	heartbeatSpec = "*/5 * * * *"
	restockSpec   = "0 */12 * * *"
	remindersSpec = "0 8 * * *"
	reportSpec    = "0 6 * * 1"
)

type job interface {
	Run(ctx context.Context) error
}

// Scheduler owns the cron entries for all background jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

func NewScheduler(cfg Config, client *Client, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(),
		log:  log.With("component", "Scheduler"),
	}

	entries := []struct {
		name string
		spec string
		job  job
	}{
		{"heartbeat", heartbeatSpec, NewHeartbeat(client, NewSink(cfg.HeartbeatLogPath), log)},
		{"low_stock_restock", restockSpec, NewRestock(client, NewSink(cfg.RestockLogPath), log, cfg.RestockThreshold, cfg.RestockIncrement)},
		{"order_reminders", remindersSpec, NewReminders(client, NewSink(cfg.ReminderLogPath), log, cfg.ReminderWindow)},
		{"crm_report", reportSpec, NewReport(client, NewSink(cfg.ReportLogPath), log)},
	}
	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.spec, s.wrap(e.name, e.job)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) wrap(name string, j job) func() {
	return func() {
		runID := uuid.NewString()
		start := time.Now()
		log := s.log.With("job", name, "run_id", runID)
		log.Info("job started")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := j.Run(ctx); err != nil {
			log.Error("job failed", "error", err, "duration", time.Since(start))
			return
		}
		log.Info("job finished", "duration", time.Since(start))
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop waits for running entries to finish or the context to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}
