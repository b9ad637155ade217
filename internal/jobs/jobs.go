package jobs

import (
	"context"
	"fmt"
	"time"

	"crm/internal/logger"
)

// Config carries every path and knob the jobs need; nothing is read from
// globals at run time.
type Config struct {
	BaseURL          string
	HeartbeatLogPath string
	RestockLogPath   string
	ReminderLogPath  string
	ReportLogPath    string
	RestockThreshold int64
	RestockIncrement int64
	ReminderWindow   time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:          "http://localhost:9091",
		HeartbeatLogPath: "/tmp/crm_heartbeat_log.txt",
		RestockLogPath:   "/tmp/low_stock_updates_log.txt",
		ReminderLogPath:  "/tmp/order_reminders_log.txt",
		ReportLogPath:    "/tmp/crm_report_log.txt",
		RestockThreshold: 10,
		RestockIncrement: 10,
		ReminderWindow:   7 * 24 * time.Hour,
	}
}

// Heartbeat appends an alive line and pings the API health endpoint.
type Heartbeat struct {
	client *Client
	sink   *Sink
	log    *logger.Logger
}

func NewHeartbeat(client *Client, sink *Sink, log *logger.Logger) *Heartbeat {
	return &Heartbeat{client: client, sink: sink, log: log.With("job", "heartbeat")}
}

func (h *Heartbeat) Run(ctx context.Context) error {
	ts := time.Now().Format("02/01/2006-15:04:05")
	if err := h.sink.Append(ts + " CRM is alive"); err != nil {
		return err
	}
	if err := h.client.Health(ctx); err != nil {
		h.log.Warn("health endpoint unreachable", "error", err)
	}
	return nil
}

// Restock triggers the low-stock restock mutation and logs each update.
type Restock struct {
	client    *Client
	sink      *Sink
	log       *logger.Logger
	threshold int64
	increment int64
}

func NewRestock(client *Client, sink *Sink, log *logger.Logger, threshold, increment int64) *Restock {
	return &Restock{
		client:    client,
		sink:      sink,
		log:       log.With("job", "low_stock_restock"),
		threshold: threshold,
		increment: increment,
	}
}

func (r *Restock) Run(ctx context.Context) error {
	ts := time.Now().Format("02/01/2006-15:04:05")
	updated, err := r.client.RestockLowStock(ctx, r.threshold, r.increment)
	if err != nil {
		// failures are recorded in the same file the successes go to
		if werr := r.sink.Append(fmt.Sprintf("%s - Failed to update low-stock products: %v", ts, err)); werr != nil {
			return werr
		}
		return err
	}
	for _, p := range updated {
		line := fmt.Sprintf("%s - Product: %s, New Stock: %d", ts, p.Name, p.Stock)
		if err := r.sink.Append(line); err != nil {
			return err
		}
	}
	r.log.Info("restock run finished", "updated", len(updated))
	return nil
}

// Reminders logs recent orders so follow-up mail can be sent.
type Reminders struct {
	client *Client
	sink   *Sink
	log    *logger.Logger
	window time.Duration
}

func NewReminders(client *Client, sink *Sink, log *logger.Logger, window time.Duration) *Reminders {
	return &Reminders{client: client, sink: sink, log: log.With("job", "order_reminders"), window: window}
}

func (r *Reminders) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-r.window)
	orders, err := r.client.OrdersSince(ctx, cutoff)
	if err != nil {
		return err
	}
	now := time.Now().Format("2006-01-02 15:04:05")
	for _, o := range orders {
		email := ""
		if o.Customer != nil {
			email = o.Customer.Email
		}
		line := fmt.Sprintf("%s - OrderID: %d - Email: %s", now, o.ID, email)
		if err := r.sink.Append(line); err != nil {
			return err
		}
	}
	r.log.Info("order reminders processed", "orders", len(orders))
	return nil
}

// Report logs the CRM totals snapshot.
type Report struct {
	client *Client
	sink   *Sink
	log    *logger.Logger
}

func NewReport(client *Client, sink *Sink, log *logger.Logger) *Report {
	return &Report{client: client, sink: sink, log: log.With("job", "crm_report")}
}

func (r *Report) Run(ctx context.Context) error {
	stats, err := r.client.Stats(ctx)
	if err != nil {
		return err
	}
	ts := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("%s - Report: %d customers, %d orders, %s revenue",
		ts, stats.TotalCustomers, stats.TotalOrders, stats.TotalRevenue.String())
	if err := r.sink.Append(line); err != nil {
		return err
	}
	r.log.Info("report generated and logged")
	return nil
}
