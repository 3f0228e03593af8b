package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/config"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/events"
)

const deliveryTimeout = 5 * time.Second

// WebhookPool delivers events to a single webhook URL from a bounded queue.
// Delivery is best effort: failures are logged and never retried.
type WebhookPool struct {
	url     string
	workers int
	queue   chan events.Event
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewWebhookPool sizes the pool from cfg. It returns nil when no URL is configured.
func NewWebhookPool(cfg config.NotificationConfig, logger *zap.Logger) *WebhookPool {
	if cfg.WebhookURL == "" {
		return nil
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 1
	}
	return &WebhookPool{
		url:     cfg.WebhookURL,
		workers: workers,
		queue:   make(chan events.Event, size),
		logger:  logger,
	}
}

// Start launches the workers.
func (p *WebhookPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	p.logger.Info("webhook workers started", zap.Int("workers", p.workers), zap.Int("queue_size", cap(p.queue)))
}

// Enqueue schedules delivery without blocking. It reports false when the
// event was dropped because the queue is full or the pool is stopped.
func (p *WebhookPool) Enqueue(event events.Event) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.queue <- event:
		return true
	default:
		p.logger.Warn("webhook queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("report_id", event.ReportID))
		return false
	}
}

// Stop closes the queue and waits for queued deliveries to finish.
func (p *WebhookPool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *WebhookPool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for event := range p.queue {
		if err := p.deliver(ctx, event); err != nil {
			p.logger.Warn("webhook delivery failed",
				zap.Int("worker", id),
				zap.String("event_type", string(event.Type)),
				zap.String("report_id", event.ReportID),
				zap.Error(err))
		}
	}
}

func (p *WebhookPool) deliver(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	agent := fiber.Post(p.url).
		JSONEncoder(jsoniter.ConfigCompatibleWithStandardLibrary.Marshal).
		Timeout(deliveryTimeout).
		Set("X-Event-Type", string(event.Type))
	agent.JSON(event)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if status >= fiber.StatusBadRequest {
		return fmt.Errorf("webhook responded %d: %s", status, truncate(body, 200))
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
