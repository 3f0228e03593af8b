package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/events"
)

// WebhookQueue accepts events for asynchronous delivery.
type WebhookQueue interface {
	Enqueue(event events.Event) bool
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	webhooks   WebhookQueue
}

// NewNotificationService creates the service. webhooks may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, webhooks WebhookQueue) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		webhooks:   webhooks,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventReportCreated, n.handleReportCreated)
	n.dispatcher.Subscribe(events.EventReportUpdated, n.handleReportUpdated)
	n.dispatcher.Subscribe(events.EventReportCompleted, n.handleReportCompleted)
}

func (n *NotificationService) handleReportCreated(_ context.Context, event events.Event) error {
	n.logger.Info("ReportCreated", zap.String("report_id", event.ReportID), zap.Any("payload", event.Payload))
	n.sendWebhook(event)
	return nil
}

func (n *NotificationService) handleReportUpdated(_ context.Context, event events.Event) error {
	n.logger.Info("ReportUpdated",
		zap.String("report_id", event.ReportID),
		zap.String("actor_uid", event.ActorUID),
		zap.Any("payload", event.Payload))
	n.sendWebhook(event)
	return nil
}

func (n *NotificationService) handleReportCompleted(_ context.Context, event events.Event) error {
	n.logger.Info("ReportCompleted", zap.String("report_id", event.ReportID), zap.Any("payload", event.Payload))
	n.sendWebhook(event)
	return nil
}

func (n *NotificationService) sendWebhook(event events.Event) {
	if n.webhooks == nil {
		return
	}
	if !n.webhooks.Enqueue(event) {
		n.logger.Debug("webhook not queued",
			zap.String("report_id", event.ReportID),
			zap.String("event_type", string(event.Type)))
	}
}
