package worker

import (
	"context"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/service"
)

// StartNotificationWorker registers notification handlers and starts the
// webhook pool when one is configured.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, pool *WebhookPool) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if pool != nil {
		pool.Start(ctx)
	}
}
