package worker

import (
	"github.com/cs-pendencias/pendencia-service/internal/service"
)

// StartNotificationWorker hooks the WhatsApp notifier into the event
// dispatcher.
func StartNotificationWorker(notifications *service.NotificationService) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
}
