package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cs-pendencias/pendencia-service/internal/service"
)

// NotificationsHandler triggers on-demand WhatsApp messages.
type NotificationsHandler struct {
	service *service.NotificationService
}

func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// Notificar POST /pendencias/:id/notificar resends the assignment
// message to the pendência's técnico.
func (h *NotificationsHandler) Notificar(c *fiber.Ctx) error {
	id, err := parsePendenciaID(c)
	if err != nil {
		return err
	}
	if err := h.service.NotificarTecnico(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"enviado": true}})
}
