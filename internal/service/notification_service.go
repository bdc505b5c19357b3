package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/cs-pendencias/pendencia-service/internal/events"
	"github.com/cs-pendencias/pendencia-service/internal/integration/whatsapp"
	"github.com/cs-pendencias/pendencia-service/internal/repository"
	apperrors "github.com/cs-pendencias/pendencia-service/pkg/util"
)

// NotificationService pushes WhatsApp messages to technicians when the
// workflow hands them a pendência. Delivery is best effort: failures
// are logged and never surface to the caller.
type NotificationService struct {
	dispatcher events.Dispatcher
	store      repository.Store
	relay      *whatsapp.Client
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, store repository.Store, relay *whatsapp.Client, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		store:      store,
		relay:      relay,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to workflow events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPendenciaDesignada, n.handleDesignada)
	n.dispatcher.Subscribe(events.EventEnviadaParaTestes, n.handleEnviadaTestes)
	n.dispatcher.Subscribe(events.EventPendenciaRejeitada, n.handleRejeitada)
	n.dispatcher.Subscribe(events.EventPendenciaResolvida, n.handleResolvida)
}

// NotificarTecnico sends the WhatsApp message on demand. Unlike the
// event handlers, failures surface to the caller so the detail view can
// show whether the message went out.
func (n *NotificationService) NotificarTecnico(ctx context.Context, pendenciaID int64) error {
	if n.relay == nil || !n.relay.Enabled() {
		return apperrors.NewConflict("notificações via WhatsApp não estão configuradas", nil)
	}

	pend, err := n.store.Pendencias.GetByID(ctx, pendenciaID)
	if err != nil {
		return err
	}
	if pend.Tecnico == "" {
		return apperrors.NewValidationError("pendência sem técnico designado", nil)
	}

	usuario, err := n.store.Usuarios.GetByNome(ctx, pend.Tecnico)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("usuario", map[string]any{"tecnico": pend.Tecnico})
		}
		return err
	}
	if usuario.FoneCelular == nil || *usuario.FoneCelular == "" {
		return apperrors.NewValidationError("técnico sem telefone cadastrado", map[string]any{"tecnico": pend.Tecnico})
	}

	return n.relay.Send(ctx, *usuario.FoneCelular, BuildNotificacao(pend, "Pendência atribuída a você:"))
}

func (n *NotificationService) handleDesignada(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PendenciaDesignadaPayload)
	if !ok {
		return nil
	}
	return n.notifyTecnico(ctx, event, payload.TecnicoTriagem, "Nova pendência designada para você:")
}

func (n *NotificationService) handleEnviadaTestes(ctx context.Context, event events.Event) error {
	pend, err := n.store.Pendencias.GetByID(ctx, event.PendenciaID)
	if err != nil {
		return err
	}
	return n.notifyTecnico(ctx, event, pend.Tecnico, "Pendência enviada para teste com você:")
}

func (n *NotificationService) handleRejeitada(ctx context.Context, event events.Event) error {
	return n.notifyRelator(ctx, event, "Pendência rejeitada:")
}

func (n *NotificationService) handleResolvida(ctx context.Context, event events.Event) error {
	return n.notifyRelator(ctx, event, "Pendência resolvida:")
}

// notifyRelator tells whoever reported the pendência that it closed.
func (n *NotificationService) notifyRelator(ctx context.Context, event events.Event, titulo string) error {
	triagem, err := n.store.Triagens.GetByPendencia(ctx, event.PendenciaID)
	if err != nil || triagem == nil || triagem.TecnicoRelato == nil {
		return err
	}
	return n.notifyTecnico(ctx, event, *triagem.TecnicoRelato, titulo)
}

func (n *NotificationService) notifyTecnico(ctx context.Context, event events.Event, tecnico, titulo string) error {
	if n.relay == nil || !n.relay.Enabled() || tecnico == "" {
		return nil
	}

	usuario, err := n.store.Usuarios.GetByNome(ctx, tecnico)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			n.logger.Debug("tecnico without account, skipping notification", zap.String("tecnico", tecnico))
			return nil
		}
		return err
	}
	if usuario.FoneCelular == nil || *usuario.FoneCelular == "" {
		n.logger.Debug("tecnico without phone, skipping notification", zap.String("tecnico", tecnico))
		return nil
	}

	pend, err := n.store.Pendencias.GetByID(ctx, event.PendenciaID)
	if err != nil {
		return err
	}

	if err := n.relay.Send(ctx, *usuario.FoneCelular, BuildNotificacao(pend, titulo)); err != nil {
		n.logger.Warn("whatsapp notification failed",
			zap.Int64("pendencia_id", event.PendenciaID),
			zap.String("tecnico", tecnico),
			zap.Error(err))
	}
	return nil
}
