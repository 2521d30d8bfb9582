package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/events"
)

// NotificationService logs dashboard events. Outbound delivery is stubbed.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketsLoaded, n.handleTicketsLoaded)
	n.dispatcher.Subscribe(events.EventTicketResolveRequested, n.handlePlaceholderAction)
	n.dispatcher.Subscribe(events.EventTicketNoteRequested, n.handlePlaceholderAction)
}

func (n *NotificationService) handleTicketsLoaded(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketsLoaded", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePlaceholderAction(ctx context.Context, event events.Event) error {
	n.logger.Info("PlaceholderAction",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", string(event.TicketID)),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", string(event.TicketID)),
		zap.String("event_type", string(event.Type)))
}
