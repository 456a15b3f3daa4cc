package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/config"
	"github.com/spec-kit/support-agent/internal/events"
)

const defaultWebhookTimeout = 5 * time.Second

// NotificationService forwards suggestion events to reviewers.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.ReviewConfig
	timeout    time.Duration
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.ReviewConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		timeout:    defaultWebhookTimeout,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSuggestionCreated, n.handleSuggestionCreated)
	n.dispatcher.Subscribe(events.EventSuggestionFlagged, n.handleSuggestionFlagged)
}

func (n *NotificationService) handleSuggestionCreated(_ context.Context, event events.Event) error {
	n.logger.Debug("SuggestionCreated", zap.String("suggestion_id", event.SuggestionID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleSuggestionFlagged(ctx context.Context, event events.Event) error {
	n.logger.Info("SuggestionFlagged", zap.String("suggestion_id", event.SuggestionID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := n.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(url).JSON(event)
	agent.Timeout(timeout)
	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("review webhook: %w", errors.Join(errs...))
	}
	if status >= http.StatusBadRequest {
		return fmt.Errorf("review webhook: unexpected status %d", status)
	}
	n.logger.Debug("review webhook delivered",
		zap.String("suggestion_id", event.SuggestionID),
		zap.Int("status", status))
	return nil
}
