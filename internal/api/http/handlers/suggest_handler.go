package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-agent/internal/api/dto"
	"github.com/spec-kit/support-agent/internal/service"
	apperrors "github.com/spec-kit/support-agent/pkg/util/errorutil"
)

// Suggester produces reply suggestions.
type Suggester interface {
	Suggest(ctx context.Context, in service.SuggestInput) (*service.Suggestion, error)
}

// SuggestHandler serves POST /suggest.
type SuggestHandler struct {
	service Suggester
}

// NewSuggestHandler constructs handler.
func NewSuggestHandler(svc Suggester) *SuggestHandler {
	return &SuggestHandler{service: svc}
}

// Suggest POST /suggest.
func (h *SuggestHandler) Suggest(c *fiber.Ctx) error {
	var req dto.SuggestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Ticket == nil || req.Ticket.Body == nil {
		return apperrors.NewValidationError("ticket.body required", map[string]any{"field": "ticket.body"})
	}

	suggestion, err := h.service.Suggest(c.UserContext(), req.ToInput())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return apperrors.NewDependencyUnavailable("request timed out", err)
		}
		return err
	}
	return c.JSON(dto.SuggestResponseFrom(suggestion))
}
