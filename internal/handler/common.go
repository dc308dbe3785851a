package handler

import (
	"encoding/json"
	"errors"
	"time"

	"go-construction-ledger/internal/apperr"
	"go-construction-ledger/internal/repository"
	"go-construction-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actorFromCtx reads the authenticated actor set by the auth middleware.
func actorFromCtx(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if id, ok := c.Locals("user_id").(string); ok {
		actor.ID = id
	}
	if name, ok := c.Locals("user_name").(string); ok {
		actor.Name = name
	}
	if email, ok := c.Locals("user_email").(string); ok {
		actor.Email = email
	}
	return actor
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// respondError maps the core error taxonomy onto HTTP statuses. Unknown
// errors become an opaque 500; store internals never leak to callers.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *apperr.ValidationError
	var notFoundErr *apperr.NotFoundError
	var inconsistencyErr *apperr.FatalInconsistencyError
	var storeErr *apperr.StoreUnavailableError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(400).JSON(fiber.Map{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		return c.Status(404).JSON(fiber.Map{"error": notFoundErr.Error()})
	case errors.As(err, &inconsistencyErr):
		return c.Status(500).JSON(fiber.Map{"error": inconsistencyErr.Error()})
	case errors.As(err, &storeErr):
		return c.Status(500).JSON(fiber.Map{"error": "persistence failure during " + storeErr.Op})
	default:
		return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
	}
}

// parseDate accepts RFC3339 timestamps or plain business dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// parseDateRange decodes the dateRange query parameter, a JSON object of
// the form {"start": "...", "end": "..."}. Missing or unparseable input
// yields no range rather than an error, matching a permissive query API.
func parseDateRange(raw string) *repository.DateRange {
	if raw == "" {
		return nil
	}

	var payload struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}

	dr := &repository.DateRange{}
	if t, err := parseDate(payload.Start); err == nil {
		dr.Start = &t
	}
	if t, err := parseDate(payload.End); err == nil {
		dr.End = &t
	}
	if dr.Start == nil && dr.End == nil {
		return nil
	}
	return dr
}
