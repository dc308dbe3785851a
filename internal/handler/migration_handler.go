package handler

import (
	"go-construction-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MigrationHandler struct {
	service service.MigrationService
}

func NewMigrationHandler(s service.MigrationService) *MigrationHandler {
	return &MigrationHandler{service: s}
}

func (h *MigrationHandler) Status(c *fiber.Ctx) error {
	status, err := h.service.Status()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

func (h *MigrationHandler) Run(c *fiber.Ctx) error {
	result, err := h.service.Run()
	if err != nil {
		return respondError(c, err)
	}

	if result.AlreadyComplete {
		return c.JSON(fiber.Map{"message": "Migration already completed", "counts": result.Counts})
	}
	return c.JSON(fiber.Map{
		"message": "Migration completed successfully",
		"results": result.Results,
		"counts":  result.Counts,
	})
}

func (h *MigrationHandler) Revert(c *fiber.Ctx) error {
	result, err := h.service.Revert()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Migration reverted", "modifiedCount": result.ModifiedCount})
}

func (h *MigrationHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"stats": stats})
}
