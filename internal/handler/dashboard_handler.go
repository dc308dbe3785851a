package handler

import (
	"go-construction-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	report, err := h.service.BuildReport(parseDateRange(c.Query("dateRange")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
