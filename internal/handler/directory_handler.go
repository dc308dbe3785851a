package handler

import (
	"errors"

	"go-construction-ledger/internal/model"
	"go-construction-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

// BankHandler exposes the bank directory CRUD.
type BankHandler struct {
	service service.BankService
}

func NewBankHandler(s service.BankService) *BankHandler {
	return &BankHandler{service: s}
}

func (h *BankHandler) GetAll(c *fiber.Ctx) error {
	banks, err := h.service.GetAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(banks)
}

func (h *BankHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid bank ID"})
	}

	bank, err := h.service.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bank)
}

func (h *BankHandler) Create(c *fiber.Ctx) error {
	var bank model.Bank
	if err := c.BodyParser(&bank); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Create(&bank, actorFromCtx(c)); err != nil {
		if errors.Is(err, service.ErrBankNameTaken) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Bank created", "data": bank})
}

func (h *BankHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid bank ID"})
	}

	var bank model.Bank
	if err := c.BodyParser(&bank); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.Update(id, &bank, actorFromCtx(c))
	if err != nil {
		if errors.Is(err, service.ErrBankNameTaken) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Bank updated", "data": updated})
}

func (h *BankHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid bank ID"})
	}

	if err := h.service.Deactivate(id, actorFromCtx(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Bank deleted"})
}

// SiteHandler exposes the site directory CRUD.
type SiteHandler struct {
	service service.SiteService
}

func NewSiteHandler(s service.SiteService) *SiteHandler {
	return &SiteHandler{service: s}
}

func (h *SiteHandler) GetAll(c *fiber.Ctx) error {
	sites, err := h.service.GetAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sites)
}

func (h *SiteHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid site ID"})
	}

	site, err := h.service.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(site)
}

func (h *SiteHandler) Create(c *fiber.Ctx) error {
	var site model.Site
	if err := c.BodyParser(&site); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Create(&site, actorFromCtx(c)); err != nil {
		if errors.Is(err, service.ErrSiteNameTaken) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Site created", "site": site})
}

func (h *SiteHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid site ID"})
	}

	var site model.Site
	if err := c.BodyParser(&site); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.Update(id, &site, actorFromCtx(c))
	if err != nil {
		if errors.Is(err, service.ErrSiteNameTaken) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Site updated", "data": updated})
}

func (h *SiteHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid site ID"})
	}

	if err := h.service.Deactivate(id, actorFromCtx(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Site deleted"})
}
