package handler

import (
	"encoding/json"

	"go-construction-ledger/internal/model"
	"go-construction-ledger/internal/repository"
	"go-construction-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	service service.TransactionService
}

func NewTransactionHandler(s service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var tx model.Transaction
	if err := c.BodyParser(&tx); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Create(&tx, actorFromCtx(c)); err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Transaction created", "data": tx})
}

func (h *TransactionHandler) CreateBulk(c *fiber.Ctx) error {
	var items []model.Transaction
	if err := c.BodyParser(&items); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON: expected an array of transactions"})
	}
	if len(items) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "No transactions to import"})
	}

	count, err := h.service.CreateBulk(items, actorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Transactions imported", "count": count})
}

func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var tx model.Transaction
	if err := c.BodyParser(&tx); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.Update(id, &tx, actorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Transaction updated", "data": updated})
}

func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	if err := h.service.Delete(id, actorFromCtx(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}

func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.service.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tx)
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	filters := repository.ListFilters{
		TransactionOrigin: model.Origin(c.Query("transactionOrigin")),
		Category:          model.Category(c.Query("category")),
		SubCategory:       c.Query("subCategory"),
		SearchTerm:        c.Query("searchTerm"),
		PendingOnly:       c.QueryBool("pendingOnly"),
		Page:              c.QueryInt("page", 0),
		PageSize:          c.QueryInt("pageSize", 25),
		SortBy:            c.Query("sortBy", "date"),
		SortDirection:     c.Query("sortDirection", "desc"),
		DateRange:         parseDateRange(c.Query("dateRange")),
	}

	if raw := c.Query("bankId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filters.BankID = &id
		}
	}
	if raw := c.Query("siteId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filters.SiteID = &id
		}
	}
	if raw := c.Query("typeFilters"); raw != "" {
		var tf repository.TypeFilters
		if err := json.Unmarshal([]byte(raw), &tf); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid typeFilters"})
		}
		filters.TypeFilters = &tf
	}

	result, err := h.service.List(filters)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *TransactionHandler) InitialBalance(c *fiber.Ctx) error {
	var bankID *uuid.UUID
	if raw := c.Query("bankId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			bankID = &id
		}
	}

	result, err := h.service.InitialBalance(bankID, model.Category(c.Query("category")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
