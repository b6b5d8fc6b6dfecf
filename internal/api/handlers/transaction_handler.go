package handlers

import (
	"errors"

	"smsledger/internal/dto"
	"smsledger/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	transactions *repository.TransactionRepository
	summaries    *repository.SummaryRepository
	archive      *repository.ArchiveRepository
	logger       *zap.Logger
}

func NewTransactionHandler(
	transactions *repository.TransactionRepository,
	summaries *repository.SummaryRepository,
	archive *repository.ArchiveRepository,
	logger *zap.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		summaries:    summaries,
		archive:      archive,
		logger:       logger,
	}
}

// List godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param limit query int false "Limit" default(50)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	txs, err := h.transactions.List(c.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list transactions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list transactions",
		})
	}

	return c.JSON(dto.NewTransactionResponses(txs))
}

// Get godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	tx, err := h.transactions.GetByID(c.Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Transaction not found",
		})
	}
	if err != nil {
		h.logger.Error("Failed to get transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get transaction",
		})
	}

	return c.JSON(dto.NewTransactionResponse(tx))
}

// UpdateCategory godoc
// @Summary Recategorize a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Router /api/v1/transactions/{id}/category [put]
func (h *TransactionHandler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.transactions.UpdateCategory(c.Context(), id, req.Category); err != nil {
		h.logger.Error("Failed to update category", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update category",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary Soft-delete a transaction
// @Description Moves the transaction to the trash; it stays recoverable
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.transactions.SoftDelete(c.Context(), id); err != nil {
		h.logger.Error("Failed to delete transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete transaction",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Restore godoc
// @Summary Restore a soft-deleted transaction
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Router /api/v1/transactions/{id}/restore [post]
func (h *TransactionHandler) Restore(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.transactions.Restore(c.Context(), id); err != nil {
		h.logger.Error("Failed to restore transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to restore transaction",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListSummaries godoc
// @Summary List UPI Lite daily summaries
// @Tags summaries
// @Produce json
// @Security Bearer
// @Router /api/v1/summaries [get]
func (h *TransactionHandler) ListSummaries(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	summaries, err := h.summaries.List(c.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list summaries", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list summaries",
		})
	}

	responses := make([]dto.SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		responses = append(responses, dto.NewSummaryResponse(s))
	}
	return c.JSON(responses)
}

// ListArchive godoc
// @Summary List archived raw messages
// @Tags archive
// @Produce json
// @Security Bearer
// @Router /api/v1/archive [get]
func (h *TransactionHandler) ListArchive(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	messages, err := h.archive.List(c.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list archive", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list archive",
		})
	}

	return c.JSON(messages)
}

// parseID writes the error response itself; callers return nil when ok is
// false.
func parseID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ID",
		})
		return uuid.Nil, false
	}
	return id, true
}
