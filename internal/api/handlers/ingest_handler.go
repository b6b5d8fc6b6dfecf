package handlers

import (
	"smsledger/internal/dto"
	"smsledger/internal/service"
	"smsledger/internal/worker"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type IngestHandler struct {
	ingest *service.IngestService
	queue  *worker.Queue
	logger *zap.Logger
}

func NewIngestHandler(ingest *service.IngestService, queue *worker.Queue, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		ingest: ingest,
		queue:  queue,
		logger: logger,
	}
}

// Live godoc
// @Summary Ingest live messages
// @Description Queue freshly received SMS messages for background processing
// @Tags ingest
// @Accept json
// @Produce json
// @Security Bearer
// @Router /api/v1/ingest/live [post]
func (h *IngestHandler) Live(c *fiber.Ctx) error {
	req, ok := parseIngestRequest(c)
	if !ok {
		return nil
	}

	batch := worker.Batch{
		Mode:     service.ModeLive,
		Messages: req.ToModels(),
	}
	if err := h.queue.Enqueue(c.Context(), batch); err != nil {
		h.logger.Error("Failed to enqueue live batch", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Ingestion queue unavailable",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.IngestAcceptedResponse{
		Queued: len(batch.Messages),
		Mode:   string(service.ModeLive),
	})
}

// Import godoc
// @Summary Import historical messages
// @Description Run a full inbox scan through the pipeline synchronously
// @Tags ingest
// @Accept json
// @Produce json
// @Security Bearer
// @Router /api/v1/ingest/import [post]
func (h *IngestHandler) Import(c *fiber.Ctx) error {
	return h.runSync(c, service.ModeHistoricalImport)
}

// Resync godoc
// @Summary Resync recent messages
// @Description Process only messages newer than the latest stored transaction
// @Tags ingest
// @Accept json
// @Produce json
// @Security Bearer
// @Router /api/v1/ingest/resync [post]
func (h *IngestHandler) Resync(c *fiber.Ctx) error {
	return h.runSync(c, service.ModeIncrementalResync)
}

func (h *IngestHandler) runSync(c *fiber.Ctx, mode service.IngestMode) error {
	req, ok := parseIngestRequest(c)
	if !ok {
		return nil
	}

	result, err := h.ingest.Ingest(c.Context(), req.ToModels(), mode)
	if err != nil {
		h.logger.Error("Ingestion failed", zap.String("mode", string(mode)), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Ingestion failed",
		})
	}

	return c.JSON(dto.IngestResponse{
		NewTransactions: result.NewTransactions,
		NewSummaries:    result.NewSummaries,
		Archived:        result.Archived,
	})
}

// parseIngestRequest writes the error response itself; callers return nil
// when ok is false.
func parseIngestRequest(c *fiber.Ctx) (*dto.IngestRequest, bool) {
	var req dto.IngestRequest
	if err := c.BodyParser(&req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
		return nil, false
	}
	if len(req.Messages) == 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Messages are required",
		})
		return nil, false
	}
	return &req, true
}
