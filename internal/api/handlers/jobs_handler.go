package handlers

import (
	"time"

	"smsledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Reminders fire for occurrences within the next three days, once per cycle.
const reminderHorizon = 72 * time.Hour

// JobsHandler exposes the periodic jobs for on-demand runs. The same code
// paths run on the scheduler; triggering them by hand helps after restoring
// a backup or changing rules.
type JobsHandler struct {
	recurring *service.RecurringService
	budgets   *service.BudgetService
	retention *service.RetentionService
	logger    *zap.Logger
}

func NewJobsHandler(
	recurring *service.RecurringService,
	budgets *service.BudgetService,
	retention *service.RetentionService,
	logger *zap.Logger,
) *JobsHandler {
	return &JobsHandler{
		recurring: recurring,
		budgets:   budgets,
		retention: retention,
		logger:    logger,
	}
}

// RunRecurring godoc
// @Summary Fire due recurring rules and upcoming-payment reminders
// @Tags jobs
// @Produce json
// @Security Bearer
// @Router /api/v1/jobs/recurring/run [post]
func (h *JobsHandler) RunRecurring(c *fiber.Ctx) error {
	now := time.Now()

	result, err := h.recurring.ProcessDue(c.Context(), now)
	if err != nil {
		h.logger.Error("Recurring run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Recurring run failed",
		})
	}

	reminders, err := h.recurring.UpcomingReminders(c.Context(), now, reminderHorizon)
	if err != nil {
		h.logger.Error("Reminder run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Reminder run failed",
		})
	}

	return c.JSON(fiber.Map{
		"fired":     result.Fired,
		"failed":    result.Failed,
		"reminders": reminders,
	})
}

// RunBudgets godoc
// @Summary Evaluate budgets against current period spend
// @Tags jobs
// @Produce json
// @Security Bearer
// @Router /api/v1/jobs/budgets/run [post]
func (h *JobsHandler) RunBudgets(c *fiber.Ctx) error {
	result, err := h.budgets.Evaluate(c.Context(), time.Now())
	if err != nil {
		h.logger.Error("Budget run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Budget run failed",
		})
	}

	return c.JSON(result)
}

// RunCleanup godoc
// @Summary Purge expired trash and old archive entries
// @Tags jobs
// @Produce json
// @Security Bearer
// @Router /api/v1/jobs/cleanup/run [post]
func (h *JobsHandler) RunCleanup(c *fiber.Ctx) error {
	result, err := h.retention.Cleanup(c.Context(), time.Now())
	if err != nil {
		h.logger.Error("Cleanup run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Cleanup run failed",
		})
	}

	return c.JSON(result)
}
