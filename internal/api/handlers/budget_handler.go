package handlers

import (
	"time"

	"smsledger/internal/dto"
	"smsledger/internal/models"
	"smsledger/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const refundKeywordPref = "refund_keyword"

type BudgetHandler struct {
	budgets       *repository.BudgetRepository
	recurring     *repository.RecurringRepository
	notifications *repository.NotificationRepository
	prefs         *repository.PreferenceRepository
	logger        *zap.Logger
}

func NewBudgetHandler(
	budgets *repository.BudgetRepository,
	recurring *repository.RecurringRepository,
	notifications *repository.NotificationRepository,
	prefs *repository.PreferenceRepository,
	logger *zap.Logger,
) *BudgetHandler {
	return &BudgetHandler{
		budgets:       budgets,
		recurring:     recurring,
		notifications: notifications,
		prefs:         prefs,
		logger:        logger,
	}
}

// CreateBudget godoc
// @Summary Create a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security Bearer
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) CreateBudget(c *fiber.Ctx) error {
	var req dto.CreateBudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	period, ok := parsePeriod(req.Period)
	if !ok || req.Category == "" || req.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Category, positive amount and a valid period are required",
		})
	}

	budget := &models.Budget{
		ID:       uuid.New(),
		Category: req.Category,
		Amount:   req.Amount,
		Period:   period,
		Active:   true,
		Rollover: req.Rollover,
	}
	if err := h.budgets.Create(c.Context(), budget); err != nil {
		h.logger.Error("Failed to create budget", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create budget",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewBudgetResponse(*budget))
}

// ListBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Security Bearer
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) ListBudgets(c *fiber.Ctx) error {
	budgets, err := h.budgets.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list budgets", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list budgets",
		})
	}

	responses := make([]dto.BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		responses = append(responses, dto.NewBudgetResponse(b))
	}
	return c.JSON(responses)
}

// UpdateBudget godoc
// @Summary Update a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Security Bearer
// @Router /api/v1/budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var req dto.UpdateBudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	period, ok := parsePeriod(req.Period)
	if !ok || req.Category == "" || req.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Category, positive amount and a valid period are required",
		})
	}

	budget := &models.Budget{
		ID:       id,
		Category: req.Category,
		Amount:   req.Amount,
		Period:   period,
		Active:   req.Active,
		Rollover: req.Rollover,
	}
	if err := h.budgets.Update(c.Context(), budget); err != nil {
		h.logger.Error("Failed to update budget", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update budget",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Param id path string true "Budget ID"
// @Security Bearer
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.budgets.Delete(c.Context(), id); err != nil {
		h.logger.Error("Failed to delete budget", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete budget",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CreateRecurring godoc
// @Summary Create a recurring rule
// @Tags recurring
// @Accept json
// @Produce json
// @Security Bearer
// @Router /api/v1/recurring [post]
func (h *BudgetHandler) CreateRecurring(c *fiber.Ctx) error {
	var req dto.CreateRecurringRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	period, ok := parsePeriod(req.Period)
	if !ok || req.Description == "" || req.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Description, positive amount and a valid period are required",
		})
	}

	nextDue, err := time.Parse(time.RFC3339, req.NextDue)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "next_due must be an RFC 3339 timestamp",
		})
	}

	rule := &models.RecurringRule{
		ID:          uuid.New(),
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Period:      period,
		DayOfPeriod: req.DayOfPeriod,
		NextDue:     nextDue,
	}
	if err := h.recurring.Create(c.Context(), rule); err != nil {
		h.logger.Error("Failed to create recurring rule", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create recurring rule",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewRecurringResponse(*rule))
}

// ListRecurring godoc
// @Summary List recurring rules
// @Tags recurring
// @Produce json
// @Security Bearer
// @Router /api/v1/recurring [get]
func (h *BudgetHandler) ListRecurring(c *fiber.Ctx) error {
	rules, err := h.recurring.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list recurring rules", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list recurring rules",
		})
	}

	responses := make([]dto.RecurringResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, dto.NewRecurringResponse(rule))
	}
	return c.JSON(responses)
}

// UpdateRecurring godoc
// @Summary Update a recurring rule
// @Tags recurring
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Security Bearer
// @Router /api/v1/recurring/{id} [put]
func (h *BudgetHandler) UpdateRecurring(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var req dto.CreateRecurringRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	period, ok := parsePeriod(req.Period)
	if !ok || req.Description == "" || req.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Description, positive amount and a valid period are required",
		})
	}

	nextDue, err := time.Parse(time.RFC3339, req.NextDue)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "next_due must be an RFC 3339 timestamp",
		})
	}

	rule := &models.RecurringRule{
		ID:          id,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Period:      period,
		DayOfPeriod: req.DayOfPeriod,
		NextDue:     nextDue,
	}
	if err := h.recurring.Update(c.Context(), rule); err != nil {
		h.logger.Error("Failed to update recurring rule", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update recurring rule",
		})
	}

	return c.JSON(dto.NewRecurringResponse(*rule))
}

// DeleteRecurring godoc
// @Summary Delete a recurring rule
// @Tags recurring
// @Param id path string true "Rule ID"
// @Security Bearer
// @Router /api/v1/recurring/{id} [delete]
func (h *BudgetHandler) DeleteRecurring(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.recurring.Delete(c.Context(), id); err != nil {
		h.logger.Error("Failed to delete recurring rule", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete recurring rule",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListNotifications godoc
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security Bearer
// @Router /api/v1/notifications [get]
func (h *BudgetHandler) ListNotifications(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	notifications, err := h.notifications.List(c.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list notifications", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list notifications",
		})
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, dto.NewNotificationResponse(n))
	}
	return c.JSON(responses)
}

// MarkNotificationRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Security Bearer
// @Router /api/v1/notifications/{id}/read [post]
func (h *BudgetHandler) MarkNotificationRead(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.notifications.MarkRead(c.Context(), id); err != nil {
		h.logger.Error("Failed to mark notification read", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark notification read",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetRefundKeyword godoc
// @Summary Get the refund keyword preference
// @Tags preferences
// @Produce json
// @Security Bearer
// @Router /api/v1/preferences/refund-keyword [get]
func (h *BudgetHandler) GetRefundKeyword(c *fiber.Ctx) error {
	value, err := h.prefs.Get(c.Context(), refundKeywordPref)
	if err != nil {
		h.logger.Error("Failed to get preference", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get preference",
		})
	}

	return c.JSON(dto.PreferenceResponse{Key: refundKeywordPref, Value: value})
}

// SetRefundKeyword godoc
// @Summary Set the refund keyword preference
// @Description Categories matching this keyword are excluded from budget spend
// @Tags preferences
// @Accept json
// @Produce json
// @Security Bearer
// @Router /api/v1/preferences/refund-keyword [put]
func (h *BudgetHandler) SetRefundKeyword(c *fiber.Ctx) error {
	var req dto.UpdatePreferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.prefs.Set(c.Context(), refundKeywordPref, req.Value); err != nil {
		h.logger.Error("Failed to set preference", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to set preference",
		})
	}

	return c.JSON(dto.PreferenceResponse{Key: refundKeywordPref, Value: req.Value})
}

func parsePeriod(s string) (models.PeriodType, bool) {
	period := models.PeriodType(s)
	switch period {
	case models.PeriodWeekly, models.PeriodMonthly, models.PeriodYearly:
		return period, true
	default:
		return "", false
	}
}
