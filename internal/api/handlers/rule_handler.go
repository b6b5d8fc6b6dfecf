package handlers

import (
	"regexp"

	"smsledger/internal/dto"
	"smsledger/internal/models"
	"smsledger/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RuleHandler struct {
	rules    *repository.RuleRepository
	patterns *repository.PatternRepository
	logger   *zap.Logger
}

func NewRuleHandler(rules *repository.RuleRepository, patterns *repository.PatternRepository, logger *zap.Logger) *RuleHandler {
	return &RuleHandler{
		rules:    rules,
		patterns: patterns,
		logger:   logger,
	}
}

// CreateRule godoc
// @Summary Create a category rule
// @Tags rules
// @Accept json
// @Produce json
// @Security Bearer
// @Router /api/v1/rules [post]
func (h *RuleHandler) CreateRule(c *fiber.Ctx) error {
	var req dto.CreateRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	field := models.MatchField(req.Field)
	switch field {
	case models.FieldDescription, models.FieldSenderOrReceiver:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid field",
		})
	}

	matcher := models.Matcher(req.Matcher)
	switch matcher {
	case models.MatcherContains, models.MatcherEquals, models.MatcherStartsWith, models.MatcherEndsWith:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid matcher",
		})
	}

	if req.Keyword == "" || req.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Keyword and category are required",
		})
	}

	logic := models.RuleLogic(req.Logic)
	if logic == "" {
		logic = models.LogicAny
	}

	rule := &models.CategoryRule{
		ID:       uuid.New(),
		Field:    field,
		Matcher:  matcher,
		Keyword:  req.Keyword,
		Category: req.Category,
		Priority: req.Priority,
		Logic:    logic,
	}
	if err := h.rules.Create(c.Context(), rule); err != nil {
		h.logger.Error("Failed to create rule", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create rule",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewRuleResponse(*rule))
}

// ListRules godoc
// @Summary List category rules in evaluation order
// @Tags rules
// @Produce json
// @Security Bearer
// @Router /api/v1/rules [get]
func (h *RuleHandler) ListRules(c *fiber.Ctx) error {
	rules, err := h.rules.ListOrdered(c.Context())
	if err != nil {
		h.logger.Error("Failed to list rules", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list rules",
		})
	}

	responses := make([]dto.RuleResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, dto.NewRuleResponse(rule))
	}
	return c.JSON(responses)
}

// UpdateRule godoc
// @Summary Update a category rule
// @Tags rules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Security Bearer
// @Router /api/v1/rules/{id} [put]
func (h *RuleHandler) UpdateRule(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var req dto.CreateRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Keyword == "" || req.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Keyword and category are required",
		})
	}

	logic := models.RuleLogic(req.Logic)
	if logic == "" {
		logic = models.LogicAny
	}

	rule := &models.CategoryRule{
		ID:       id,
		Field:    models.MatchField(req.Field),
		Matcher:  models.Matcher(req.Matcher),
		Keyword:  req.Keyword,
		Category: req.Category,
		Priority: req.Priority,
		Logic:    logic,
	}
	if err := h.rules.Update(c.Context(), rule); err != nil {
		h.logger.Error("Failed to update rule", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update rule",
		})
	}

	return c.JSON(dto.NewRuleResponse(*rule))
}

// DeleteRule godoc
// @Summary Delete a category rule
// @Tags rules
// @Param id path string true "Rule ID"
// @Security Bearer
// @Router /api/v1/rules/{id} [delete]
func (h *RuleHandler) DeleteRule(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.rules.Delete(c.Context(), id); err != nil {
		h.logger.Error("Failed to delete rule", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete rule",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CreatePattern godoc
// @Summary Register a custom extraction pattern
// @Description The expression is validated before it is stored; it takes
// precedence over the built-in patterns during extraction
// @Tags patterns
// @Accept json
// @Produce json
// @Security Bearer
// @Router /api/v1/patterns [post]
func (h *RuleHandler) CreatePattern(c *fiber.Ctx) error {
	var req dto.CreatePatternRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if _, err := regexp.Compile("(?i)" + req.Expression); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid regular expression",
		})
	}

	pattern := &models.CustomPattern{
		ID:         uuid.New(),
		Expression: req.Expression,
		Position:   req.Position,
	}
	if err := h.patterns.Create(c.Context(), pattern); err != nil {
		h.logger.Error("Failed to create pattern", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create pattern",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewPatternResponse(*pattern))
}

// ListPatterns godoc
// @Summary List custom extraction patterns in precedence order
// @Tags patterns
// @Produce json
// @Security Bearer
// @Router /api/v1/patterns [get]
func (h *RuleHandler) ListPatterns(c *fiber.Ctx) error {
	patterns, err := h.patterns.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list patterns", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list patterns",
		})
	}

	responses := make([]dto.PatternResponse, 0, len(patterns))
	for _, p := range patterns {
		responses = append(responses, dto.NewPatternResponse(p))
	}
	return c.JSON(responses)
}

// DeletePattern godoc
// @Summary Delete a custom extraction pattern
// @Tags patterns
// @Param id path string true "Pattern ID"
// @Security Bearer
// @Router /api/v1/patterns/{id} [delete]
func (h *RuleHandler) DeletePattern(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.patterns.Delete(c.Context(), id); err != nil {
		h.logger.Error("Failed to delete pattern", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete pattern",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
