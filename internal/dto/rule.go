package dto

import (
	"time"

	"smsledger/internal/models"
)

type CreateRuleRequest struct {
	Field    string `json:"field" validate:"required,oneof=DESCRIPTION SENDER_OR_RECEIVER"`
	Matcher  string `json:"matcher" validate:"required,oneof=CONTAINS EQUALS STARTS_WITH ENDS_WITH"`
	Keyword  string `json:"keyword" validate:"required"`
	Category string `json:"category" validate:"required"`
	Priority int    `json:"priority"`
	Logic    string `json:"logic" validate:"omitempty,oneof=ANY ALL"`
}

type RuleResponse struct {
	ID       string `json:"id"`
	Field    string `json:"field"`
	Matcher  string `json:"matcher"`
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
	Priority int    `json:"priority"`
	Logic    string `json:"logic"`
}

func NewRuleResponse(rule models.CategoryRule) RuleResponse {
	return RuleResponse{
		ID:       rule.ID.String(),
		Field:    string(rule.Field),
		Matcher:  string(rule.Matcher),
		Keyword:  rule.Keyword,
		Category: rule.Category,
		Priority: rule.Priority,
		Logic:    string(rule.Logic),
	}
}

type CreatePatternRequest struct {
	Expression string `json:"expression" validate:"required"`
	Position   int    `json:"position"`
}

type PatternResponse struct {
	ID         string `json:"id"`
	Expression string `json:"expression"`
	Position   int    `json:"position"`
	CreatedAt  string `json:"created_at"`
}

func NewPatternResponse(p models.CustomPattern) PatternResponse {
	return PatternResponse{
		ID:         p.ID.String(),
		Expression: p.Expression,
		Position:   p.Position,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}
