package dto

import (
	"time"

	"smsledger/internal/models"
)

type CreateBudgetRequest struct {
	Category string  `json:"category" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Period   string  `json:"period" validate:"required,oneof=WEEKLY MONTHLY YEARLY"`
	Rollover bool    `json:"rollover"`
}

type UpdateBudgetRequest struct {
	Category string  `json:"category" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Period   string  `json:"period" validate:"required,oneof=WEEKLY MONTHLY YEARLY"`
	Active   bool    `json:"active"`
	Rollover bool    `json:"rollover"`
}

type BudgetResponse struct {
	ID             string  `json:"id"`
	Category       string  `json:"category"`
	Amount         float64 `json:"amount"`
	Period         string  `json:"period"`
	Active         bool    `json:"active"`
	Rollover       bool    `json:"rollover"`
	LastNotifiedAt *string `json:"last_notified_at,omitempty"`
}

func NewBudgetResponse(b models.Budget) BudgetResponse {
	resp := BudgetResponse{
		ID:       b.ID.String(),
		Category: b.Category,
		Amount:   b.Amount,
		Period:   string(b.Period),
		Active:   b.Active,
		Rollover: b.Rollover,
	}
	if b.LastNotifiedAt != nil {
		notified := b.LastNotifiedAt.Format(time.RFC3339)
		resp.LastNotifiedAt = &notified
	}
	return resp
}

type CreateRecurringRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required"`
	Category    *string `json:"category"`
	Period      string  `json:"period" validate:"required,oneof=WEEKLY MONTHLY YEARLY"`
	DayOfPeriod int     `json:"day_of_period" validate:"required"`
	NextDue     string  `json:"next_due" validate:"required"` // RFC 3339
}

type RecurringResponse struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    *string `json:"category"`
	Period      string  `json:"period"`
	DayOfPeriod int     `json:"day_of_period"`
	NextDue     string  `json:"next_due"`
}

func NewRecurringResponse(rule models.RecurringRule) RecurringResponse {
	return RecurringResponse{
		ID:          rule.ID.String(),
		Amount:      rule.Amount,
		Description: rule.Description,
		Category:    rule.Category,
		Period:      string(rule.Period),
		DayOfPeriod: rule.DayOfPeriod,
		NextDue:     rule.NextDue.Format(time.RFC3339),
	}
}

type NotificationResponse struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Category  string  `json:"category,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
	DueAt     *string `json:"due_at,omitempty"`
	CreatedAt string  `json:"created_at"`
	Read      bool    `json:"read"`
}

func NewNotificationResponse(n *models.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Kind:      string(n.Kind),
		Title:     n.Title,
		Message:   n.Message,
		Category:  n.Category,
		Amount:    n.Amount,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
		Read:      n.ReadAt != nil,
	}
	if n.DueAt != nil {
		due := n.DueAt.Format(time.RFC3339)
		resp.DueAt = &due
	}
	return resp
}

type UpdatePreferenceRequest struct {
	Value string `json:"value"`
}

type PreferenceResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
