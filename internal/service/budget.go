package service

import (
	"context"
	"fmt"
	"time"

	"smsledger/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const refundKeywordPref = "refund_keyword"

type BudgetResult struct {
	Evaluated int `json:"evaluated"`
	Exceeded  int `json:"exceeded"`
	Notified  int `json:"notified"`
}

// BudgetService checks active budgets against the current period's spend and
// emits one overage notification per period.
type BudgetService struct {
	budgets       BudgetStore
	spend         SpendStore
	notifications NotificationStore
	prefs         PreferenceStore
	logger        *zap.Logger
}

func NewBudgetService(
	budgets BudgetStore,
	spend SpendStore,
	notifications NotificationStore,
	prefs PreferenceStore,
	logger *zap.Logger,
) *BudgetService {
	return &BudgetService{
		budgets:       budgets,
		spend:         spend,
		notifications: notifications,
		prefs:         prefs,
		logger:        logger,
	}
}

// Evaluate sums non-refund DEBIT spend for each active budget's current
// period and notifies on overage, debounced against the period start by the
// last-notification stamp and the notification log.
func (s *BudgetService) Evaluate(ctx context.Context, now time.Time) (BudgetResult, error) {
	var res BudgetResult

	refundKeyword, err := s.prefs.Get(ctx, refundKeywordPref)
	if err != nil {
		s.logger.Warn("Refund keyword lookup failed, refunds will count as spend", zap.Error(err))
		refundKeyword = ""
	}

	budgets, err := s.budgets.ListActive(ctx)
	if err != nil {
		return res, fmt.Errorf("listing active budgets: %w", err)
	}

	for _, budget := range budgets {
		res.Evaluated++

		start, end := PeriodWindow(budget.Period, now)
		spent, err := s.spend.SumDebits(ctx, budget.Category, start, end, refundKeyword)
		if err != nil {
			s.logger.Warn("Spend summation failed",
				zap.String("budget_id", budget.ID.String()),
				zap.String("category", budget.Category),
				zap.Error(err),
			)
			continue
		}

		if spent <= budget.Amount {
			continue
		}
		res.Exceeded++

		if budget.LastNotifiedAt != nil && !budget.LastNotifiedAt.Before(start) {
			// Already alerted this period.
			continue
		}

		// The stamp can lag behind the notification insert, so also check
		// the notification log before alerting again.
		sent, err := s.notifications.HasSince(ctx, models.NotificationBudgetExceeded, budget.ID.String(), start)
		if err != nil {
			s.logger.Warn("Notification lookup failed",
				zap.String("budget_id", budget.ID.String()), zap.Error(err))
			continue
		}
		if sent {
			continue
		}

		if s.notifyOverage(ctx, budget, spent, now) {
			res.Notified++
		}
	}

	s.logger.Info("Budget run completed",
		zap.Int("evaluated", res.Evaluated),
		zap.Int("exceeded", res.Exceeded),
		zap.Int("notified", res.Notified),
	)
	return res, nil
}

func (s *BudgetService) notifyOverage(ctx context.Context, budget models.Budget, spent float64, now time.Time) bool {
	n := &models.Notification{
		ID:          uuid.New(),
		Kind:        models.NotificationBudgetExceeded,
		Title:       fmt.Sprintf("Budget exceeded: %s", budget.Category),
		Message:     fmt.Sprintf("You've spent %.2f of your %.2f %s budget.", spent, budget.Amount, budget.Category),
		Category:    budget.Category,
		Amount:      spent,
		ReferenceID: budget.ID.String(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Warn("Overage notification insert failed",
			zap.String("budget_id", budget.ID.String()), zap.Error(err))
		return false
	}

	if err := s.budgets.SetLastNotified(ctx, budget.ID, now); err != nil {
		s.logger.Warn("Stamping last notification failed",
			zap.String("budget_id", budget.ID.String()), zap.Error(err))
	}
	return true
}

// PeriodWindow returns the [start, end) bounds of the period containing now:
// weeks start Monday, months and years follow the local calendar.
func PeriodWindow(period models.PeriodType, now time.Time) (time.Time, time.Time) {
	switch period {
	case models.PeriodWeekly:
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, -daysSinceMonday)
		return start, start.AddDate(0, 0, 7)
	case models.PeriodYearly:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0)
	default: // monthly
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	}
}
