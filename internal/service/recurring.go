package service

import (
	"context"
	"fmt"
	"time"

	"smsledger/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecurringCounterparty marks transactions synthesized by recurring rules.
const RecurringCounterparty = "Recurring"

type RecurringResult struct {
	Fired  int `json:"fired"`
	Failed int `json:"failed"`
}

// RecurringService fires due recurring rules. Insert-then-advance is treated
// as a unit: if the transaction insert fails the due date stays put and the
// rule is retried on the next run.
type RecurringService struct {
	recurring     RecurringStore
	transactions  TransactionStore
	notifications NotificationStore
	logger        *zap.Logger
}

func NewRecurringService(
	recurring RecurringStore,
	transactions TransactionStore,
	notifications NotificationStore,
	logger *zap.Logger,
) *RecurringService {
	return &RecurringService{
		recurring:     recurring,
		transactions:  transactions,
		notifications: notifications,
		logger:        logger,
	}
}

// ProcessDue fires every rule whose next-due timestamp has passed.
func (s *RecurringService) ProcessDue(ctx context.Context, now time.Time) (RecurringResult, error) {
	var res RecurringResult

	due, err := s.recurring.ListDue(ctx, now)
	if err != nil {
		return res, fmt.Errorf("listing due recurring rules: %w", err)
	}

	for _, rule := range due {
		if err := s.fireRule(ctx, rule); err != nil {
			s.logger.Warn("Recurring rule processing failed",
				zap.String("rule_id", rule.ID.String()),
				zap.String("description", rule.Description),
				zap.Error(err),
			)
			res.Failed++
			continue
		}
		res.Fired++
	}

	s.logger.Info("Recurring run completed", zap.Int("fired", res.Fired), zap.Int("failed", res.Failed))
	return res, nil
}

func (s *RecurringService) fireRule(ctx context.Context, rule models.RecurringRule) error {
	tx := &models.Transaction{
		ID:           uuid.New(),
		Amount:       rule.Amount,
		Direction:    models.DirectionDebit,
		OccurredAt:   rule.NextDue,
		Description:  rule.Description,
		Counterparty: RecurringCounterparty,
		Category:     rule.Category,
	}

	// The content dedup key makes a retried fire idempotent: a previous run
	// that inserted the transaction but failed to advance the rule will not
	// double-charge here.
	exists, err := s.transactions.ExistsMatching(ctx, tx.Amount, tx.OccurredAt, tx.Description)
	if err != nil {
		return fmt.Errorf("dedup lookup: %w", err)
	}
	if !exists {
		if err := s.transactions.Create(ctx, tx); err != nil {
			return fmt.Errorf("inserting transaction: %w", err)
		}
	}

	rule.NextDue = nextOccurrence(rule.NextDue, rule.Period, rule.DayOfPeriod)
	if err := s.recurring.Update(ctx, &rule); err != nil {
		return fmt.Errorf("advancing next due: %w", err)
	}
	return nil
}

// UpcomingReminders emits PAYMENT_UPCOMING notifications for rules due
// within the horizon, once per rule per cycle.
func (s *RecurringService) UpcomingReminders(ctx context.Context, now time.Time, horizon time.Duration) (int, error) {
	upcoming, err := s.recurring.ListUpcoming(ctx, now, now.Add(horizon))
	if err != nil {
		return 0, fmt.Errorf("listing upcoming recurring rules: %w", err)
	}

	emitted := 0
	for _, rule := range upcoming {
		cycleStart := previousOccurrence(rule.NextDue, rule.Period)
		sent, err := s.notifications.HasSince(ctx, models.NotificationPaymentUpcoming, rule.ID.String(), cycleStart)
		if err != nil {
			s.logger.Warn("Reminder lookup failed", zap.String("rule_id", rule.ID.String()), zap.Error(err))
			continue
		}
		if sent {
			continue
		}

		due := rule.NextDue
		category := ""
		if rule.Category != nil {
			category = *rule.Category
		}
		n := &models.Notification{
			ID:          uuid.New(),
			Kind:        models.NotificationPaymentUpcoming,
			Title:       "Upcoming payment",
			Message:     fmt.Sprintf("%s (%.2f) is due on %s", rule.Description, rule.Amount, due.Format("02 Jan 2006")),
			Category:    category,
			Amount:      rule.Amount,
			ReferenceID: rule.ID.String(),
			DueAt:       &due,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			s.logger.Warn("Reminder insert failed", zap.String("rule_id", rule.ID.String()), zap.Error(err))
			continue
		}
		emitted++
	}
	return emitted, nil
}

// nextOccurrence advances one period from current, clamping the anchor day
// to the target month's length (day 31 in a 30-day month becomes 30). The
// stored anchor is the source of truth, so firing on Apr 30 with anchor 31
// still lands on May 31.
func nextOccurrence(current time.Time, period models.PeriodType, anchorDay int) time.Time {
	switch period {
	case models.PeriodWeekly:
		return current.AddDate(0, 0, 7)
	case models.PeriodMonthly:
		return anchoredDate(current.Year(), current.Month()+1, anchorDay, current)
	case models.PeriodYearly:
		return anchoredDate(current.Year()+1, current.Month(), anchorDay, current)
	}
	return current.AddDate(0, 1, 0)
}

func previousOccurrence(next time.Time, period models.PeriodType) time.Time {
	switch period {
	case models.PeriodWeekly:
		return next.AddDate(0, 0, -7)
	case models.PeriodYearly:
		return next.AddDate(-1, 0, 0)
	}
	return next.AddDate(0, -1, 0)
}

func anchoredDate(year int, month time.Month, day int, ref time.Time) time.Time {
	// Normalize the year/month pair first (month may be 13).
	first := time.Date(year, month, 1, 0, 0, 0, 0, ref.Location())
	if max := daysInMonth(first.Year(), first.Month(), ref.Location()); day > max {
		day = max
	}
	if day < 1 {
		day = 1
	}
	return time.Date(first.Year(), first.Month(), day,
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}

func daysInMonth(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
