package service

import (
	"context"
	"testing"
	"time"

	"smsledger/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNextOccurrenceMonthlyClampsToShortMonth(t *testing.T) {
	jan31 := time.Date(2025, time.January, 31, 8, 0, 0, 0, time.Local)
	got := nextOccurrence(jan31, models.PeriodMonthly, 31)
	assert.Equal(t, time.Date(2025, time.February, 28, 8, 0, 0, 0, time.Local), got)
}

func TestNextOccurrenceMonthlyRecoversFromClamp(t *testing.T) {
	// Firing on Apr 30 with anchor day 31 must land on May 31, not May 30:
	// the stored anchor wins over the clamped current date.
	apr30 := time.Date(2025, time.April, 30, 8, 0, 0, 0, time.Local)
	got := nextOccurrence(apr30, models.PeriodMonthly, 31)
	assert.Equal(t, time.Date(2025, time.May, 31, 8, 0, 0, 0, time.Local), got)
}

func TestNextOccurrenceMonthlyYearRollover(t *testing.T) {
	dec15 := time.Date(2025, time.December, 15, 8, 0, 0, 0, time.Local)
	got := nextOccurrence(dec15, models.PeriodMonthly, 15)
	assert.Equal(t, time.Date(2026, time.January, 15, 8, 0, 0, 0, time.Local), got)
}

func TestNextOccurrenceWeekly(t *testing.T) {
	mon := time.Date(2025, time.June, 2, 8, 0, 0, 0, time.Local)
	got := nextOccurrence(mon, models.PeriodWeekly, 1)
	assert.Equal(t, mon.AddDate(0, 0, 7), got)
}

func TestNextOccurrenceYearlyLeapDay(t *testing.T) {
	feb29 := time.Date(2024, time.February, 29, 8, 0, 0, 0, time.Local)
	got := nextOccurrence(feb29, models.PeriodYearly, 29)
	assert.Equal(t, time.Date(2025, time.February, 28, 8, 0, 0, 0, time.Local), got)
}

func recurringRule(amount float64, desc string, nextDue time.Time) models.RecurringRule {
	return models.RecurringRule{
		ID:          uuid.New(),
		Amount:      amount,
		Description: desc,
		Period:      models.PeriodMonthly,
		DayOfPeriod: nextDue.Day(),
		NextDue:     nextDue,
	}
}

func TestProcessDueFiresAndAdvances(t *testing.T) {
	due := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local)
	store := &fakeRecurringStore{rules: []models.RecurringRule{recurringRule(999, "Rent", due)}}
	txs := &fakeTransactionStore{}
	svc := NewRecurringService(store, txs, &fakeNotificationStore{}, zap.NewNop())

	res, err := svc.ProcessDue(context.Background(), due.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Fired)
	assert.Equal(t, 0, res.Failed)

	require.Len(t, txs.txs, 1)
	tx := txs.txs[0]
	assert.Equal(t, 999.0, tx.Amount)
	assert.Equal(t, models.DirectionDebit, tx.Direction)
	assert.Equal(t, "Rent", tx.Description)
	assert.Equal(t, RecurringCounterparty, tx.Counterparty)
	assert.Equal(t, due, tx.OccurredAt)

	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.Local), store.rules[0].NextDue)
}

func TestProcessDueSkipsFutureRules(t *testing.T) {
	now := time.Now()
	store := &fakeRecurringStore{rules: []models.RecurringRule{recurringRule(100, "Netflix", now.Add(48 * time.Hour))}}
	txs := &fakeTransactionStore{}
	svc := NewRecurringService(store, txs, &fakeNotificationStore{}, zap.NewNop())

	res, err := svc.ProcessDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Fired)
	assert.Empty(t, txs.txs)
}

func TestProcessDueRetryDoesNotDoubleCharge(t *testing.T) {
	// Simulates a previous run that inserted the transaction but failed to
	// advance the rule: the retry must advance without a second insert.
	due := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local)
	rule := recurringRule(999, "Rent", due)
	store := &fakeRecurringStore{rules: []models.RecurringRule{rule}}
	txs := &fakeTransactionStore{txs: []*models.Transaction{{
		Amount:      999,
		OccurredAt:  due,
		Description: "Rent",
	}}}
	svc := NewRecurringService(store, txs, &fakeNotificationStore{}, zap.NewNop())

	res, err := svc.ProcessDue(context.Background(), due.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Fired)
	assert.Len(t, txs.txs, 1)
	assert.True(t, store.rules[0].NextDue.After(due))
}

func TestProcessDueInsertThenAdvanceIsAUnit(t *testing.T) {
	// When the advance fails the rule stays due, so the next run retries.
	due := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local)
	store := &fakeRecurringStore{
		rules:      []models.RecurringRule{recurringRule(999, "Rent", due)},
		failUpdate: true,
	}
	txs := &fakeTransactionStore{}
	svc := NewRecurringService(store, txs, &fakeNotificationStore{}, zap.NewNop())

	res, err := svc.ProcessDue(context.Background(), due.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Fired)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, due, store.rules[0].NextDue)
}

func TestUpcomingRemindersOncePerCycle(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.Local)
	rule := recurringRule(500, "Insurance", now.Add(48*time.Hour))
	store := &fakeRecurringStore{rules: []models.RecurringRule{rule}}
	notifications := &fakeNotificationStore{}
	svc := NewRecurringService(store, &fakeTransactionStore{}, notifications, zap.NewNop())

	emitted, err := svc.UpcomingReminders(context.Background(), now, 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, emitted)
	require.Len(t, notifications.notifications, 1)

	n := notifications.notifications[0]
	assert.Equal(t, models.NotificationPaymentUpcoming, n.Kind)
	assert.Equal(t, rule.ID.String(), n.ReferenceID)
	require.NotNil(t, n.DueAt)
	assert.Equal(t, rule.NextDue, *n.DueAt)

	// Second run inside the same cycle is debounced.
	emitted, err = svc.UpcomingReminders(context.Background(), now.Add(time.Hour), 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, emitted)
	assert.Len(t, notifications.notifications, 1)
}

func TestUpcomingRemindersIgnoreBeyondHorizon(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.Local)
	store := &fakeRecurringStore{rules: []models.RecurringRule{
		recurringRule(500, "Far away", now.Add(30*24*time.Hour)),
	}}
	notifications := &fakeNotificationStore{}
	svc := NewRecurringService(store, &fakeTransactionStore{}, notifications, zap.NewNop())

	emitted, err := svc.UpcomingReminders(context.Background(), now, 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, emitted)
	assert.Empty(t, notifications.notifications)
}
