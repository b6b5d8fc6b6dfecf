package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smsledger/internal/models"

	"github.com/google/uuid"
)

var errStoreDown = errors.New("store unavailable")

type fakeTransactionStore struct {
	txs        []*models.Transaction
	failCreate bool
	failDedup  bool
}

func (f *fakeTransactionStore) ExistsMatching(_ context.Context, amount float64, occurredAt time.Time, description string) (bool, error) {
	if f.failDedup {
		return false, errStoreDown
	}
	for _, tx := range f.txs {
		if tx.Amount == amount && tx.OccurredAt.Equal(occurredAt) && tx.Description == description {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTransactionStore) Create(_ context.Context, tx *models.Transaction) error {
	if f.failCreate {
		return errStoreDown
	}
	f.txs = append(f.txs, tx)
	return nil
}

func (f *fakeTransactionStore) NewestTimestamp(_ context.Context) (*time.Time, error) {
	var newest *time.Time
	for _, tx := range f.txs {
		if newest == nil || tx.OccurredAt.After(*newest) {
			ts := tx.OccurredAt
			newest = &ts
		}
	}
	return newest, nil
}

type fakeSummaryStore struct {
	summaries map[string]*models.LiteSummary
	creates   int
	updates   int
}

func newFakeSummaryStore() *fakeSummaryStore {
	return &fakeSummaryStore{summaries: make(map[string]*models.LiteSummary)}
}

func summaryKey(day time.Time, bank string) string {
	return fmt.Sprintf("%s|%s", day.Format("2006-01-02"), bank)
}

func (f *fakeSummaryStore) GetByDayBank(_ context.Context, day time.Time, bank string) (*models.LiteSummary, error) {
	if s, ok := f.summaries[summaryKey(day, bank)]; ok {
		return s, nil
	}
	return nil, nil
}

func (f *fakeSummaryStore) Create(_ context.Context, summary *models.LiteSummary) error {
	f.summaries[summaryKey(summary.Day, summary.Bank)] = summary
	f.creates++
	return nil
}

func (f *fakeSummaryStore) Update(_ context.Context, summary *models.LiteSummary) error {
	f.summaries[summaryKey(summary.Day, summary.Bank)] = summary
	f.updates++
	return nil
}

type fakeArchiveStore struct {
	seen map[string]bool
}

func newFakeArchiveStore() *fakeArchiveStore {
	return &fakeArchiveStore{seen: make(map[string]bool)}
}

func (f *fakeArchiveStore) Insert(_ context.Context, msg *models.ArchivedMessage) (bool, error) {
	key := fmt.Sprintf("%s|%s|%d", msg.Sender, msg.Body, msg.SMSTimestamp.UnixMilli())
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

type fakePatternStore struct {
	exprs []string
	err   error
}

func (f *fakePatternStore) ListExpressions(_ context.Context) ([]string, error) {
	return f.exprs, f.err
}

type fakeRuleStore struct {
	rules []models.CategoryRule
}

func (f *fakeRuleStore) ListOrdered(_ context.Context) ([]models.CategoryRule, error) {
	return f.rules, nil
}

type fakeRecurringStore struct {
	rules      []models.RecurringRule
	failUpdate bool
}

func (f *fakeRecurringStore) ListDue(_ context.Context, now time.Time) ([]models.RecurringRule, error) {
	var due []models.RecurringRule
	for _, rule := range f.rules {
		if !rule.NextDue.After(now) {
			due = append(due, rule)
		}
	}
	return due, nil
}

func (f *fakeRecurringStore) ListUpcoming(_ context.Context, from, to time.Time) ([]models.RecurringRule, error) {
	var upcoming []models.RecurringRule
	for _, rule := range f.rules {
		if rule.NextDue.After(from) && !rule.NextDue.After(to) {
			upcoming = append(upcoming, rule)
		}
	}
	return upcoming, nil
}

func (f *fakeRecurringStore) Update(_ context.Context, rule *models.RecurringRule) error {
	if f.failUpdate {
		return errStoreDown
	}
	for i := range f.rules {
		if f.rules[i].ID == rule.ID {
			f.rules[i] = *rule
			return nil
		}
	}
	return errors.New("rule not found")
}

type fakeBudgetStore struct {
	budgets         []models.Budget
	notified        map[uuid.UUID]time.Time
	failSetNotified bool
}

func newFakeBudgetStore(budgets ...models.Budget) *fakeBudgetStore {
	return &fakeBudgetStore{budgets: budgets, notified: make(map[uuid.UUID]time.Time)}
}

func (f *fakeBudgetStore) ListActive(_ context.Context) ([]models.Budget, error) {
	var active []models.Budget
	for _, b := range f.budgets {
		if b.Active {
			active = append(active, b)
		}
	}
	return active, nil
}

func (f *fakeBudgetStore) SetLastNotified(_ context.Context, id uuid.UUID, at time.Time) error {
	if f.failSetNotified {
		return errStoreDown
	}
	f.notified[id] = at
	return nil
}

type fakeSpendStore struct {
	spend       map[string]float64
	lastKeyword string
	lastStart   time.Time
	lastEnd     time.Time
}

func (f *fakeSpendStore) SumDebits(_ context.Context, category string, start, end time.Time, refundKeyword string) (float64, error) {
	f.lastKeyword = refundKeyword
	f.lastStart = start
	f.lastEnd = end
	return f.spend[category], nil
}

type fakeNotificationStore struct {
	notifications []*models.Notification
	failCreate    bool
}

func (f *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	if f.failCreate {
		return errStoreDown
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationStore) HasSince(_ context.Context, kind models.NotificationKind, referenceID string, since time.Time) (bool, error) {
	for _, n := range f.notifications {
		if n.Kind == kind && n.ReferenceID == referenceID && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

type fakePreferenceStore struct {
	values map[string]string
}

func (f *fakePreferenceStore) Get(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}
