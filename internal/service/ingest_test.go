package service

import (
	"context"
	"testing"
	"time"

	"smsledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ingestFixture struct {
	txs       *fakeTransactionStore
	summaries *fakeSummaryStore
	archive   *fakeArchiveStore
	patterns  *fakePatternStore
	rules     *fakeRuleStore
	svc       *IngestService
}

func newIngestFixture() *ingestFixture {
	f := &ingestFixture{
		txs:       &fakeTransactionStore{},
		summaries: newFakeSummaryStore(),
		archive:   newFakeArchiveStore(),
		patterns:  &fakePatternStore{},
		rules:     &fakeRuleStore{},
	}
	f.svc = NewIngestService(f.txs, f.summaries, f.archive, f.patterns, f.rules, testParser(), zap.NewNop())
	return f
}

func msg(sender, body string, ts time.Time) models.RawMessage {
	return models.RawMessage{Sender: sender, Body: body, Timestamp: ts}
}

func TestIngestEndToEnd(t *testing.T) {
	f := newIngestFixture()
	f.rules.rules = []models.CategoryRule{
		rule(models.FieldDescription, models.MatcherContains, "swiggy", "Food", 10),
	}
	ts := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.Local)

	res, err := f.svc.Ingest(context.Background(), []models.RawMessage{
		msg("VM-HDFCBK", "Rs.500.00 debited from A/c for UPI to Swiggy. Ref 123456", ts),
	}, ModeLive)
	require.NoError(t, err)
	assert.Equal(t, 1, res.NewTransactions)
	assert.Equal(t, 0, res.NewSummaries)
	assert.Equal(t, 1, res.Archived)

	require.Len(t, f.txs.txs, 1)
	tx := f.txs.txs[0]
	assert.Equal(t, 500.00, tx.Amount)
	assert.Equal(t, models.DirectionDebit, tx.Direction)
	require.NotNil(t, tx.BankName)
	assert.Equal(t, "HDFC Bank", *tx.BankName)
	require.NotNil(t, tx.Category)
	assert.Equal(t, "Food", *tx.Category)
}

func TestIngestIdempotent(t *testing.T) {
	f := newIngestFixture()
	ts := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.Local)
	batch := []models.RawMessage{
		msg("VM-HDFCBK", "Rs 500 debited for UPI to XYZ", ts),
	}

	first, err := f.svc.Ingest(context.Background(), batch, ModeLive)
	require.NoError(t, err)
	assert.Equal(t, 1, first.NewTransactions)
	assert.Equal(t, 1, first.Archived)

	second, err := f.svc.Ingest(context.Background(), batch, ModeLive)
	require.NoError(t, err)
	assert.Equal(t, 0, second.NewTransactions)
	assert.Equal(t, 0, second.Archived)
	assert.Len(t, f.txs.txs, 1)
}

func TestIngestSummaryMergeByOverwrite(t *testing.T) {
	f := newIngestFixture()
	day := time.Date(2025, time.May, 26, 0, 0, 0, 0, time.Local)
	morning := day.Add(10 * time.Hour)
	evening := day.Add(20 * time.Hour)

	res, err := f.svc.Ingest(context.Background(), []models.RawMessage{
		msg("VM-HDFCBK", "3 transactions worth Rs 300 using your UPI Lite Wallet/s on 26-May-25-HDFC Bank", morning),
	}, ModeLive)
	require.NoError(t, err)
	assert.Equal(t, 1, res.NewSummaries)

	// Evening SMS carries the bank's new running total for the same day.
	res, err = f.svc.Ingest(context.Background(), []models.RawMessage{
		msg("VM-HDFCBK", "7 transactions worth Rs 910.50 using your UPI Lite Wallet/s on 26-May-25-HDFC Bank", evening),
	}, ModeLive)
	require.NoError(t, err)
	assert.Equal(t, 0, res.NewSummaries, "overwrite must not count as a new summary")

	stored, err := f.summaries.GetByDayBank(context.Background(), day, "HDFC")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 7, stored.TxCount)
	assert.Equal(t, 910.50, stored.TotalAmount)
	assert.Equal(t, 1, f.summaries.creates)
	assert.Equal(t, 1, f.summaries.updates)
}

func TestIngestIdenticalSummaryIsNoOp(t *testing.T) {
	f := newIngestFixture()
	ts := time.Now()
	body := "3 transactions worth Rs 300 using your UPI Lite Wallet/s on 26-May-25-HDFC Bank"

	_, err := f.svc.Ingest(context.Background(), []models.RawMessage{msg("VM-HDFCBK", body, ts)}, ModeLive)
	require.NoError(t, err)
	_, err = f.svc.Ingest(context.Background(), []models.RawMessage{msg("VM-HDFCBK", body, ts)}, ModeLive)
	require.NoError(t, err)

	assert.Equal(t, 1, f.summaries.creates)
	assert.Equal(t, 0, f.summaries.updates)
}

func TestIngestErrorIsolation(t *testing.T) {
	// A storage failure on one message must not stop the rest of the batch.
	f := newIngestFixture()
	f.txs.failDedup = true
	ts := time.Now()

	res, err := f.svc.Ingest(context.Background(), []models.RawMessage{
		msg("VM-HDFCBK", "Rs 500 debited for UPI to XYZ", ts),
		msg("VM-HDFCBK", "3 transactions worth Rs 300 using your UPI Lite Wallet/s on 26-May-25-HDFC Bank", ts),
	}, ModeLive)
	require.NoError(t, err)
	assert.Equal(t, 0, res.NewTransactions)
	assert.Equal(t, 1, res.NewSummaries, "summary path must survive the transaction store failure")
}

func TestIngestSkipsNonFinancial(t *testing.T) {
	f := newIngestFixture()

	res, err := f.svc.Ingest(context.Background(), []models.RawMessage{
		msg("VM-HDFCBK", "Your OTP is 482913. Do not share it.", time.Now()),
		msg("AD-PROMO", "Flat 50% off this weekend!", time.Now()),
	}, ModeHistoricalImport)
	require.NoError(t, err)
	assert.Equal(t, 0, res.NewTransactions)
	assert.Equal(t, 0, res.Archived, "non-financial messages are not archived")
}

func TestIngestResyncDropsOldMessages(t *testing.T) {
	f := newIngestFixture()
	newest := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.Local)
	f.txs.txs = []*models.Transaction{{Amount: 100, OccurredAt: newest, Description: "existing"}}

	res, err := f.svc.Ingest(context.Background(), []models.RawMessage{
		msg("VM-HDFCBK", "Rs 200 debited for UPI to OLD", newest.Add(-time.Hour)),
		msg("VM-HDFCBK", "Rs 300 debited for UPI to NEW", newest.Add(time.Hour)),
	}, ModeIncrementalResync)
	require.NoError(t, err)
	assert.Equal(t, 1, res.NewTransactions)

	require.Len(t, f.txs.txs, 2)
	assert.Equal(t, 300.0, f.txs.txs[1].Amount)
}

func TestIngestResyncWithEmptyStoreKeepsAll(t *testing.T) {
	f := newIngestFixture()

	res, err := f.svc.Ingest(context.Background(), []models.RawMessage{
		msg("VM-HDFCBK", "Rs 200 debited for UPI to A", time.Now().Add(-time.Hour)),
		msg("VM-HDFCBK", "Rs 300 debited for UPI to B", time.Now()),
	}, ModeIncrementalResync)
	require.NoError(t, err)
	assert.Equal(t, 2, res.NewTransactions)
}

func TestIngestFailsWhenConfigUnloadable(t *testing.T) {
	f := newIngestFixture()
	f.patterns.err = errStoreDown

	_, err := f.svc.Ingest(context.Background(), []models.RawMessage{
		msg("VM-HDFCBK", "Rs 500 debited for UPI", time.Now()),
	}, ModeLive)
	assert.Error(t, err)
}

func TestIngestStopsOnCancelledContext(t *testing.T) {
	f := newIngestFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Ingest(ctx, []models.RawMessage{
		msg("VM-HDFCBK", "Rs 500 debited for UPI", time.Now()),
	}, ModeLive)
	assert.ErrorIs(t, err, context.Canceled)
}
