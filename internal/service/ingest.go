package service

import (
	"context"
	"fmt"

	"smsledger/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type IngestMode string

const (
	ModeLive              IngestMode = "LIVE"
	ModeHistoricalImport  IngestMode = "HISTORICAL_IMPORT"
	ModeIncrementalResync IngestMode = "INCREMENTAL_RESYNC"
)

// IngestResult reports successful writes only; per-message failures are
// logged and skipped.
type IngestResult struct {
	NewTransactions int `json:"new_transactions"`
	NewSummaries    int `json:"new_summaries"`
	Archived        int `json:"archived"`
}

// IngestService coordinates the SMS-to-record pipeline: bank resolution,
// both parsers, dedup, categorization, persistence and raw-message archival.
// It holds no state across calls and is safe to invoke concurrently from the
// live path and a user-triggered resync: correctness rests on content-based
// dedup at the storage layer, not on mutual exclusion.
type IngestService struct {
	transactions TransactionStore
	summaries    SummaryStore
	archive      ArchiveStore
	patterns     PatternStore
	rules        RuleStore
	parser       *SMSParser
	logger       *zap.Logger
}

func NewIngestService(
	transactions TransactionStore,
	summaries SummaryStore,
	archive ArchiveStore,
	patterns PatternStore,
	rules RuleStore,
	parser *SMSParser,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		transactions: transactions,
		summaries:    summaries,
		archive:      archive,
		patterns:     patterns,
		rules:        rules,
		parser:       parser,
		logger:       logger,
	}
}

// Ingest runs a batch of raw messages through the pipeline. Messages are
// processed independently in the order supplied; an error is returned only
// when the store is unusable up front (loading patterns/rules fails) or the
// context is cancelled mid-batch; already-inserted records stay valid.
func (s *IngestService) Ingest(ctx context.Context, msgs []models.RawMessage, mode IngestMode) (IngestResult, error) {
	var res IngestResult

	// Snapshot user configuration once per batch so concurrent preference
	// edits never corrupt an in-flight run.
	custom, err := s.patterns.ListExpressions(ctx)
	if err != nil {
		return res, fmt.Errorf("loading custom patterns: %w", err)
	}
	rules, err := s.rules.ListOrdered(ctx)
	if err != nil {
		return res, fmt.Errorf("loading category rules: %w", err)
	}

	if mode == ModeIncrementalResync {
		msgs, err = s.dropAlreadySeen(ctx, msgs)
		if err != nil {
			return res, err
		}
	}

	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		s.processMessage(ctx, msg, custom, rules, &res)
	}

	s.logger.Info("Ingest batch completed",
		zap.String("mode", string(mode)),
		zap.Int("messages", len(msgs)),
		zap.Int("new_transactions", res.NewTransactions),
		zap.Int("new_summaries", res.NewSummaries),
		zap.Int("archived", res.Archived),
	)
	return res, nil
}

// dropAlreadySeen keeps only messages newer than the newest stored
// transaction, for the silent resume check and the "refresh archive" action.
func (s *IngestService) dropAlreadySeen(ctx context.Context, msgs []models.RawMessage) ([]models.RawMessage, error) {
	newest, err := s.transactions.NewestTimestamp(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving newest transaction: %w", err)
	}
	if newest == nil {
		return msgs, nil
	}

	filtered := make([]models.RawMessage, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Timestamp.After(*newest) {
			filtered = append(filtered, msg)
		}
	}
	return filtered, nil
}

func (s *IngestService) processMessage(ctx context.Context, msg models.RawMessage, custom []string, rules []models.CategoryRule, res *IngestResult) {
	bank := IdentifyBank(msg.Sender)

	if summary := ParseLiteSummary(msg.Body); summary != nil {
		if !s.upsertSummary(ctx, summary, res) {
			return
		}
		s.archiveMessage(ctx, msg, res)
		return
	}

	tx := s.parser.Parse(msg.Body, msg.Sender, msg.Timestamp, custom, bank)
	if tx == nil {
		// Not financial; expected for most SMS traffic.
		return
	}

	if !s.insertTransaction(ctx, tx, rules, res) {
		return
	}
	s.archiveMessage(ctx, msg, res)
}

// upsertSummary applies the merge-by-overwrite rule: the incoming SMS is the
// bank's authoritative running total for the day, not a delta. Returns false
// on storage failure.
func (s *IngestService) upsertSummary(ctx context.Context, summary *models.LiteSummary, res *IngestResult) bool {
	existing, err := s.summaries.GetByDayBank(ctx, summary.Day, summary.Bank)
	if err != nil {
		s.logger.Warn("Summary lookup failed", zap.String("bank", summary.Bank), zap.Error(err))
		return false
	}

	if existing == nil {
		summary.ID = uuid.New()
		if err := s.summaries.Create(ctx, summary); err != nil {
			s.logger.Warn("Summary insert failed", zap.String("bank", summary.Bank), zap.Error(err))
			return false
		}
		res.NewSummaries++
		return true
	}

	if existing.TxCount == summary.TxCount && existing.TotalAmount == summary.TotalAmount {
		return true
	}

	existing.TxCount = summary.TxCount
	existing.TotalAmount = summary.TotalAmount
	if err := s.summaries.Update(ctx, existing); err != nil {
		s.logger.Warn("Summary update failed", zap.String("bank", summary.Bank), zap.Error(err))
		return false
	}
	return true
}

// insertTransaction dedups on the content key and categorizes on first
// insert. Returns false on storage failure, true when the message should be
// archived (inserted or already known).
func (s *IngestService) insertTransaction(ctx context.Context, tx *models.Transaction, rules []models.CategoryRule, res *IngestResult) bool {
	exists, err := s.transactions.ExistsMatching(ctx, tx.Amount, tx.OccurredAt, tx.Description)
	if err != nil {
		s.logger.Warn("Dedup lookup failed", zap.Error(err))
		return false
	}
	if exists {
		return true
	}

	if tx.Category == nil {
		tx.Category = SuggestCategory(tx, rules)
	}
	tx.ID = uuid.New()
	if err := s.transactions.Create(ctx, tx); err != nil {
		s.logger.Warn("Transaction insert failed", zap.Error(err))
		return false
	}
	res.NewTransactions++
	return true
}

func (s *IngestService) archiveMessage(ctx context.Context, msg models.RawMessage, res *IngestResult) {
	inserted, err := s.archive.Insert(ctx, &models.ArchivedMessage{
		ID:           uuid.New(),
		Sender:       msg.Sender,
		Body:         msg.Body,
		SMSTimestamp: msg.Timestamp,
	})
	if err != nil {
		s.logger.Warn("Archive insert failed", zap.String("sender", msg.Sender), zap.Error(err))
		return
	}
	if inserted {
		res.Archived++
	}
}
