package main

import (
	"context"
	"log"

	"smsledger/internal/models"
	"smsledger/internal/repository"
	"smsledger/pkg/config"
	"smsledger/pkg/logger"
	"smsledger/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Starter category rules. Priorities leave room for user rules to override.
var defaultRules = []models.CategoryRule{
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "swiggy", Category: "Food", Priority: 10},
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "zomato", Category: "Food", Priority: 10},
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "uber", Category: "Transport", Priority: 10},
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "ola", Category: "Transport", Priority: 10},
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "irctc", Category: "Travel", Priority: 10},
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "amazon", Category: "Shopping", Priority: 10},
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "flipkart", Category: "Shopping", Priority: 10},
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "bigbasket", Category: "Groceries", Priority: 10},
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "blinkit", Category: "Groceries", Priority: 10},
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "jio", Category: "Utilities", Priority: 5},
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "airtel", Category: "Utilities", Priority: 5},
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "electricity", Category: "Utilities", Priority: 5},
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "salary", Category: "Income", Priority: 20},
	{Field: models.FieldDescription, Matcher: models.MatcherContains, Keyword: "refund", Category: "Refund", Priority: 30},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	ctx := context.Background()

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.InitSchema(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	ruleRepo := repository.NewRuleRepository(db, appLogger)
	prefRepo := repository.NewPreferenceRepository(db, appLogger)

	// Idempotent: skip rule seeding when any rules already exist.
	existing, err := ruleRepo.ListOrdered(ctx)
	if err != nil {
		appLogger.Fatal("Failed to list rules", zap.Error(err))
	}
	if len(existing) > 0 {
		appLogger.Info("Rules already present, skipping rule seed", zap.Int("count", len(existing)))
	} else {
		for _, rule := range defaultRules {
			rule.ID = uuid.New()
			rule.Logic = models.LogicAny
			if err := ruleRepo.Create(ctx, &rule); err != nil {
				appLogger.Fatal("Failed to seed rule", zap.String("keyword", rule.Keyword), zap.Error(err))
			}
		}
		appLogger.Info("Seeded category rules", zap.Int("count", len(defaultRules)))
	}

	keyword, err := prefRepo.Get(ctx, "refund_keyword")
	if err != nil {
		appLogger.Fatal("Failed to read refund keyword", zap.Error(err))
	}
	if keyword == "" {
		if err := prefRepo.Set(ctx, "refund_keyword", "refund"); err != nil {
			appLogger.Fatal("Failed to seed refund keyword", zap.Error(err))
		}
		appLogger.Info("Seeded refund keyword preference")
	}

	appLogger.Info("Seed completed")
}
