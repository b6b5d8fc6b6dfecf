package api

import (
	"smsledger/internal/api/handlers"
	"smsledger/pkg/auth"
	"smsledger/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	pairHandler *handlers.PairHandler,
	ingestHandler *handlers.IngestHandler,
	txHandler *handlers.TransactionHandler,
	ruleHandler *handlers.RuleHandler,
	budgetHandler *handlers.BudgetHandler,
	jobsHandler *handlers.JobsHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Pairing (public)
	app.Post("/pair", pairHandler.Pair)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	ingest := protected.Group("/ingest")
	ingest.Post("/live", ingestHandler.Live)
	ingest.Post("/import", ingestHandler.Import)
	ingest.Post("/resync", ingestHandler.Resync)

	transactions := protected.Group("/transactions")
	transactions.Get("", txHandler.List)
	transactions.Get("/:id", txHandler.Get)
	transactions.Put("/:id/category", txHandler.UpdateCategory)
	transactions.Delete("/:id", txHandler.Delete)
	transactions.Post("/:id/restore", txHandler.Restore)

	protected.Get("/summaries", txHandler.ListSummaries)
	protected.Get("/archive", txHandler.ListArchive)

	rules := protected.Group("/rules")
	rules.Post("", ruleHandler.CreateRule)
	rules.Get("", ruleHandler.ListRules)
	rules.Put("/:id", ruleHandler.UpdateRule)
	rules.Delete("/:id", ruleHandler.DeleteRule)

	patterns := protected.Group("/patterns")
	patterns.Post("", ruleHandler.CreatePattern)
	patterns.Get("", ruleHandler.ListPatterns)
	patterns.Delete("/:id", ruleHandler.DeletePattern)

	budgets := protected.Group("/budgets")
	budgets.Post("", budgetHandler.CreateBudget)
	budgets.Get("", budgetHandler.ListBudgets)
	budgets.Put("/:id", budgetHandler.UpdateBudget)
	budgets.Delete("/:id", budgetHandler.DeleteBudget)

	recurring := protected.Group("/recurring")
	recurring.Post("", budgetHandler.CreateRecurring)
	recurring.Get("", budgetHandler.ListRecurring)
	recurring.Put("/:id", budgetHandler.UpdateRecurring)
	recurring.Delete("/:id", budgetHandler.DeleteRecurring)

	notifications := protected.Group("/notifications")
	notifications.Get("", budgetHandler.ListNotifications)
	notifications.Post("/:id/read", budgetHandler.MarkNotificationRead)

	preferences := protected.Group("/preferences")
	preferences.Get("/refund-keyword", budgetHandler.GetRefundKeyword)
	preferences.Put("/refund-keyword", budgetHandler.SetRefundKeyword)

	jobs := protected.Group("/jobs")
	jobs.Post("/recurring/run", jobsHandler.RunRecurring)
	jobs.Post("/budgets/run", jobsHandler.RunBudgets)
	jobs.Post("/cleanup/run", jobsHandler.RunCleanup)

	return app
}
