package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-construction-ledger/internal/handler"
	"go-construction-ledger/internal/middleware"
	"go-construction-ledger/internal/model"
	"go-construction-ledger/internal/repository"
	"go-construction-ledger/internal/service"
	"go-construction-ledger/internal/ws"
	"go-construction-ledger/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.User{}, &model.Bank{}, &model.Site{}, &model.Transaction{})

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Setup WebSocket hub for ledger event broadcasts
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	txRepo := repository.NewTransactionRepo(db)
	dashRepo := repository.NewDashboardRepo(db)
	migrationRepo := repository.NewMigrationRepo(db)
	bankRepo := repository.NewBankRepo(db)
	siteRepo := repository.NewSiteRepo(db)
	userRepo := repository.NewUserRepo(db)

	txService := service.NewTransactionService(txRepo, wsHub)
	dashService := service.NewDashboardService(dashRepo)
	migrationService := service.NewMigrationService(migrationRepo)
	bankService := service.NewBankService(bankRepo)
	siteService := service.NewSiteService(siteRepo)
	authService := service.NewAuthService(userRepo)

	txHandler := handler.NewTransactionHandler(txService)
	dashHandler := handler.NewDashboardHandler(dashService)
	migrationHandler := handler.NewMigrationHandler(migrationService)
	bankHandler := handler.NewBankHandler(bankService)
	siteHandler := handler.NewSiteHandler(siteService)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Construction Ledger v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Transactions
	protected.Get("/transactions", txHandler.List)
	protected.Get("/transactions/initial-balance", txHandler.InitialBalance)
	protected.Get("/transactions/:id", txHandler.Get)
	protected.Post("/transactions", txHandler.Create)
	protected.Post("/transactions/bulk", txHandler.CreateBulk)
	protected.Put("/transactions/:id", txHandler.Update)
	protected.Delete("/transactions/:id", txHandler.Delete)

	// Dashboard
	protected.Get("/dashboard", dashHandler.GetDashboard)

	// Banks
	protected.Get("/banks", bankHandler.GetAll)
	protected.Get("/banks/:id", bankHandler.Get)
	protected.Post("/banks", bankHandler.Create)
	protected.Put("/banks/:id", bankHandler.Update)
	protected.Delete("/banks/:id", bankHandler.Delete)

	// Sites
	protected.Get("/sites", siteHandler.GetAll)
	protected.Get("/sites/:id", siteHandler.Get)
	protected.Post("/sites", siteHandler.Create)
	protected.Put("/sites/:id", siteHandler.Update)
	protected.Delete("/sites/:id", siteHandler.Delete)

	// Migration (operator only)
	migration := protected.Group("/migration", middleware.RequireRole(model.RoleAdmin))
	migration.Get("/status", migrationHandler.Status)
	migration.Post("/run", migrationHandler.Run)
	migration.Post("/revert", migrationHandler.Revert)
	migration.Get("/stats", migrationHandler.Stats)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default admin user if no user exists yet
func seedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&model.User{}).Count(&count)
	if count > 0 {
		return
	}

	admin := &model.User{
		Email:    "admin@example.com",
		Name:     "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.LastModifiedBy = "system"

	if err := admin.SetPassword("admin123"); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := db.Create(admin).Error; err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Println("Admin user created: admin@example.com / admin123")
	}
}
