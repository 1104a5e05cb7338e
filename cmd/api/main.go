package main

import (
	"log"
	"net"
	"net/smtp"
	"os"

	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/notifier"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Small Business Accounting API
// @version         1.0
// @description     Backend for contacts, products, purchase/sales documents, payments, cost centers and budgets.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Outbound mail: plain SMTP relay when configured, log sink otherwise
	var mailer notifier.Notifier = notifier.LogNotifier{}
	if smtpAddr := os.Getenv("SMTP_ADDR"); smtpAddr != "" {
		smtpFrom := os.Getenv("SMTP_FROM")
		var auth smtp.Auth
		if smtpUser := os.Getenv("SMTP_USER"); smtpUser != "" {
			host, _, splitErr := net.SplitHostPort(smtpAddr)
			if splitErr != nil {
				host = smtpAddr
			}
			auth = smtp.PlainAuth("", smtpUser, os.Getenv("SMTP_PASSWORD"), host)
		}
		mailer = notifier.NewSMTPNotifier(smtpAddr, smtpFrom, auth)
	}

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)
	productRepo := repository.NewProductRepository(db)
	costCenterRepo := repository.NewCostCenterRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	reportRepo := repository.NewReportRepository(db)

	userService := service.NewUserService(userRepo)
	contactService := service.NewContactService(contactRepo, txManager)
	productService := service.NewProductService(productRepo, costCenterRepo)
	costCenterService := service.NewCostCenterService(costCenterRepo, ruleRepo, productRepo)
	documentService := service.NewDocumentService(docRepo, paymentRepo, productRepo, contactRepo, sequenceRepo, auditRepo, costCenterService, txManager, wsHub)
	paymentService := service.NewPaymentService(paymentRepo, docRepo, auditRepo, txManager, wsHub)
	budgetService := service.NewBudgetService(budgetRepo, costCenterRepo, auditRepo, txManager)
	reportService := service.NewReportService(reportRepo, budgetRepo)
	portalService := service.NewPortalService(userRepo, contactRepo, docRepo, paymentRepo, auditRepo, mailer)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	contactHandler := handler.NewContactHandler(contactService)
	productHandler := handler.NewProductHandler(productService)
	costCenterHandler := handler.NewCostCenterHandler(costCenterService)
	documentHandler := handler.NewDocumentHandler(documentService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	reportHandler := handler.NewReportHandler(reportService)
	portalHandler := handler.NewPortalHandler(portalService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	contactHandler.RegisterRoutes(router.Group(""))
	productHandler.RegisterRoutes(router.Group(""))
	costCenterHandler.RegisterRoutes(router.Group(""))
	documentHandler.RegisterRoutes(router.Group(""))
	paymentHandler.RegisterRoutes(router.Group(""))
	budgetHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))
	portalHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
