package handler

import (
	"payulot/internal/adapter/http/middleware"
	redisStore "payulot/internal/adapter/storage/redis"
	"payulot/internal/core/authz"
	"payulot/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	TreasurySvc    ports.TreasuryService
	ChargeSvc      ports.ChargeService
	PayoutSvc      ports.PayoutService
	PassportSvc    ports.PassportService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	BankRepo       ports.BankAccountRepository
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	AuditSvc       ports.AuditService         // nil = audit trail middleware disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	api := r.Group("/api", jwtAuth)

	// Audit trail for self-service writes (after response)
	if deps.AuditSvc != nil {
		api.Use(middleware.AuditTrail(deps.AuditSvc))
	}

	treasuryHandler := NewTreasuryHandler(deps.TreasurySvc)
	vendorHandler := NewVendorHandler(deps.ChargeSvc)
	transferHandler := NewTransferHandler(deps.PayoutSvc)
	transactionHandler := NewTransactionHandler(deps.ReportingSvc)
	passportHandler := NewPassportHandler(deps.PassportSvc)
	bankAccountHandler := NewBankAccountHandler(deps.BankRepo)

	transactions := api.Group("/transactions")
	{
		transactions.POST("/add-funds", rl("treasury"),
			middleware.RequireCapability(authz.CapFundWallets), treasuryHandler.AddFunds)
		transactions.GET("/recent", rl("reads"),
			middleware.RequireCapability(authz.CapViewAllTransactions), transactionHandler.Recent)
		transactions.GET("/mine", rl("reads"),
			middleware.RequireCapability(authz.CapViewOwnTransactions), transactionHandler.Mine)
		transactions.GET("/user/:id", rl("reads"),
			middleware.RequireCapability(authz.CapViewAllTransactions), transactionHandler.ForUser)
		transactions.GET("/report", rl("reads"),
			middleware.RequireCapability(authz.CapViewReports), transactionHandler.Report)
	}

	api.POST("/treasury/adjust", rl("treasury"),
		middleware.RequireCapability(authz.CapAdjustTreasury), treasuryHandler.Adjust)

	api.POST("/vendor/passport-charge", rl("charge"),
		middleware.RequireCapability(authz.CapChargePassport), vendorHandler.PassportCharge)

	transfers := api.Group("/transfers")
	{
		transfers.POST("", rl("transfers"),
			middleware.RequireCapability(authz.CapRequestPayout), transferHandler.Create)
		transfers.GET("", rl("reads"),
			middleware.RequireCapability(authz.CapProcessPayouts), transferHandler.List)
		transfers.PATCH("/:id/claim", rl("transfers"),
			middleware.RequireCapability(authz.CapProcessPayouts), transferHandler.Claim)
		transfers.PATCH("/:id/release", rl("transfers"),
			middleware.RequireCapability(authz.CapProcessPayouts), transferHandler.Release)
		transfers.PATCH("/:id/complete", rl("transfers"),
			middleware.RequireCapability(authz.CapProcessPayouts), transferHandler.Complete)
		transfers.PATCH("/:id/reject", rl("transfers"),
			middleware.RequireCapability(authz.CapProcessPayouts), transferHandler.Reject)
	}

	bankAccounts := api.Group("/bank-accounts")
	{
		bankAccounts.POST("", rl("transfers"),
			middleware.RequireCapability(authz.CapManageBankAccounts), bankAccountHandler.Create)
		bankAccounts.GET("", rl("reads"),
			middleware.RequireCapability(authz.CapManageBankAccounts), bankAccountHandler.List)
	}

	api.POST("/passports", rl("treasury"),
		middleware.RequireCapability(authz.CapIssuePassports), passportHandler.Issue)

	return r
}
