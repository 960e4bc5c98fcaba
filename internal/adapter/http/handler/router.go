package handler

import (
	"growfi-backend/internal/adapter/http/middleware"
	redisStore "growfi-backend/internal/adapter/storage/redis"
	"growfi-backend/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const defaultMaxBodyBytes = 1 << 20

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	WalletSvc      ports.WalletService
	GoalSvc        ports.GoalService
	ExpenseSvc     ports.ExpenseService
	TransferSvc    ports.TransferService
	TokenSvc       ports.TokenService
	Revocations    ports.TokenRevocationStore // nil = logout cannot revoke
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	MaxBodyBytes   int64              // 0 = 1 MiB
	OpenAPISpec    []byte
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	bodyLimit := deps.MaxBodyBytes
	if bodyLimit <= 0 {
		bodyLimit = defaultMaxBodyBytes
	}

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(bodyLimit))

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	docs := NewDocsHandler(deps.OpenAPISpec)
	swagger := r.Group("/swagger")
	{
		swagger.GET("", docs.UI)
		swagger.GET("/spec", docs.Document)
	}

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Public routes ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Revocations, deps.Logger)

	v1.POST("/auth/logout", jwtAuth, rl("write"), authHandler.Logout)
	v1.GET("/users/me", jwtAuth, rl("read"), authHandler.Me)

	walletHandler := NewWalletHandler(deps.WalletSvc, deps.TransferSvc)
	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.GET("/", rl("read"), walletHandler.List)
		wallet.POST("/", rl("write"), walletHandler.Create)
		wallet.GET("/:id", rl("read"), walletHandler.Get)
		wallet.PUT("/:id", rl("write"), walletHandler.Update)
		wallet.DELETE("/:id", rl("write"), walletHandler.Delete)
		wallet.PATCH("/:id/assign-goal", rl("transfers"), walletHandler.AssignGoal)
		wallet.PATCH("/:id/assign-expense", rl("transfers"), walletHandler.AssignExpense)
	}

	goalHandler := NewGoalHandler(deps.GoalSvc)
	goals := v1.Group("/goals", jwtAuth)
	{
		goals.GET("", rl("read"), goalHandler.List)
		goals.POST("", rl("write"), goalHandler.Create)
		goals.GET("/:id", rl("read"), goalHandler.Get)
		goals.PUT("/:id", rl("write"), goalHandler.Update)
		goals.DELETE("/:id", rl("write"), goalHandler.Delete)
	}

	expenseHandler := NewExpenseHandler(deps.ExpenseSvc)
	expenses := v1.Group("/expenses", jwtAuth)
	{
		expenses.GET("", rl("read"), expenseHandler.List)
		expenses.POST("", rl("write"), expenseHandler.Create)
		expenses.GET("/:id", rl("read"), expenseHandler.Get)
		expenses.PUT("/:id", rl("write"), expenseHandler.Update)
		expenses.DELETE("/:id", rl("write"), expenseHandler.Delete)
	}

	return r
}
