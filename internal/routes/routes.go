package routes

import (
	"cryptomine/internal/handlers"
	"cryptomine/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires all API routes
func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 20,
		Burst:             40,
	}))

	SetupDepositRoutes(r)
	SetupSettlementRoutes(r)
	SetupWalletRoutes(r)

	r.GET("/ws/ledger", handlers.LedgerFeed)

	return r
}

// SetupDepositRoutes sets up all routes related to deposit approval
func SetupDepositRoutes(r *gin.Engine) {
	deposits := r.Group("/deposits")
	{
		deposits.POST("/approve", handlers.ApproveDeposit)
	}
}

// SetupSettlementRoutes sets up the daily job trigger routes
func SetupSettlementRoutes(r *gin.Engine) {
	r.POST("/mining/run", handlers.RunDailyMining)
	r.POST("/team-earnings/run", handlers.RunDailyTeamEarnings)
}

// SetupWalletRoutes sets up all routes related to wallet reads and claims
func SetupWalletRoutes(r *gin.Engine) {
	wallet := r.Group("/wallet")
	{
		wallet.GET("/:user_id", handlers.GetWallet)
		wallet.POST("/:user_id/claim", handlers.ClaimTeamEarnings)
		wallet.GET("/:user_id/transactions", handlers.ListTransactions)
	}
}
