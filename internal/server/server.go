package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"investdash/internal/auth"
	"investdash/internal/cache"
	"investdash/internal/config"
	"investdash/internal/inflight"
	"investdash/internal/investment"
	"investdash/internal/ledger"
	"investdash/internal/level"
	"investdash/internal/platform"
	"investdash/internal/portfolio"
	"investdash/internal/wallet"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	config *config.Config
}

func New(cfg *config.Config, client *platform.Client, store *cache.Store) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// One guard for every mutating action; keys are (user, action) scoped.
	guard := inflight.NewGuard()
	loc := cfg.CalendarTimezone

	walletHandler := wallet.NewHandler(client, store, guard)
	investmentHandler := investment.NewHandler(client, store, guard)
	ledgerHandler := ledger.NewHandler(client, store, loc)
	levelHandler := level.NewHandler(client, store, guard, loc)
	portfolioHandler := portfolio.NewHandler(client, store, loc)

	public := router.Group("/auth")
	{
		public.POST("/session", CreateSession(cfg, client))
	}

	protected := router.Group("/")
	protected.Use(auth.Middleware(cfg.JWTSecret))
	{
		protected.GET("/wallets", walletHandler.GetBalances)
		protected.POST("/wallets/transfer", walletHandler.Transfer)
		protected.POST("/wallets/deposit", walletHandler.Deposit)
		protected.POST("/wallets/withdraw", walletHandler.Withdraw)

		protected.GET("/plans", investmentHandler.ListPlans)
		protected.GET("/investments", investmentHandler.ListMine)
		protected.POST("/investments", investmentHandler.Purchase)

		protected.GET("/income", ledgerHandler.GetIncome)

		protected.GET("/levels", levelHandler.GetLevels)
		protected.POST("/claims/daily", levelHandler.ClaimDaily)
		protected.POST("/claims/level", levelHandler.ClaimLevel)

		protected.GET("/portfolio", portfolioHandler.GetPortfolio)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
