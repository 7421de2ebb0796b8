package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"artist-platform/internal/shared/middleware"
	"artist-platform/internal/shared/response"
	"artist-platform/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		auth := middleware.AuthMiddleware(c.JWTManager)
		setupArtistRoutes(v1, c, auth)
		setupWorkRoutes(v1, c, auth)
		setupWalletRoutes(v1, c)
	}

	return router
}

// ========================================
// ARTIST ROUTES
// ========================================
// :address is a profile address; owner-only routes also accept "me"
func setupArtistRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	h := c.ArtistHandler

	artists := v1.Group("/artists")
	{
		artists.GET("/:address", h.GetProfile)
		artists.GET("/:address/vault", h.GetVault)
		artists.GET("/:address/followers/:follower", h.GetFollow)
		artists.GET("/:address/works", h.ListWorks)
		artists.GET("/:address/works/:index", h.GetWork)
		artists.GET("/:address/collabs/:requester", h.GetCollab)
	}

	signed := artists.Group("", auth)
	{
		signed.POST("", h.CreateProfile)
		signed.PATCH("/:address", h.UpdateProfile)
		signed.DELETE("/:address", h.CloseProfile)
		signed.POST("/:address/vault", h.CreateVault)
		signed.POST("/:address/follow", h.Follow)
		signed.POST("/:address/tips", h.Tip)
		signed.POST("/:address/withdrawals", h.Withdraw)
		signed.POST("/:address/works", h.PostWork)
		signed.POST("/:address/collabs", h.CreateCollab)
		signed.PATCH("/:address/collabs/:requester", h.UpdateCollabStatus)
	}

	v1.GET("/leaderboard", h.Leaderboard)
}

// ========================================
// WORK ROUTES
// ========================================
func setupWorkRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	h := c.ArtistHandler

	works := v1.Group("/works")
	{
		works.GET("/:work/interactions/:user", h.GetInteraction)
		works.POST("/upload-url", auth, h.UploadURL)
		works.POST("/:work/interactions", auth, h.Interact)
	}
}

// ========================================
// WALLET ROUTES
// ========================================
func setupWalletRoutes(v1 *gin.RouterGroup, c *container.Container) {
	h := c.ArtistHandler

	wallets := v1.Group("/wallets")
	{
		wallets.GET("/:key", h.GetWallet)
		wallets.POST("/:key/fund", h.Fund)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.HealthCheck(ctx.Request.Context())
		code := http.StatusOK
		if status["store"] != "ok" {
			code = http.StatusServiceUnavailable
		}
		response.Success(ctx, code, gin.H{
			"status":      status,
			"version":     c.Config.App.Version,
			"store":       c.Config.App.StoreBackend,
			"faucet":      c.Config.Ledger.FaucetEnabled,
			"checked_at":  time.Now().UTC(),
			"environment": c.Config.App.Environment,
		})
	}
}
