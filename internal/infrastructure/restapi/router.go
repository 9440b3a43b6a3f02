package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// NotificationStream upgrades a request to the notification websocket.
type NotificationStream interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// RouterConfig groups everything SetupRouter mounts.
type RouterConfig struct {
	Wallet         *WalletHandler
	Portfolio      *PortfolioHandler
	Stakes         *StakeHandler
	Notifications  NotificationStream
	AllowedOrigins []string
	SwaggerSpec    string
	Logger         *zap.Logger
}

// SetupRouter creates the gin engine with all API routes.
func SetupRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))
	router.Use(ZapLoggerMiddleware(cfg.Logger))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Notifications != nil {
		router.GET("/ws", func(c *gin.Context) { cfg.Notifications.ServeWS(c.Writer, c.Request) })
	}

	if cfg.SwaggerSpec != "" {
		router.StaticFile("/docs/swagger.yaml", cfg.SwaggerSpec)
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/swagger.yaml")))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/portfolio/:address", cfg.Portfolio.GetAddressPortfolioHandler)
		v1.GET("/stakes/:address", cfg.Stakes.GetAddressStakesHandler)

		wallet := v1.Group("/wallet")
		wallet.GET("", cfg.Wallet.GetStateHandler)
		wallet.POST("/connect", cfg.Wallet.ConnectHandler)
		wallet.POST("/disconnect", cfg.Wallet.DisconnectHandler)
		wallet.POST("/refresh", cfg.Wallet.RefreshAccountsHandler)
		wallet.POST("/modal/open", cfg.Wallet.OpenModalHandler)
		wallet.POST("/modal/close", cfg.Wallet.CloseModalHandler)

		wallet.GET("/portfolio", cfg.Portfolio.GetWalletPortfolioHandler)
		wallet.POST("/portfolio/refresh", cfg.Portfolio.RefreshWalletPortfolioHandler)

		wallet.GET("/stakes", cfg.Stakes.GetWalletStakesHandler)
		wallet.POST("/stakes/refresh", cfg.Stakes.RefreshWalletStakesHandler)
		wallet.POST("/stakes/sort", cfg.Stakes.SortWalletStakesHandler)
	}

	return router
}
