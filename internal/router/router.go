package router

import (
	"net/http"

	"gameswap/internal/handler"

	"github.com/gin-gonic/gin"
)

type Config struct {
	TradeHandler *handler.TradeHandler
	UserHandler  *handler.UserHandler
	GameHandler  *handler.GameHandler
	Healthz      gin.HandlerFunc
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.Default()

	if cfg.Healthz != nil {
		router.GET("/healthz", cfg.Healthz)
	} else {
		router.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	api := router.Group("/v1/")
	registerTradeRoutes(api, cfg.TradeHandler)
	registerUserRoutes(api, cfg.UserHandler)
	registerGameRoutes(api, cfg.GameHandler)

	return router
}
