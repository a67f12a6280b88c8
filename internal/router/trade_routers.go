package router

import (
	"gameswap/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerTradeRoutes(router *gin.RouterGroup, tradeHandler *handler.TradeHandler) {
	trades := router.Group("/trades")
	{
		trades.POST("", tradeHandler.Create)
		trades.POST("/:id/accept", tradeHandler.Accept)
		trades.POST("/:id/reject", tradeHandler.Reject)
		trades.GET("/sent/:userId", tradeHandler.ListSent)
		trades.GET("/received/:userId", tradeHandler.ListReceived)
	}
}
