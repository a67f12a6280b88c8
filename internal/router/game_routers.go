package router

import (
	"gameswap/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerGameRoutes(router *gin.RouterGroup, gameHandler *handler.GameHandler) {
	games := router.Group("/games")
	{
		games.POST("", gameHandler.Create)
		games.GET("/:id", gameHandler.Get)
		games.PUT("/:id", gameHandler.Update)
		games.GET("/owner/:ownerId", gameHandler.ListByOwner)
	}
}
