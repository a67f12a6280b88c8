package router

import (
	"gameswap/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerUserRoutes(router *gin.RouterGroup, userHandler *handler.UserHandler) {
	users := router.Group("/users")
	{
		users.POST("", userHandler.Register)
		users.GET("/:identifier", userHandler.Get)
		users.PUT("/:identifier", userHandler.Update)
		users.DELETE("/:identifier", userHandler.Delete)
	}
}
