package account

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	router.PUT("/users/:user_id", h.UpsertAccount)
}
