package health

import "github.com/gin-gonic/gin"

func RegisterRoutes(router gin.IRoutes, h *Handler) {
	router.GET("/", h.Root)
	router.GET("/healthz", h.Check)
}
