package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the editor page, the preview and the API endpoints.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {
	// --- Editor ---
	router.GET("/", h.Index)
	router.GET("/static/app.js", h.AppScript)
	router.GET("/preview", h.Preview)
	router.GET("/ws", h.hub.ServeWS)

	// --- Session ---
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/state", h.GetState)
		apiGroup.POST("/enhance", h.EnhancePrompt)
		apiGroup.POST("/generate", h.GenerateSite)
		apiGroup.POST("/modify", h.ModifySite)
		apiGroup.POST("/image", h.ReplaceImage)
		apiGroup.POST("/mode", h.SetMode)
		apiGroup.POST("/bridge", h.HandleBridgeMessage)
		apiGroup.GET("/export", h.ExportSite)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": h.hub.ClientCount()})
	})
}
