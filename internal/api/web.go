package api

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"sitecraft/internal/preview"
)

//go:embed web/index.html web/app.js
var webAssets embed.FS

var indexTemplate = template.Must(template.ParseFS(webAssets, "web/index.html"))

type indexData struct {
	Sandbox string
}

// GET /
func (h *APIHandler) Index(c *gin.Context) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, indexData{Sandbox: preview.SandboxPolicy}); err != nil {
		log.Printf("Error rendering editor page: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render editor"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// GET /static/app.js
func (h *APIHandler) AppScript(c *gin.Context) {
	data, err := webAssets.ReadFile("web/app.js")
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", data)
}
