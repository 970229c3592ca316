package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"sitecraft/internal/bridge"
	"sitecraft/internal/document"
	"sitecraft/internal/export"
	"sitecraft/internal/preview"
	"sitecraft/internal/session"
	"sitecraft/internal/types"
)

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	session       *session.Session
	hub           *Hub
	origins       *bridge.OriginChecker
	allowedOrigin string
	unsubscribe   func()
}

// NewAPIHandler wires the HTTP surface to sess. allowedOrigin is the editor
// page origin; empty means the origin the request was addressed to.
func NewAPIHandler(sess *session.Session, allowedOrigin string) *APIHandler {
	origins := bridge.NewOriginChecker(allowedOrigin)
	h := &APIHandler{
		session:       sess,
		hub:           NewHub(origins),
		origins:       origins,
		allowedOrigin: allowedOrigin,
	}
	h.unsubscribe = sess.Subscribe(h.hub.Broadcast)
	return h
}

// Close detaches the handler from the session and drops websocket clients.
func (h *APIHandler) Close() {
	h.unsubscribe()
	h.hub.Close()
}

// --- Structs for API Requests/Responses ---

type EnhanceRequest struct {
	Idea string `json:"idea"`
}

type EnhanceResponse struct {
	EnhancedPrompt string `json:"enhancedPrompt"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

type ModifyRequest struct {
	Request string `json:"request"`
}

type ImageRequest struct {
	Prompt string `json:"prompt"`
}

type ModeRequest struct {
	Mode types.EditingMode `json:"mode" binding:"required"`
}

type BridgeResponse struct {
	Notice session.Notice   `json:"notice"`
	State  session.Snapshot `json:"state"`
}

// --- API Handlers ---

// GET /api/state
func (h *APIHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// POST /api/enhance
func (h *APIHandler) EnhancePrompt(c *gin.Context) {
	var req EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	enhanced, err := h.session.Enhance(c.Request.Context(), req.Idea)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, EnhanceResponse{EnhancedPrompt: enhanced})
}

// POST /api/generate
func (h *APIHandler) GenerateSite(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	log.Printf("Received generation request (%d chars)", len(req.Prompt))
	if err := h.session.Generate(c.Request.Context(), req.Prompt); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// POST /api/modify
func (h *APIHandler) ModifySite(c *gin.Context) {
	var req ModifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.session.Modify(c.Request.Context(), req.Request); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// POST /api/image
func (h *APIHandler) ReplaceImage(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.session.ReplaceImage(c.Request.Context(), req.Prompt); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// POST /api/mode
func (h *APIHandler) SetMode(c *gin.Context) {
	var req ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.session.SetMode(req.Mode); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// POST /api/bridge receives messages the editor page relays from the preview
// frame.
func (h *APIHandler) HandleBridgeMessage(c *gin.Context) {
	if err := h.origins.Check(c.GetHeader("Origin"), c.Request.Host); err != nil {
		log.Printf("Rejected bridge message: %v", err)
		c.JSON(http.StatusForbidden, gin.H{"error": "Origin not allowed"})
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	msg, err := bridge.Decode(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bridge message: " + err.Error()})
		return
	}

	notice, err := h.session.SelectImage(msg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, BridgeResponse{Notice: notice, State: h.session.Snapshot()})
}

// GET /api/export
func (h *APIHandler) ExportSite(c *gin.Context) {
	data, err := h.session.Export()
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.ArchiveName+`"`)
	c.Data(http.StatusOK, "application/zip", data)
}

// GET /preview serves the document shown in the sandboxed frame. The CSP
// sandbox keeps it isolated even when opened outside the frame.
func (h *APIHandler) Preview(c *gin.Context) {
	snap := h.session.Snapshot()
	c.Header("Content-Security-Policy", "sandbox "+preview.SandboxPolicy)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8",
		[]byte(preview.Render(snap.Document, snap.Mode, h.hostOrigin(c))))
}

// hostOrigin is the only origin the preview may post selections to.
func (h *APIHandler) hostOrigin(c *gin.Context) string {
	if h.allowedOrigin != "" {
		return h.allowedOrigin
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// respondError maps session failures to a status and a toast-ready body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, document.ErrImageNotFound):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrEmptyInput),
		errors.Is(err, session.ErrNoCode),
		errors.Is(err, session.ErrNoSelection),
		errors.Is(err, session.ErrNotImageMode),
		errors.Is(err, session.ErrInvalidMode),
		errors.Is(err, export.ErrEmptyDocument),
		errors.Is(err, bridge.ErrInvalidMessage),
		errors.Is(err, bridge.ErrUnknownType):
		status = http.StatusBadRequest
	default:
		var userErr *session.Error
		if errors.As(err, &userErr) {
			status = http.StatusBadGateway
		}
	}

	var userErr *session.Error
	if errors.As(err, &userErr) {
		c.JSON(status, gin.H{"error": userErr.Message, "title": userErr.Title})
		return
	}
	log.Printf("Unclassified API error: %v", err)
	c.JSON(status, gin.H{"error": "Internal error"})
}
