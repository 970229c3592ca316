package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecraft/internal/preview"
	"sitecraft/internal/session"
	"sitecraft/internal/types"
)

type stubGateway struct {
	doc    types.Document
	genErr error
	image  string
}

func (g *stubGateway) GenerateWebsiteCode(ctx context.Context, description string) (types.Document, error) {
	return g.doc, g.genErr
}

func (g *stubGateway) EnhancePrompt(ctx context.Context, idea string) (string, error) {
	return "An enhanced " + idea, nil
}

func (g *stubGateway) ApplyCodeModifications(ctx context.Context, originalCode, request string) (string, error) {
	return "<body><p>changed</p></body>", nil
}

func (g *stubGateway) GenerateImage(ctx context.Context, description string) (string, error) {
	return g.image, nil
}

const testOrigin = "http://example.com"

func setupRouter(t *testing.T, gw session.Gateway) (*gin.Engine, *session.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sess := session.New(gw)
	h := NewAPIHandler(sess, "")
	t.Cleanup(h.Close)

	router := gin.New()
	RegisterRoutes(router, h)
	return router, sess
}

func bakeryGateway() *stubGateway {
	return &stubGateway{
		doc: types.Document{
			HTML: `<h1>Crumb</h1><img src="https://placehold.co/600x400?id=1">`,
			CSS:  "h1{color:brown}",
		},
		image: "https://img.example/loaf.png",
	}
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, testOrigin+path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", testOrigin)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t, bakeryGateway())

	w := doJSON(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestIndexCarriesSandbox(t *testing.T) {
	router, _ := setupRouter(t, bakeryGateway())

	w := doJSON(router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-sandbox="`+preview.SandboxPolicy+`"`)

	w = doJSON(router, http.MethodGet, "/static/app.js", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "event.source !== frame.contentWindow")
}

func TestGenerateAndPreview(t *testing.T) {
	router, _ := setupRouter(t, bakeryGateway())

	w := doJSON(router, http.MethodPost, "/api/generate", `{"prompt":"a bakery"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var snap session.Snapshot
	decodeBody(t, w, &snap)
	assert.True(t, snap.HasCode)
	assert.Equal(t, types.ModeRefine, snap.Mode)

	w = doJSON(router, http.MethodGet, "/preview", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sandbox allow-scripts allow-popups", w.Header().Get("Content-Security-Policy"))
	assert.Contains(t, w.Body.String(), "<h1>Crumb</h1>")
	assert.Contains(t, w.Body.String(), "h1{color:brown}")
}

func TestGenerateEmptyPrompt(t *testing.T) {
	router, _ := setupRouter(t, bakeryGateway())

	w := doJSON(router, http.MethodPost, "/api/generate", `{"prompt":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "Prompt is empty", body["title"])
}

func TestGenerateRemoteFailure(t *testing.T) {
	gw := bakeryGateway()
	gw.genErr = errors.New("upstream down")
	router, _ := setupRouter(t, gw)

	w := doJSON(router, http.MethodPost, "/api/generate", `{"prompt":"a bakery"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "Failed to generate website code.", body["error"])
	assert.NotContains(t, w.Body.String(), "upstream down")
}

func TestEnhance(t *testing.T) {
	router, _ := setupRouter(t, bakeryGateway())

	w := doJSON(router, http.MethodPost, "/api/enhance", `{"idea":"bakery"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body EnhanceResponse
	decodeBody(t, w, &body)
	assert.Equal(t, "An enhanced bakery", body.EnhancedPrompt)
}

func TestModify(t *testing.T) {
	router, sess := setupRouter(t, bakeryGateway())

	w := doJSON(router, http.MethodPost, "/api/modify", `{"request":"pink"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "no code yet")

	require.NoError(t, sess.Generate(context.Background(), "bakery"))
	w = doJSON(router, http.MethodPost, "/api/modify", `{"request":"pink"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<p>changed</p>", sess.Document().HTML)
}

func TestBridgeSelectAndReplaceImage(t *testing.T) {
	router, sess := setupRouter(t, bakeryGateway())
	require.NoError(t, sess.Generate(context.Background(), "bakery"))

	msg := `{"type":"image-selected","src":"https://placehold.co/600x400?id=1","id":null}`
	w := doJSON(router, http.MethodPost, "/api/bridge", msg)
	assert.Equal(t, http.StatusBadRequest, w.Code, "refine mode rejects selection")

	w = doJSON(router, http.MethodPost, "/api/mode", `{"mode":"images"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/bridge", msg)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp BridgeResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "Placeholder Selected", resp.Notice.Title)
	require.NotNil(t, resp.State.Selection)

	w = doJSON(router, http.MethodGet, "/preview", "")
	assert.Contains(t, w.Body.String(), `"`+testOrigin+`"`)

	w = doJSON(router, http.MethodPost, "/api/image", `{"prompt":"a loaf"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, sess.Document().HTML, `src="https://img.example/loaf.png"`)
}

func TestBridgeRejectsForeignOrigin(t *testing.T) {
	router, _ := setupRouter(t, bakeryGateway())

	req := httptest.NewRequest(http.MethodPost, testOrigin+"/api/bridge",
		strings.NewReader(`{"type":"image-selected","src":"https://placehold.co/1"}`))
	req.Header.Set("Origin", "null")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBridgeRejectsUnknownType(t *testing.T) {
	router, _ := setupRouter(t, bakeryGateway())

	w := doJSON(router, http.MethodPost, "/api/bridge", `{"type":"navigate","src":"https://evil.example"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplaceImageTargetMissing(t *testing.T) {
	router, sess := setupRouter(t, bakeryGateway())
	require.NoError(t, sess.Generate(context.Background(), "bakery"))
	require.NoError(t, sess.SetMode(types.ModeImages))

	w := doJSON(router, http.MethodPost, "/api/bridge", `{"type":"image-selected","src":"https://placehold.co/1x1?id=9"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/image", `{"prompt":"a loaf"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "Image Not Found", body["title"])
}

func TestSetModeInvalid(t *testing.T) {
	router, _ := setupRouter(t, bakeryGateway())

	w := doJSON(router, http.MethodPost, "/api/mode", `{"mode":"preview"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(router, http.MethodPost, "/api/mode", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	router, sess := setupRouter(t, bakeryGateway())

	w := doJSON(router, http.MethodGet, "/api/export", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No code to export")

	require.NoError(t, sess.Generate(context.Background(), "bakery"))
	w = doJSON(router, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "website.zip")
	assert.Equal(t, "PK", w.Body.String()[:2])
}

func TestWebSocketReceivesDocumentChanges(t *testing.T) {
	router, sess := setupRouter(t, bakeryGateway())
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {server.URL}})
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool {
		w := doJSON(router, http.MethodGet, "/health", "")
		return strings.Contains(w.Body.String(), `"clients":1`)
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, sess.Generate(context.Background(), "bakery"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev session.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, session.EventDocumentChanged, ev.Type)
	assert.True(t, ev.State.HasCode)
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	router, _ := setupRouter(t, bakeryGateway())
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
