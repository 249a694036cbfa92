package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dafibh/planner/planner-web/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades dashboard tabs to live event streams
type WebSocketHandler struct {
	hub      *websocket.Hub
	origins  map[string]struct{}
	upgrader ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. Pages served by this
// host are always accepted; allowedOrigins adds others.
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:     hub,
		origins: make(map[string]struct{}, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		h.origins[strings.TrimRight(origin, "/")] = struct{}{}
	}
	h.upgrader = ws.Upgrader{
		ReadBufferSize:  512,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	switch {
	case origin == "":
		return true
	case origin == "http://"+r.Host || origin == "https://"+r.Host:
		return true
	}
	if _, ok := h.origins[origin]; ok {
		return true
	}

	log.Warn().Str("origin", origin).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// parseScope reads ?simulation. Without it the tab follows every simulation.
func parseScope(raw string) (int64, bool) {
	if raw == "" {
		return websocket.AllSimulations, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// HandleWS handles GET /ws?simulation=ID
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	simulationID, ok := parseScope(c.QueryParam("simulation"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid simulation")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already wrote the error response
		log.Debug().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, simulationID, h.hub)
	h.hub.Register(client)
	log.Info().
		Int64("simulation_id", simulationID).
		Str("client_id", client.ID()).
		Int("clients", h.hub.TotalClientCount()).
		Msg("WebSocket client connected")

	go client.Serve()
	return nil
}
