package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lanexam/backend/internal/service"
	"github.com/lanexam/backend/internal/ws"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow-list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler upgrades clients into the broadcast hub. Students and the
// teacher dashboard share the same stream; every broadcast goes to all.
type WSHandler struct {
	hub      *ws.Hub
	claims   *service.ClaimService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, claims *service.ClaimService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:      hub,
		claims:   claims,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws
// Upgrades to WebSocket, assigns a connection id and joins the hub.
func (h *WSHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(uuid.NewString())
	h.hub.Register(client)

	// The connection id is the handle REST claim/release/report calls use.
	if err := ws.WriteTyped(conn, ws.Message{
		Event: ws.EventConnected,
		Data:  ws.ConnectedPayload{ConnectionID: client.ID},
	}); err != nil {
		h.hub.Unregister(client)
		conn.Close()
		return
	}

	go h.writeLoop(conn, client)
	h.readLoop(c, conn, client)
}

// writeLoop pumps hub broadcasts to the peer until the send channel closes.
func (h *WSHandler) writeLoop(conn *websocket.Conn, client *ws.Client) {
	for msg := range client.Send {
		if err := ws.WriteTyped(conn, msg); err != nil {
			h.log.Debug().Err(err).Str("connection_id", client.ID).Msg("websocket write failed")
			conn.Close()
			// Keep draining so the hub never blocks on this client.
			for range client.Send {
			}
			return
		}
	}
	conn.Close()
}

// readLoop consumes client actions until the connection drops, then leaves
// the hub. The hub's close callback releases any claims this connection
// still holds.
func (h *WSHandler) readLoop(c *gin.Context, conn *websocket.Conn, client *ws.Client) {
	defer h.hub.Unregister(client)

	for {
		var raw json.RawMessage
		if err := ws.ReadJSON(conn, &raw); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("connection_id", client.ID).Msg("websocket read error")
			}
			return
		}

		var envelope ws.RequestEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			continue
		}

		switch envelope.Action {
		case ws.ActionPing:
			// Read deadline refresh is the whole point; nothing to send.
		case ws.ActionTabLeave:
			var req ws.TabLeaveRequest
			if err := json.Unmarshal(raw, &req); err != nil || req.STT == "" {
				continue
			}
			h.claims.RecordTabLeave(c.Request.Context(), req.STT)
		}
	}
}
