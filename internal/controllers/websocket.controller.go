package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/apela812/server-stat-TG/internal/middleware"
	"github.com/apela812/server-stat-TG/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Clients authenticate with a bearer token, not cookies
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketController streams status snapshots to authenticated clients
type WebSocketController struct {
	hub      *services.WebSocketHub
	auth     *services.AuthService
	security *middleware.SecurityLogger
	log      *zap.Logger
}

func NewWebSocketController(hub *services.WebSocketHub, auth *services.AuthService, security *middleware.SecurityLogger, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		hub:      hub,
		auth:     auth,
		security: security,
		log:      logger.Named("ws"),
	}
}

// HandleWebSocket handles incoming WebSocket connections
func (wc *WebSocketController) HandleWebSocket(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		wc.security.LogFailedAuth(c.ClientIP(), "missing token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	claims, err := wc.auth.ValidateToken(token)
	if err != nil {
		wc.security.LogFailedAuth(c.ClientIP(), "invalid token: "+err.Error())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		wc.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	client := &services.ClientConnection{
		ID:   fmt.Sprintf("%s-%s-%d", c.ClientIP(), claims.Client, time.Now().UnixNano()),
		Conn: ws,
		Send: make(chan services.WebSocketMessage, sendBuffer),
	}

	if !wc.hub.Register(client) {
		ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		ws.Close()
		return
	}
	wc.security.LogWebSocketConnected(c.ClientIP(), claims.Client)

	go wc.writePump(client)
	go wc.readPump(client, c.ClientIP())
}

// readPump reads messages from the WebSocket client
func (wc *WebSocketController) readPump(client *services.ClientConnection, ip string) {
	defer func() {
		wc.hub.Unregister(client.ID)
		client.Conn.Close()
		wc.security.LogWebSocketDisconnected(ip, client.ID)
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg services.WebSocketMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wc.log.Warn("read failed", zap.String("client", client.ID), zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case "ping":
			wc.hub.SendMessage(client.ID, services.WebSocketMessage{Type: "pong", Timestamp: time.Now()})
		case "unsubscribe":
			return
		default:
			wc.log.Debug("unknown message type", zap.String("client", client.ID), zap.String("type", msg.Type))
		}
	}
}

// writePump writes messages to the WebSocket client
func (wc *WebSocketController) writePump(client *services.ClientConnection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteJSON(msg); err != nil {
				wc.log.Debug("write failed", zap.String("client", client.ID), zap.Error(err))
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// HandleTokenStatus reports the claims of the token used for the request
func HandleTokenStatus(c *gin.Context) {
	claims, ok := c.MustGet(middleware.ClaimsKey).(*services.CustomClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"client":     claims.Client,
		"expires_at": claims.ExpiresAt.Time,
		"issued_at":  claims.IssuedAt.Time,
	})
}
