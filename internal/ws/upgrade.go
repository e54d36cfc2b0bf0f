package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"emberly/config"
	"emberly/internal/auth"
	"emberly/internal/repository"
	"emberly/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeUserWS subscribes a connection to the user's own topic: new-match,
// notification and conversation-update events. Auth via token query param.
func UpgradeUserWS(cfg *config.JWTConfig, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client := &Client{UserID: claims.UserID, Send: make(chan []byte, 256)}
		hub.Register(client)
		defer client.Close()

		go writePump(conn, client)
		readLoop(conn, nil)
	}
}

// UpgradeMatchWS subscribes a connection to one match's topic for live
// message delivery. The user must be a party to the match. Inbound frames of
// type "message" are routed through the conversation service, so sends over
// the socket follow the same unread/notification path as the REST endpoint.
func UpgradeMatchWS(cfg *config.JWTConfig, hub *Hub, matches *repository.MatchRepository, conversations *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		matchIDStr := c.Query("match_id")
		if token == "" || matchIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and match_id required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		var matchID uint
		if _, err := fmt.Sscanf(matchIDStr, "%d", &matchID); err != nil || matchID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match_id"})
			return
		}
		// Party check: subscribing to an inactive match's topic is allowed
		// (it just never fires); sending into it fails in the service.
		match, err := matches.GetByID(matchID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
			return
		}
		if !match.HasUser(claims.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not part of this match"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client := &Client{UserID: claims.UserID, Send: make(chan []byte, 256)}
		hub.Register(client)
		hub.JoinMatch(matchID, client)
		defer func() {
			hub.LeaveMatch(matchID, client)
			client.Close()
		}()

		go writePump(conn, client)
		readLoop(conn, func(raw []byte) {
			var frame struct {
				Type     string `json:"type"`
				Content  string `json:"content"`
				MediaURL string `json:"media_url"`
			}
			if json.Unmarshal(raw, &frame) != nil || frame.Type != "message" {
				return
			}
			if _, err := conversations.SendMessage(claims.UserID, matchID, frame.Content, frame.MediaURL); err != nil {
				errFrame, _ := json.Marshal(gin.H{"type": "error", "error": err.Error()})
				select {
				case client.Send <- errFrame:
				default:
				}
			}
		})
	}
}

func writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readLoop(conn *websocket.Conn, onFrame func([]byte)) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if onFrame != nil {
			onFrame(raw)
		}
	}
}
