package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"qipad/config"
	"qipad/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FundingHub pushes live funding-progress updates. Clients optionally
// subscribe to specific projects; unsubscribed clients get everything.
type FundingHub struct {
	*Hub
}

func NewFundingHub() *FundingHub {
	return &FundingHub{Hub: NewHub()}
}

type fundingUpdate struct {
	Type                string  `json:"type"`
	ProjectID           uint    `json:"project_id"`
	CurrentFundingPaise int64   `json:"current_funding_paise"`
	FundingGoalPaise    int64   `json:"funding_goal_paise"`
	ProgressPercent     float64 `json:"progress_percent"`
}

// BroadcastFunding fans a settled-investment update out to interested
// clients. Implements the payment settlement broadcaster.
func (h *FundingHub) BroadcastFunding(projectID uint, currentPaise, goalPaise int64, progressPercent float64) {
	data, _ := json.Marshal(fundingUpdate{
		Type:                "funding_update",
		ProjectID:           projectID,
		CurrentFundingPaise: currentPaise,
		FundingGoalPaise:    goalPaise,
		ProgressPercent:     progressPercent,
	})
	for _, c := range h.snapshot() {
		if !c.wantsProject(projectID) {
			continue
		}
		select {
		case c.Send <- data:
		default:
		}
	}
}

type subscribeMsg struct {
	Type      string `json:"type"` // "subscribe"
	ProjectID uint   `json:"project_id"`
}

// UpgradeFundingWS authenticates via the token query param, upgrades the
// connection and serves the feed until the client disconnects.
func UpgradeFundingWS(cfg *config.JWTConfig, hub *FundingHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		token := c.Query("token")
		if token == "" {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"token required"}`))
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			return
		}

		client := &Client{
			UserID: claims.UserID,
			Send:   make(chan []byte, 256),
		}
		hub.Register(client)
		defer client.Close()

		go writePump(client, conn)
		readPump(client, conn)
	}
}

// writePump copies messages from client.Send to the connection and keeps
// the connection alive with pings.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes subscribe messages until the connection drops.
func readPump(c *Client, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg subscribeMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "subscribe" && msg.ProjectID > 0 {
			c.Subscribe(msg.ProjectID)
		}
	}
}
