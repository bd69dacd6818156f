package websocket

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/princekumarofficial/portfolio-service/internal/site"
	wsClient "github.com/princekumarofficial/portfolio-service/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The live view only carries public content
		return true
	},
}

// WebSocketHandler upgrades a viewer connection and gives it its own
// session: a content store and a section switcher.
// @Summary Live view
// @Description Streams state.snapshot, section.fading, section.changed, content.changed and error events. Accepts navigate, reload and state messages.
// @Tags live
// @Router /ws [get]
func WebSocketHandler(hub *wsClient.Hub, projects site.ProjectSource, marketing site.MarketingSource, fade time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("Failed to upgrade WebSocket connection", slog.String("error", err.Error()))
			return
		}

		client := wsClient.NewClient(conn, hub)
		logger := slog.Default().With(slog.String("client_id", client.ID()))
		session := site.NewSession(site.NewStore(projects, marketing), client, fade, logger)
		client.Attach(session)

		if !hub.RegisterClient(client) {
			session.Close()
			conn.Close()
			return
		}

		client.Start()
		session.Start()
	}
}
