package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/antonkhv/shop-app/live"
	"github.com/antonkhv/shop-app/utils"
)

var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// auth already happened in the middleware, the origin check would
	// only block the panel served from another port
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveFeedHandler upgrades an admin connection onto the order feed.
// The hub pushes order_created and order_status events until the client
// disconnects.
func LiveFeedHandler(c *gin.Context) {
	conn, err := liveUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("live feed upgrade failed: %v", err)
		return
	}

	live.RegisterClient(conn)
	defer live.UnregisterClient(conn)

	// the feed is one-way, the read loop only notices the disconnect
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
