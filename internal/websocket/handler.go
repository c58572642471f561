package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs runs a chat connection until the peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn, identity string, handle MessageHandler) {
	client := &Client{Hub: hub, Conn: c, Identity: identity, Send: make(chan []byte, 16), handle: handle}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
