package websocket

import (
	"context"
	"encoding/json"
	"time"

	"escapadas-chatbot-be/internal/dto"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

// MessageHandler answers one chat frame.
type MessageHandler func(ctx context.Context, identity string, request *dto.ChatRequest) (*dto.ChatResponse, error)

type errorFrame struct {
	Error string `json:"error"`
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	// Conversation identity bound to this connection.
	Identity string

	// Buffered channel of outbound frames.
	Send chan []byte

	handle MessageHandler
}

// readPump answers frames one at a time, so replies keep request order.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("WEBSOCKET", "Unexpected close", map[string]interface{}{
					"identity": c.Identity,
					"error":    err.Error(),
				})
			}
			break
		}

		c.Send <- c.answer(raw)
		// Generation can outlast the read deadline.
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (c *Client) answer(raw []byte) []byte {
	var req dto.ChatRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return encode(errorFrame{Error: "invalid JSON frame"})
	}

	res, err := c.handle(context.Background(), c.Identity, &req)
	if err != nil {
		return encode(errorFrame{Error: err.Error()})
	}
	return encode(res)
}

func encode(v interface{}) []byte {
	b, _ := json.Marshal(v)
	return b
}

// writePump pumps frames to the websocket connection and keeps it alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
