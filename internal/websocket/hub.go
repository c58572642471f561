package websocket

import (
	"escapadas-chatbot-be/internal/observability"
	"escapadas-chatbot-be/internal/pkg/logger"
)

// Hub keeps track of open chat connections.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	shutdown   chan struct{}

	metrics *observability.Metrics
	logger  logger.ILogger
}

func NewHub(metrics *observability.Metrics, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		shutdown:   make(chan struct{}),
		metrics:    metrics,
		logger:     log,
	}
}

func (h *Hub) Run() {
	shutdown := h.shutdown
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.metrics.ActiveSockets.Set(float64(len(h.clients)))
			h.logger.Debug("WEBSOCKET", "Client connected", map[string]interface{}{"identity": client.Identity})

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.metrics.ActiveSockets.Set(float64(len(h.clients)))
			h.logger.Debug("WEBSOCKET", "Client disconnected", map[string]interface{}{"identity": client.Identity})

		case <-shutdown:
			// Closing the connection ends the read pump, which unregisters.
			for client := range h.clients {
				client.Conn.Close()
			}
			shutdown = nil
		}
	}
}

// Stop closes every open connection.
func (h *Hub) Stop() {
	close(h.shutdown)
}
