// websocket/client.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/LilVoxy/survey_report/utils"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		Socket: conn,
		Send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// sendEvent queues an event; it gives up once the writer has stopped
func (c *Client) sendEvent(event Event, logger *utils.Logger) bool {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("❌ Failed to encode event for client %s: %v", c.ID, err)
		return false
	}
	select {
	case c.Send <- data:
		return true
	case <-c.done:
		return false
	}
}

// writePump sends queued messages and pings until Send is closed
func (c *Client) writePump(logger *utils.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.Socket.Close()
		logger.Debug("writePump finished for client %s", c.ID)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.Socket.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("⚠️ Write to client %s failed: %v", c.ID, err)
				return
			}
		case <-ticker.C:
			c.Socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
