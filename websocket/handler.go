// websocket/handler.go
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/LilVoxy/survey_report/config"
	"github.com/LilVoxy/survey_report/models"
	"github.com/LilVoxy/survey_report/transform"
	"github.com/LilVoxy/survey_report/utils"
	"github.com/gorilla/websocket"
)

// AnalyzeHandler runs analyses requested over a WebSocket and streams the
// stages of each run before the final report.
type AnalyzeHandler struct {
	transformer *transform.Transformer
	report      config.ReportConfig
	logger      *utils.Logger
}

// NewAnalyzeHandler creates the /ws/analyze handler
func NewAnalyzeHandler(transformer *transform.Transformer, report config.ReportConfig, logger *utils.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		transformer: transformer,
		report:      report,
		logger:      logger,
	}
}

// ServeHTTP upgrades the connection and serves it until the client leaves
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("❌ WebSocket upgrade failed: %v", err)
		return
	}

	client := newClient(conn)
	h.logger.Info("👤 Client %s connected", client.ID)

	go client.writePump(h.logger)
	h.readPump(client)
}

// readPump handles client messages. Analyses run one at a time on a
// separate goroutine, so pongs are still read while a report is built and
// a disconnect cancels the running analysis.
func (h *AnalyzeHandler) readPump(c *Client) {
	ctx, cancel := context.WithCancel(context.Background())
	requests := make(chan Message, maxPendingAnalyses)
	worker := make(chan struct{})
	go func() {
		defer close(worker)
		for msg := range requests {
			if ctx.Err() != nil {
				continue
			}
			h.analyze(ctx, c, msg)
		}
	}()

	defer func() {
		cancel()
		close(requests)
		<-worker
		close(c.Send)
		h.logger.Info("👤 Client %s disconnected", c.ID)
	}()

	c.Socket.SetReadLimit(maxMessageSize)
	c.Socket.SetReadDeadline(time.Now().Add(pongWait))
	c.Socket.SetPongHandler(func(string) error {
		c.Socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("⚠️ Read from client %s failed: %v", c.ID, err)
			}
			return
		}
		c.Socket.SetReadDeadline(time.Now().Add(pongWait))

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendEvent(Event{Type: TypeError, Error: "invalid message"}, h.logger)
			continue
		}

		switch msg.Type {
		case TypeAnalyze:
			select {
			case requests <- msg:
			default:
				c.sendEvent(Event{Type: TypeError, Error: "too many pending analyses"}, h.logger)
			}
		default:
			c.sendEvent(Event{Type: TypeError, Error: "unknown message type " + msg.Type}, h.logger)
		}
	}
}

func (h *AnalyzeHandler) analyze(ctx context.Context, c *Client, msg Message) {
	meta := models.ReportMetadata{
		ReportDate:  msg.ReportDate,
		ScaleMax:    msg.ScaleMax,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if meta.ScaleMax <= 0 {
		meta.ScaleMax = h.report.ScaleMax
	}

	report := h.transformer.TransformWithProgress(ctx, msg.Rows, meta, func(stage transform.Stage) {
		c.sendEvent(Event{Type: TypeProgress, Stage: string(stage)}, h.logger)
	})

	if c.sendEvent(Event{Type: TypeReport, Report: report}, h.logger) {
		h.logger.Info("✅ Report %s sent to client %s", report.ID, c.ID)
	}
}
