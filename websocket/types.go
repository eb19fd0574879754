// websocket/types.go
package websocket

import (
	"net/http"

	"github.com/LilVoxy/survey_report/models"
	"github.com/gorilla/websocket"
)

// Message types exchanged over the socket
const (
	TypeAnalyze  = "analyze"
	TypeProgress = "progress"
	TypeReport   = "report"
	TypeError    = "error"
)

// Message is sent by the client to request an analysis
type Message struct {
	Type       string          `json:"type"`
	Rows       []models.RawRow `json:"rows,omitempty"`
	ReportDate string          `json:"reportDate,omitempty"`
	ScaleMax   float64         `json:"scaleMax,omitempty"`
}

// Event is sent by the server
type Event struct {
	Type   string                  `json:"type"`
	Stage  string                  `json:"stage,omitempty"`
	Report *models.CanonicalReport `json:"report,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

// Client is one WebSocket connection
type Client struct {
	ID     string
	Socket *websocket.Conn
	Send   chan []byte
	done   chan struct{}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the API is open to any origin, as the REST endpoints
	},
}
