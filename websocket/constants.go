// websocket/constants.go
package websocket

import (
	"time"
)

const (
	// Time allowed to write a message to the client
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the client
	pongWait = 60 * time.Second

	// Ping period, must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size; an analysis request carries the whole export
	maxMessageSize = 16 * 1024 * 1024

	// Outgoing message buffer per client
	sendBufferSize = 16

	// Analysis requests queued behind the running one
	maxPendingAnalyses = 4
)
