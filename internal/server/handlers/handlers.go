// Package handlers provides HTTP request handlers for the skyview dev server.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/skyview"
	ws "github.com/agentstation/skyview/internal/server/websocket"
)

// Handlers provides access to all HTTP handlers. The mount is read through
// a getter because watch mode replaces it wholesale on every rebuild.
type Handlers struct {
	ui      func() *skyview.UI
	hub     *ws.Hub
	logger  *zerolog.Logger
	started time.Time
}

// New creates a new Handlers instance. hub may be nil when watch mode is off.
func New(ui func() *skyview.UI, hub *ws.Hub, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		ui:      ui,
		hub:     hub,
		logger:  logger,
		started: time.Now(),
	}
}
