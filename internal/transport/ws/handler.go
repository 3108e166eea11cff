package ws

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/finishlast/officesim/internal/game/room"
	"github.com/finishlast/officesim/internal/protocol"
)

// Handler upgrades HTTP requests to websocket sessions.
type Handler struct {
	log       *zap.Logger
	manager   *room.Manager
	validator *protocol.Validator
	upgrader  websocket.Upgrader
}

// NewHandler creates the websocket endpoint handler.
func NewHandler(log *zap.Logger, manager *room.Manager) (*Handler, error) {
	validator, err := protocol.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("building message validator: %w", err)
	}
	return &Handler{
		log:       log,
		manager:   manager,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The game client is served from the same origin; overridden
			// in dev via CheckOrigin if needed.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// ServeHTTP upgrades the connection and runs the client pumps. Each player
// gets a fresh server-assigned id for the life of the connection.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	playerID := "player_" + uuid.NewString()
	client := newClient(h.log, conn, h.manager, h.validator, playerID)

	h.log.Info("client connected", zap.String("player", playerID), zap.String("remote", r.RemoteAddr))

	go client.writePump()
	client.readPump()

	close(client.send)
	h.log.Info("client disconnected", zap.String("player", playerID))
}
