// Package ws is the websocket transport: it upgrades HTTP connections,
// validates inbound messages against the protocol schemas, and bridges
// clients to their rooms.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/finishlast/officesim/internal/game/room"
	"github.com/finishlast/officesim/internal/protocol"
)

const (
	// writeWait bounds a single write to the peer.
	writeWait = 10 * time.Second
	// pongWait is how long we wait for a pong before dropping the peer.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound frames; the largest legal message is a
	// room:join with full character customization.
	maxMessageSize = 2048
	// sendBuffer is the per-client outbound queue. At 10 deltas per second
	// this is over 20 seconds of backlog before messages drop.
	sendBuffer = 256
)

// Client is one connected websocket peer. It implements room.Sender.
type Client struct {
	log       *zap.Logger
	conn      *websocket.Conn
	manager   *room.Manager
	validator *protocol.Validator
	playerID  string

	send chan []byte

	mu   sync.Mutex
	room *room.Room
}

func newClient(log *zap.Logger, conn *websocket.Conn, manager *room.Manager, validator *protocol.Validator, playerID string) *Client {
	return &Client{
		log:       log.With(zap.String("player", playerID)),
		conn:      conn,
		manager:   manager,
		validator: validator,
		playerID:  playerID,
		send:      make(chan []byte, sendBuffer),
	}
}

// Send queues an outbound message. It never blocks: when the client's
// buffer is full the message is dropped and the periodic snapshot will
// resynchronize the peer.
func (c *Client) Send(msgType string, payload any) {
	b, err := protocol.Encode(msgType, payload)
	if err != nil {
		c.log.Error("encode outbound message", zap.String("type", msgType), zap.Error(err))
		return
	}
	select {
	case c.send <- b:
	default:
		c.log.Warn("outbound buffer full, dropping message", zap.String("type", msgType))
	}
}

// readPump reads, validates, and routes inbound messages until the
// connection drops, then removes the player from their room.
func (c *Client) readPump() {
	defer func() {
		c.leaveRoom()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("read error", zap.Error(err))
			}
			return
		}
		c.handle(message)
	}
}

// handle routes one inbound frame. A malformed join is answered with an
// error message; every other malformed frame is dropped silently so a
// misbehaving client cannot farm responses.
func (c *Client) handle(message []byte) {
	env, err := protocol.DecodeEnvelope(message)
	if err != nil {
		c.log.Debug("dropping unparseable frame", zap.Error(err))
		return
	}

	if err := c.validator.Validate(env.Type, env.Data); err != nil {
		if env.Type == protocol.TypeRoomJoin {
			c.Send(protocol.TypeError, protocol.ErrorMsg{
				Message: "Invalid join data",
				Details: err.Error(),
			})
		} else {
			c.log.Debug("dropping invalid message", zap.String("type", env.Type), zap.Error(err))
		}
		return
	}

	switch env.Type {
	case protocol.TypeRoomJoin:
		var join protocol.JoinRoom
		if err := json.Unmarshal(env.Data, &join); err != nil {
			return
		}
		c.joinRoom(join)

	case protocol.TypeRoomLeave:
		c.leaveRoom()

	case protocol.TypeActionPerform:
		var perform protocol.PerformAction
		if err := json.Unmarshal(env.Data, &perform); err != nil {
			return
		}
		c.queue(room.Command{Type: protocol.TypeActionPerform, ActionID: perform.ActionID})

	case protocol.TypeActionCancel:
		c.queue(room.Command{Type: protocol.TypeActionCancel})

	case protocol.TypePlayerMove:
		var move protocol.Move
		if err := json.Unmarshal(env.Data, &move); err != nil {
			return
		}
		c.queue(room.Command{Type: protocol.TypePlayerMove, TargetX: move.TargetX, TargetY: move.TargetY})

	case protocol.TypePlayerSpeak:
		var speak protocol.Speak
		if err := json.Unmarshal(env.Data, &speak); err != nil {
			return
		}
		c.queue(room.Command{Type: protocol.TypePlayerSpeak, Text: speak.Text})
	}
}

// joinRoom moves the client into the requested room, leaving any current
// room first.
func (c *Client) joinRoom(join protocol.JoinRoom) {
	c.leaveRoom()

	r, err := c.manager.GetOrCreate(join.RoomID)
	if err != nil {
		c.Send(protocol.TypeError, protocol.ErrorMsg{Message: err.Error()})
		return
	}

	c.mu.Lock()
	c.room = r
	c.mu.Unlock()

	r.AddPlayer(c.playerID, c, join.Character)
}

func (c *Client) leaveRoom() {
	c.mu.Lock()
	r := c.room
	c.room = nil
	c.mu.Unlock()

	if r != nil {
		r.RemovePlayer(c.playerID)
	}
}

func (c *Client) queue(cmd room.Command) {
	c.mu.Lock()
	r := c.room
	c.mu.Unlock()

	if r == nil {
		return
	}
	cmd.PlayerID = c.playerID
	r.QueueInput(cmd)
}

// writePump flushes the outbound queue and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
