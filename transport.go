/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Partyrelay websocket transport
//
// Every client keeps one websocket open against /ws and speaks in JSON
// envelopes:
//
//	client -> server  {"event": "join-room", "ack": 3, "data": {...}}
//	server -> client  {"event": "player-joined", "data": {...}}
//	ack reply         {"event": "ack", "ack": 3, "data": {...}}
//
// Requests carrying an ack id get exactly one ack frame back. Events that
// have nothing to acknowledge never reply. Room logic lives in the relay
// package; this file only moves frames between sockets and the relay.

package main

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/partyrelay/games"
	"github.com/Seednode/partyrelay/relay"
)

const (
	eventAck = "ack"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Messages coming from clients
type envelope struct {
	Event string          `json:"event"`
	Ack   *int64          `json:"ack,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Messages sent to clients
type outbound struct {
	Event string `json:"event"`
	Ack   *int64 `json:"ack,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type joinRequest struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type playerRequest struct {
	PlayerID string `json:"playerId"`
}

type startRequest struct {
	GameName string `json:"gameName"`
}

type guessRequest struct {
	Guess string `json:"guess"`
}

type Client struct {
	id   relay.ConnID
	conn *websocket.Conn
	send chan outbound
}

// Hub owns the live sockets and implements relay.Sender over them.
type Hub struct {
	cfg     *Config
	rooms   *relay.Controller
	clients map[relay.ConnID]*Client

	mu sync.Mutex
}

// Send queues one event for conn without blocking. A client whose queue
// is full is dropped; its read pump then reports the disconnect.
func (h *Hub) Send(conn relay.ConnID, event string, payload any) {
	h.deliver(conn, outbound{Event: event, Data: payload})
}

func (h *Hub) deliver(conn relay.ConnID, msg outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[conn]
	if !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		logf(h.cfg, "RELAY: Dropping slow connection %s", conn)

		delete(h.clients, conn)
		close(c.send)
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c
}

// unregister forgets c and hands the disconnect to the relay. h.mu must
// not be held while calling into the relay, which sends while locked.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if current, ok := h.clients[c.id]; ok && current == c {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()

	h.rooms.Disconnect(c.id)
}

// closeAll disconnects every client (used on shutdown).
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, id)
	}
}

func (h *Hub) reply(c *Client, ack *int64, data any) {
	if ack == nil {
		return
	}

	h.deliver(c.id, outbound{Event: eventAck, Ack: ack, Data: data})
}

// respond acks a request with either its result or a failure payload.
func (h *Hub) respond(c *Client, ack *int64, result any, err error) {
	if err != nil {
		h.reply(c, ack, relay.FailureAck{Success: false, Error: wireError(err)})

		return
	}

	h.reply(c, ack, result)
}

// report logs why a fire-and-forget event went nowhere. Nothing is sent
// back; non-host callers of host-only events are ignored on the wire.
func (h *Hub) report(c *Client, event string, err error) {
	if err != nil {
		logf(h.cfg, "RELAY: Ignored %s from %s: %v", event, c.id, err)
	}
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return errBadRequest
	}

	return nil
}

// payload decodes an opaque game object, which must be a JSON object.
func payload(data json.RawMessage) (relay.Payload, error) {
	var p relay.Payload
	if err := decode(data, &p); err != nil {
		return nil, err
	}

	if p == nil {
		p = relay.Payload{}
	}

	return p, nil
}

func (h *Hub) dispatch(c *Client, env envelope) {
	switch env.Event {
	case relay.EventCreateRoom:
		h.reply(c, env.Ack, h.rooms.CreateRoom(c.id))

	case relay.EventJoinRoom:
		var req joinRequest
		if err := decode(env.Data, &req); err != nil {
			h.respond(c, env.Ack, nil, err)
			return
		}

		ack, err := h.rooms.JoinRoom(c.id, req.RoomCode, req.PlayerName)
		h.respond(c, env.Ack, ack, err)

	case relay.EventGetRoomInfo:
		ack, err := h.rooms.RoomInfo(c.id)
		h.respond(c, env.Ack, ack, err)

	case relay.EventGetPlayerInfo:
		var req playerRequest
		if err := decode(env.Data, &req); err != nil {
			h.respond(c, env.Ack, nil, err)
			return
		}

		ack, err := h.rooms.PlayerInfo(c.id, req.PlayerID)
		h.respond(c, env.Ack, ack, err)

	case relay.EventStartGame:
		var req startRequest
		if err := decode(env.Data, &req); err != nil {
			h.report(c, env.Event, err)
			return
		}

		if _, ok := games.Lookup(req.GameName); !ok {
			logf(h.cfg, "RELAY: Starting uncatalogued game %q", req.GameName)
		}

		h.report(c, env.Event, h.rooms.StartGame(c.id, req.GameName))

	case relay.EventGameStateUpdate:
		p, err := payload(env.Data)
		if err == nil {
			err = h.rooms.UpdateGameState(c.id, p)
		}

		h.report(c, env.Event, err)

	case relay.EventControllerInput:
		p, err := payload(env.Data)
		if err == nil {
			err = h.rooms.ControllerInput(c.id, p)
		}

		h.report(c, env.Event, err)

	case relay.EventDrawPoint:
		var pt relay.DrawPoint
		err := decode(env.Data, &pt)
		if err == nil {
			err = h.rooms.DrawPoint(c.id, pt)
		}

		h.report(c, env.Event, err)

	case relay.EventClearCanvas:
		h.report(c, env.Event, h.rooms.ClearCanvas(c.id))

	case relay.EventSubmitGuess:
		var req guessRequest
		err := decode(env.Data, &req)
		if err == nil {
			err = h.rooms.SubmitGuess(c.id, req.Guess)
		}

		h.report(c, env.Event, err)

	case relay.EventPlayerReady:
		var req playerRequest
		err := decode(env.Data, &req)
		if err == nil {
			err = h.rooms.PlayerReady(c.id, req.PlayerID)
		}

		h.report(c, env.Event, err)

	case relay.EventEndRoom:
		h.report(c, env.Event, h.rooms.EndRoom(c.id))

	default:
		// ignore unknown types
		logf(h.cfg, "RELAY: Unknown event %q from %s", env.Event, c.id)
	}
}

func checkOrigin(cfg *Config) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(cfg.allowedOrigins) == 0 {
			return true
		}

		return slices.Contains(cfg.allowedOrigins, r.Header.Get("Origin"))
	}
}

func serveWS(cfg *Config, hub *Hub) httprouter.Handle {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(cfg),
	}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: Upgrade from %s failed: %v", realIP(r), err)
			return
		}

		client := &Client{
			id:   relay.ConnID(uuid.NewString()),
			conn: conn,
			send: make(chan outbound, cfg.sendBuffer),
		}

		hub.register(client)

		logf(cfg, "SERVE: Connection %s from %s", client.id, realIP(r))

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()

		logf(h.cfg, "SERVE: Connection %s closed", c.id)
	}()

	c.conn.SetReadLimit(h.cfg.maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logf(h.cfg, "ERROR: Reading from %s: %v", c.id, err)
			}

			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			logf(h.cfg, "RELAY: Malformed frame from %s", c.id)

			continue
		}

		h.dispatch(c, env)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
