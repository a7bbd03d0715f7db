/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package relay

import (
	"context"
	"sync"
	"time"
)

// DefaultGracePeriod is how long a room outlives its host's connection,
// so room-ended reaches the remaining players before the room vanishes.
const DefaultGracePeriod = 100 * time.Millisecond

type Options struct {
	// GracePeriod defaults to DefaultGracePeriod.
	GracePeriod time.Duration

	// Logf receives diagnostic lines. Nil discards them.
	Logf func(format string, args ...any)

	// KnownKind reports whether a game payload discriminant belongs to a
	// known game. Unknown kinds are still relayed, only logged.
	KnownKind func(kind string) bool

	// AfterFunc schedules deferred cleanup. Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func())

	Now func() time.Time
}

// Controller drives the room lifecycle. A single mutex serializes every
// operation against the registry and the index, and all fan-out happens
// while it is held, so broadcasts within a room go out in request order.
type Controller struct {
	mu     sync.Mutex
	reg    *Registry
	index  *Index
	router *Router

	grace     time.Duration
	logf      func(format string, args ...any)
	knownKind func(kind string) bool
	afterFunc func(d time.Duration, f func())
	now       func() time.Time
}

func NewController(sender Sender, opts Options) *Controller {
	reg := NewRegistry()
	index := NewIndex()

	c := &Controller{
		reg:       reg,
		index:     index,
		router:    NewRouter(reg, index, sender),
		grace:     opts.GracePeriod,
		logf:      opts.Logf,
		knownKind: opts.KnownKind,
		afterFunc: opts.AfterFunc,
		now:       opts.Now,
	}

	if c.grace <= 0 {
		c.grace = DefaultGracePeriod
	}
	if c.logf == nil {
		c.logf = func(string, ...any) {}
	}
	if c.afterFunc == nil {
		c.afterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	if c.now == nil {
		c.now = time.Now
	}

	reg.now = c.now

	return c
}

// resolve returns the room conn is bound to and the player at conn.
// The player is nil if the binding has no matching roster entry.
func (c *Controller) resolve(conn ConnID) (*Room, *Player, bool) {
	code, ok := c.index.RoomOf(conn)
	if !ok {
		return nil, nil, false
	}

	room, ok := c.reg.Room(code)
	if !ok {
		return nil, nil, false
	}

	room.LastActive = c.now()

	player, _ := room.PlayerByConn(conn)

	return room, player, true
}

// resolveHost is resolve restricted to the room's current host connection.
func (c *Controller) resolveHost(conn ConnID) (*Room, error) {
	room, player, ok := c.resolve(conn)
	if !ok {
		return nil, ErrNotInRoom
	}

	if player == nil || !player.IsHost {
		return nil, ErrUnauthorized
	}

	return room, nil
}

// detach makes conn leave whatever room it is bound to, unless that room
// is keep. A connection belongs to at most one room.
func (c *Controller) detach(conn ConnID, keep string) {
	if code, ok := c.index.RoomOf(conn); ok && code != keep {
		c.depart(conn)
	}
}

func (c *Controller) CreateRoom(conn ConnID) CreateRoomAck {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detach(conn, "")

	room, host := c.reg.CreateRoom(conn)
	c.index.Bind(conn, room.Code)

	c.logf("ROOMS: Created room %s", room.Code)

	return CreateRoomAck{
		Success:  true,
		RoomCode: room.Code,
		Player:   *host,
	}
}

func (c *Controller) JoinRoom(conn ConnID, code, name string) (JoinRoomAck, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if target, ok := c.reg.Room(code); !ok || target.State == Ending {
		return JoinRoomAck{}, ErrRoomNotFound
	}

	c.detach(conn, "")

	room, player, err := c.reg.JoinRoom(code, name, conn)
	if err != nil {
		return JoinRoomAck{}, err
	}

	room.LastActive = c.now()
	c.index.Bind(conn, room.Code)

	c.logf("ROOMS: Player %q joined %s", player.Name, room.Code)

	players := room.Players()

	c.router.ToRoom(room.Code, EventPlayerJoined, RosterEvent{
		Player:  *player,
		Players: players,
	})

	return JoinRoomAck{
		Success: true,
		Player:  *player,
		Players: players,
	}, nil
}

func (c *Controller) RoomInfo(conn ConnID) (RoomInfoAck, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, _, ok := c.resolve(conn)
	if !ok {
		return RoomInfoAck{}, ErrNotInRoom
	}

	return RoomInfoAck{
		Success:     true,
		RoomCode:    room.Code,
		Players:     room.Players(),
		CurrentGame: room.gameName(),
		GameState:   room.GameState.Clone(),
	}, nil
}

// PlayerInfo re-resolves a previously issued player id and points that
// player at conn. This is the reconnect path: the player's old
// connection stops being bound to the room.
func (c *Controller) PlayerInfo(conn ConnID, playerID string) (PlayerInfoAck, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, player, ok := c.reg.FindPlayerByID(playerID)
	if !ok {
		return PlayerInfoAck{}, ErrPlayerNotFound
	}

	c.detach(conn, room.Code)

	if player.Conn != conn {
		c.index.UnbindFrom(player.Conn, room.Code)
		player.Conn = conn
	}

	c.index.Bind(conn, room.Code)
	room.LastActive = c.now()

	c.logf("ROOMS: Player %q reconnected to %s", player.Name, room.Code)

	return PlayerInfoAck{
		Success:     true,
		Player:      *player,
		RoomCode:    room.Code,
		CurrentGame: room.gameName(),
	}, nil
}

// StartGame switches the room to gameName. Host only.
func (c *Controller) StartGame(conn ConnID, gameName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.resolveHost(conn)
	if err != nil {
		return err
	}

	c.reg.SetCurrentGame(room.Code, gameName)

	c.logf("ROOMS: Game %q started in %s", gameName, room.Code)

	c.router.ToRoom(room.Code, EventGameStarted, GameStartedEvent{GameName: gameName})

	return nil
}

// UpdateGameState merges patch into the room state and echoes it to every
// other member; the sender applies its own patch locally.
func (c *Controller) UpdateGameState(conn ConnID, patch Payload) error {
	kind := patch.Kind()
	if kind == "" {
		return ErrUntypedPayload
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	room, _, ok := c.resolve(conn)
	if !ok {
		return ErrNotInRoom
	}

	if c.knownKind != nil && !c.knownKind(kind) {
		c.logf("RELAY: Unknown payload kind %q in %s", kind, room.Code)
	}

	c.reg.MergeGameState(room.Code, patch)

	c.router.ToRoomExceptSender(room.Code, conn, EventGameStateUpdate, patch)

	return nil
}

// ControllerInput forwards data to the host, tagged with the sender's id.
func (c *Controller) ControllerInput(conn ConnID, data Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, player, ok := c.resolve(conn)
	if !ok || player == nil {
		return ErrNotInRoom
	}

	out := data.Clone()
	out["playerId"] = player.ID

	c.router.ToHost(room.Code, EventControllerInput, out)

	return nil
}

// DrawPoint is echoed to the whole room, sender included, so the
// sender's canvas follows the server order.
func (c *Controller) DrawPoint(conn ConnID, pt DrawPoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, _, ok := c.resolve(conn)
	if !ok {
		return ErrNotInRoom
	}

	c.router.ToRoom(room.Code, EventDrawingUpdate, pt)

	return nil
}

func (c *Controller) ClearCanvas(conn ConnID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, _, ok := c.resolve(conn)
	if !ok {
		return ErrNotInRoom
	}

	c.router.ToRoom(room.Code, EventDrawingClear, nil)

	return nil
}

func (c *Controller) SubmitGuess(conn ConnID, guess string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, player, ok := c.resolve(conn)
	if !ok || player == nil {
		return ErrNotInRoom
	}

	c.logf("RELAY: Guess from %q in %s", player.Name, room.Code)

	c.router.ToHost(room.Code, EventPlayerGuess, GuessEvent{
		PlayerID: player.ID,
		Guess:    guess,
	})

	return nil
}

// PlayerReady is accepted and counted as activity; nothing is relayed.
func (c *Controller) PlayerReady(conn ConnID, playerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, _, ok := c.resolve(conn)
	if !ok {
		return ErrNotInRoom
	}

	c.logf("RELAY: Player %s ready in %s", playerID, room.Code)

	return nil
}

// EndRoom tells everyone the room is over and tears it down at once.
// Host only.
func (c *Controller) EndRoom(conn ConnID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.resolveHost(conn)
	if err != nil {
		return err
	}

	c.router.ToRoom(room.Code, EventRoomEnded, nil)
	c.teardown(room)

	c.logf("ROOMS: Room %s ended", room.Code)

	return nil
}

// Disconnect handles a dropped connection. Connections that were never
// bound, or were superseded by a reconnect, are ignored.
func (c *Controller) Disconnect(conn ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.depart(conn)
}

func (c *Controller) depart(conn ConnID) {
	var (
		room   *Room
		player *Player
		ok     bool
	)

	if code, bound := c.index.RoomOf(conn); bound {
		c.index.Unbind(conn)

		if room, ok = c.reg.Room(code); !ok {
			return
		}

		if player, ok = room.PlayerByConn(conn); !ok {
			return
		}
	} else if room, player, ok = c.reg.FindPlayerByConnection(conn); !ok {
		return
	}

	room.LastActive = c.now()

	if player.IsHost {
		c.logf("ROOMS: Host disconnected from %s", room.Code)
		c.beginEnding(room, ReasonHostDisconnected)

		return
	}

	c.reg.RemovePlayer(room.Code, player.ID)

	c.logf("ROOMS: Player %q left %s", player.Name, room.Code)

	c.router.ToRoom(room.Code, EventPlayerLeft, RosterEvent{
		Player:  *player,
		Players: room.Players(),
	})
}

// beginEnding announces the end of the room now and defers teardown by
// the grace period. The deferred teardown is never cancelled.
func (c *Controller) beginEnding(room *Room, reason string) {
	if room.State == Ending {
		return
	}

	c.router.ToRoom(room.Code, EventRoomEnded, RoomEndedEvent{Reason: reason})
	room.State = Ending

	c.afterFunc(c.grace, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.teardown(room)

		c.logf("ROOMS: Room %s closed (%s)", room.Code, reason)
	})
}

// teardown unbinds every connection pointed at room and deletes it.
func (c *Controller) teardown(room *Room) {
	if current, ok := c.reg.Room(room.Code); !ok || current != room {
		return
	}

	for _, p := range room.players {
		c.index.UnbindFrom(p.Conn, room.Code)
	}

	for _, conn := range c.index.Conns(room.Code) {
		c.index.Unbind(conn)
	}

	c.reg.DeleteRoom(room.Code)
}

// Sweep ends every room idle for longer than idle and returns how many
// were removed. Rooms already in their grace window are left alone.
func (c *Controller) Sweep(idle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-idle)
	removed := 0

	for _, room := range c.reg.Rooms() {
		if room.State == Ending || !room.LastActive.Before(cutoff) {
			continue
		}

		c.router.ToRoom(room.Code, EventRoomEnded, RoomEndedEvent{Reason: ReasonExpired})
		c.teardown(room)
		removed++

		c.logf("ROOMS: Room %s expired", room.Code)
	}

	return removed
}

// Reap sweeps idle rooms every idle/2 until ctx is done.
func (c *Controller) Reap(ctx context.Context, idle time.Duration) {
	if idle <= 0 {
		return
	}

	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep(idle)
		}
	}
}

type Stats struct {
	Rooms       int `json:"rooms"`
	Players     int `json:"players"`
	Connections int `json:"connections"`
}

func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Rooms:       c.reg.Len(),
		Connections: c.index.Len(),
	}

	for _, room := range c.reg.Rooms() {
		s.Players += room.Len()
	}

	return s
}

// HasRoom reports whether code names an active room.
func (c *Controller) HasRoom(code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.reg.Room(code)

	return ok
}
