/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package relay

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Registry is the authoritative store of active rooms and their players.
// It does no locking of its own; the Controller serializes every call.
type Registry struct {
	rooms map[string]*Room
	now   func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		now:   time.Now,
	}
}

// NormalizeCode maps user input onto the stored room code form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateRoom registers a new room whose only member is its host.
func (reg *Registry) CreateRoom(hostConn ConnID) (*Room, *Player) {
	code := newRoomCode(func(c string) bool {
		_, ok := reg.rooms[c]
		return ok
	})

	room := newRoom(code, reg.now())

	host := &Player{
		ID:     NewID(),
		Conn:   hostConn,
		Name:   "Host",
		Color:  Palette[0],
		IsHost: true,
	}
	room.add(host)

	reg.rooms[code] = room

	return room, host
}

// JoinRoom appends a non-host player to the room with the given code.
// An empty name is defaulted from the player's join position.
func (reg *Registry) JoinRoom(code, name string, conn ConnID) (*Room, *Player, error) {
	room, ok := reg.rooms[NormalizeCode(code)]
	if !ok || room.State == Ending {
		return nil, nil, ErrRoomNotFound
	}

	count := room.Len()

	if name == "" {
		name = fmt.Sprintf("Player %d", count)
	}

	player := &Player{
		ID:    NewID(),
		Conn:  conn,
		Name:  name,
		Color: Palette[count%len(Palette)],
	}
	room.add(player)

	return room, player, nil
}

func (reg *Registry) Room(code string) (*Room, bool) {
	room, ok := reg.rooms[NormalizeCode(code)]

	return room, ok
}

// FindPlayerByConnection scans every room for the player at conn.
func (reg *Registry) FindPlayerByConnection(conn ConnID) (*Room, *Player, bool) {
	for _, room := range reg.rooms {
		if p, ok := room.PlayerByConn(conn); ok {
			return room, p, true
		}
	}

	return nil, nil, false
}

// FindPlayerByID scans every room for the player with the given id.
func (reg *Registry) FindPlayerByID(id string) (*Room, *Player, bool) {
	for _, room := range reg.rooms {
		if p, ok := room.Player(id); ok {
			return room, p, true
		}
	}

	return nil, nil, false
}

func (reg *Registry) RemovePlayer(code, id string) (*Player, bool) {
	room, ok := reg.rooms[NormalizeCode(code)]
	if !ok {
		return nil, false
	}

	return room.remove(id)
}

func (reg *Registry) DeleteRoom(code string) {
	if room, ok := reg.rooms[NormalizeCode(code)]; ok {
		room.State = Destroyed
		delete(reg.rooms, room.Code)
	}
}

// MergeGameState shallow-merges patch into the room's game state.
func (reg *Registry) MergeGameState(code string, patch Payload) bool {
	room, ok := reg.rooms[NormalizeCode(code)]
	if !ok {
		return false
	}

	maps.Copy(room.GameState, patch)

	return true
}

// SetCurrentGame switches the room to a new game and clears its state.
func (reg *Registry) SetCurrentGame(code, game string) bool {
	room, ok := reg.rooms[NormalizeCode(code)]
	if !ok {
		return false
	}

	room.CurrentGame = game
	room.GameState = Payload{}
	room.State = Playing

	return true
}

// Rooms returns the active rooms in no particular order.
func (reg *Registry) Rooms() []*Room {
	out := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		out = append(out, room)
	}

	return out
}

func (reg *Registry) Len() int {
	return len(reg.rooms)
}
