/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package relay

import (
	"maps"
	"time"
)

// ConnID identifies one live transport connection.
type ConnID string

// Palette is the fixed set of player colors, handed out by join order.
var Palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A",
	"#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E2",
}

type Player struct {
	ID     string `json:"id"`
	Conn   ConnID `json:"-"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	IsHost bool   `json:"isHost"`
}

// State is the lifecycle position of a room.
type State int

const (
	Created State = iota
	Playing
	Ending
	Destroyed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Playing:
		return "playing"
	case Ending:
		return "ending"
	case Destroyed:
		return "destroyed"
	}

	return "unknown"
}

// Payload is an opaque game document. Game modules tag each payload
// with a "type" discriminant; the relay only stores and forwards it.
type Payload map[string]any

// Kind returns the payload's "type" discriminant, or "" if it has none.
func (p Payload) Kind() string {
	kind, _ := p["type"].(string)

	return kind
}

// Clone returns a shallow copy of p.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	maps.Copy(out, p)

	return out
}

type Room struct {
	Code        string
	CurrentGame string
	GameState   Payload
	CreatedAt   time.Time
	LastActive  time.Time
	State       State

	players map[string]*Player
	order   []string
}

func newRoom(code string, now time.Time) *Room {
	return &Room{
		Code:       code,
		GameState:  Payload{},
		CreatedAt:  now,
		LastActive: now,
		State:      Created,
		players:    make(map[string]*Player),
	}
}

func (r *Room) add(p *Player) {
	r.players[p.ID] = p
	r.order = append(r.order, p.ID)
}

func (r *Room) remove(id string) (*Player, bool) {
	p, ok := r.players[id]
	if !ok {
		return nil, false
	}

	delete(r.players, id)

	dst := r.order[:0]
	for _, pid := range r.order {
		if pid != id {
			dst = append(dst, pid)
		}
	}
	r.order = dst

	return p, true
}

// Player returns the member with the given id.
func (r *Room) Player(id string) (*Player, bool) {
	p, ok := r.players[id]

	return p, ok
}

// Host returns the room's host player. It is nil only while the room is
// being torn down.
func (r *Room) Host() *Player {
	for _, id := range r.order {
		if p := r.players[id]; p.IsHost {
			return p
		}
	}

	return nil
}

// PlayerByConn returns the member currently reachable at conn.
func (r *Room) PlayerByConn(conn ConnID) (*Player, bool) {
	for _, id := range r.order {
		if p := r.players[id]; p.Conn == conn {
			return p, true
		}
	}

	return nil, false
}

// Players returns value copies of the roster in join order.
func (r *Room) Players() []Player {
	out := make([]Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.players[id])
	}

	return out
}

func (r *Room) Len() int {
	return len(r.order)
}

// gameName reports the current game, nil when none has been started.
func (r *Room) gameName() *string {
	if r.CurrentGame == "" {
		return nil
	}

	name := r.CurrentGame

	return &name
}
