/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package relay

// Sender delivers one event to one connection. Implementations must not
// block and must not call back into the Controller; delivery is fire and
// forget.
type Sender interface {
	Send(conn ConnID, event string, payload any)
}

// Router fans events out to connections. It reads the registry and the
// index but never mutates either.
type Router struct {
	reg    *Registry
	index  *Index
	sender Sender
}

func NewRouter(reg *Registry, index *Index, sender Sender) *Router {
	return &Router{
		reg:    reg,
		index:  index,
		sender: sender,
	}
}

// ToRoom delivers to every connection bound to code, sender included.
func (rt *Router) ToRoom(code, event string, payload any) {
	for _, conn := range rt.index.Conns(code) {
		rt.sender.Send(conn, event, payload)
	}
}

// ToRoomExceptSender delivers to every connection bound to code but from.
func (rt *Router) ToRoomExceptSender(code string, from ConnID, event string, payload any) {
	for _, conn := range rt.index.Conns(code) {
		if conn == from {
			continue
		}

		rt.sender.Send(conn, event, payload)
	}
}

// ToHost delivers only to the host's current connection.
func (rt *Router) ToHost(code, event string, payload any) {
	room, ok := rt.reg.Room(code)
	if !ok {
		return
	}

	host := room.Host()
	if host == nil {
		return
	}

	if bound, ok := rt.index.RoomOf(host.Conn); !ok || bound != room.Code {
		return
	}

	rt.sender.Send(host.Conn, event, payload)
}

func (rt *Router) ToConnection(conn ConnID, event string, payload any) {
	rt.sender.Send(conn, event, payload)
}
