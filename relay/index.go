/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package relay

// Index maps live connections to the room they are bound to, and keeps
// the reverse set per room in bind order for fan-out.
type Index struct {
	rooms map[ConnID]string
	conns map[string][]ConnID
}

func NewIndex() *Index {
	return &Index{
		rooms: make(map[ConnID]string),
		conns: make(map[string][]ConnID),
	}
}

// Bind points conn at code, moving it out of any room it was bound to.
func (ix *Index) Bind(conn ConnID, code string) {
	if current, ok := ix.rooms[conn]; ok {
		if current == code {
			return
		}

		ix.Unbind(conn)
	}

	ix.rooms[conn] = code
	ix.conns[code] = append(ix.conns[code], conn)
}

func (ix *Index) Unbind(conn ConnID) {
	code, ok := ix.rooms[conn]
	if !ok {
		return
	}

	delete(ix.rooms, conn)

	list := ix.conns[code]
	dst := list[:0]
	for _, c := range list {
		if c != conn {
			dst = append(dst, c)
		}
	}

	if len(dst) == 0 {
		delete(ix.conns, code)
	} else {
		ix.conns[code] = dst
	}
}

// UnbindFrom drops conn only if it is still bound to code.
func (ix *Index) UnbindFrom(conn ConnID, code string) {
	if ix.rooms[conn] == code {
		ix.Unbind(conn)
	}
}

func (ix *Index) RoomOf(conn ConnID) (string, bool) {
	code, ok := ix.rooms[conn]

	return code, ok
}

// Conns returns a copy of the connections bound to code.
func (ix *Index) Conns(code string) []ConnID {
	return append([]ConnID(nil), ix.conns[code]...)
}

func (ix *Index) Len() int {
	return len(ix.rooms)
}
