/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package relay

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrNotInRoom      = errors.New("not in a room")
	ErrPlayerNotFound = errors.New("player not found")

	// ErrUnauthorized is returned when a non-host attempts a host-only
	// operation. The wire transport drops it without replying.
	ErrUnauthorized = errors.New("only the host may do that")
)

// ErrUntypedPayload is returned for game payloads lacking a string
// "type" discriminant.
var ErrUntypedPayload = errors.New("game payload has no type")
