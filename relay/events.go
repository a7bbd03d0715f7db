/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package relay

// Client to server events.
const (
	EventCreateRoom      = "create-room"
	EventJoinRoom        = "join-room"
	EventGetRoomInfo     = "get-room-info"
	EventGetPlayerInfo   = "get-player-info"
	EventStartGame       = "start-game"
	EventGameStateUpdate = "game-state-update"
	EventControllerInput = "controller-input"
	EventDrawPoint       = "draw-point"
	EventClearCanvas     = "clear-canvas"
	EventSubmitGuess     = "submit-guess"
	EventPlayerReady     = "player-ready"
	EventEndRoom         = "end-room"
)

// Server to client events. game-state-update and controller-input keep
// their inbound names.
const (
	EventPlayerJoined  = "player-joined"
	EventPlayerLeft    = "player-left"
	EventGameStarted   = "game-started"
	EventRoomEnded     = "room-ended"
	EventDrawingUpdate = "drawing-update"
	EventDrawingClear  = "drawing-clear"
	EventPlayerGuess   = "player-guess"
)

const (
	ReasonHostDisconnected = "Host disconnected"
	ReasonExpired          = "Room expired"
)

// RosterEvent carries player-joined and player-left.
type RosterEvent struct {
	Player  Player   `json:"player"`
	Players []Player `json:"players"`
}

type GameStartedEvent struct {
	GameName string `json:"gameName"`
}

type RoomEndedEvent struct {
	Reason string `json:"reason,omitempty"`
}

type GuessEvent struct {
	PlayerID string `json:"playerId"`
	Guess    string `json:"guess"`
}

// DrawPoint is one segment of a stroke on the shared canvas.
type DrawPoint struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Color       string  `json:"color"`
	Size        float64 `json:"size"`
	IsNewStroke *bool   `json:"isNewStroke,omitempty"`
}

type CreateRoomAck struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"roomCode"`
	Player   Player `json:"player"`
}

type JoinRoomAck struct {
	Success bool     `json:"success"`
	Player  Player   `json:"player"`
	Players []Player `json:"players"`
}

type RoomInfoAck struct {
	Success     bool     `json:"success"`
	RoomCode    string   `json:"roomCode"`
	Players     []Player `json:"players"`
	CurrentGame *string  `json:"currentGame"`
	GameState   Payload  `json:"gameState"`
}

type PlayerInfoAck struct {
	Success     bool    `json:"success"`
	Player      Player  `json:"player"`
	RoomCode    string  `json:"roomCode"`
	CurrentGame *string `json:"currentGame"`
}

// FailureAck is the reply to a request whose lookup failed.
type FailureAck struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
