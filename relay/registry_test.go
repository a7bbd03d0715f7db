/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package relay

import (
	"errors"
	"strings"
	"testing"
)

func TestCreateRoom(t *testing.T) {
	reg := NewRegistry()

	room, host := reg.CreateRoom("c1")

	if len(room.Code) != codeLength || room.Code != strings.ToUpper(room.Code) {
		t.Errorf("bad room code %q", room.Code)
	}
	if !host.IsHost || host.Name != "Host" || host.Color != Palette[0] || host.Conn != "c1" {
		t.Errorf("bad host %+v", host)
	}
	if room.State != Created || room.CurrentGame != "" || len(room.GameState) != 0 {
		t.Errorf("bad initial room %+v", room)
	}
	if got, ok := reg.Room(strings.ToLower(room.Code)); !ok || got != room {
		t.Error("room not found by lowercase code")
	}
}

func TestCreateRoomCodesUnique(t *testing.T) {
	reg := NewRegistry()
	seen := make(map[string]bool)

	for n := 0; n < 500; n++ {
		room, _ := reg.CreateRoom(ConnID(NewID()))
		if seen[room.Code] {
			t.Fatalf("duplicate room code %s", room.Code)
		}
		seen[room.Code] = true
	}

	if reg.Len() != 500 {
		t.Errorf("got %d rooms, want 500", reg.Len())
	}
}

func TestJoinRoom(t *testing.T) {
	reg := NewRegistry()
	room, _ := reg.CreateRoom("host")

	_, alice, err := reg.JoinRoom(strings.ToLower(room.Code), "Alice", "a")
	if err != nil {
		t.Fatal(err)
	}
	if alice.IsHost || alice.Name != "Alice" || alice.Color != Palette[1] {
		t.Errorf("bad player %+v", alice)
	}

	_, anon, err := reg.JoinRoom(room.Code, "", "b")
	if err != nil {
		t.Fatal(err)
	}
	if anon.Name != "Player 2" || anon.Color != Palette[2] {
		t.Errorf("bad defaulted player %+v", anon)
	}

	if _, _, err := reg.JoinRoom("NOPE00", "Bob", "c"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("got %v, want ErrRoomNotFound", err)
	}

	players := room.Players()
	if len(players) != 3 || players[0].Name != "Host" || players[1].Name != "Alice" || players[2].Name != "Player 2" {
		t.Errorf("roster out of join order: %+v", players)
	}
}

func TestJoinRoomColorsWrap(t *testing.T) {
	reg := NewRegistry()
	room, _ := reg.CreateRoom("host")

	var last *Player
	for i := 1; i <= len(Palette); i++ {
		_, last, _ = reg.JoinRoom(room.Code, "", ConnID(NewID()))
	}

	if last.Color != Palette[0] {
		t.Errorf("player %d got %s, want %s", len(Palette), last.Color, Palette[0])
	}
}

func TestJoinRoomRefusesEndingRoom(t *testing.T) {
	reg := NewRegistry()
	room, _ := reg.CreateRoom("host")
	room.State = Ending

	if _, _, err := reg.JoinRoom(room.Code, "Alice", "a"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("got %v, want ErrRoomNotFound", err)
	}
}

func TestFindPlayer(t *testing.T) {
	reg := NewRegistry()
	r1, _ := reg.CreateRoom("h1")
	r2, _ := reg.CreateRoom("h2")
	_, alice, _ := reg.JoinRoom(r2.Code, "Alice", "a")

	room, p, ok := reg.FindPlayerByID(alice.ID)
	if !ok || room != r2 || p != alice {
		t.Errorf("FindPlayerByID = %v, %v, %v", room, p, ok)
	}

	room, p, ok = reg.FindPlayerByConnection("h1")
	if !ok || room != r1 || !p.IsHost {
		t.Errorf("FindPlayerByConnection = %v, %v, %v", room, p, ok)
	}

	if _, _, ok := reg.FindPlayerByID("missing"); ok {
		t.Error("found a player that does not exist")
	}
}

func TestRemovePlayerAndDeleteRoom(t *testing.T) {
	reg := NewRegistry()
	room, _ := reg.CreateRoom("host")
	_, alice, _ := reg.JoinRoom(room.Code, "Alice", "a")
	_, bob, _ := reg.JoinRoom(room.Code, "Bob", "b")

	if _, ok := reg.RemovePlayer(room.Code, alice.ID); !ok {
		t.Fatal("remove failed")
	}
	if _, ok := reg.RemovePlayer(room.Code, alice.ID); ok {
		t.Error("second remove succeeded")
	}

	players := room.Players()
	if len(players) != 2 || players[1].ID != bob.ID {
		t.Errorf("roster after removal: %+v", players)
	}

	reg.DeleteRoom(room.Code)
	if _, ok := reg.Room(room.Code); ok {
		t.Error("room still registered")
	}
	if room.State != Destroyed {
		t.Errorf("state = %s, want destroyed", room.State)
	}
}

func TestGameState(t *testing.T) {
	reg := NewRegistry()
	room, _ := reg.CreateRoom("host")

	reg.MergeGameState(room.Code, Payload{"a": 1})
	reg.MergeGameState(room.Code, Payload{"b": 2})
	reg.MergeGameState(room.Code, Payload{"a": 3})

	if len(room.GameState) != 2 || room.GameState["a"] != 3 || room.GameState["b"] != 2 {
		t.Errorf("merged state = %v", room.GameState)
	}

	reg.SetCurrentGame(room.Code, "quiz")

	if room.CurrentGame != "quiz" || len(room.GameState) != 0 || room.State != Playing {
		t.Errorf("after SetCurrentGame: %+v", room)
	}

	if reg.MergeGameState("NOPE00", Payload{"a": 1}) {
		t.Error("merged into a missing room")
	}
}
