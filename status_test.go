/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Seednode/partyrelay/games"
	"github.com/Seednode/partyrelay/relay"
)

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	return resp, body
}

func TestHealthAndVersion(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	if resp, body := get(t, srv, "/healthz"); resp.StatusCode != http.StatusOK || string(body) != "Ok\n" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}

	if resp, body := get(t, srv, "/version"); resp.StatusCode != http.StatusOK || string(body) != "partyrelay v"+releaseVersion+"\n" {
		t.Errorf("version = %d %q", resp.StatusCode, body)
	}
}

func TestServeGames(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	resp, body := get(t, srv, "/games")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var got []games.Game
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(games.All()) {
		t.Errorf("got %d games, want %d", len(got), len(games.All()))
	}
}

func TestServeStats(t *testing.T) {
	srv, hub := newTestServer(t, testConfig())

	ack := hub.rooms.CreateRoom("host")
	if _, err := hub.rooms.JoinRoom("alice", ack.RoomCode, "Alice"); err != nil {
		t.Fatal(err)
	}

	_, body := get(t, srv, "/stats")

	var stats relay.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatal(err)
	}
	if stats != (relay.Stats{Rooms: 1, Players: 2, Connections: 2}) {
		t.Errorf("stats = %+v", stats)
	}
}

func TestServeRoomQR(t *testing.T) {
	srv, hub := newTestServer(t, testConfig())

	if resp, _ := get(t, srv, "/rooms/NOPE00/qr"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown room status = %d", resp.StatusCode)
	}

	ack := hub.rooms.CreateRoom("host")

	resp, body := get(t, srv, "/rooms/"+ack.RoomCode+"/qr")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("status = %d, type = %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !bytes.HasPrefix(body, []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
}

func TestJoinURL(t *testing.T) {
	cfg := testConfig()
	cfg.prefix = "/party"

	r := httptest.NewRequest(http.MethodGet, "/party/rooms/AB12CD/qr", nil)
	r.Host = "192.168.1.20:8080"

	if got, want := joinURL(cfg, r, "AB12CD"), "http://192.168.1.20:8080/party/join?room=AB12CD"; got != want {
		t.Errorf("joinURL = %q, want %q", got, want)
	}

	r.Header.Set("X-Forwarded-Proto", "https")
	if got, want := joinURL(cfg, r, "AB12CD"), "https://192.168.1.20:8080/party/join?room=AB12CD"; got != want {
		t.Errorf("joinURL = %q, want %q", got, want)
	}
}
