package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "StarConquest/internal/game"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	settings := DefaultSettings()
	settings.Server.UpdateRateHz = 50
	hub := NewHub(settings.Params)
	seed := int64(0)
	hub.NewRand = func() Rand {
		seed++
		return rand.New(rand.NewSource(seed))
	}
	ts := httptest.NewServer(NewServer(hub, settings).Router())
	t.Cleanup(func() {
		ts.Close()
		hub.Close()
	})
	return ts, hub
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// readUntil reads JSON frames until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) envelope {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	_ = conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read waiting for %q: %v", want, err)
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("bad frame %q: %v", data, err)
		}
		if env.Type == want {
			return env
		}
	}
	t.Fatalf("timed out waiting for %q", want)
	return envelope{}
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
}

func TestRoomStateNotFound(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, path := range []string{"/api/rooms/ghost/state", "/api/rooms/ghost/standings"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, resp.StatusCode)
		}
	}
}

func TestWebSocketSession(t *testing.T) {
	ts, hub := newTestServer(t)

	player := dial(t, ts, "room=alpha&ai=2&difficulty=easy")
	var hello helloDTO
	if err := json.Unmarshal(readUntil(t, player, "hello").Payload, &hello); err != nil {
		t.Fatalf("hello: %v", err)
	}
	if !hello.Seat || hello.Room != "alpha" || hello.Conn == "" || hello.Format != formatJSON {
		t.Fatalf("unexpected hello %+v", hello)
	}

	var state stateDTO
	if err := json.Unmarshal(readUntil(t, player, "state").Payload, &state); err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Room != "alpha" || len(state.Players) != 3 || len(state.Planets) == 0 {
		t.Fatalf("unexpected state: room=%s players=%d planets=%d", state.Room, len(state.Players), len(state.Planets))
	}

	watcher := dial(t, ts, "room=alpha")
	var second helloDTO
	if err := json.Unmarshal(readUntil(t, watcher, "hello").Payload, &second); err != nil {
		t.Fatalf("hello: %v", err)
	}
	if second.Seat {
		t.Fatalf("second connection should be a spectator")
	}

	if err := watcher.WriteJSON(map[string]any{"type": "pause"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var ack ackDTO
	if err := json.Unmarshal(readUntil(t, watcher, "ack").Payload, &ack); err != nil {
		t.Fatalf("ack: %v", err)
	}
	if ack.OK || ack.Error == "" {
		t.Fatalf("spectator command should be refused, got %+v", ack)
	}

	if err := player.WriteJSON(map[string]any{"type": "pause"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := json.Unmarshal(readUntil(t, player, "ack").Payload, &ack); err != nil {
		t.Fatalf("ack: %v", err)
	}
	if !ack.OK || ack.Command != "pause" {
		t.Fatalf("pause should be accepted, got %+v", ack)
	}

	room, ok := hub.Lookup("alpha")
	if !ok {
		t.Fatalf("room not registered")
	}
	if room.Engine.IsRunning() {
		t.Fatalf("engine should be paused")
	}
	if room.Clients() != 2 {
		t.Fatalf("expected 2 clients, got %d", room.Clients())
	}

	resp, err := http.Get(ts.URL + "/api/rooms")
	if err != nil {
		t.Fatalf("get rooms: %v", err)
	}
	defer resp.Body.Close()
	var rooms []roomSummaryDTO
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		t.Fatalf("decode rooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != "alpha" || rooms[0].Running {
		t.Fatalf("unexpected rooms %+v", rooms)
	}
}

func TestWebSocketCompressedProtoState(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts, "room=beta&format=proto&compress=lz4")
	readUntil(t, conn, "hello")

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		raw, err := decompressLZ4(data, 1<<20)
		if err != nil {
			t.Fatalf("decompress: %v", err)
		}
		if len(raw) == 0 {
			t.Fatalf("empty state frame")
		}
		return
	}
}

func getStrength(t *testing.T, ts *httptest.Server, query string) (int, strengthDTO) {
	t.Helper()
	resp, err := http.Get(ts.URL + "/api/rooms/gamma/strength?" + query)
	if err != nil {
		t.Fatalf("get strength: %v", err)
	}
	defer resp.Body.Close()
	var out strengthDTO
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode strength: %v", err)
		}
	}
	return resp.StatusCode, out
}

func TestRoomStrength(t *testing.T) {
	ts, hub := newTestServer(t)
	room := hub.JoinRoom("gamma", DefaultConfig())
	defer room.Leave()

	status, history := getStrength(t, ts, "faction=player1")
	if status != http.StatusOK || history.Faction != "player1" || len(history.Samples) == 0 {
		t.Fatalf("history: status=%d body=%+v", status, history)
	}
	first := history.Samples[0]
	if first.T != 0 || first.Value <= 0 {
		t.Fatalf("expected an opening sample with positive strength, got %+v", first)
	}

	status, at := getStrength(t, ts, "faction=player1&t=0")
	if status != http.StatusOK || at.Value == nil || *at.Value != first.Value {
		t.Fatalf("point query: status=%d body=%+v", status, at)
	}

	for query, want := range map[string]int{
		"faction=player3":        http.StatusNotFound,
		"faction=neutral":        http.StatusBadRequest,
		"faction=pirates":        http.StatusBadRequest,
		"faction=player2&t=soon": http.StatusBadRequest,
	} {
		if status, _ := getStrength(t, ts, query); status != want {
			t.Fatalf("%s: expected %d, got %d", query, want, status)
		}
	}
}

func TestWebSocketOversizedFrameCloses(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts, "room=delta")
	readUntil(t, conn, "hello")

	if err := conn.WriteMessage(websocket.TextMessage, make([]byte, maxCommandBytes+1)); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseMessageTooBig) {
				t.Fatalf("expected a message-too-big close, got %v", err)
			}
			return
		}
	}
}
