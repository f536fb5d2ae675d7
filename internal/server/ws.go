package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type liveConn struct {
	id       string
	conn     *websocket.Conn
	sendTick *time.Ticker
	limiter  *rate.Limiter
	writeMu  sync.Mutex
}

func (lc *liveConn) write(msgType int, data []byte) error {
	lc.writeMu.Lock()
	defer lc.writeMu.Unlock()
	_ = lc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return lc.conn.WriteMessage(msgType, data)
}

func (lc *liveConn) writeJSON(msgType string, payload any) error {
	data, err := json.Marshal(outboundMessage{Type: msgType, Payload: payload})
	if err != nil {
		return err
	}
	return lc.write(websocket.TextMessage, data)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	roomID := query.Get("room")
	enc := frameEncoder{
		format:   normalizeFormat(query.Get("format")),
		compress: query.Get("compress") == "lz4",
	}
	match := s.settings.Match
	if overrides, ok := parseMatchQuery(query); ok {
		match = overrides.apply(match)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	lc := &liveConn{
		id:       uuid.NewString(),
		conn:     conn,
		sendTick: time.NewTicker(time.Duration(float64(time.Second) / s.settings.Server.UpdateRateHz)),
		limiter:  rate.NewLimiter(rate.Limit(s.settings.Server.CommandRate), s.settings.Server.CommandBurst),
	}
	defer lc.sendTick.Stop()
	defer conn.Close()
	conn.SetReadLimit(maxCommandBytes)

	room := s.hub.JoinRoom(roomID, match)
	seated := room.ClaimSeat(lc.id)
	defer func() {
		room.ReleaseSeat(lc.id)
		left := room.Leave()
		log.Printf("room %s: conn %s left (%d remaining)", room.ID, lc.id, left)
	}()
	log.Printf("room %s: conn %s joined (seat=%v format=%s lz4=%v)", room.ID, lc.id, seated, enc.format, enc.compress)

	if err := lc.writeJSON("hello", helloDTO{Conn: lc.id, Room: room.ID, Seat: seated, Format: enc.format}); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if !lc.limiter.Allow() {
				_ = lc.writeJSON("error", ackDTO{OK: false, Error: "rate limited"})
				continue
			}
			msg, err := decodeCommand(msgType, data)
			if err != nil {
				log.Printf("room %s: conn %s: %v", room.ID, lc.id, err)
				_ = lc.writeJSON("error", ackDTO{OK: false, Error: err.Error()})
				continue
			}
			ok, err := handleCommand(room.Engine, room.ClaimSeat(lc.id), msg)
			ack := ackDTO{Command: msg.Type, OK: ok}
			if err != nil {
				ack.Error = err.Error()
				if !errors.Is(err, errSpectator) {
					log.Printf("room %s: conn %s: %v", room.ID, lc.id, err)
				}
			}
			_ = lc.writeJSON("ack", ack)
		}
	}()

	var lastDigest [32]byte
	sent := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-lc.sendTick.C:
			f, err := enc.encodeState(buildStateDTO(room.ID, room.Engine.View()))
			if err != nil {
				log.Printf("room %s: %v", room.ID, err)
				continue
			}
			if sent && f.digest == lastDigest {
				continue
			}
			if err := lc.write(f.msgType, f.data); err != nil {
				return
			}
			lastDigest = f.digest
			sent = true
		}
	}
}
