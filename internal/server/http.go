package server

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"

	. "StarConquest/internal/game"

	"github.com/gorilla/mux"
)

// Server exposes a Hub over HTTP and WebSocket.
type Server struct {
	hub      *Hub
	settings Settings
}

func NewServer(hub *Hub, settings Settings) *Server {
	settings.Server = SanitizeServerParams(settings.Server)
	settings.Match = SanitizeConfig(settings.Match)
	return &Server{hub: hub, settings: settings}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http: encode response: %v", err)
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rooms", s.handleRooms).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}/state", s.handleRoomState).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}/standings", s.handleRoomStandings).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}/strength", s.handleRoomStrength).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.serveWS)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "rooms": len(s.hub.RoomIDs())})
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	out := []roomSummaryDTO{}
	for _, id := range s.hub.RoomIDs() {
		if room, ok := s.hub.Lookup(id); ok {
			out = append(out, summarizeRoom(room))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) lookupRoom(w http.ResponseWriter, r *http.Request) (*Room, bool) {
	id := mux.Vars(r)["id"]
	room, ok := s.hub.Lookup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return nil, false
	}
	return room, true
}

func (s *Server) handleRoomState(w http.ResponseWriter, r *http.Request) {
	room, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, buildStateDTO(room.ID, room.Engine.View()))
}

func (s *Server) handleRoomStandings(w http.ResponseWriter, r *http.Request) {
	room, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, standingsToDTO(room.Engine.Standings()))
}

// handleRoomStrength serves ?faction=player1 with the faction's strength
// samples, or with &t=<seconds> the strength interpolated at that time.
func (s *Server) handleRoomStrength(w http.ResponseWriter, r *http.Request) {
	room, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	faction, ok := ParseFaction(q.Get("faction"))
	if !ok || faction == Neutral {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown faction"})
		return
	}
	out := strengthDTO{Faction: faction.String()}
	raw := q.Get("t")
	if raw == "" {
		samples := room.Engine.StrengthHistory(faction)
		if samples == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "faction not in match"})
			return
		}
		out.Samples = samplesToDTO(samples)
		writeJSON(w, http.StatusOK, out)
		return
	}
	t, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid t"})
		return
	}
	v, ok := room.Engine.StrengthAt(faction, t)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "faction not in match"})
		return
	}
	out.T, out.Value = &t, &v
	writeJSON(w, http.StatusOK, out)
}
