package formationapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// HubConfig holds configuration for watcher connections
type HubConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultHubConfig returns default watcher configuration
func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  512,
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		SendBufferSize:  32,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// Hub fans formation events out to WebSocket watchers of each team
type Hub struct {
	teams    map[uuid.UUID]map[*watcher]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	config   HubConfig
	events   chan FormationEvent
}

type watcher struct {
	id          string
	teamID      uuid.UUID
	conn        *websocket.Conn
	send        chan []byte
	hub         *Hub
	connectedAt time.Time
	closeOnce   sync.Once
}

// NewHub creates a Hub; Start must run for events to be delivered
func NewHub(config HubConfig) *Hub {
	return &Hub{
		teams: make(map[uuid.UUID]map[*watcher]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config: config,
		events: make(chan FormationEvent, 256),
	}
}

// Start delivers queued events until ctx is done
func (h *Hub) Start(ctx context.Context) {
	log.Info().Msg("formation hub started")
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info().Msg("formation hub shutting down")
			return
		case event := <-h.events:
			h.broadcast(event)
		}
	}
}

// FormationSaved queues an event for the team's watchers. A full queue drops it.
func (h *Hub) FormationSaved(ctx context.Context, event FormationEvent) error {
	select {
	case h.events <- event:
		return nil
	default:
		log.Warn().Str("team_id", event.TeamID.String()).Msg("hub queue full, dropping formation event")
		return fmt.Errorf("hub queue full")
	}
}

// Serve upgrades the request and registers the connection as a watcher of teamID
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, teamID uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	wt := &watcher{
		id:          uuid.NewString(),
		teamID:      teamID,
		conn:        conn,
		send:        make(chan []byte, h.config.SendBufferSize),
		hub:         h,
		connectedAt: time.Now(),
	}
	h.register(wt)

	go wt.writePump()
	go wt.readPump()

	log.Info().
		Str("connection_id", wt.id).
		Str("team_id", teamID.String()).
		Msg("formation watcher connected")
	return nil
}

// WatcherCount returns the number of watchers of a team
func (h *Hub) WatcherCount(teamID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.teams[teamID])
}

// TotalWatchers returns the number of watchers across all teams
func (h *Hub) TotalWatchers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, watchers := range h.teams {
		n += len(watchers)
	}
	return n
}

func (h *Hub) register(wt *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.teams[wt.teamID] == nil {
		h.teams[wt.teamID] = make(map[*watcher]bool)
	}
	h.teams[wt.teamID][wt] = true
}

func (h *Hub) unregister(wt *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers, ok := h.teams[wt.teamID]
	if !ok || !watchers[wt] {
		return
	}
	delete(watchers, wt)
	close(wt.send)
	if len(watchers) == 0 {
		delete(h.teams, wt.teamID)
	}

	log.Info().
		Str("connection_id", wt.id).
		Str("team_id", wt.teamID.String()).
		Dur("connected_for", time.Since(wt.connectedAt)).
		Msg("formation watcher disconnected")
}

// broadcast sends under the read lock so unregister cannot close a send
// channel in between. Watchers with a full buffer are dropped afterwards.
func (h *Hub) broadcast(event FormationEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal formation event")
		return
	}

	var slow []*watcher
	h.mu.RLock()
	watchers := h.teams[event.TeamID]
	delivered := 0
	for wt := range watchers {
		select {
		case wt.send <- data:
			delivered++
		default:
			slow = append(slow, wt)
		}
	}
	h.mu.RUnlock()

	for _, wt := range slow {
		log.Warn().Str("connection_id", wt.id).Msg("watcher send buffer full, closing connection")
		h.unregister(wt)
		wt.close()
	}

	if delivered > 0 {
		log.Debug().
			Str("team_id", event.TeamID.String()).
			Int("watchers", delivered).
			Msg("formation event broadcast")
	}
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	var all []*watcher
	for _, watchers := range h.teams {
		for wt := range watchers {
			all = append(all, wt)
		}
	}
	h.mu.RUnlock()

	for _, wt := range all {
		h.unregister(wt)
		wt.close()
	}
}

func (wt *watcher) close() {
	wt.closeOnce.Do(func() {
		if wt.conn != nil {
			_ = wt.conn.Close()
		}
	})
}

func (wt *watcher) writePump() {
	ticker := time.NewTicker(wt.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		wt.hub.unregister(wt)
		wt.close()
	}()

	for {
		select {
		case message, ok := <-wt.send:
			_ = wt.conn.SetWriteDeadline(time.Now().Add(wt.hub.config.WriteTimeout))
			if !ok {
				_ = wt.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wt.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Str("connection_id", wt.id).Msg("failed to write formation event")
				return
			}
		case <-ticker.C:
			_ = wt.conn.SetWriteDeadline(time.Now().Add(wt.hub.config.WriteTimeout))
			if err := wt.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only services control frames; watchers do not send commands
func (wt *watcher) readPump() {
	defer func() {
		wt.hub.unregister(wt)
		wt.close()
	}()

	wt.conn.SetReadLimit(wt.hub.config.MaxMessageSize)
	_ = wt.conn.SetReadDeadline(time.Now().Add(wt.hub.config.ReadTimeout))
	wt.conn.SetPongHandler(func(string) error {
		return wt.conn.SetReadDeadline(time.Now().Add(wt.hub.config.ReadTimeout))
	})

	for {
		if _, _, err := wt.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("connection_id", wt.id).Msg("unexpected watcher close")
			}
			return
		}
	}
}
