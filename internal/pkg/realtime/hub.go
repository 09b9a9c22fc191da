package realtime

import (
	"log/slog"
	"sync"
	"time"
)

// EventType names the typed envelopes pushed to connected clients.
type EventType string

const (
	EventConnected        EventType = "connected"
	EventHeartbeat        EventType = "heartbeat"
	EventAttendanceUpdate EventType = "attendance_update"
	EventNotification     EventType = "notification"
	EventShiftUpdate      EventType = "shift_update"
)

// Envelope is the wire frame sent over the real-time channel.
type Envelope struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}

type session struct {
	employeeID  string
	teamWatcher bool
	ch          chan Envelope
	missed      int
	closed      bool
}

// Hub is the connected-session registry for real-time fan-out. It is
// constructed on server start, injected into whatever needs to broadcast, and
// torn down on shutdown; there is no package-global instance.
//
// Delivery is best-effort and at-most-once per session: sends never block,
// a full buffer drops the event, and a session that misses consecutive
// heartbeats is evicted. Disconnected clients get no backfill; they reconcile
// against the read views.
type Hub struct {
	mu         sync.Mutex
	sessions   map[*session]struct{}
	byEmployee map[string]map[*session]struct{}

	heartbeatEvery time.Duration
	maxMissed      int

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewHub creates a hub that heartbeats every interval and evicts sessions
// after maxMissed undeliverable heartbeats.
func NewHub(heartbeatEvery time.Duration, maxMissed int) *Hub {
	if heartbeatEvery <= 0 {
		heartbeatEvery = 30 * time.Second
	}
	if maxMissed <= 0 {
		maxMissed = 2
	}
	return &Hub{
		sessions:       make(map[*session]struct{}),
		byEmployee:     make(map[string]map[*session]struct{}),
		heartbeatEvery: heartbeatEvery,
		maxMissed:      maxMissed,
		stopCh:         make(chan struct{}),
	}
}

// Start launches the heartbeat loop.
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.heartbeatLoop()
}

// Stop evicts every session and stops the heartbeat loop.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stopCh) })
	h.wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.sessions {
		h.removeLocked(s)
	}
}

// Subscribe registers a session for an employee. teamWatcher marks
// manager/admin sessions viewing team-wide views; they additionally receive
// every broadcast event. The returned cleanup is safe to call after eviction.
func (h *Hub) Subscribe(employeeID string, teamWatcher bool) (<-chan Envelope, func()) {
	s := &session{
		employeeID:  employeeID,
		teamWatcher: teamWatcher,
		ch:          make(chan Envelope, 16),
	}

	h.mu.Lock()
	h.sessions[s] = struct{}{}
	if h.byEmployee[employeeID] == nil {
		h.byEmployee[employeeID] = make(map[*session]struct{})
	}
	h.byEmployee[employeeID][s] = struct{}{}
	h.mu.Unlock()

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.removeLocked(s)
	}
	return s.ch, cleanup
}

// PublishTo delivers an event to every session owned by one employee.
func (h *Hub) PublishTo(employeeID string, ev Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.byEmployee[employeeID] {
		h.sendLocked(s, ev)
	}
}

// Broadcast delivers an event to the record owner's sessions and to every
// team-watcher session. At-most-once per session: a session that is both is
// sent the event a single time.
func (h *Hub) Broadcast(ownerEmployeeID string, ev Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := make(map[*session]struct{})
	for s := range h.byEmployee[ownerEmployeeID] {
		h.sendLocked(s, ev)
		delivered[s] = struct{}{}
	}
	for s := range h.sessions {
		if !s.teamWatcher {
			continue
		}
		if _, done := delivered[s]; done {
			continue
		}
		h.sendLocked(s, ev)
	}
}

// SessionCount returns the number of live sessions, for introspection.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Hub) heartbeatLoop() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.heartbeatEvery)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case now := <-ticker.C:
			h.beat(now)
		}
	}
}

// beat pushes a heartbeat to every session and evicts the ones that keep
// failing to take it. A stalled consumer cannot take even the ping frames,
// so undeliverable heartbeats are the liveness signal.
func (h *Hub) beat(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ev := Envelope{Type: EventHeartbeat, Payload: map[string]int64{"ts": now.Unix()}}
	for s := range h.sessions {
		select {
		case s.ch <- ev:
			s.missed = 0
		default:
			s.missed++
			if s.missed >= h.maxMissed {
				slog.Warn("evicting stalled realtime session", "employee_id", s.employeeID)
				h.removeLocked(s)
			}
		}
	}
}

func (h *Hub) sendLocked(s *session, ev Envelope) {
	if s.closed {
		return
	}
	select {
	case s.ch <- ev:
	default:
		// Buffer full: drop. Best-effort delivery, clients reconcile via
		// the read views.
	}
}

func (h *Hub) removeLocked(s *session) {
	if s.closed {
		return
	}
	s.closed = true
	delete(h.sessions, s)
	if subs := h.byEmployee[s.employeeID]; subs != nil {
		delete(subs, s)
		if len(subs) == 0 {
			delete(h.byEmployee, s.employeeID)
		}
	}
	close(s.ch)
}
