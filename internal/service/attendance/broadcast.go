package attendance

import (
	"context"

	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/pkg/realtime"
)

// Broadcaster relays committed transitions to connected real-time sessions.
// It is a pure fan-out sink: no storage, no idempotency claim, because a
// duplicate frame on a live channel is harmless while a missed pay adjustment
// is not.
type Broadcaster struct {
	hub *realtime.Hub
}

func NewBroadcaster(hub *realtime.Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// OnTransition implements attendance.TransitionSink. The frame goes to the
// record owner's sessions and to every team-watcher session.
func (b *Broadcaster) OnTransition(_ context.Context, t attendance.Transition) {
	b.hub.Broadcast(t.EmployeeID, realtime.Envelope{
		Type: realtime.EventAttendanceUpdate,
		Payload: map[string]any{
			"kind":   string(t.Kind),
			"record": attendance.ToResponse(t.Record),
		},
	})
}

var _ attendance.TransitionSink = (*Broadcaster)(nil)
