package supervisor

import (
	"context"
	"time"

	"github.com/raytag/endpoint/logging/lifecycle"
)

// backoffSteps is the saturating reconnect schedule (spec §4.H: "500 ms,
// 1 s, 2 s, 5 s (saturating)").
var backoffSteps = []time.Duration{
	500 * time.Millisecond,
	1 * time.Second,
	2 * time.Second,
	5 * time.Second,
}

// maxConsecutiveFailures is the threshold at which the supervisor gives
// up on incremental retry and restarts the radio driver instead (spec
// §4.H: "After 15 consecutive failures...").
const maxConsecutiveFailures = 15

// backoff tracks the reconnect attempt count for one outage.
type backoff struct {
	attempt int
}

func (b *backoff) next() time.Duration {
	idx := b.attempt
	if idx >= len(backoffSteps) {
		idx = len(backoffSteps) - 1
	}
	b.attempt++
	return backoffSteps[idx]
}

func (b *backoff) reset() {
	b.attempt = 0
}

// RunReconnectLoop blocks, retrying JoinStation with the saturating
// back-off schedule whenever disconnected fires, until ctx is cancelled.
// Exceeding maxConsecutiveFailures is not treated as fatal (spec §4.H:
// "This is not a fatal error."): the radio driver is stopped and
// restarted and the counter resets, and retry continues indefinitely.
func (s *Supervisor) RunReconnectLoop(ctx context.Context, disconnected <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-disconnected:
			lifecycle.StationLost(ctx, s.pub, uint64(s.clock.NowMs()), supervisorActor, lifecycle.StationLostPayload{})
			s.reconnectUntilJoined(ctx)
		}
	}
}

func (s *Supervisor) reconnectUntilJoined(ctx context.Context) {
	b := &backoff{}
	failures := 0

	for {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.JoinStation(ctx); err == nil {
			return
		}
		failures++

		if failures >= maxConsecutiveFailures {
			s.wifi.Disconnect()
			failures = 0
			b.reset()
			continue
		}

		s.sleep(ctx, b.next())
	}
}
