package ringsim

import (
	"context"
	"errors"
	"time"
)

// ErrNoLiveSuccessor is returned when a full ring lap of probing found no
// responsive member besides the caller. The forwarding attempt fails;
// recovery is up to the caller.
var ErrNoLiveSuccessor = errors.New("no live successor responded")

// forwardLive delivers a payload to the nearest live successor, probing each
// candidate in ring order starting just after this member and skipping every
// one that fails to reply within the probe timeout.
func (m *Member) forwardLive(ctx context.Context, payload Message) error {
	for offset := 1; offset < m.n; offset++ {
		var candidate = (m.id + offset) % m.n

		var live, ok, err = m.probe(ctx, candidate)
		if err != nil {
			return err
		}
		if m.ended {
			return nil
		}
		if !ok {
			m.logger.Debug("probe timed out, skipping", "candidate", candidate)
			continue
		}

		return m.send(ctx, live, payload)
	}

	return ErrNoLiveSuccessor
}

// probe pings a single candidate and waits on the member's own mailbox for
// the reply. Any other message that arrives during the wait is unrelated
// protocol traffic and is dispatched through the normal handler before the
// wait resumes; the probe is not abandoned. Returns the id that answered:
// a late pong from an earlier candidate is still proof of liveness, so the
// answering id wins over the probed one.
func (m *Member) probe(ctx context.Context, candidate int) (int, bool, error) {
	if err := m.send(ctx, candidate, newPing(m.id)); err != nil {
		return 0, false, err
	}

	var timer = time.NewTimer(m.probeTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return 0, false, ctx.Err()
		case <-timer.C:
			return 0, false, nil
		case msg := <-m.inbox:
			if msg.Kind == MsgPong {
				return msg.From, true, nil
			}

			// Reentrant dispatch: handle the interleaved message on this
			// same goroutine, then go back to waiting for the pong.
			if err := m.dispatch(ctx, msg); err != nil {
				return 0, false, err
			}
			if m.ended {
				return 0, false, nil
			}

			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(m.probeTimeout)
		}
	}
}
