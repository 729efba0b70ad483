package ringsim

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnknownMember is returned when a message is addressed to an id that
	// has no mailbox in the fabric mapping. This is a configuration
	// inconsistency and fatal to the task that observes it.
	ErrUnknownMember = errors.New("no mailbox for member id")

	// ErrUnknownMessage is returned when a member receives a message kind it
	// has no handler for.
	ErrUnknownMessage = errors.New("unknown message kind")
)

// run is the member's main loop: receive one message at a time from the
// shared mailbox and dispatch it, until End has lapped through this member.
func (m *Member) run(ctx context.Context) error {
	m.logger.Debug("member started", "next", m.next)

	for !m.ended {
		var msg Message
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg = <-m.inbox:
		}

		if err := m.dispatch(ctx, msg); err != nil {
			return fmt.Errorf("member %d: %w", m.id, err)
		}
	}

	m.logger.Debug("member done", "active", m.active, "coord", m.coordID)
	return nil
}

// dispatch routes one inbound message through the protocol logic. It is
// called both from the main loop and reentrantly from inside a probe wait,
// which is safe because both run on the member's single goroutine.
func (m *Member) dispatch(ctx context.Context, msg Message) error {
	m.logger.Debug("received", "kind", msg.Kind)

	switch msg.Kind {
	case MsgPing:
		return m.handlePing(ctx, msg)
	case MsgPong:
		// A pong outside a probe wait is the reply to a probe that already
		// timed out and moved on. It carries no other meaning, so drop it.
		m.logger.Debug("stale pong dropped", "from", msg.From)
		return nil
	case MsgElection:
		return m.vote(ctx, msg)
	case MsgElectionResult:
		return m.updateCoord(ctx, msg.Winner)
	case MsgToggle:
		return m.handleToggle(ctx, msg)
	case MsgEnd:
		return m.handleEnd(ctx, msg)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMessage, msg.Kind)
	}
}

// handlePing replies Pong only if this member considers itself active.
// Dropping the ping silently is exactly what makes an inactive member
// invisible to the probe.
func (m *Member) handlePing(ctx context.Context, msg Message) error {
	if !m.active {
		m.logger.Debug("inactive, dropping ping", "from", msg.From)
		return nil
	}

	return m.send(ctx, msg.From, newPong(m.id))
}

// handleToggle relays a toggle unconditionally along the fixed successor
// chain until it reaches its target, which flips its activity flag and
// confirms to the driver. Toggles never take the probe path: they must reach
// the target even through inactive intermediaries.
func (m *Member) handleToggle(ctx context.Context, msg Message) error {
	if msg.Target != m.id {
		return m.send(ctx, m.next, msg)
	}

	m.active = !m.active
	m.logger.Info("toggled", "active", m.active)

	return m.sendSim(ctx, SimMsg{Kind: SimToggleConfirmed, ID: m.id, Active: m.active})
}

// handleEnd relays the shutdown signal to the fixed successor exactly once
// and marks the run loop for termination. Every member does the same, so the
// signal laps the ring exactly once; the last relay parks in the originator's
// already-abandoned mailbox slot.
func (m *Member) handleEnd(ctx context.Context, msg Message) error {
	m.ended = true
	return m.send(ctx, m.next, msg)
}

// send delivers a message directly to the addressee's mailbox, blocking
// until the addressee has drained its previous message.
func (m *Member) send(ctx context.Context, to int, msg Message) error {
	var out, ok = m.peers[to]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMember, to)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case out <- msg:
		return nil
	}
}

// sendSim reports a confirmation up to the scenario driver.
func (m *Member) sendSim(ctx context.Context, msg SimMsg) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case m.sim <- msg:
		return nil
	}
}
