package ringsim

import (
	"context"
	"errors"
)

// vote applies the ballot-circulation logic to an in-flight election.
//
// An inactive member relays the ballot to its fixed successor without
// marking itself: it does not participate, but it must not break
// circulation either. An active member that finds its own bit unset marks
// itself and forwards the ballot to the nearest live successor. An active
// member that finds its own bit already set has, by construction, seen the
// ballot complete its first full lap: it computes the winner and announces
// the result along the forced successor chain, so that a probe failure can
// no longer block propagation once a winner is known.
func (m *Member) vote(ctx context.Context, msg Message) error {
	if !m.active {
		m.logger.Debug("inactive, relaying ballot")
		return m.send(ctx, m.next, msg)
	}

	if !msg.Ballot[m.id] {
		msg.Ballot[m.id] = true
		m.logger.Info("joined election")

		var err = m.forwardLive(ctx, msg)
		if errors.Is(err, ErrNoLiveSuccessor) {
			// No live member besides us. Fall back to the forced successor
			// chain: inactive members relay the ballot unmarked, so it
			// still completes its lap and elects the lone survivor.
			m.logger.Warn("no live successor, relaying ballot unconditionally")
			return m.send(ctx, m.next, msg)
		}
		return err
	}

	var winner = lowestMarked(msg.Ballot)
	m.coordID = winner
	m.logger.Info("election lap complete", "winner", winner)

	return m.send(ctx, m.next, newResult(winner))
}

// updateCoord applies an election result. A member whose cached coordinator
// already equals the winner is the loop-closing point: the result has lapped
// back around, every member in between has converged, and completion is
// reported to the driver instead of relaying any further.
func (m *Member) updateCoord(ctx context.Context, winner int) error {
	if m.coordID == winner {
		m.logger.Info("coordinator converged", "coord", winner)
		return m.sendSim(ctx, SimMsg{Kind: SimElectionDone, ID: winner})
	}

	m.coordID = winner
	m.logger.Info("coordinator updated", "coord", winner)

	return m.send(ctx, m.next, newResult(winner))
}

// lowestMarked returns the lowest id with a true bit in the ballot, or -1
// for an all-false ballot. Lowest id wins ties deterministically.
func lowestMarked(ballot []bool) int {
	for i, marked := range ballot {
		if marked {
			return i
		}
	}
	return -1
}
