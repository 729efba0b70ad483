package ringsim

import (
	"log/slog"
	"time"
)

// A Member is one participant in the simulated ring. It exclusively owns its
// mutable state (active, coordID, ended); all coordination with the rest of
// the ring happens through message passing over the fabric, so there is no
// locking anywhere.
type Member struct {
	id      int
	n       int
	next    int // fixed ring successor, (id+1) mod n
	active  bool
	coordID int
	ended   bool // set once End has been relayed; the run loop then returns

	peers map[int]chan<- Message // outbound handle to every other member
	inbox <-chan Message         // single mailbox shared by all message kinds
	sim   chan<- SimMsg

	probeTimeout time.Duration
	logger       *slog.Logger
}

// A Cluster owns the message fabric for a fixed-size ring: one capacity-1
// mailbox per member, the members themselves, and the driver-facing channel.
// Membership is fixed for the lifetime of a run.
type Cluster struct {
	n       int
	runID   string
	inboxes []chan Message
	sim     chan SimMsg
	members []*Member
	options options
}
