package ringsim

// MsgKind is an enum indicating the type of a fabric message. Ping and Pong
// belong to the liveness probe, Election and ElectionResult to the election
// protocol, Toggle and End to the fault-injection and termination protocol.
type MsgKind uint8

const (
	_                 = iota
	MsgPing   MsgKind = iota
	MsgPong
	MsgElection
	MsgElectionResult
	MsgToggle
	MsgEnd
)

// A Message is one point-to-point message on the fabric. Every member shares
// a single mailbox for all kinds, so the fields are a union: From is set for
// probe traffic, Target for toggles, Winner for results and Ballot for
// in-flight elections.
type Message struct {
	Kind   MsgKind
	From   int
	Target int
	Winner int
	Ballot []bool
}

// newPing creates a liveness probe request carrying the prober's id, so the
// candidate knows where to address its reply.
func newPing(from int) Message {
	return Message{Kind: MsgPing, From: from}
}

// newPong creates a liveness probe reply.
func newPong(from int) Message {
	return Message{Kind: MsgPong, From: from}
}

// NewElection creates an empty ballot for a ring of n members. Bits turn true
// as members mark themselves; a ballot never loses a bit while in flight.
func NewElection(n int) Message {
	return Message{Kind: MsgElection, Ballot: make([]bool, n)}
}

// newResult creates an election result carrying the winning id.
func newResult(winner int) Message {
	return Message{Kind: MsgElectionResult, Winner: winner}
}

// NewToggle creates an activity toggle addressed to the given member.
func NewToggle(target int) Message {
	return Message{Kind: MsgToggle, Target: target}
}

// NewEnd creates the ring-wide shutdown signal.
func NewEnd() Message {
	return Message{Kind: MsgEnd}
}

// String converts a MsgKind to a string.
func (k MsgKind) String() string {
	switch k {
	case MsgPing:
		return "ping"
	case MsgPong:
		return "pong"
	case MsgElection:
		return "election"
	case MsgElectionResult:
		return "electionResult"
	case MsgToggle:
		return "toggle"
	case MsgEnd:
		return "end"
	default:
		return "UNKNOWN_MESSAGE_KIND"
	}
}

// SimKind is an enum indicating the type of a member-to-driver message.
type SimKind uint8

const (
	_                  = iota
	SimToggleConfirmed SimKind = iota
	SimElectionDone
)

// A SimMsg is a confirmation sent from a member up to the scenario driver:
// either the ack of an applied toggle, or the ack that a new coordinator has
// stabilized ring-wide.
type SimMsg struct {
	Kind   SimKind
	ID     int
	Active bool
}
