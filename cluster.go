package ringsim

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrRingTooSmall is returned when a cluster is created with fewer than two
// members. A one-member ring has no successor to elect or probe.
var ErrRingTooSmall = errors.New("ring needs at least two members")

// A DriveFunc feeds events into a running ring. The library ships a
// scenario-based driver (see Driver); the cmd wires a keyboard-based one.
// The function must inject End before returning, or the members never stop.
type DriveFunc func(ctx context.Context, c *Cluster) error

// NewCluster creates the fabric for a ring of n members: one capacity-1
// mailbox per member, a full-mesh peer mapping cloned per member, and the
// single driver-facing confirmation channel. All members start active with
// a cached coordinator of 0.
func NewCluster(n int, opts ...Option) (*Cluster, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrRingTooSmall, n)
	}

	var options = defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	var (
		runID   = uuid.New().String()[0:8]
		logger  = options.logger.With("run", runID)
		inboxes = make([]chan Message, n)
		sim     = make(chan SimMsg, 1)
		members = make([]*Member, n)
	)

	for i := 0; i < n; i++ {
		inboxes[i] = make(chan Message, 1)
	}

	for i := 0; i < n; i++ {
		var peers = make(map[int]chan<- Message, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				peers[j] = inboxes[j]
			}
		}

		members[i] = &Member{
			id:           i,
			n:            n,
			next:         (i + 1) % n,
			active:       true,
			coordID:      0,
			peers:        peers,
			inbox:        inboxes[i],
			sim:          sim,
			probeTimeout: options.probeTimeout,
			logger:       logger.With("member", i),
		}
	}

	return &Cluster{
		n:       n,
		runID:   runID,
		inboxes: inboxes,
		sim:     sim,
		members: members,
		options: options,
	}, nil
}

// Size returns the fixed number of ring members.
func (c *Cluster) Size() int {
	return c.n
}

// RunID returns the identifier attached to this run's trace output.
func (c *Cluster) RunID() string {
	return c.runID
}

// Run spawns one goroutine per ring member plus one for the driver and
// blocks until all of them return. The first structural error cancels the
// whole simulation; a clean run ends when the driver's End signal has lapped
// the ring once.
func (c *Cluster) Run(ctx context.Context, drive DriveFunc) error {
	c.options.logger.Info("ring created", "run", c.runID, "members", c.n)

	var g, gctx = errgroup.WithContext(ctx)

	for _, m := range c.members {
		m := m
		g.Go(func() error {
			return m.run(gctx)
		})
	}

	g.Go(func() error {
		if err := drive(gctx, c); err != nil {
			return fmt.Errorf("driver: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// RunScenario runs the ring under the standard timed scenario driver.
func (c *Cluster) RunScenario(ctx context.Context, scenario Scenario) error {
	if err := scenario.Validate(c.n); err != nil {
		return err
	}

	return c.Run(ctx, NewDriver(scenario, c.options.logger.With("run", c.runID)).Drive)
}

// Inject delivers a message into member 0's mailbox. All driver traffic
// enters the ring here and fans out along the successor chain.
func (c *Cluster) Inject(ctx context.Context, msg Message) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case c.inboxes[0] <- msg:
		return nil
	}
}

// AwaitSim blocks for the next member-to-driver confirmation.
func (c *Cluster) AwaitSim(ctx context.Context) (SimMsg, error) {
	select {
	case <-ctx.Done():
		return SimMsg{}, ctx.Err()
	case msg := <-c.sim:
		return msg, nil
	}
}

// Coordinators returns every member's cached coordinator id. Only meaningful
// once Run has returned; while the ring is live the members own this state
// exclusively.
func (c *Cluster) Coordinators() []int {
	var coords = make([]int, c.n)
	for i, m := range c.members {
		coords[i] = m.coordID
	}
	return coords
}
