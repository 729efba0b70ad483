package ringsim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// A Driver feeds a timed sequence of toggle events into the ring and
// observes recovery. Like the members, it keeps its own local belief of the
// coordinator id, converged purely by the confirmations it receives.
type Driver struct {
	scenario Scenario
	coordID  int
	logger   *slog.Logger
}

// NewDriver creates a driver for the given scenario. The driver's cached
// coordinator starts at 0, matching the ring members.
func NewDriver(scenario Scenario, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Driver{
		scenario: scenario,
		logger:   logger.With("task", "driver"),
	}
}

// CoordID returns the driver's current belief of the coordinator id.
func (d *Driver) CoordID() int {
	return d.coordID
}

// Drive consumes the scenario left to right: sleep, toggle, wait for the
// confirmation, and when the member that just went inactive was the believed
// coordinator, run an election and wait for the ring to converge. Once the
// scenario is exhausted the ring is terminated with End.
func (d *Driver) Drive(ctx context.Context, c *Cluster) error {
	for i := 0; i < d.scenario.Len(); i++ {
		var (
			wait   = d.scenario.Waits[i]
			target = d.scenario.Toggles[i]
		)

		d.logger.Info("waiting", "duration", wait)
		if err := sleep(ctx, wait); err != nil {
			return err
		}

		if err := c.Inject(ctx, NewToggle(target)); err != nil {
			return fmt.Errorf("failed to inject toggle: %w", err)
		}
		d.logger.Info("toggled", "target", target)

		var confirm, err = c.AwaitSim(ctx)
		if err != nil {
			return fmt.Errorf("failed to await toggle confirmation: %w", err)
		}
		if confirm.Kind != SimToggleConfirmed || confirm.ID != target {
			return fmt.Errorf("unexpected confirmation for toggle %d: %+v", target, confirm)
		}

		if confirm.ID == d.coordID && !confirm.Active {
			if err := d.runElection(ctx, c); err != nil {
				return err
			}
		}
	}

	if err := c.Inject(ctx, NewEnd()); err != nil {
		return fmt.Errorf("failed to inject end: %w", err)
	}
	d.logger.Info("sent end signal")

	return nil
}

// runElection injects an empty ballot and blocks until the new coordinator
// has stabilized ring-wide.
func (d *Driver) runElection(ctx context.Context, c *Cluster) error {
	if err := c.Inject(ctx, NewElection(c.n)); err != nil {
		return fmt.Errorf("failed to inject election: %w", err)
	}
	d.logger.Info("election started")

	var result, err = c.AwaitSim(ctx)
	if err != nil {
		return fmt.Errorf("failed to await election result: %w", err)
	}
	if result.Kind != SimElectionDone {
		return fmt.Errorf("unexpected confirmation for election: %+v", result)
	}

	d.coordID = result.ID
	d.logger.Info("election done", "coord", d.coordID)

	return nil
}

// sleep waits for the given duration unless the context ends first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	var timer = time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
