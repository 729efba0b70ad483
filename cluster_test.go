package ringsim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCluster(t *testing.T) {
	var (
		newCtx = func(t *testing.T) context.Context {
			var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
			t.Cleanup(cancel)
			return ctx
		}
		newRing = func(t *testing.T, n int) *Cluster {
			var sut, err = NewCluster(n, WithProbeTimeout(25*time.Millisecond))
			require.NoError(t, err)
			return sut
		}
		newScenario = func(t *testing.T, toggles ...int) Scenario {
			var scenario, err = NewScenario(toggles, make([]time.Duration, len(toggles)))
			require.NoError(t, err)
			return scenario
		}
	)

	t.Run("should reject rings smaller than two members", func(t *testing.T) {
		// Arrange & Act
		var _, err = NewCluster(1)

		// Assert
		assert.ErrorIs(t, err, ErrRingTooSmall)
	})

	t.Run("should reject scenario targeting members outside the ring", func(t *testing.T) {
		// Arrange
		var (
			ctx = newCtx(t)
			sut = newRing(t, 3)
		)

		// Act
		var err = sut.RunScenario(ctx, newScenario(t, 5))

		// Assert
		assert.ErrorIs(t, err, ErrScenarioTarget)
	})

	t.Run("should elect next lowest id when the coordinator goes down", func(t *testing.T) {
		// Arrange
		var (
			ctx    = newCtx(t)
			sut    = newRing(t, 3)
			driver = NewDriver(newScenario(t, 0), nil)
		)

		// Act
		var err = sut.Run(ctx, driver.Drive)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, driver.CoordID())
		assert.Equal(t, []int{1, 1, 1}, sut.Coordinators(),
			"every member's cached coordinator must converge")
	})

	t.Run("should elect lowest id when all members are active", func(t *testing.T) {
		// Arrange
		var (
			ctx = newCtx(t)
			sut = newRing(t, 4)
		)

		// Act
		var err = sut.Run(ctx, func(ctx context.Context, c *Cluster) error {
			if err := c.Inject(ctx, NewElection(c.Size())); err != nil {
				return err
			}

			result, err := c.AwaitSim(ctx)
			if err != nil {
				return err
			}
			assert.Equal(t, SimElectionDone, result.Kind)
			assert.Equal(t, 0, result.ID)

			return c.Inject(ctx, NewEnd())
		})

		// Assert
		require.NoError(t, err)
		for _, coord := range sut.Coordinators() {
			assert.Equal(t, 0, coord)
		}
	})

	t.Run("should select lowest active id with a single member down", func(t *testing.T) {
		// Arrange: member 2 is down but is not the coordinator, so the
		// driver only runs an election once member 0 goes down too.
		var (
			ctx    = newCtx(t)
			sut    = newRing(t, 5)
			driver = NewDriver(newScenario(t, 2, 0), nil)
		)

		// Act
		var err = sut.Run(ctx, driver.Drive)

		// Assert: lowest active id is 1 (members 0 and 2 are down).
		require.NoError(t, err)
		assert.Equal(t, 1, driver.CoordID())
		assert.Equal(t, []int{1, 1, 1, 1, 1}, sut.Coordinators())
	})

	t.Run("should cascade coordinatorship through successive failures", func(t *testing.T) {
		// Arrange
		var (
			ctx    = newCtx(t)
			sut    = newRing(t, 4)
			driver = NewDriver(newScenario(t, 0, 1, 2), nil)
		)

		// Act
		var err = sut.Run(ctx, driver.Drive)

		// Assert: elections elect 1, then 2, then 3.
		require.NoError(t, err)
		assert.Equal(t, 3, driver.CoordID())
		assert.Equal(t, []int{3, 3, 3, 3}, sut.Coordinators())
	})

	t.Run("should terminate every member on end regardless of activity", func(t *testing.T) {
		// Arrange: member 1 is toggled down and never recovered; End must
		// still lap the full ring through it.
		var (
			ctx    = newCtx(t)
			sut    = newRing(t, 3)
			driver = NewDriver(newScenario(t, 1), nil)
		)

		// Act
		var err = sut.Run(ctx, driver.Drive)

		// Assert
		require.NoError(t, err)
		for _, m := range sut.members {
			assert.True(t, m.ended, "member %d should have seen End", m.id)
		}
		assert.False(t, sut.members[1].active)
	})

	t.Run("should re-elect the same coordinator without stalling", func(t *testing.T) {
		// Arrange: toggling member 0 down and up again, then electing,
		// re-elects 0; the result closes its loop at the first member whose
		// cached coordinator already matches.
		var (
			ctx = newCtx(t)
			sut = newRing(t, 3)
		)

		// Act
		var err = sut.Run(ctx, func(ctx context.Context, c *Cluster) error {
			for i := 0; i < 2; i++ {
				if err := c.Inject(ctx, NewToggle(0)); err != nil {
					return err
				}
				if _, err := c.AwaitSim(ctx); err != nil {
					return err
				}
			}

			if err := c.Inject(ctx, NewElection(c.Size())); err != nil {
				return err
			}
			result, err := c.AwaitSim(ctx)
			if err != nil {
				return err
			}
			assert.Equal(t, 0, result.ID)

			return c.Inject(ctx, NewEnd())
		})

		// Assert
		require.NoError(t, err)
		for _, coord := range sut.Coordinators() {
			assert.Equal(t, 0, coord)
		}
	})

	t.Run("should expose run id and size", func(t *testing.T) {
		// Arrange & Act
		var sut = newRing(t, 3)

		// Assert
		assert.Equal(t, 3, sut.Size())
		assert.NotEmpty(t, sut.RunID())
	})
}
