package ringsim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver(t *testing.T) {
	var newCtx = func(t *testing.T) context.Context {
		var ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		t.Cleanup(cancel)
		return ctx
	}

	t.Run("should start with coordinator belief of zero", func(t *testing.T) {
		// Arrange & Act
		var sut = NewDriver(Scenario{}, nil)

		// Assert
		assert.Equal(t, 0, sut.CoordID())
	})

	t.Run("should pace steps by their wait durations", func(t *testing.T) {
		// Arrange
		var (
			ctx            = newCtx(t)
			cluster, err   = NewCluster(2, WithProbeTimeout(25*time.Millisecond))
			scenario, sErr = NewScenario([]int{1}, []time.Duration{50 * time.Millisecond})
		)
		require.NoError(t, err)
		require.NoError(t, sErr)

		// Act
		var start = time.Now()
		runErr := cluster.Run(ctx, NewDriver(scenario, nil).Drive)

		// Assert
		require.NoError(t, runErr)
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
		assert.False(t, cluster.members[1].active)
	})

	t.Run("should not elect when a non-coordinator goes down", func(t *testing.T) {
		// Arrange
		var (
			ctx            = newCtx(t)
			cluster, err   = NewCluster(3, WithProbeTimeout(25*time.Millisecond))
			scenario, sErr = NewScenario([]int{2}, []time.Duration{0})
		)
		require.NoError(t, err)
		require.NoError(t, sErr)
		var driver = NewDriver(scenario, nil)

		// Act
		runErr := cluster.Run(ctx, driver.Drive)

		// Assert
		require.NoError(t, runErr)
		assert.Equal(t, 0, driver.CoordID())
		assert.Equal(t, []int{0, 0, 0}, cluster.Coordinators())
	})
}
