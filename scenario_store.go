package ringsim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-ringsim/database"
)

// ErrScenarioNotFound is returned when the catalog holds no steps under the
// requested scenario name.
var ErrScenarioNotFound = errors.New("scenario not found in catalog")

// ScenarioStore handles all database operations for the scenario catalog,
// so scenarios can be shared between runs instead of living in local files.
type ScenarioStore struct {
	queries *database.Queries
}

// NewScenarioStore creates a new ScenarioStore on top of the given queries.
func NewScenarioStore(queries *database.Queries) *ScenarioStore {
	return &ScenarioStore{queries: queries}
}

// Save writes a scenario to the catalog under the given name, replacing any
// previous steps stored under it.
func (st *ScenarioStore) Save(ctx context.Context, name string, scenario Scenario) error {
	// Target range depends on the ring size of the eventual run, so only
	// the structural contract is checked here.
	if len(scenario.Toggles) != len(scenario.Waits) {
		return fmt.Errorf("%w: %d toggles, %d waits",
			ErrScenarioLengthMismatch, len(scenario.Toggles), len(scenario.Waits))
	}

	if err := st.queries.DeleteScenario(ctx, name); err != nil {
		return fmt.Errorf("failed to replace scenario %q: %w", name, err)
	}

	for i := range scenario.Toggles {
		var step = &database.StepRecord{
			Scenario: name,
			Seq:      i,
			WaitSecs: int(scenario.Waits[i] / time.Second),
			TargetID: scenario.Toggles[i],
		}

		if err := st.queries.SetStep(ctx, step); err != nil {
			return fmt.Errorf("failed to save step %d of scenario %q: %w", i, name, err)
		}
	}

	return nil
}

// Load reads a scenario from the catalog by name.
func (st *ScenarioStore) Load(ctx context.Context, name string) (Scenario, error) {
	var records, err = st.queries.ListSteps(ctx, name)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to load scenario %q: %w", name, err)
	}

	if len(records) == 0 {
		return Scenario{}, fmt.Errorf("%w: %q", ErrScenarioNotFound, name)
	}

	var (
		toggles = make([]int, len(records))
		waits   = make([]time.Duration, len(records))
	)
	for i, record := range records {
		toggles[i] = record.TargetID
		waits[i] = time.Duration(record.WaitSecs) * time.Second
	}

	return NewScenario(toggles, waits)
}

// List returns the names of all scenarios in the catalog.
func (st *ScenarioStore) List(ctx context.Context) ([]string, error) {
	var names, err = st.queries.ListScenarios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	return names, nil
}

// Delete removes a scenario from the catalog.
func (st *ScenarioStore) Delete(ctx context.Context, name string) error {
	if err := st.queries.DeleteScenario(ctx, name); err != nil {
		return fmt.Errorf("failed to delete scenario %q: %w", name, err)
	}
	return nil
}
