package database

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is an interface that both sql.DB and sql.Tx implement.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Queries provides table-aware database operations for the scenario catalog.
type Queries struct {
	db        DBTX
	tableName string
}

// NewQueries creates a new Queries instance with the given table name.
func NewQueries(db DBTX, tableName string) *Queries {
	return &Queries{
		db:        db,
		tableName: tableName,
	}
}

var (
	getStepsSQL = `
SELECT scenario, seq, wait_secs, target_id
FROM %s_steps
WHERE scenario = $1
ORDER BY seq ASC;`

	setStepSQL = `
INSERT INTO %s_steps (scenario, seq, wait_secs, target_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT (scenario, seq)
DO UPDATE SET
    wait_secs = EXCLUDED.wait_secs,
    target_id = EXCLUDED.target_id;`

	deleteScenarioSQL = `
DELETE FROM %s_steps
WHERE scenario = $1;`

	listScenariosSQL = `
SELECT DISTINCT scenario
FROM %s_steps
ORDER BY scenario ASC;`
)

// ListSteps returns all steps of a scenario, ordered by sequence number.
func (q *Queries) ListSteps(ctx context.Context, scenario string) ([]*StepRecord, error) {
	var (
		query     = fmt.Sprintf(getStepsSQL, q.tableName)
		rows, err = q.db.QueryContext(ctx, query, scenario)
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	var steps []*StepRecord
	for rows.Next() {
		var step StepRecord
		if err := rows.Scan(&step.Scenario, &step.Seq, &step.WaitSecs, &step.TargetID); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, &step)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return steps, nil
}

// SetStep inserts or updates a scenario step.
func (q *Queries) SetStep(ctx context.Context, step *StepRecord) error {
	var query = fmt.Sprintf(setStepSQL, q.tableName)
	_, err := q.db.ExecContext(ctx, query,
		step.Scenario, step.Seq, step.WaitSecs, step.TargetID,
	)
	if err != nil {
		return fmt.Errorf("failed to set step: %w", err)
	}
	return nil
}

// DeleteScenario removes every step of a scenario.
func (q *Queries) DeleteScenario(ctx context.Context, scenario string) error {
	var query = fmt.Sprintf(deleteScenarioSQL, q.tableName)
	_, err := q.db.ExecContext(ctx, query, scenario)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	return nil
}

// ListScenarios returns the names of all scenarios in the catalog.
func (q *Queries) ListScenarios(ctx context.Context) ([]string, error) {
	var (
		query     = fmt.Sprintf(listScenariosSQL, q.tableName)
		rows, err = q.db.QueryContext(ctx, query)
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan scenario name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return names, nil
}
