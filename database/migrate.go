package database

import (
	"database/sql"
	"fmt"
)

var (
	createStepsTableSQL = `
CREATE TABLE IF NOT EXISTS %s_steps (
    scenario     VARCHAR    NOT NULL,
    seq          INTEGER    NOT NULL,
    wait_secs    INTEGER    NOT NULL,
    target_id    INTEGER    NOT NULL,

    PRIMARY KEY (scenario, seq)
);`

	createStepsIndexSQL = `
CREATE INDEX IF NOT EXISTS %s_steps_scenario_idx
ON %s_steps (scenario);`
)

// Migrate creates the scenario steps table with its index.
func Migrate(db *sql.DB, tableName string) error {
	if err := createStepsTable(db, tableName); err != nil {
		return err
	}

	if err := createStepsIndex(db, tableName); err != nil {
		return err
	}

	return nil
}

func createStepsTable(db *sql.DB, tableName string) error {
	var query = fmt.Sprintf(createStepsTableSQL, tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create steps table: %w", err)
	}
	return nil
}

func createStepsIndex(db *sql.DB, tableName string) error {
	var query = fmt.Sprintf(createStepsIndexSQL, tableName, tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create steps index: %w", err)
	}
	return nil
}
