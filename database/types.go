package database

// StepRecord represents one scenario step record in the database. Steps are
// ordered by Seq within a scenario and consumed wait-then-toggle.
type StepRecord struct {
	Scenario string
	Seq      int
	WaitSecs int
	TargetID int
}
