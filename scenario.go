package ringsim

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrScenarioLengthMismatch is returned when the toggle and wait
	// sequences are not the same length. This is a configuration error and
	// is rejected before the ring starts.
	ErrScenarioLengthMismatch = errors.New("number of toggles must equal number of waits")

	// ErrScenarioTarget is returned when a toggle targets an id outside the
	// ring.
	ErrScenarioTarget = errors.New("toggle target outside ring")
)

// A Scenario is an ordered sequence of (wait, target) pairs, consumed left
// to right by the driver: wait Waits[i], then toggle member Toggles[i].
type Scenario struct {
	Toggles []int
	Waits   []time.Duration
}

// NewScenario creates a scenario from equal-length toggle and wait
// sequences. Negative values are rejected.
func NewScenario(toggles []int, waits []time.Duration) (Scenario, error) {
	if len(toggles) != len(waits) {
		return Scenario{}, fmt.Errorf("%w: %d toggles, %d waits",
			ErrScenarioLengthMismatch, len(toggles), len(waits))
	}

	for _, id := range toggles {
		if id < 0 {
			return Scenario{}, fmt.Errorf("%w: %d", ErrScenarioTarget, id)
		}
	}
	for _, wait := range waits {
		if wait < 0 {
			return Scenario{}, fmt.Errorf("negative wait: %s", wait)
		}
	}

	return Scenario{Toggles: toggles, Waits: waits}, nil
}

// DefaultScenario toggles ids 0..n-2 inactive in order with one-second
// pacing. Every step downs the current coordinator, so the coordinatorship
// cascades through 1, 2, ..., n-1 and each step forces a fresh election.
func DefaultScenario(n int) Scenario {
	var (
		toggles = make([]int, n-1)
		waits   = make([]time.Duration, n-1)
	)

	for i := 0; i < n-1; i++ {
		toggles[i] = i
		waits[i] = time.Second
	}

	return Scenario{Toggles: toggles, Waits: waits}
}

// Len returns the number of steps in the scenario.
func (s Scenario) Len() int {
	return len(s.Toggles)
}

// Validate checks the scenario against a ring of n members.
func (s Scenario) Validate(n int) error {
	if len(s.Toggles) != len(s.Waits) {
		return fmt.Errorf("%w: %d toggles, %d waits",
			ErrScenarioLengthMismatch, len(s.Toggles), len(s.Waits))
	}

	for _, id := range s.Toggles {
		if id < 0 || id >= n {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrScenarioTarget, id, n)
		}
	}

	return nil
}

// ParseScenario reads the line-based scenario format: one step per line as
// "<wait_seconds> <target_id>", with blank lines and #-comments skipped.
func ParseScenario(r io.Reader) (Scenario, error) {
	var (
		toggles []int
		waits   []time.Duration
		scanner = bufio.NewScanner(r)
		lineNo  = 0
	)

	for scanner.Scan() {
		lineNo++
		var line = strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var fields = strings.Fields(line)
		if len(fields) != 2 {
			return Scenario{}, fmt.Errorf("line %d: want \"<wait_seconds> <target_id>\", got %q", lineNo, line)
		}

		secs, err := strconv.Atoi(fields[0])
		if err != nil || secs < 0 {
			return Scenario{}, fmt.Errorf("line %d: invalid wait %q", lineNo, fields[0])
		}

		target, err := strconv.Atoi(fields[1])
		if err != nil || target < 0 {
			return Scenario{}, fmt.Errorf("line %d: invalid target %q", lineNo, fields[1])
		}

		waits = append(waits, time.Duration(secs)*time.Second)
		toggles = append(toggles, target)
	}

	if err := scanner.Err(); err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario: %w", err)
	}

	return Scenario{Toggles: toggles, Waits: waits}, nil
}

// LoadScenario reads a scenario from a file.
func LoadScenario(path string) (Scenario, error) {
	var f, err = os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to open scenario file: %w", err)
	}
	defer f.Close()

	scenario, err := ParseScenario(f)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}

	return scenario, nil
}
