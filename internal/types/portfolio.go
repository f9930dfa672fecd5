package types

import (
	"maps"
	"slices"
	"time"
)

// PortfolioState is the cash balance plus one position vector per instrument.
//
// Total is derived: Cash + sum of every position's RealizableValue. Cash may go negative,
// which the simulation treats as bankruptcy rather than an error.
type PortfolioState struct {
	Cash      float64             `yaml:"cash" json:"cash"`
	Positions map[string]Position `yaml:"positions" json:"positions"`
	Total     float64             `yaml:"total" json:"total"`
}

// NewPortfolioState returns a state holding initialCapital in cash and a flat position for every
// instrument.
func NewPortfolioState(instruments []string, initialCapital float64) PortfolioState {
	positions := make(map[string]Position, len(instruments))
	for _, instrument := range instruments {
		positions[instrument] = Position{}
	}

	return PortfolioState{
		Cash:      initialCapital,
		Positions: positions,
		Total:     initialCapital,
	}
}

// Position returns the position for instrument, or a flat position if it is unknown.
func (s PortfolioState) Position(instrument string) Position {
	return s.Positions[instrument]
}

// Instruments returns the instruments tracked by the state in sorted order.
func (s PortfolioState) Instruments() []string {
	return slices.Sorted(maps.Keys(s.Positions))
}

// RealizableValue sums the realizable value of every position.
func (s PortfolioState) RealizableValue() float64 {
	total := 0.0
	for _, instrument := range s.Instruments() {
		total += s.Positions[instrument].RealizableValue
	}

	return total
}

// Clone returns a deep copy that shares no mutable containers with s.
func (s PortfolioState) Clone() PortfolioState {
	return PortfolioState{
		Cash:      s.Cash,
		Positions: maps.Clone(s.Positions),
		Total:     s.Total,
	}
}

// Snapshot is an immutable copy of the portfolio state taken at the end of a bar.
type Snapshot struct {
	Time  time.Time      `yaml:"time" json:"time"`
	State PortfolioState `yaml:"state" json:"state"`
}

// NewSnapshot deep copies state and tags it with t.
func NewSnapshot(t time.Time, state PortfolioState) Snapshot {
	return Snapshot{
		Time:  t,
		State: state.Clone(),
	}
}

// RunStatus is the state of the simulation loop.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusBankrupt  RunStatus = "BANKRUPT"
	RunStatusCompleted RunStatus = "COMPLETED"
)

// IsTerminal reports whether the loop can no longer advance from this status.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusBankrupt || s == RunStatusCompleted
}
