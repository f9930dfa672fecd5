package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type PortfolioTestSuite struct {
	suite.Suite
}

func TestPortfolioSuite(t *testing.T) {
	suite.Run(t, new(PortfolioTestSuite))
}

func (suite *PortfolioTestSuite) TestNewPortfolioState() {
	state := NewPortfolioState([]string{"B", "A"}, 100)

	suite.Equal(100.0, state.Cash)
	suite.Equal(100.0, state.Total)
	suite.Equal([]string{"A", "B"}, state.Instruments())
	suite.True(state.Position("A").IsFlat())
	suite.Equal(0.0, state.RealizableValue())
}

func (suite *PortfolioTestSuite) TestPositionForUnknownInstrumentIsFlat() {
	state := NewPortfolioState([]string{"A"}, 100)
	suite.Equal(Position{}, state.Position("UNKNOWN"))
}

func (suite *PortfolioTestSuite) TestRealizableValue() {
	state := NewPortfolioState([]string{"A", "B"}, 0)
	state.Positions["A"] = NewPosition(10, 12, 100)
	state.Positions["B"] = NewPosition(-5, 8, 50)

	suite.InDelta(120.0+60.0, state.RealizableValue(), 1e-9)
}

func (suite *PortfolioTestSuite) TestCloneDoesNotAlias() {
	state := NewPortfolioState([]string{"A"}, 100)
	state.Positions["A"] = NewPosition(10, 10, 100)

	clone := state.Clone()
	state.Positions["A"] = Position{}
	state.Positions["B"] = NewPosition(1, 1, 1)
	state.Cash = -1

	suite.Equal(10.0, clone.Positions["A"].Quantity)
	suite.NotContains(clone.Positions, "B")
	suite.Equal(100.0, clone.Cash)
}

func (suite *PortfolioTestSuite) TestSnapshotIsImmutable() {
	state := NewPortfolioState([]string{"A"}, 100)
	t := time.Date(2016, 7, 1, 9, 35, 0, 0, time.UTC)
	snapshot := NewSnapshot(t, state)

	state.Positions["A"] = NewPosition(10, 10, 100)
	state.Cash = 0

	suite.Equal(t, snapshot.Time)
	suite.True(snapshot.State.Position("A").IsFlat())
	suite.Equal(100.0, snapshot.State.Cash)
}

func (suite *PortfolioTestSuite) TestRunStatus() {
	suite.False(RunStatusRunning.IsTerminal())
	suite.True(RunStatusBankrupt.IsTerminal())
	suite.True(RunStatusCompleted.IsTerminal())
}
