package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type BacktestStateTestSuite struct {
	suite.Suite
	state *BacktestState
}

func TestBacktestStateSuite(t *testing.T) {
	suite.Run(t, new(BacktestStateTestSuite))
}

func (suite *BacktestStateTestSuite) SetupTest() {
	state, err := NewBacktestState(logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.Require().NoError(state.Initialize())

	suite.state = state
}

func (suite *BacktestStateTestSuite) TearDownTest() {
	suite.NoError(suite.state.Close())
}

func (suite *BacktestStateTestSuite) history() []types.Snapshot {
	state := types.NewPortfolioState([]string{"A", "B"}, 100)
	first := types.NewSnapshot(testStart, state)

	state.Positions["A"] = types.NewPosition(10, 10, 100)
	state.Cash = 0
	state.Total = 100
	second := types.NewSnapshot(testStart.Add(5*time.Minute), state)

	state.Positions["A"] = types.NewPosition(10, 12, 100)
	state.Total = 120
	third := types.NewSnapshot(testStart.Add(10*time.Minute), state)

	return []types.Snapshot{first, second, third}
}

func (suite *BacktestStateTestSuite) fills() []types.Fill {
	return []types.Fill{
		{
			Time:       testStart.Add(5 * time.Minute),
			Instrument: "A",
			Type:       types.SignalTypeEnter,
			Quantity:   10,
			Price:      10,
			CashDelta:  -100,
		},
		{
			Time:       testStart.Add(10 * time.Minute),
			Instrument: "A",
			Type:       types.SignalTypeExit,
			Quantity:   -10,
			Price:      12,
			Ratio:      1,
			CashDelta:  120,
			Closed:     true,
		},
	}
}

func (suite *BacktestStateTestSuite) TestRecordSnapshots() {
	suite.Require().NoError(suite.state.RecordSnapshots(suite.history()))

	count, err := suite.state.CountSnapshots()
	suite.Require().NoError(err)
	suite.Equal(3, count)

	var total float64
	err = suite.state.db.QueryRow("SELECT total FROM snapshots WHERE time = ? LIMIT 1", testStart.Add(10*time.Minute)).Scan(&total)
	suite.Require().NoError(err)
	suite.Equal(120.0, total)
}

func (suite *BacktestStateTestSuite) TestRecordFills() {
	suite.Require().NoError(suite.state.RecordFills(suite.fills()))

	fills, err := suite.state.GetFills()
	suite.Require().NoError(err)
	suite.Require().Len(fills, 2)

	suite.Equal("A", fills[0].Instrument)
	suite.Equal(types.SignalTypeEnter, fills[0].Type)
	suite.Equal(-100.0, fills[0].CashDelta)
	suite.True(fills[0].Time.Equal(testStart.Add(5 * time.Minute)))
	suite.Equal(types.SignalTypeExit, fills[1].Type)
	suite.True(fills[1].Closed)
	suite.Equal(1.0, fills[1].Ratio)
}

func (suite *BacktestStateTestSuite) TestEmptyInsertsAreNoop() {
	suite.NoError(suite.state.RecordFills(nil))
	suite.NoError(suite.state.RecordSnapshots(nil))

	fills, err := suite.state.GetFills()
	suite.Require().NoError(err)
	suite.Empty(fills)
}

func (suite *BacktestStateTestSuite) TestWriteParquet() {
	suite.Require().NoError(suite.state.RecordSnapshots(suite.history()))
	suite.Require().NoError(suite.state.RecordFills(suite.fills()))

	dir := suite.T().TempDir()
	suite.Require().NoError(suite.state.Write(dir))

	for _, name := range []string{snapshotsFileName, fillsFileName} {
		info, err := os.Stat(filepath.Join(dir, name))
		suite.Require().NoError(err, name)
		suite.Greater(info.Size(), int64(0))
	}

	var rows int
	err := suite.state.db.QueryRow(
		"SELECT COUNT(*) FROM read_parquet('" + filepath.Join(dir, snapshotsFileName) + "')").Scan(&rows)
	suite.Require().NoError(err)
	// one row per instrument per bar
	suite.Equal(6, rows)
}

func (suite *BacktestStateTestSuite) TestCleanup() {
	suite.Require().NoError(suite.state.RecordSnapshots(suite.history()))
	suite.Require().NoError(suite.state.RecordFills(suite.fills()))
	suite.Require().NoError(suite.state.Cleanup())

	count, err := suite.state.CountSnapshots()
	suite.Require().NoError(err)
	suite.Equal(0, count)

	fills, err := suite.state.GetFills()
	suite.Require().NoError(err)
	suite.Empty(fills)
}
