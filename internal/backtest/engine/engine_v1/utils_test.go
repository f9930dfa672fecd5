package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// UtilsTestSuite is a test suite for utils package
type UtilsTestSuite struct {
	suite.Suite
}

// TestUtilsSuite runs the test suite
func TestUtilsSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

func (suite *UtilsTestSuite) TestGetResultFolder() {
	start := time.Date(2015, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2016, 12, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		instruments  []string
		startTime    optional.Option[time.Time]
		endTime      optional.Option[time.Time]
		expectedPath string
	}{
		{
			name:         "without time range",
			instruments:  []string{"600030.SH"},
			startTime:    optional.None[time.Time](),
			endTime:      optional.None[time.Time](),
			expectedPath: filepath.Join("/results", "Buy_Hold", "600030.SH"),
		},
		{
			name:         "with time range",
			instruments:  []string{"600030.SH", "600036.SH"},
			startTime:    optional.Some(start),
			endTime:      optional.Some(end),
			expectedPath: filepath.Join("/results", "Buy_Hold", "20150105_20161230", "600030.SH_600036.SH"),
		},
		{
			name:         "with only start time",
			instruments:  []string{"600030.SH"},
			startTime:    optional.Some(start),
			endTime:      optional.None[time.Time](),
			expectedPath: filepath.Join("/results", "Buy_Hold", "20150105_all", "600030.SH"),
		},
		{
			name:         "with only end time",
			instruments:  []string{"600030.SH"},
			startTime:    optional.None[time.Time](),
			endTime:      optional.Some(end),
			expectedPath: filepath.Join("/results", "Buy_Hold", "all_20161230", "600030.SH"),
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			config := EmptyConfig()
			config.StartTime = tc.startTime
			config.EndTime = tc.endTime

			b := &BacktestEngineV1{
				config:        config,
				resultsFolder: "/results",
			}

			suite.Equal(tc.expectedPath, getResultFolder(b, "Buy_Hold", tc.instruments))
		})
	}
}

func (suite *UtilsTestSuite) TestLoadBacktestStats() {
	original := version.Version
	defer func() { version.Version = original }()

	version.Version = "1.4.0"

	dir := suite.T().TempDir()

	write := func(name string, engineVersion string) string {
		path := filepath.Join(dir, name)
		suite.Require().NoError(types.WriteBacktestStats(path, types.BacktestStats{
			ID:            name,
			EngineVersion: engineVersion,
			Bars:          3,
		}))

		return path
	}

	stats, err := LoadBacktestStats(write("same.yaml", "1.4.2"))
	suite.Require().NoError(err)
	suite.Equal(3, stats.Bars)

	_, err = LoadBacktestStats(write("dev.yaml", "main"))
	suite.NoError(err)

	_, err = LoadBacktestStats(write("old.yaml", "1.3.0"))
	suite.True(errors.HasCode(err, errors.ErrCodeIncompatibleStats), "got %v", err)

	_, err = LoadBacktestStats(filepath.Join(dir, "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound), "got %v", err)
}

func (suite *UtilsTestSuite) TestPrepareResultFolder() {
	dir := filepath.Join(suite.T().TempDir(), "run")
	stale := filepath.Join(dir, "stale.parquet")

	suite.Require().NoError(os.MkdirAll(dir, 0755))
	suite.Require().NoError(os.WriteFile(stale, []byte("old"), 0644))

	suite.Require().NoError(prepareResultFolder(dir))
	suite.DirExists(dir)
	suite.NoFileExists(stale)

	// RemoveAll rejects paths ending in "." even though Stat resolves them
	err := prepareResultFolder(dir + string(filepath.Separator) + ".")
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestWriteFailed), "got %v", err)

	// a regular file blocks the folder
	blocker := filepath.Join(suite.T().TempDir(), "file")
	suite.Require().NoError(os.WriteFile(blocker, nil, 0644))

	err = prepareResultFolder(filepath.Join(blocker, "run"))
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestWriteFailed), "got %v", err)
}
