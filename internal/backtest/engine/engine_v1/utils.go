package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

func getResultFolder(b *BacktestEngineV1, strategyName string, instruments []string) string {
	strategyFolder := filepath.Join(b.resultsFolder, strategyName)

	// Create data folder with time range if specified
	var dataFolder string

	if b.config.StartTime.IsSome() || b.config.EndTime.IsSome() {
		startTimeStr := "all"
		endTimeStr := "all"

		if b.config.StartTime.IsSome() {
			startTimeStr = b.config.StartTime.Unwrap().Format("20060102")
		}

		if b.config.EndTime.IsSome() {
			endTimeStr = b.config.EndTime.Unwrap().Format("20060102")
		}

		timeRange := fmt.Sprintf("%s_%s", startTimeStr, endTimeStr)
		dataFolder = filepath.Join(strategyFolder, timeRange)
	} else {
		dataFolder = strategyFolder
	}

	// Add the traded instruments as the final folder
	return filepath.Join(dataFolder, strings.Join(instruments, "_"))
}

// prepareResultFolder replaces any results of a previous run with an empty folder.
func prepareResultFolder(path string) error {
	if _, err := os.Stat(path); err == nil {
		if err := os.RemoveAll(path); err != nil {
			return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to remove previous results", err)
		}
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to create results folder", err)
	}

	return nil
}

// LoadBacktestStats reads a stats.yaml written by a previous run and rejects
// files from an engine whose accounting rules differ from this build.
func LoadBacktestStats(path string) (types.BacktestStats, error) {
	stats, err := types.ReadBacktestStats(path)
	if err != nil {
		return types.BacktestStats{}, errors.Wrap(errors.ErrCodeDataNotFound, "failed to load backtest stats", err)
	}

	if err := version.CheckStatsCompatibility(version.GetVersion(), stats.EngineVersion); err != nil {
		return types.BacktestStats{}, errors.Wrapf(errors.ErrCodeIncompatibleStats, err, "stats %s", path)
	}

	return stats, nil
}
