package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	engine_v1 "github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// runAction loads the config, runs the backtest with a progress bar and prints the summary.
func runAction(ctx context.Context, cmd *cli.Command) error {
	config, err := os.ReadFile(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	backtester := engine_v1.NewBacktestEngineV1()

	if results := cmd.String("results"); results != "" {
		if err := backtester.SetResultsFolder(results); err != nil {
			return err
		}
	}

	if err := backtester.Initialize(string(config)); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	defer func() {
		if err := backtester.Close(); err != nil {
			log.Printf("Failed to close backtest engine: %v", err)
		}
	}()

	var bar *progressbar.ProgressBar

	onRunStart := engine.OnRunStartCallback(func(runID string, strategyName string, totalDataPoints int) error {
		bar = progressbar.Default(int64(totalDataPoints), strategyName)

		return nil
	})
	onProcessData := engine.OnProcessDataCallback(func(current int, total int) error {
		if bar == nil {
			return nil
		}

		return bar.Set(current)
	})
	onRunEnd := engine.OnRunEndCallback(func(runID string, status types.RunStatus, resultFolderPath string) {
		if bar != nil {
			bar.Finish()
		}

		log.Printf("Run %s finished with status %s, results written to %s", runID, status, resultFolderPath)
	})

	stats, err := backtester.Run(ctx, engine.LifecycleCallbacks{
		OnRunStart:    &onRunStart,
		OnRunEnd:      &onRunEnd,
		OnProcessData: &onProcessData,
	})
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	summary, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	fmt.Println(string(summary))

	return nil
}

// schemaAction writes the config JSON schema and, if missing, a sample config next to it.
func schemaAction(_ context.Context, cmd *cli.Command) error {
	config := engine_v1.EmptyConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	schemaName := "backtest-engine-v1-config.json"
	schemaPath := filepath.Join(cmd.String("output"), schemaName)
	sampleConfigPath := filepath.Join(cmd.String("output"), "backtest-engine-v1-config.yaml")

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	if _, err := os.Stat(sampleConfigPath); os.IsNotExist(err) {
		config.InitialCapital = 100
		config.Tickers = []string{"600030.SH"}
		config.Benchmarks = []string{"000300.SH"}

		yamlBytes, err := yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
		}

		// point editors at the schema
		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)

		if err := os.WriteFile(sampleConfigPath, yamlBytes, 0644); err != nil {
			return fmt.Errorf("failed to write sample config to file: %w", err)
		}

		log.Printf("Sample config successfully generated at %s", sampleConfigPath)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)

	return nil
}

// compareAction prints the headline statistics of several stats.yaml files side by side.
func compareAction(_ context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one stats file is required")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTRATEGY\tSTATUS\tBARS\tFINAL\tRETURN\tVOLATILITY\tSHARPE\tMAX DD")

	for _, path := range paths {
		stats, err := engine_v1.LoadBacktestStats(path)
		if err != nil {
			return err
		}

		p := stats.Performance
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			stats.ID, stats.Strategy.Name, stats.Status, stats.Bars, stats.FinalTotal,
			p.AnnualizedReturn, p.Volatility, p.SharpeRatio, p.MaxDrawdown)
	}

	return w.Flush()
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "backtest",
		Usage:   "Simulate a trading strategy over historical bars",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a backtest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the backtest config `FILE`",
						Value:   "./config/backtest-engine-v1-config.yaml",
					},
					&cli.StringFlag{
						Name:    "results",
						Aliases: []string{"r"},
						Usage:   "Results directory. Overrides results_folder from the config",
					},
				},
				Action: runAction,
			},
			{
				Name:  "schema",
				Usage: "Generate the config JSON schema and a sample config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
						Value:   "./config",
					},
				},
				Action: schemaAction,
			},
			{
				Name:      "compare",
				Usage:     "Compare the statistics of finished runs",
				ArgsUsage: "STATS_FILE...",
				Action:    compareAction,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
