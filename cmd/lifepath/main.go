package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rpgo/lifepath/internal/calculation"
	"github.com/rpgo/lifepath/internal/config"
	"github.com/rpgo/lifepath/internal/domain"
	"github.com/rpgo/lifepath/internal/output"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	locationCacheSize = 512
	locationCacheTTL  = time.Hour
)

type options struct {
	format    string
	out       string
	logLevel  string
	locations string
	careers   string
}

func main() {
	// Optional for local runs
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "lifepath",
		Short:        "Project multi-year finances for a life path of milestones",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", envOr("LIFEPATH_LOG_LEVEL", "warn"), "log level (debug, info, warn, error)")
	pf.StringVar(&opts.locations, "locations", os.Getenv("LIFEPATH_LOCATIONS"), "CSV of cost-of-living records by postal code")
	pf.StringVar(&opts.careers, "careers", os.Getenv("LIFEPATH_CAREERS"), "CSV of salary percentiles by occupation")

	root.AddCommand(
		newProjectCmd(opts),
		newCompareCmd(opts),
		newValidateCmd(),
		newExampleCmd(),
	)
	return root
}

func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(lvl)
	return logger, nil
}

// newEngine wires the engine with the logger and any table files configured by flag or env.
func newEngine(opts *options, logger *logrus.Logger) (*calculation.CalculationEngine, error) {
	engine := calculation.NewCalculationEngine()
	engine.SetLogger(logger)

	if opts.locations != "" {
		records, err := config.LoadLocationsCSV(opts.locations)
		if err != nil {
			return nil, err
		}
		logger.Debugf("loaded %d location records from %s", len(records), opts.locations)
		engine.SetLocationProvider(calculation.NewCachedLocationProvider(
			calculation.NewStaticLocationProvider(records...), locationCacheSize, locationCacheTTL, nil))
	}
	if opts.careers != "" {
		records, err := config.LoadCareersCSV(opts.careers)
		if err != nil {
			return nil, err
		}
		logger.Debugf("loaded %d career records from %s", len(records), opts.careers)
		engine.SetCareerProvider(calculation.DefaultCareerTable().With(records...))
	}
	return engine, nil
}

func addOutputFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.format, "format", "f", "console", "output format: "+strings.Join(output.AvailableFormatterNames(), ", ")+", all")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the report to this file instead of stdout")
}

// emit prints the report to stdout, or writes files when --out is set or the format is "all".
func emit(cmd *cobra.Command, opts *options, report *domain.ProjectionReport) error {
	if opts.out == "" && output.NormalizeFormatName(opts.format) != "all" {
		data, err := output.Render(report, opts.format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	files, err := output.GenerateReport(report, opts.format, opts.out)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", f)
	}
	return nil
}

func project(cmd *cobra.Command, opts *options, files []string) error {
	logger, err := newLogger(opts.logLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	engine, err := newEngine(opts, logger)
	if err != nil {
		return err
	}

	bundles, err := config.NewInputParser().LoadAll(files)
	if err != nil {
		return err
	}
	logger.Infof("projecting %d scenario(s)", len(bundles))

	results, err := engine.RunBatch(cmd.Context(), bundles)
	if err != nil {
		return err
	}

	report := &domain.ProjectionReport{Assumptions: output.GenerateAssumptions(engine.Tables)}
	for i, b := range bundles {
		report.Scenarios = append(report.Scenarios, domain.ScenarioProjection{Name: b.Name, Result: results[i]})
		for _, d := range results[i].Diagnostics {
			if d.Severity == domain.SeverityWarning {
				logger.Warnf("%s: %s: %s", b.Name, d.Subject, d.Message)
			}
		}
	}
	return emit(cmd, opts, report)
}

func newProjectCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project <bundle.yaml>",
		Short: "Project one scenario bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return project(cmd, opts, args)
		},
	}
	addOutputFlags(cmd, opts)
	return cmd
}

func newCompareCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <bundle.yaml> <bundle.yaml>...",
		Short: "Project several scenario bundles and recommend one",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return project(cmd, opts, args)
		},
	}
	addOutputFlags(cmd, opts)
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <bundle.yaml>...",
		Short: "Check scenario bundles without projecting them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			for _, f := range args {
				b, err := parser.LoadFromFile(f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %q is valid (%d years, %d milestones)\n", f, b.Name, b.Horizon(), len(b.Milestones))
			}
			return nil
		},
	}
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example [path]",
		Short: "Write an example scenario bundle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "example_bundle.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			parser := config.NewInputParser()
			if err := parser.Save(parser.CreateExampleBundle(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example bundle written to %s\n", path)
			return nil
		},
	}
}
