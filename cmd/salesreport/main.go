package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/op/go-logging"
	"github.com/paveg/salesreport/internal/config"
	"github.com/paveg/salesreport/internal/report"
	"github.com/paveg/salesreport/internal/version"
	"github.com/spf13/cobra"
)

var log = logging.MustGetLogger("salesreport")

// InitLogger sends log records at or above logLevel to w. An unknown level
// name is an error.
func InitLogger(w io.Writer, logLevel string) error {
	baseBackend := logging.NewLogBackend(w, "", 0)
	format := logging.MustStringFormatter(
		`%{time:2006-01-02 15:04:05} %{level:.5s} %{module:-8s} %{message}`,
	)
	backendFormatter := logging.NewBackendFormatter(baseBackend, format)

	backendLeveled := logging.AddModuleLevel(backendFormatter)
	level, err := logging.LogLevel(logLevel)
	if err != nil {
		return err
	}
	backendLeveled.SetLevel(level, "")

	logging.SetBackend(backendLeveled)
	return nil
}

type runFlags struct {
	config   string
	output   string
	format   string
	top      int
	bins     int
	workbook string
	noColor  bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "salesreport",
		Short:         "Exploratory reports and charts over a sales dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newVersionCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run <input>",
		Short: "Print the sales reports and render the charts for a CSV or Parquet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags, args[0])
			if err != nil {
				return err
			}
			if err := InitLogger(cmd.ErrOrStderr(), cfg.LogLevel); err != nil {
				return err
			}
			log.Debugf("config: %+v", cfg)

			g, err := report.NewGenerator(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			summary, err := g.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d charts written to %s\n", len(summary.Charts), summary.ChartDir)
			if summary.Workbook != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "workbook written to %s\n", summary.Workbook)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.config, "config", "c", "", "YAML or JSON config file")
	f.StringVarP(&flags.output, "output-dir", "o", config.DefaultOutputDir, "directory for chart files")
	f.StringVarP(&flags.format, "format", "f", config.DefaultChartFormat, "chart format: png, svg, pdf or jpg")
	f.IntVar(&flags.top, "top", config.DefaultTopN, "entries in the ranked product reports")
	f.IntVar(&flags.bins, "bins", config.DefaultHistogramBins, "bins of the age histogram")
	f.StringVar(&flags.workbook, "xlsx", "", "also write every report to this Excel workbook")
	f.BoolVar(&flags.noColor, "no-color", false, "print section titles without colour")
	f.StringVar(&flags.logLevel, "log-level", config.DefaultLogLevel, "DEBUG, INFO, NOTICE, WARNING, ERROR or CRITICAL")
	return cmd
}

// loadConfig starts from the config file, if any, and applies the flags the
// user set explicitly on top of it.
func loadConfig(cmd *cobra.Command, flags runFlags, input string) (config.Config, error) {
	cfg := config.NewConfig()
	if flags.config != "" {
		loaded, err := config.LoadFromFile(flags.config)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	cfg.Input = input

	f := cmd.Flags()
	if f.Changed("output-dir") {
		cfg.OutputDir = flags.output
	}
	if f.Changed("format") {
		cfg.ChartFormat = flags.format
	}
	if f.Changed("top") {
		cfg.TopN = flags.top
	}
	if f.Changed("bins") {
		cfg.HistogramBins = flags.bins
	}
	if f.Changed("xlsx") {
		cfg.Workbook = flags.workbook
	}
	if f.Changed("no-color") {
		cfg.NoColor = flags.noColor
	}
	if f.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}

	cfg = cfg.WithDefaults()
	return cfg, cfg.Validate()
}

func newVersionCmd() *cobra.Command {
	var deps bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Info()
			out := cmd.OutOrStdout()
			fmt.Fprint(out, info.String())
			if !version.IsRelease() {
				fmt.Fprintln(out, "Development build")
			}
			if deps {
				for _, d := range info.Deps {
					fmt.Fprintf(out, "  %s %s\n", d.Path, d.Version)
				}
			}
		},
	}
	cmd.Flags().BoolVar(&deps, "deps", false, "also list module dependencies")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Errorf("%s", err)
		stop()
		os.Exit(1)
	}
}
