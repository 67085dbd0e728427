// Package report runs the sales analysis end to end: it loads the input,
// prints the text reports and renders the charts in a fixed order.
package report

import (
	"context"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"
	"github.com/op/go-logging"
	"github.com/paveg/salesreport/internal/analysis"
	"github.com/paveg/salesreport/internal/chart"
	"github.com/paveg/salesreport/internal/config"
	"github.com/paveg/salesreport/internal/dataframe"
	"github.com/paveg/salesreport/internal/monitoring"
	dataio "github.com/paveg/salesreport/internal/io"
	"github.com/paveg/salesreport/internal/version"
)

var log = logging.MustGetLogger("report")

// Summary describes a finished run.
type Summary struct {
	RunID          string
	Version        string
	Input          string
	Rows           int
	Columns        int
	FilledAdSource int      // AdSource nulls replaced in the sales view
	ChartDir       string   // directory the charts are written to
	Charts         []string // chart files, in render order
	Tables         []Table  // text reports, in print order
	Workbook       string   // empty unless a workbook was written
	Steps          []monitoring.StepMetrics
	Started        time.Time
	Duration       time.Duration
}

// Generator runs the report pipeline for one configuration.
type Generator struct {
	cfg      config.Config
	opts     analysis.Options
	console  *Console
	renderer *chart.Renderer
	mem      memory.Allocator
}

// Option configures a Generator.
type Option func(*Generator)

// WithAllocator sets the Arrow allocator used for the loaded table and every
// derived view.
func WithAllocator(mem memory.Allocator) Option {
	return func(g *Generator) {
		g.mem = mem
	}
}

// NewGenerator validates cfg and prepares the chart output directory.
// Text reports are written to out.
func NewGenerator(cfg config.Config, out io.Writer, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	renderer, err := chart.NewRenderer(cfg.OutputDir, cfg.ChartFormat, chart.WithSize(cfg.ChartWidth, cfg.ChartHeight))
	if err != nil {
		return nil, err
	}

	g := &Generator{
		cfg: cfg,
		opts: analysis.Options{
			TopN:                cfg.TopN,
			HistogramBins:       cfg.HistogramBins,
			ReturnedStatus:      cfg.ReturnedStatus,
			AdSourcePlaceholder: cfg.AdSourcePlaceholder,
		},
		console:  NewConsole(out, cfg.NoColor),
		renderer: renderer,
		mem:      memory.NewGoAllocator(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// run carries the state of one Run call.
type run struct {
	*Generator
	ctx     context.Context
	summary *Summary
	metrics *monitoring.MetricsCollector
}

// Run loads the input and emits every report. The context is checked between
// steps; a cancelled run returns the context error and writes nothing more.
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	r := &run{
		Generator: g,
		ctx:       ctx,
		metrics:   monitoring.NewMetricsCollector(true),
		summary: &Summary{
			RunID:    uuid.NewString(),
			Version:  version.Info().Short(),
			Input:    g.cfg.Input,
			ChartDir: g.renderer.Dir(),
			Started:  time.Now(),
		},
	}
	log.Infof("run %s: %s", r.summary.RunID, g.cfg.Input)

	options := dataio.DefaultCSVOptions()
	options.Delimiter = g.cfg.DelimiterRune()
	options.Comment = g.cfg.CommentRune()
	var df *dataframe.DataFrame
	err := r.metrics.RecordStep("load", func() error {
		var err error
		df, err = dataio.Load(g.cfg.Input, options, g.mem)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer df.Release()
	r.summary.Rows, r.summary.Columns = df.Len(), df.Width()
	g.console.Banner("%s: %d rows, %d columns", g.cfg.Input, df.Len(), df.Width())

	for _, step := range []struct {
		name string
		fn   func(*dataframe.DataFrame) error
	}{
		{"missing", r.missing},
		{"customers", r.customers},
		{"sales", r.sales},
	} {
		if err := r.metrics.RecordStep(step.name, func() error { return step.fn(df) }); err != nil {
			return nil, err
		}
	}

	r.finish()
	if g.cfg.Workbook != "" {
		if err := WriteWorkbook(g.cfg.Workbook, r.summary, r.summary.Tables); err != nil {
			return nil, err
		}
		r.summary.Workbook = g.cfg.Workbook
		r.finish()
	}
	log.Infof("run %s finished in %s: %d tables, %d charts",
		r.summary.RunID, r.summary.Duration, len(r.summary.Tables), len(r.summary.Charts))
	slowest := r.metrics.Summary().Slowest
	log.Debugf("slowest step: %s (%s)", slowest.Step, slowest.Duration)
	return r.summary, nil
}

func (r *run) finish() {
	r.summary.Duration = time.Since(r.summary.Started)
	r.summary.Steps = r.metrics.Metrics()
}

func (r *run) print(t Table) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	r.console.Print(t)
	r.summary.Tables = append(r.summary.Tables, t)
	return nil
}

func (r *run) chart(path string, err error) error {
	if err != nil {
		return err
	}
	r.summary.Charts = append(r.summary.Charts, path)
	return r.ctx.Err()
}

func (r *run) missing(df *dataframe.DataFrame) error {
	report := analysis.MissingValues(df)
	log.Debugf("%d missing cells in %d columns", report.Total(), len(report.Columns))
	return r.print(missingTable(report))
}

func (r *run) customers(df *dataframe.DataFrame) error {
	customers, err := analysis.CustomerView(df)
	if err != nil {
		return err
	}
	defer customers.Release()

	report, err := analysis.AnalyzeCustomers(customers, r.opts)
	if err != nil {
		return err
	}

	byCountry := report.QuantityByCountry
	if err := r.chart(r.renderer.Bar(chart.Spec{
		Title: "Total Quantity Sold by Country", XLabel: analysis.ColCountry, YLabel: analysis.ColQuantity,
		Width: 10, Height: 6,
	}, byCountry.Keys(), byCountry.Values())); err != nil {
		return err
	}

	groups := make([]chart.Group, len(report.QuantityByGender))
	for i, g := range report.QuantityByGender {
		groups[i] = chart.Group{Label: g.Key, Values: g.Values}
	}
	if err := r.chart(r.renderer.Box(chart.Spec{
		Title: "Quantity Distribution by Gender", XLabel: analysis.ColGender, YLabel: analysis.ColQuantity,
		Width: 6, Height: 5,
	}, groups)); err != nil {
		return err
	}

	return r.chart(r.renderer.Histogram(chart.Spec{
		Title: "Age Distribution of Customers", XLabel: analysis.ColAge, YLabel: "Count",
		Width: 8, Height: 5,
	}, report.Ages, report.HistogramBins))
}

func (r *run) sales(df *dataframe.DataFrame) error {
	sales, filled, err := analysis.SalesView(df, r.opts.AdSourcePlaceholder)
	if err != nil {
		return err
	}
	defer sales.Release()
	r.summary.FilledAdSource = filled

	salesReport, err := analysis.AnalyzeSales(sales, r.opts)
	if err != nil {
		return err
	}
	for _, t := range []Table{
		topProductsTable(salesReport),
		categoriesTable(salesReport),
		highestRatedTable(salesReport),
	} {
		if err := r.print(t); err != nil {
			return err
		}
	}

	if err := r.metrics.RecordStep("returns", func() error { return r.returns(sales) }); err != nil {
		return err
	}
	return r.metrics.RecordStep("engagement", func() error { return r.engagement(sales) })
}

func (r *run) returns(sales *dataframe.DataFrame) error {
	report, err := analysis.AnalyzeReturns(sales, r.opts)
	if err != nil {
		return err
	}
	for _, t := range []Table{
		returnedByProductTable(report),
		returnedByCategoryTable(report),
		returnRateTable(report),
	} {
		if err := r.print(t); err != nil {
			return err
		}
	}

	for _, ct := range []*dataframe.CrossTab{report.BySupplier, report.ByWarehouse} {
		if err := r.chart(r.renderer.CountPlot(chart.Spec{
			Title: "Return Status by " + ct.RowColumn, XLabel: ct.RowColumn, YLabel: "Count",
			Width: 10, Height: 6,
		}, ct.RowKeys, ct.ColKeys, ct.Counts)); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) engagement(sales *dataframe.DataFrame) error {
	report, err := analysis.AnalyzeEngagement(sales)
	if err != nil {
		return err
	}

	var line func(float64) float64
	if report.Fit.Defined {
		line = report.Fit.At
	}
	if err := r.chart(r.renderer.Scatter(chart.Spec{
		Title: "Clicks vs Quantity", XLabel: analysis.ColClicks, YLabel: analysis.ColQuantity,
		Width: 8, Height: 6,
	}, report.Clicks, report.Quantity, line)); err != nil {
		return err
	}

	corr := report.Correlation
	if err := r.chart(r.renderer.Heatmap(chart.Spec{
		Title: "Correlation between numerical columns", Width: 6, Height: 5,
	}, corr.Columns, corr.Values)); err != nil {
		return err
	}

	return r.print(viewsByAdSourceTable(report))
}
