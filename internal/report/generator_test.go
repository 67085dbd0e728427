package report_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paveg/salesreport/internal/config"
	"github.com/paveg/salesreport/internal/errors"
	"github.com/paveg/salesreport/internal/report"
	"github.com/paveg/salesreport/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testConfig(t *testing.T, input string) config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Input = input
	cfg.OutputDir = filepath.Join(t.TempDir(), "charts")
	cfg.NoColor = true
	return cfg
}

func TestGeneratorRun(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	input := testutil.WriteSalesCSV(t, t.TempDir(), "sales.csv", testutil.WithNulls())
	cfg := testConfig(t, input)
	cfg.Workbook = filepath.Join(t.TempDir(), "out", "report.xlsx")

	var out bytes.Buffer
	g, err := report.NewGenerator(cfg, &out, report.WithAllocator(mem.Allocator))
	require.NoError(t, err)

	summary, err := g.Run(context.Background())
	require.NoError(t, err)

	t.Run("summary", func(t *testing.T) {
		assert.NotEmpty(t, summary.RunID)
		assert.Equal(t, input, summary.Input)
		assert.Equal(t, 8, summary.Rows)
		assert.Equal(t, 17, summary.Columns)
		assert.Equal(t, 2, summary.FilledAdSource)
		assert.Equal(t, cfg.Workbook, summary.Workbook)
		assert.Equal(t, cfg.OutputDir, summary.ChartDir)
	})

	t.Run("step timings", func(t *testing.T) {
		var steps []string
		for _, s := range summary.Steps {
			steps = append(steps, s.Step)
			assert.False(t, s.Failed)
		}
		assert.Equal(t, []string{"load", "missing", "customers", "returns", "engagement", "sales"}, steps)
	})

	t.Run("charts in render order", func(t *testing.T) {
		var names []string
		for _, path := range summary.Charts {
			assert.FileExists(t, path)
			names = append(names, filepath.Base(path))
		}
		assert.Equal(t, []string{
			"total_quantity_sold_by_country.png",
			"quantity_distribution_by_gender.png",
			"age_distribution_of_customers.png",
			"return_status_by_supplier.png",
			"return_status_by_warehouse.png",
			"clicks_vs_quantity.png",
			"correlation_between_numerical_columns.png",
		}, names)
	})

	t.Run("console reports in print order", func(t *testing.T) {
		text := out.String()
		titles := []string{
			"Missing values per column",
			"Top products by quantity",
			"Top categories by quantity",
			"Products with highest rating",
			"Returned quantity per product",
			"Returned quantity per category",
			"Return rate per Supplier (%)",
			"Total Views per AdSource",
		}
		last := -1
		for _, title := range titles {
			idx := strings.Index(text, title)
			require.GreaterOrEqual(t, idx, 0, "missing %q", title)
			assert.Greater(t, idx, last, "%q out of order", title)
			last = idx
		}
		assert.Len(t, summary.Tables, len(titles))
		assert.NotContains(t, text, "\x1b[")
	})

	t.Run("report values", func(t *testing.T) {
		text := out.String()
		assert.Contains(t, text, "88.89")
		assert.Contains(t, text, "40.00")
		assert.Contains(t, text, "unknown")
	})

	t.Run("workbook", func(t *testing.T) {
		f, err := excelize.OpenFile(cfg.Workbook)
		require.NoError(t, err)
		defer f.Close()

		sheets := f.GetSheetList()
		require.Len(t, sheets, 9)
		assert.Equal(t, "Summary", sheets[0])
		assert.Equal(t, "Views by AdSource", sheets[8])
	})
}

// rewriteSalesCSV writes the standard sales table with every data line
// passed through edit.
func rewriteSalesCSV(t *testing.T, edit func(i int, line string) string) string {
	t.Helper()
	data, err := os.ReadFile(testutil.WriteSalesCSV(t, t.TempDir(), "sales.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = edit(i, lines[i])
	}
	input := filepath.Join(t.TempDir(), "edited.csv")
	require.NoError(t, os.WriteFile(input, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return input
}

func findTable(t *testing.T, summary *report.Summary, title string) report.Table {
	t.Helper()
	for _, table := range summary.Tables {
		if table.Title == title {
			return table
		}
	}
	require.Failf(t, "table not printed", "%q", title)
	return report.Table{}
}

func TestGeneratorBlankColumns(t *testing.T) {
	t.Run("blank rating column", func(t *testing.T) {
		mem := testutil.SetupMemoryTest(t)
		defer mem.Release()

		// Rating is the last column
		input := rewriteSalesCSV(t, func(_ int, line string) string {
			return line[:strings.LastIndex(line, ",")+1]
		})
		cfg := testConfig(t, input)

		var out bytes.Buffer
		g, err := report.NewGenerator(cfg, &out, report.WithAllocator(mem.Allocator))
		require.NoError(t, err)

		summary, err := g.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 8, summary.Rows)
		assert.Empty(t, findTable(t, summary, "Products with highest rating").Rows)
		assert.NotEmpty(t, findTable(t, summary, "Top products by quantity").Rows)
		assert.Len(t, summary.Charts, 7)
		assert.Contains(t, out.String(), "(no rows)")

		missing := findTable(t, summary, "Missing values per column")
		assert.Contains(t, missing.Rows, []any{"Rating", 8})
	})

	t.Run("blank quantity column", func(t *testing.T) {
		mem := testutil.SetupMemoryTest(t)
		defer mem.Release()

		header, err := os.ReadFile(testutil.WriteSalesCSV(t, t.TempDir(), "sales.csv"))
		require.NoError(t, err)
		quantity := -1
		for i, name := range strings.Split(strings.SplitN(string(header), "\n", 2)[0], ",") {
			if name == "Quantity" {
				quantity = i
			}
		}
		require.GreaterOrEqual(t, quantity, 0)

		input := rewriteSalesCSV(t, func(_ int, line string) string {
			fields := strings.Split(line, ",")
			fields[quantity] = ""
			return strings.Join(fields, ",")
		})
		cfg := testConfig(t, input)

		g, err := report.NewGenerator(cfg, &bytes.Buffer{}, report.WithAllocator(mem.Allocator))
		require.NoError(t, err)

		summary, err := g.Run(context.Background())
		require.NoError(t, err)
		assert.Len(t, summary.Charts, 7)
		for _, row := range findTable(t, summary, "Top products by quantity").Rows {
			assert.Equal(t, 0.0, row[1])
		}
	})

	t.Run("header only", func(t *testing.T) {
		mem := testutil.SetupMemoryTest(t)
		defer mem.Release()

		data, err := os.ReadFile(testutil.WriteSalesCSV(t, t.TempDir(), "sales.csv"))
		require.NoError(t, err)
		input := filepath.Join(t.TempDir(), "header.csv")
		require.NoError(t, os.WriteFile(input, []byte(strings.SplitN(string(data), "\n", 2)[0]+"\n"), 0o600))

		cfg := testConfig(t, input)
		g, err := report.NewGenerator(cfg, &bytes.Buffer{}, report.WithAllocator(mem.Allocator))
		require.NoError(t, err)

		summary, err := g.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Rows)
		assert.Equal(t, 17, summary.Columns)
		assert.Len(t, summary.Charts, 7)
		assert.Empty(t, findTable(t, summary, "Top products by quantity").Rows)
		assert.Empty(t, findTable(t, summary, "Products with highest rating").Rows)
	})
}

func TestGeneratorCancelled(t *testing.T) {
	input := testutil.WriteSalesCSV(t, t.TempDir(), "sales.csv")
	cfg := testConfig(t, input)

	var out bytes.Buffer
	g, err := report.NewGenerator(cfg, &out)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = g.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, out.String(), "Missing values per column")

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGeneratorErrors(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig(t, "")
		_, err := report.NewGenerator(cfg, &bytes.Buffer{})
		assert.ErrorIs(t, err, errors.ErrConfig)
	})

	t.Run("missing input", func(t *testing.T) {
		cfg := testConfig(t, filepath.Join(t.TempDir(), "absent.csv"))
		g, err := report.NewGenerator(cfg, &bytes.Buffer{})
		require.NoError(t, err)

		_, err = g.Run(context.Background())
		assert.ErrorIs(t, err, errors.ErrDataLoad)
	})

	t.Run("missing columns", func(t *testing.T) {
		input := filepath.Join(t.TempDir(), "partial.csv")
		require.NoError(t, os.WriteFile(input, []byte("Product,Quantity\nLaptop,2\nMouse,5\n"), 0o600))

		cfg := testConfig(t, input)
		var out bytes.Buffer
		g, err := report.NewGenerator(cfg, &out)
		require.NoError(t, err)

		_, err = g.Run(context.Background())
		assert.ErrorIs(t, err, errors.ErrSchema)
		assert.Contains(t, out.String(), "Missing values per column")
	})

	t.Run("semicolon delimiter", func(t *testing.T) {
		input := filepath.Join(t.TempDir(), "sales.csv")
		data, err := os.ReadFile(testutil.WriteSalesCSV(t, t.TempDir(), "sales.csv"))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(input, bytes.ReplaceAll(data, []byte(","), []byte(";")), 0o600))

		cfg := testConfig(t, input)
		cfg.Delimiter = ";"
		g, err := report.NewGenerator(cfg, &bytes.Buffer{})
		require.NoError(t, err)

		summary, err := g.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 17, summary.Columns)
	})
}
