package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/paveg/salesreport/internal/errors"
	"github.com/paveg/salesreport/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunCommand(t *testing.T) {
	input := testutil.WriteSalesCSV(t, t.TempDir(), "sales.csv")
	out := filepath.Join(t.TempDir(), "charts")
	workbook := filepath.Join(t.TempDir(), "report.xlsx")

	stdout, stderr, err := execute(t, "run", input,
		"--output-dir", out, "--format", "svg", "--top", "3", "--xlsx", workbook, "--no-color", "--log-level", "debug")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Top products by quantity")
	assert.Contains(t, stdout, "7 charts written to "+out)
	assert.Contains(t, stderr, "DEBUG")
	assert.FileExists(t, filepath.Join(out, "clicks_vs_quantity.svg"))
	assert.FileExists(t, workbook)
}

func TestRunCommandErrors(t *testing.T) {
	t.Run("missing argument", func(t *testing.T) {
		_, _, err := execute(t, "run")
		assert.Error(t, err)
	})

	t.Run("missing input", func(t *testing.T) {
		_, _, err := execute(t, "run", filepath.Join(t.TempDir(), "absent.csv"),
			"--output-dir", t.TempDir())
		assert.ErrorIs(t, err, errors.ErrDataLoad)
	})

	t.Run("bad format", func(t *testing.T) {
		_, _, err := execute(t, "run", "sales.csv", "--format", "gif")
		assert.ErrorIs(t, err, errors.ErrConfig)
	})

	t.Run("zero top", func(t *testing.T) {
		_, _, err := execute(t, "run", "sales.csv", "--top", "0", "--output-dir", t.TempDir())
		assert.ErrorIs(t, err, errors.ErrConfig)
		assert.ErrorContains(t, err, "TopN must be at least 1, got 0")
	})
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "report.yaml")
	require.NoError(t, os.WriteFile(file, []byte("top_n: 7\nhistogram_bins: 10\nchart_format: pdf\n"), 0o600))

	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", file, "--bins", "30"}))
	flags := runFlags{config: file, bins: 30, top: 5, format: "png", output: "charts", logLevel: "INFO"}

	cfg, err := loadConfig(cmd, flags, "sales.csv")
	require.NoError(t, err)

	assert.Equal(t, "sales.csv", cfg.Input)
	assert.Equal(t, 7, cfg.TopN, "file value kept when the flag is not set")
	assert.Equal(t, 30, cfg.HistogramBins, "explicit flag wins over the file")
	assert.Equal(t, "pdf", cfg.ChartFormat)
	assert.Equal(t, "charts", cfg.OutputDir, "defaults fill what the file leaves out")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version", "--deps")
	require.NoError(t, err)
	assert.Contains(t, stdout, "salesreport")
	assert.Contains(t, stdout, "Go Version:")
}

func TestInitLogger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitLogger(&buf, "warning"))
	log.Info("hidden")
	log.Warning("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	assert.Error(t, InitLogger(&buf, "verbose"))
}
