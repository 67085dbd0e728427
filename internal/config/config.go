// Package config provides configuration management for salesreport runs
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/op/go-logging"
	"github.com/paveg/salesreport/internal/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the settings of one report run
type Config struct {
	// Input Configuration
	Input     string `json:"input" yaml:"input" validate:"required"`                // Path of the CSV or Parquet file
	Delimiter string `json:"delimiter" yaml:"delimiter" validate:"required,len=1"` // Field delimiter of delimited input
	Comment   string `json:"comment" yaml:"comment" validate:"omitempty,len=1"`    // Lines starting with it are skipped

	// Report Configuration
	TopN                int    `json:"top_n" yaml:"top_n" validate:"gte=1"`                                 // Rows shown by the ranked product reports
	HistogramBins       int    `json:"histogram_bins" yaml:"histogram_bins" validate:"gte=1"`               // Bins of the age histogram
	ReturnedStatus      string `json:"returned_status" yaml:"returned_status" validate:"required"`          // ReturnStatus value that marks a return
	AdSourcePlaceholder string `json:"adsource_placeholder" yaml:"adsource_placeholder" validate:"required"` // Substitute for missing AdSource values

	// Output Configuration
	OutputDir   string  `json:"output_dir" yaml:"output_dir" validate:"required"`
	ChartFormat string  `json:"chart_format" yaml:"chart_format" validate:"oneof=png svg pdf jpg"`
	ChartWidth  float64 `json:"chart_width" yaml:"chart_width" validate:"gte=0"`   // Inches, 0 = per-chart default
	ChartHeight float64 `json:"chart_height" yaml:"chart_height" validate:"gte=0"` // Inches, 0 = per-chart default
	Workbook    string  `json:"workbook" yaml:"workbook" validate:"omitempty,endswith=.xlsx"`
	NoColor     bool    `json:"no_color" yaml:"no_color"`

	// Logging Configuration
	LogLevel string `json:"log_level" yaml:"log_level" validate:"loglevel"`
}

// Default configuration values
const (
	DefaultDelimiter           = ","
	DefaultTopN                = 5
	DefaultHistogramBins       = 20
	DefaultReturnedStatus      = "Returned"
	DefaultAdSourcePlaceholder = "unknown"
	DefaultOutputDir           = "charts"
	DefaultChartFormat         = "png"
	DefaultLogLevel            = "INFO"
)

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		Delimiter:           DefaultDelimiter,
		TopN:                DefaultTopN,
		HistogramBins:       DefaultHistogramBins,
		ReturnedStatus:      DefaultReturnedStatus,
		AdSourcePlaceholder: DefaultAdSourcePlaceholder,
		OutputDir:           DefaultOutputDir,
		ChartFormat:         DefaultChartFormat,
		LogLevel:            DefaultLogLevel,
	}
}

// WithDefaults returns a new configuration with default values filled in for
// empty strings. Counts are kept as given: a zero TopN or HistogramBins was
// set on purpose and is left for Validate to reject.
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.Delimiter == "" {
		c.Delimiter = defaults.Delimiter
	}
	if c.ReturnedStatus == "" {
		c.ReturnedStatus = defaults.ReturnedStatus
	}
	if c.AdSourcePlaceholder == "" {
		c.AdSourcePlaceholder = defaults.AdSourcePlaceholder
	}
	if c.OutputDir == "" {
		c.OutputDir = defaults.OutputDir
	}
	if c.ChartFormat == "" {
		c.ChartFormat = defaults.ChartFormat
	}
	c.ChartFormat = strings.ToLower(c.ChartFormat)
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}

	// NoColor stays as given: false is both the zero value and the default.
	return c
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := logging.LogLevel(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate validates the configuration and returns a ConfigError naming
// every offending field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewConfigError("Validate", "invalid configuration", err)
	}

	problems := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		problems = append(problems, describe(fe))
	}
	return errors.NewConfigError("Validate", strings.Join(problems, "; "), nil)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "len":
		return fmt.Sprintf("%s must be exactly %s character, got %q", fe.Field(), fe.Param(), fe.Value())
	case "endswith":
		return fmt.Sprintf("%s must end with %s, got %q", fe.Field(), fe.Param(), fe.Value())
	case "loglevel":
		return fmt.Sprintf("%s is not a log level, got %q", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// DelimiterRune returns the delimiter as a rune for the CSV reader.
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

// CommentRune returns the comment character, or 0 when comments are off.
func (c *Config) CommentRune() rune {
	for _, r := range c.Comment {
		return r
	}
	return 0
}

// LoadFromFile loads configuration from a file (supports JSON and YAML).
// Keys missing from the file keep their default values.
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, errors.NewConfigError("LoadFromFile", fmt.Sprintf("reading config file %s", filename), err)
	}

	config := NewConfig()
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, errors.NewConfigError("LoadFromFile", fmt.Sprintf("unsupported config file format: %s", ext), nil)
	}

	if err != nil {
		return Config{}, errors.NewConfigError("LoadFromFile", fmt.Sprintf("parsing config file %s", filename), err)
	}

	return config.WithDefaults(), nil
}
