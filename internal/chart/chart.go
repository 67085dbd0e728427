// Package chart renders the report charts to image files with gonum/plot.
// Every call blocks until the file is written; nothing is displayed.
package chart

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/op/go-logging"
	"github.com/paveg/salesreport/internal/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

var log = logging.MustGetLogger("chart")

// Formats lists the supported output formats.
var Formats = []string{"png", "svg", "pdf", "jpg"}

// Spec describes one chart.
type Spec struct {
	Title  string
	XLabel string
	YLabel string
	Width  float64 // inches
	Height float64 // inches
}

// Slug is the file name stem derived from the title.
func (s Spec) Slug() string {
	return Slug(s.Title)
}

// Slug lowercases title and joins its words with underscores.
func Slug(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, "_")
}

const (
	defaultWidth  = 8
	defaultHeight = 6
)

// Renderer writes charts into one output directory.
type Renderer struct {
	dir    string
	format string
	width  float64 // inches, 0 = use the chart's own size
	height float64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize forces every chart to width × height inches. Zero keeps the size
// of the individual chart.
func WithSize(width, height float64) Option {
	return func(r *Renderer) {
		r.width = width
		r.height = height
	}
}

// NewRenderer creates the output directory if needed and returns a renderer
// writing files of the given format into it.
func NewRenderer(dir, format string, opts ...Option) (*Renderer, error) {
	format = strings.ToLower(format)
	if !supported(format) {
		return nil, errors.NewConfigError("NewRenderer", "unsupported chart format: "+format, nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewRenderError("NewRenderer", dir, err)
	}

	r := &Renderer{dir: dir, format: format}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Dir returns the output directory.
func (r *Renderer) Dir() string {
	return r.dir
}

// Path returns the file a chart with this spec is written to.
func (r *Renderer) Path(spec Spec) string {
	return filepath.Join(r.dir, spec.Slug()+"."+r.format)
}

func (r *Renderer) newPlot(spec Spec) *plot.Plot {
	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	return p
}

func (r *Renderer) size(spec Spec) (vg.Length, vg.Length) {
	w, h := spec.Width, spec.Height
	if r.width > 0 {
		w = r.width
	}
	if r.height > 0 {
		h = r.height
	}
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

func (r *Renderer) save(op string, p *plot.Plot, spec Spec) (string, error) {
	path := r.Path(spec)
	w, h := r.size(spec)
	if err := p.Save(w, h, path); err != nil {
		return "", errors.NewRenderError(op, path, err)
	}
	log.Infof("wrote %s", path)
	return path, nil
}

func supported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
