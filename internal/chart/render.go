package chart

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

// Kind selects the chart type.
type Kind string

const (
	KindBar      Kind = "bar"
	KindLine     Kind = "line"
	KindDoughnut Kind = "doughnut"
)

// Series is one legend entry. Values line up with Spec.Labels.
type Series struct {
	Name   string
	Values []float64
	Color  string
}

// Spec describes a chart independently of the rendering library.
type Spec struct {
	Kind   Kind
	Title  string
	Labels []string
	Series []Series
	// Colors colours doughnut slices; ignored for other kinds.
	Colors []string
	XName  string
	YName  string
	YMin   *float64
	YMax   *float64
}

// Renderer turns a Spec into self-contained echarts HTML.
type Renderer struct {
	theme      string
	assetsHost string
}

// RendererOption customizes a Renderer.
type RendererOption func(*Renderer)

// WithTheme sets the echarts theme (defaults to Westeros).
func WithTheme(theme string) RendererOption {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithAssetsHost makes the rendered HTML load echarts from host.
func WithAssetsHost(host string) RendererOption {
	return func(r *Renderer) {
		r.assetsHost = host
	}
}

// NewRenderer builds a Renderer.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{theme: types.ThemeWesteros}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws spec for the given canvas.
func (r *Renderer) Render(canvas string, spec Spec) (string, error) {
	switch spec.Kind {
	case KindBar:
		return r.renderBar(canvas, spec)
	case KindLine:
		return r.renderLine(canvas, spec)
	case KindDoughnut:
		return r.renderDoughnut(canvas, spec)
	default:
		return "", fmt.Errorf("unsupported chart type: %s", spec.Kind)
	}
}

func (r *Renderer) renderBar(canvas string, spec Spec) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalOptions(canvas, spec)...)
	bar.SetXAxis(spec.Labels)
	for _, s := range spec.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.Name, data, seriesColor(s.Color)...)
	}
	return renderChart(bar)
}

func (r *Renderer) renderLine(canvas string, spec Spec) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalOptions(canvas, spec)...)
	line.SetXAxis(spec.Labels)
	for _, s := range spec.Series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(s.Name, data, seriesColor(s.Color)...)
	}
	return renderChart(line)
}

func (r *Renderer) renderDoughnut(canvas string, spec Spec) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalOptions(canvas, spec)...)
	for _, s := range spec.Series {
		data := make([]opts.PieData, len(s.Values))
		for i, v := range s.Values {
			name := fmt.Sprintf("Slice %d", i+1)
			if i < len(spec.Labels) {
				name = spec.Labels[i]
			}
			data[i] = opts.PieData{Name: name, Value: v}
			if i < len(spec.Colors) {
				data[i].ItemStyle = &opts.ItemStyle{Color: spec.Colors[i]}
			}
		}
		pie.AddSeries(s.Name, data, charts.WithPieChartOpts(opts.PieChart{
			Radius: []string{"40%", "70%"},
		}))
	}
	return renderChart(pie)
}

func (r *Renderer) globalOptions(canvas string, spec Spec) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:   r.theme,
		Width:   "100%",
		Height:  defaultChartHeight,
		ChartID: chartID(canvas),
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	global := []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: tooltipTrigger(spec.Kind)}),
	}
	if spec.Kind == KindDoughnut {
		return global
	}
	yAxis := opts.YAxis{Name: spec.YName}
	if spec.YMin != nil {
		yAxis.Min = *spec.YMin
	} else {
		yAxis.Min = 0
	}
	if spec.YMax != nil {
		yAxis.Max = *spec.YMax
	}
	return append(global,
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XName}),
		charts.WithYAxisOpts(yAxis),
	)
}

func tooltipTrigger(kind Kind) string {
	if kind == KindDoughnut {
		return "item"
	}
	return "axis"
}

func seriesColor(color string) []charts.SeriesOpts {
	if color == "" {
		return nil
	}
	return []charts.SeriesOpts{charts.WithItemStyleOpts(opts.ItemStyle{Color: color})}
}

func chartID(canvas string) string {
	return "chart_" + strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(canvas)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Float returns a pointer to v, for Spec.YMin and Spec.YMax.
func Float(v float64) *float64 {
	return &v
}
