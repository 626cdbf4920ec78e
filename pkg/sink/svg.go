package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/streamstack/pkg/chart"
	"github.com/matzehuels/streamstack/pkg/chart/path"
)

// DefaultPadding is the space below the plot reserved for axis labels.
const DefaultPadding = 20

// Category10 is the default layer palette.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

const axisCSS = `
    .axis text { font: 10px sans-serif; fill: #333; }
    .axis line, .axis path { fill: none; stroke: #ccc; shape-rendering: crispEdges; }
    .line { fill: none; stroke: #fff; stroke-width: 2px; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64 // output size; zero means the frame's size
	padding       float64
	interp        path.Interpolation
	colors        []string
}

// WithWidth sets the rendered width. The drawing is scaled to fit.
func WithWidth(w float64) SVGOption { return func(r *svgRenderer) { r.width = w } }

// WithHeight sets the rendered height, including the bottom padding.
func WithHeight(h float64) SVGOption { return func(r *svgRenderer) { r.height = h } }

// WithPadding sets the space below the plot for axis labels.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = p } }

// WithInterpolation sets how consecutive points are joined.
func WithInterpolation(i path.Interpolation) SVGOption {
	return func(r *svgRenderer) { r.interp = i }
}

// WithColors replaces the layer palette. Colors are assigned in dataset
// order and reused cyclically.
func WithColors(colors ...string) SVGOption {
	return func(r *svgRenderer) {
		if len(colors) > 0 {
			r.colors = colors
		}
	}
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{padding: DefaultPadding, interp: path.Basis, colors: Category10}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r *svgRenderer) color(i int) string { return r.colors[i%len(r.colors)] }

// RenderSVG draws the target geometry of f.
func RenderSVG(f chart.Frame, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	r.open(&buf, f)
	for i, s := range f.Series {
		fmt.Fprintf(&buf, `  <g class="layer" data-key="%s">`+"\n", escape(s.Key))
		fmt.Fprintf(&buf, `    <path class="area" d="%s" style="fill: %s; fill-opacity: %s"/>`+"\n",
			path.Area(s.To.Upper, s.To.Lower, r.interp), r.color(i), opacity(s.To.FillOpacity))
		fmt.Fprintf(&buf, `    <path class="line" d="%s" style="stroke-opacity: %s"/>`+"\n",
			path.Line(s.To.Border, r.interp), opacity(s.To.BorderOpacity))
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// open writes the svg element, styles and the axis, which sits behind the
// layers.
func (r *svgRenderer) open(buf *bytes.Buffer, f chart.Frame) {
	w, h := f.Axis.Scale.Width, f.Scale.Height
	total := h + r.padding
	outW, outH := w, total
	if r.width > 0 {
		outW = r.width
	}
	if r.height > 0 {
		outH = r.height
	}

	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" data-mode="%s">`+"\n",
		path.Num(w), path.Num(total), path.Num(outW), path.Num(outH), f.Mode)
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", axisCSS)
	renderAxis(buf, f)
}

func renderAxis(buf *bytes.Buffer, f chart.Frame) {
	h := f.Scale.Height
	fmt.Fprintf(buf, `  <g class="x axis" transform="translate(0,%s)">`+"\n", path.Num(h))
	for i, t := range f.Axis.Ticks {
		label := ""
		if i < len(f.Axis.Labels) {
			label = f.Axis.Labels[i]
		}
		fmt.Fprintf(buf, `    <g class="tick" transform="translate(%s,0)"><line x2="0" y2="%s"/><text y="3" dy=".71em" text-anchor="middle">%s</text></g>`+"\n",
			path.Num(f.Axis.Scale.Map(t)), path.Num(-h), escape(label))
	}
	fmt.Fprintf(buf, `    <path class="domain" d="M0,%sV0H%sV%s"/>`+"\n",
		path.Num(-h), path.Num(f.Axis.Scale.Width), path.Num(-h))
	buf.WriteString("  </g>\n")
}

// opacity formats v in plain decimal notation.
func opacity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
