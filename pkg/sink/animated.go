package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/streamstack/pkg/chart"
	"github.com/matzehuels/streamstack/pkg/chart/path"
)

// RenderAnimatedSVG draws f with SMIL animations: every layer starts in
// its From geometry and moves to its To geometry over the frame duration.
// The final state is held when the animation ends.
func RenderAnimatedSVG(f chart.Frame, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	dur := fmt.Sprintf("%dms", f.Duration.Milliseconds())

	var buf bytes.Buffer
	r.open(&buf, f)
	for i, s := range f.Series {
		fromArea := path.Area(s.From.Upper, s.From.Lower, r.interp)
		toArea := path.Area(s.To.Upper, s.To.Lower, r.interp)
		fromLine := path.Line(s.From.Border, r.interp)
		toLine := path.Line(s.To.Border, r.interp)

		fmt.Fprintf(&buf, `  <g class="layer" data-key="%s">`+"\n", escape(s.Key))

		fmt.Fprintf(&buf, `    <path class="area" d="%s" fill="%s" fill-opacity="%s">`+"\n",
			fromArea, r.color(i), opacity(s.From.FillOpacity))
		animate(&buf, "d", fromArea, toArea, dur)
		animate(&buf, "fill-opacity", opacity(s.From.FillOpacity), opacity(s.To.FillOpacity), dur)
		buf.WriteString("    </path>\n")

		fmt.Fprintf(&buf, `    <path class="line" d="%s" stroke-opacity="%s">`+"\n",
			fromLine, opacity(s.From.BorderOpacity))
		animate(&buf, "d", fromLine, toLine, dur)
		animate(&buf, "stroke-opacity", opacity(s.From.BorderOpacity), opacity(s.To.BorderOpacity), dur)
		buf.WriteString("    </path>\n")

		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func animate(buf *bytes.Buffer, attr, from, to, dur string) {
	fmt.Fprintf(buf, `      <animate attributeName="%s" from="%s" to="%s" dur="%s" fill="freeze"/>`+"\n",
		attr, from, to, dur)
}
