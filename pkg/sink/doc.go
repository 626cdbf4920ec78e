// Package sink serializes chart frames for a rendering layer.
//
// # Overview
//
// A "sink" turns a [chart.Frame] into a final output format. The layout
// engine only computes geometry; everything here is presentation:
//
//   - SVG: the target geometry of a frame as a static image
//   - Animated SVG: SMIL animations from each layer's current geometry to
//     its target, over the frame's duration
//   - JSON: frame descriptors for external renderers
//
// # SVG Output
//
//	svg := sink.RenderSVG(frame,
//	    sink.WithInterpolation(path.Basis),
//	    sink.WithPadding(20),
//	)
//
// Layers are filled from a ten-color categorical palette in dataset order
// unless [WithColors] supplies one. The horizontal axis draws one grid line
// and label per tick of the frame's axis.
//
// # Opacity
//
// Opacities are written in plain decimal notation. A hidden border uses
// [chart.MinOpacity] and is written as 0.000001, never as 1e-06, so
// renderers that reject exponent notation in style attributes can still
// animate it.
package sink
