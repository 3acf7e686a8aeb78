package layout

import "fmt"

// CurvePath returns an SVG path drawing a smooth cubic curve between two
// endpoints. The control points sit directly above/below each endpoint,
// offset by 50% of the vertical span, which gives connectors a gentle
// S-shape regardless of horizontal distance.
//
// Pure geometry: no dependency on the optimizer's node model.
func CurvePath(x1, y1, x2, y2 float64) string {
	offset := (y2 - y1) / 2
	return fmt.Sprintf("M %.2f %.2f C %.2f %.2f, %.2f %.2f, %.2f %.2f",
		x1, y1,
		x1, y1+offset,
		x2, y2-offset,
		x2, y2)
}
