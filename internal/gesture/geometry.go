// Package gesture converts hand landmarks into finger states and matches
// them against fixed and user-defined patterns.
package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// Distance returns the Euclidean distance between two landmarks in the
// image plane. Depth is ignored.
func Distance(a, b detector.Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Angle returns the interior angle at vertex b of the triangle (a, b, c)
// in degrees, via the law of cosines. Degenerate triangles (coincident
// or collinear points, as produced by tracking jitter) return 0 rather
// than NaN.
func Angle(a, b, c detector.Point3D) float64 {
	ab := Distance(a, b)
	bc := Distance(b, c)
	ac := Distance(a, c)

	if ab == 0 || bc == 0 {
		return 0
	}

	cos := (ab*ab + bc*bc - ac*ac) / (2 * ab * bc)
	if cos < -1 || cos > 1 {
		return 0
	}
	return math.Acos(cos) * 180 / math.Pi
}

// HandRotation returns the hand's heading in degrees within [0, 360),
// the mean of the wrist-to-middle-MCP and wrist-to-index-MCP headings.
func HandRotation(h *detector.HandLandmarks) float64 {
	wrist := h.Points[detector.Wrist]
	middle := h.Points[detector.MiddleMCP]
	index := h.Points[detector.IndexMCP]

	a1 := math.Atan2(middle.Y-wrist.Y, middle.X-wrist.X) * 180 / math.Pi
	a2 := math.Atan2(index.Y-wrist.Y, index.X-wrist.X) * 180 / math.Pi

	rotation := (a1 + a2) / 2
	if rotation < 0 {
		rotation += 360
	}
	return rotation
}
