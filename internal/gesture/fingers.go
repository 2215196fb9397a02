package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
)

// FingerState describes one finger's pose for a single frame.
type FingerState struct {
	State       float64 `json:"state"`        // -1 bent inward through 1 fully extended
	Description string  `json:"description"`  // Human-readable state label
	Angle       float64 `json:"angle"`        // Bend angle at the middle joint, degrees
	TipDistance float64 `json:"tip_distance"` // Tip-to-wrist distance
	PIPDistance float64 `json:"pip_distance"` // PIP-to-wrist distance
	MCPDistance float64 `json:"mcp_distance"` // MCP-to-wrist distance
}

// Landmark indices per finger, thumb first. The thumb's middle joint is
// its IP joint.
var (
	fingerTips = [5]int{detector.ThumbTip, detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}
	fingerPIPs = [5]int{detector.ThumbIP, detector.IndexPIP, detector.MiddlePIP, detector.RingPIP, detector.PinkyPIP}
	fingerMCPs = [5]int{detector.ThumbMCP, detector.IndexMCP, detector.MiddleMCP, detector.RingMCP, detector.PinkyMCP}
)

// thumbMargin is the neutral band for the thumb's tip-to-IP x offset, in
// normalized image-width units.
const thumbMargin = 0.015

// AnalyzeFinger classifies one finger of a hand. Finger index 0 is the
// thumb, which uses handedness-aware x-axis logic; fingers 1-4 compare
// the tip against the PIP joint and the wrist.
func AnalyzeFinger(h *detector.HandLandmarks, finger int) FingerState {
	wrist := h.Points[detector.Wrist]
	tip := h.Points[fingerTips[finger]]
	pip := h.Points[fingerPIPs[finger]]
	mcp := h.Points[fingerMCPs[finger]]

	fs := FingerState{
		Angle:       Angle(mcp, pip, tip),
		TipDistance: Distance(tip, wrist),
		PIPDistance: Distance(pip, wrist),
		MCPDistance: Distance(mcp, wrist),
	}

	if finger == 0 {
		fs.State, fs.Description = thumbState(h.Handedness, tip.X-pip.X)
		return fs
	}

	if tip.Y < pip.Y {
		// Tip above the middle joint in image space. The wrist distance
		// separates a straight finger from a camera-foreshortened one.
		if fs.TipDistance > fs.PIPDistance {
			fs.State, fs.Description = 1, "Fully extended"
		} else {
			fs.State, fs.Description = 0.5, "Partially extended"
		}
	} else {
		if fs.TipDistance < fs.MCPDistance {
			fs.State, fs.Description = 0, "Fully bent"
		} else {
			fs.State, fs.Description = -0.5, "Partially bent"
		}
	}
	return fs
}

// thumbState classifies the thumb from its tip-to-IP x offset. The
// detector labels hands after the frame has been mirrored, so "Left"
// denotes the user's anatomical right hand, whose thumb extends toward
// smaller x.
func thumbState(handedness string, offset float64) (float64, string) {
	if handedness == detector.HandednessLeft {
		switch {
		case offset < -thumbMargin:
			return 1, "Extended (right hand)"
		case offset > thumbMargin:
			return -1, "Bent inward (right hand)"
		}
		return 0, "Neutral (right hand)"
	}

	switch {
	case offset > thumbMargin:
		return 1, "Extended (left hand)"
	case offset < -thumbMargin:
		return -1, "Bent inward (left hand)"
	}
	return 0, "Neutral (left hand)"
}

// AnalyzeHand classifies all five fingers of a hand, thumb first.
func AnalyzeHand(h *detector.HandLandmarks) [5]FingerState {
	var fingers [5]FingerState
	for i := range fingers {
		fingers[i] = AnalyzeFinger(h, i)
	}
	return fingers
}

// States extracts the bare state vector from analyzed fingers.
func States(fingers [5]FingerState) []float64 {
	out := make([]float64, len(fingers))
	for i, f := range fingers {
		out[i] = f.State
	}
	return out
}

// FingerSpacing describes the gap between two neighboring fingertips.
type FingerSpacing struct {
	Fingers     string  `json:"fingers"`     // Pair label, e.g. "index-middle"
	Distance    float64 `json:"distance"`    // Raw tip-to-tip distance
	Normalized  float64 `json:"normalized"`  // Distance scaled into [0, 1]
	Description string  `json:"description"` // Wide, Normal or Close
}

// Spacing bounds. Raw tip distances are scaled by spacingScale into
// [0, 1]; the Wide and Close cutoffs apply to the scaled value.
const (
	spacingScale = 0.3
	spacingWide  = 0.7
	spacingClose = 0.3
)

// AnalyzeSpacing measures the four adjacent fingertip gaps, thumb-index
// first.
func AnalyzeSpacing(h *detector.HandLandmarks) []FingerSpacing {
	pairs := []struct {
		label string
		a, b  int
	}{
		{"thumb-index", detector.ThumbTip, detector.IndexTip},
		{"index-middle", detector.IndexTip, detector.MiddleTip},
		{"middle-ring", detector.MiddleTip, detector.RingTip},
		{"ring-pinky", detector.RingTip, detector.PinkyTip},
	}

	out := make([]FingerSpacing, 0, len(pairs))
	for _, p := range pairs {
		d := Distance(h.Points[p.a], h.Points[p.b])

		norm := d / spacingScale
		if norm > 1 {
			norm = 1
		}

		desc := "Close"
		switch {
		case norm > spacingWide:
			desc = "Wide"
		case norm > spacingClose:
			desc = "Normal"
		}

		out = append(out, FingerSpacing{
			Fingers:     p.label,
			Distance:    d,
			Normalized:  norm,
			Description: desc,
		})
	}
	return out
}
