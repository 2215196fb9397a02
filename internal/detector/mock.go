package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Fixture geometry. All fixtures are "Right"-labelled hands with the wrist
// near the bottom of the frame and fingers rising toward the top (y
// decreases upward). The coordinates are chosen so the finger-state
// analyzer reads unambiguous states: extended tips sit well above their
// PIP and farther from the wrist, curled tips fold back below their PIP
// and inside the MCP radius, and the thumb tip sits 0.05 to the side of
// the IP joint, comfortably past the 0.015 neutral margin.
const (
	fixtureWristX = 0.50
	fixtureWristY = 0.85
)

var fixtureFingers = [4]struct {
	mcp, pip, dip, tip int
	x                  float64
}{
	{IndexMCP, IndexPIP, IndexDIP, IndexTip, 0.56},
	{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip, 0.51},
	{RingMCP, RingPIP, RingDIP, RingTip, 0.46},
	{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip, 0.41},
}

// buildFixture assembles a hand whose geometry yields the given states:
// thumb -1 (bent inward), 0 (neutral) or 1 (extended); the other four
// fingers fully extended (true) or fully bent (false).
func buildFixture(thumb int, extended [4]bool) HandLandmarks {
	lm := HandLandmarks{
		Handedness: HandednessRight,
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: fixtureWristX, Y: fixtureWristY}

	lm.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.80}
	switch {
	case thumb > 0:
		lm.Points[ThumbMCP] = Point3D{X: 0.61, Y: 0.76}
		lm.Points[ThumbIP] = Point3D{X: 0.65, Y: 0.72}
		lm.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.69}
	case thumb < 0:
		lm.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.74}
		lm.Points[ThumbIP] = Point3D{X: 0.62, Y: 0.70}
		lm.Points[ThumbTip] = Point3D{X: 0.57, Y: 0.68}
	default:
		lm.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.74}
		lm.Points[ThumbIP] = Point3D{X: 0.62, Y: 0.70}
		lm.Points[ThumbTip] = Point3D{X: 0.63, Y: 0.68}
	}

	for i, f := range fixtureFingers {
		lm.Points[f.mcp] = Point3D{X: f.x, Y: 0.65}
		if extended[i] {
			lm.Points[f.pip] = Point3D{X: f.x, Y: 0.55}
			lm.Points[f.dip] = Point3D{X: f.x, Y: 0.45}
			lm.Points[f.tip] = Point3D{X: f.x, Y: 0.38}
		} else {
			lm.Points[f.pip] = Point3D{X: f.x, Y: 0.62}
			lm.Points[f.dip] = Point3D{X: f.x, Y: 0.68}
			lm.Points[f.tip] = Point3D{X: f.x, Y: 0.74}
		}
	}

	return lm
}

// OpenPalmLandmarks returns a hand with all five fingers extended,
// reading as [1,1,1,1,1].
func OpenPalmLandmarks() HandLandmarks {
	return buildFixture(1, [4]bool{true, true, true, true})
}

// FistLandmarks returns a closed fist: thumb neutral, fingers curled,
// reading as [0,0,0,0,0].
func FistLandmarks() HandLandmarks {
	return buildFixture(0, [4]bool{false, false, false, false})
}

// ThumbsUpLandmarks returns a thumbs-up: thumb extended, fingers curled,
// reading as [1,0,0,0,0].
func ThumbsUpLandmarks() HandLandmarks {
	return buildFixture(1, [4]bool{false, false, false, false})
}

// ThumbsDownLandmarks returns a thumbs-down: thumb bent inward, fingers
// curled, reading as [-1,0,0,0,0].
func ThumbsDownLandmarks() HandLandmarks {
	return buildFixture(-1, [4]bool{false, false, false, false})
}

// IndexPointLandmarks returns a pointing hand: index extended, everything
// else closed, reading as [0,1,0,0,0].
func IndexPointLandmarks() HandLandmarks {
	return buildFixture(0, [4]bool{true, false, false, false})
}

// PeaceLandmarks returns a peace sign: index and middle extended, reading
// as [0,1,1,0,0].
func PeaceLandmarks() HandLandmarks {
	return buildFixture(0, [4]bool{true, true, false, false})
}

// MirrorLandmarks flips a fixture horizontally and swaps its handedness
// label. The analyzer reads the same finger states from the mirrored
// hand, which makes it easy to stage two-hand scenes from one fixture.
func MirrorLandmarks(h HandLandmarks) HandLandmarks {
	m := h
	if m.Handedness == HandednessLeft {
		m.Handedness = HandednessRight
	} else {
		m.Handedness = HandednessLeft
	}
	for i := range m.Points {
		m.Points[i].X = 1 - m.Points[i].X
	}
	return m
}
