package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// HandAnalysis is one hand's full per-frame analysis, as surfaced on
// the live analysis socket.
type HandAnalysis struct {
	Handedness string                  `json:"handedness"`
	Score      float64                 `json:"score"`
	Landmarks  []detector.Point3D      `json:"landmarks"`
	Fingers    [5]gesture.FingerState  `json:"fingers"`
	States     []float64               `json:"states"`
	Rotation   float64                 `json:"rotation"`
	Spacing    []gesture.FingerSpacing `json:"spacing"`
	Result     gesture.Result          `json:"result"`
}

// runPipeline is the frame loop. It idles at a low frame rate until the
// motion detector wakes it, runs detection and recognition while
// active, and drops back to idle after a quiet period. An open recorder
// session counts as motion so a steadily held pose cannot idle the loop
// out mid-recording.
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	ticker := time.NewTicker(time.Second / time.Duration(IdleFPS))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)
			if motionDetected || a.recorder.Active() {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					ticker.Reset(time.Second / time.Duration(ActiveFPS))
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					ticker.Reset(time.Second / time.Duration(IdleFPS))
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode {
				frame.Close()
				continue
			}

			hands, err := a.Detector().Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			a.processHands(hands, time.Now())
		}
	}
}

// processHands runs analysis, recognition, recording and execution for
// one frame's detections. Each hand is recognized on its own; when a
// left- and a right-labelled hand are both in frame the combined
// two-hand pattern is recognized as well, alongside the single-hand
// results.
func (a *App) processHands(hands []detector.HandLandmarks, now time.Time) {
	a.recorder.Tick(now)

	a.mu.RLock()
	snap := a.profile
	a.mu.RUnlock()

	var (
		leftStates  []float64
		rightStates []float64
		lastResult  *gesture.Result
	)

	analyses := make([]HandAnalysis, 0, len(hands))
	for i := range hands {
		hand := &hands[i]
		fingers := gesture.AnalyzeHand(hand)
		states := gesture.States(fingers)

		switch hand.Handedness {
		case detector.HandednessLeft:
			leftStates = states
		case detector.HandednessRight:
			rightStates = states
		}

		result := gesture.Recognize(states, snap.customs, snap.active)
		analyses = append(analyses, HandAnalysis{
			Handedness: hand.Handedness,
			Score:      hand.Score,
			Landmarks:  append([]detector.Point3D(nil), hand.Points[:]...),
			Fingers:    fingers,
			States:     states,
			Rotation:   gesture.HandRotation(hand),
			Spacing:    gesture.AnalyzeSpacing(hand),
			Result:     result,
		})

		r := result
		lastResult = &r

		// only custom matches drive key bindings; they have already
		// cleared the acceptance floor in the matcher
		if result.IsCustom {
			a.execute(result.Gesture, snap.bindings)
		}
	}

	if leftStates != nil && rightStates != nil {
		if combined := gesture.RecognizeBothHands(leftStates, rightStates, snap.customs, snap.active); combined != nil {
			lastResult = combined
			a.execute(combined.Gesture, snap.bindings)
		}
	}

	if a.recorder.Recording() {
		a.addRecordingSample(leftStates, rightStates)
	}

	a.mu.Lock()
	a.analysis = analyses
	if lastResult != nil {
		a.lastResult = lastResult
	}
	a.mu.Unlock()
}

// execute fires the gesture's binding through the throttle and, when it
// actually fires, reports it.
func (a *App) execute(name string, bindings map[string]string) {
	if !a.throttle.TryExecute(name, bindings) {
		return
	}
	binding := bindings[name]

	a.mu.Lock()
	a.lastGesture = name
	cb := a.gestureCb
	a.mu.Unlock()

	a.events.Publish(name+" -> "+binding, "green")
	if cb != nil {
		cb(name, binding)
	}
}

// addRecordingSample feeds the open recording window. Single-hand
// sessions prefer the left-labelled hand; combined sessions need both
// hands in frame.
func (a *App) addRecordingSample(leftStates, rightStates []float64) {
	_, handType := a.recorder.Session()

	if handType == gesture.HandTypeBoth {
		if leftStates != nil && rightStates != nil {
			a.recorder.AddSample(gesture.CombinedStates(leftStates, rightStates))
		}
		return
	}

	states := leftStates
	if states == nil {
		states = rightStates
	}
	if states != nil {
		a.recorder.AddSample(states)
	}
}
