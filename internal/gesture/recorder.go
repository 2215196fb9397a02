package gesture

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ErrRecorderBusy is returned by Start while a session is in progress.
var ErrRecorderBusy = errors.New("a recording is already in progress")

const (
	countdownSteps  = 3
	recordingWindow = 3 * time.Second
)

type recorderPhase int

const (
	phaseIdle recorderPhase = iota
	phaseCountdown
	phaseRecording
)

// RecordedGesture is the outcome of a finished recording session.
type RecordedGesture struct {
	Name        string
	Pattern     []int
	HandType    HandType
	Description string
	Binding     string
	Samples     int
	Jitter      float64 // Mean per-position standard deviation across samples
}

// Recorder captures finger-state samples over a short window and folds
// them into a custom gesture pattern. It is a tick-driven state machine
// (Idle, Countdown, Recording): the frame loop calls Tick once per
// frame and AddSample for every analyzed pose while the window is open.
// Start and Cancel may be called from other goroutines.
type Recorder struct {
	mu        sync.Mutex
	phase     recorderPhase
	name      string
	binding   string
	handType  HandType
	remaining int       // countdown steps left to announce
	nextStep  time.Time // when the next countdown step is due
	stopAt    time.Time // end of the recording window
	samples   [][]float64

	notify   func(message, color string)
	complete func(RecordedGesture)
}

// NewRecorder creates a Recorder. notify receives status messages with
// a severity color, complete receives the finished gesture; either may
// be nil.
func NewRecorder(notify func(message, color string), complete func(RecordedGesture)) *Recorder {
	return &Recorder{notify: notify, complete: complete}
}

// Start begins a countdown-then-record session for the named gesture.
func (r *Recorder) Start(name, binding string, handType HandType, now time.Time) error {
	if name == "" {
		return errors.New("gesture name is empty")
	}

	r.mu.Lock()
	if r.phase != phaseIdle {
		r.mu.Unlock()
		return ErrRecorderBusy
	}
	r.phase = phaseCountdown
	r.name = name
	r.binding = binding
	r.handType = handType
	r.remaining = countdownSteps
	r.nextStep = now.Add(time.Second)
	r.samples = nil
	r.mu.Unlock()

	r.status(fmt.Sprintf("Get ready: %d", countdownSteps), "orange")
	return nil
}

// Tick advances the countdown and closes the recording window. The
// frame loop calls it once per frame with the current time.
func (r *Recorder) Tick(now time.Time) {
	r.mu.Lock()

	switch r.phase {
	case phaseCountdown:
		if now.Before(r.nextStep) {
			r.mu.Unlock()
			return
		}
		r.remaining--
		if r.remaining > 0 {
			r.nextStep = r.nextStep.Add(time.Second)
			msg := fmt.Sprintf("Get ready: %d", r.remaining)
			r.mu.Unlock()
			r.status(msg, "orange")
			return
		}
		r.phase = phaseRecording
		r.stopAt = now.Add(recordingWindow)
		r.mu.Unlock()
		r.status("Recording... Hold your gesture", "red")

	case phaseRecording:
		if now.Before(r.stopAt) {
			r.mu.Unlock()
			return
		}
		rec, ok := r.finishLocked()
		r.mu.Unlock()
		if !ok {
			r.status("No hand detected during recording", "red")
			return
		}
		r.status("Recorded gesture: "+rec.Name, "green")
		if r.complete != nil {
			r.complete(rec)
		}

	default:
		r.mu.Unlock()
	}
}

// AddSample feeds one state vector into the open recording window.
// Samples arriving during the countdown or while idle are dropped.
func (r *Recorder) AddSample(states []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != phaseRecording {
		return
	}
	sample := make([]float64, len(states))
	copy(sample, states)
	r.samples = append(r.samples, sample)
}

// Cancel abandons the session in progress without saving.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	if r.phase == phaseIdle {
		r.mu.Unlock()
		return
	}
	r.resetLocked()
	r.mu.Unlock()

	r.status("Recording cancelled", "orange")
}

// Active reports whether a countdown or recording is in progress.
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase != phaseIdle
}

// Recording reports whether the sample window is currently open.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase == phaseRecording
}

// Session returns the name and hand type of the session in progress.
func (r *Recorder) Session() (string, HandType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name, r.handType
}

// finishLocked folds the captured samples into a pattern. The caller
// holds the lock; a false return means nothing was captured.
func (r *Recorder) finishLocked() (RecordedGesture, bool) {
	name := r.name
	binding := r.binding
	handType := r.handType
	samples := r.samples
	r.resetLocked()

	if len(samples) == 0 {
		return RecordedGesture{}, false
	}

	width := len(samples[0])
	pattern := make([]int, width)
	column := make([]float64, 0, len(samples))
	var jitter float64

	for i := 0; i < width; i++ {
		column = column[:0]
		for _, s := range samples {
			if i < len(s) {
				column = append(column, s[i])
			}
		}
		if len(column) == 0 {
			continue
		}

		mean := stat.Mean(column, nil)
		if handType == HandTypeBoth {
			// combined patterns hold finger counts, not sign states
			pattern[i] = int(math.Round(mean))
		} else {
			switch {
			case mean > 0.5:
				pattern[i] = 1
			case mean < -0.5:
				pattern[i] = -1
			}
		}
		if len(column) > 1 {
			jitter += stat.StdDev(column, nil)
		}
	}
	jitter /= float64(width)

	rec := RecordedGesture{
		Name:        name,
		Pattern:     pattern,
		HandType:    handType,
		Description: "Custom gesture: " + name,
		Binding:     binding,
		Samples:     len(samples),
		Jitter:      jitter,
	}
	log.Printf("recorded gesture %q: pattern=%v samples=%d jitter=%.3f", name, pattern, len(samples), jitter)
	return rec, true
}

func (r *Recorder) resetLocked() {
	r.phase = phaseIdle
	r.name = ""
	r.binding = ""
	r.handType = ""
	r.remaining = 0
	r.samples = nil
}

func (r *Recorder) status(message, color string) {
	if r.notify != nil {
		r.notify(message, color)
	}
}
