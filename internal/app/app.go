// Package app wires the camera, hand detector, gesture matcher,
// recorder and key injection into the running recognition service.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeoutMs is the quiet time in milliseconds before switching back to idle mode.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	Cooldown     time.Duration

	// Camera and Injector override the defaults, mainly for tests.
	Camera   capture.Camera
	Injector input.Injector
}

// profileSnapshot is the loaded profile state the frame loop reads.
// Snapshots are immutable once published; LoadProfile swaps the whole
// pointer.
type profileSnapshot struct {
	id       string
	name     string
	customs  []gesture.CustomGesture
	active   map[string]bool
	bindings map[string]string
}

func emptySnapshot() *profileSnapshot {
	return &profileSnapshot{
		active:   map[string]bool{},
		bindings: map[string]string{},
	}
}

// App is the recognition service: it owns the capture pipeline, the
// loaded profile and the execution throttle.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	throttle *input.Throttle
	recorder *gesture.Recorder
	events   *EventBus

	mu          sync.RWMutex
	enabled     bool
	stopCh      chan struct{}
	profile     *profileSnapshot
	lastGesture string
	lastResult  *gesture.Result
	analysis    []HandAnalysis
	gestureCb   func(gesture, binding string)
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	camera := config.Camera
	if camera == nil {
		camera = capture.NewCamera(config.CameraID)
	}
	injector := config.Injector
	if injector == nil {
		injector = input.SystemInjector{}
	}

	a := &App{
		config:   config,
		camera:   camera,
		motion:   capture.NewMotionDetector(motionThreshold),
		throttle: input.NewThrottle(injector, config.Cooldown),
		events:   NewEventBus(),
		profile:  emptySnapshot(),
	}
	a.recorder = gesture.NewRecorder(a.events.Publish, a.handleRecorded)

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	a.mu.Unlock()

	if !changed {
		return
	}
	if enabled {
		a.events.Publish("Gesture detection enabled", "green")
	} else {
		a.events.Publish("Gesture detection paused", "orange")
	}
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// SetGestureCallback registers fn to run after a gesture's binding
// fires. The callback runs outside the app's locks.
func (a *App) SetGestureCallback(fn func(gesture, binding string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gestureCb = fn
}

// LoadProfile loads the profile's gestures from the store into the
// matching snapshot and clears the execution cooldown.
func (a *App) LoadProfile(profileID string) error {
	if a.config.Store == nil {
		return errors.New("no store configured")
	}

	p, err := a.config.Store.Profiles().GetByID(profileID)
	if err != nil {
		return err
	}
	gestures, err := a.config.Store.Gestures().ListByProfile(p.ID)
	if err != nil {
		return err
	}

	snap := &profileSnapshot{
		id:       p.ID,
		name:     p.Name,
		active:   make(map[string]bool, len(gestures)),
		bindings: make(map[string]string, len(gestures)),
	}
	for _, g := range gestures {
		// template placeholders have no pattern yet and cannot match
		if len(g.Pattern) > 0 {
			snap.customs = append(snap.customs, gesture.CustomGesture{
				Name:        g.Name,
				Pattern:     g.Pattern,
				HandType:    gesture.HandType(g.HandType),
				Description: g.Description,
			})
		}
		if g.Active {
			snap.active[g.Name] = true
		}
		if g.KeyBinding != "" {
			snap.bindings[g.Name] = g.KeyBinding
		}
	}

	a.mu.Lock()
	a.profile = snap
	a.mu.Unlock()

	a.throttle.Reset()
	log.Printf("Loaded profile %q with %d gestures", p.Name, len(gestures))
	return nil
}

// ReloadProfile refreshes the snapshot of the loaded profile. Without a
// loaded profile it does nothing.
func (a *App) ReloadProfile() error {
	a.mu.RLock()
	id := a.profile.id
	a.mu.RUnlock()

	if id == "" {
		return nil
	}
	return a.LoadProfile(id)
}

// SwitchProfile loads the profile and records it as current.
func (a *App) SwitchProfile(profileID string) error {
	if err := a.LoadProfile(profileID); err != nil {
		return err
	}
	if err := a.config.Store.Settings().Set(store.SettingCurrentProfile, profileID); err != nil {
		return err
	}

	a.mu.RLock()
	name := a.profile.name
	a.mu.RUnlock()
	a.events.Publish("Switched to profile: "+name, "blue")
	return nil
}

// LoadCurrentProfile loads the profile recorded as current in settings.
// A database without the setting, or whose current profile has been
// deleted, loads nothing.
func (a *App) LoadCurrentProfile() error {
	if a.config.Store == nil {
		return nil
	}

	id, err := a.config.Store.Settings().Get(store.SettingCurrentProfile)
	if err == store.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	if err := a.LoadProfile(id); err != nil && err != store.ErrNotFound {
		return err
	}
	return nil
}

// StartRecording begins a countdown-then-record session for the named
// gesture. The finished recording is saved into the current profile.
func (a *App) StartRecording(name, binding string, handType gesture.HandType) error {
	if handType != gesture.HandTypeSingle && handType != gesture.HandTypeBoth {
		return fmt.Errorf("unknown hand type %q", handType)
	}

	a.mu.RLock()
	profileID := a.profile.id
	a.mu.RUnlock()
	if profileID == "" {
		return errors.New("no profile loaded")
	}

	return a.recorder.Start(name, binding, handType, time.Now())
}

// CancelRecording abandons the recording session in progress.
func (a *App) CancelRecording() {
	a.recorder.Cancel()
}

// Recorder exposes the recording state machine.
func (a *App) Recorder() *gesture.Recorder {
	return a.recorder
}

// handleRecorded persists a finished recording into the current profile
// and refreshes the snapshot. Recording over a template gesture fills
// its pattern and activates it; the template's description and binding
// survive unless the session supplied new ones.
func (a *App) handleRecorded(rec gesture.RecordedGesture) {
	a.mu.RLock()
	profileID := a.profile.id
	a.mu.RUnlock()

	if a.config.Store == nil || profileID == "" {
		a.events.Publish("No profile loaded, recording discarded", "red")
		return
	}

	gestures := a.config.Store.Gestures()
	existing, err := gestures.GetByName(profileID, rec.Name)
	switch {
	case err == nil:
		existing.Pattern = rec.Pattern
		existing.HandType = store.HandType(rec.HandType)
		existing.Active = true
		existing.RecordedSamples = rec.Samples
		if rec.Binding != "" {
			existing.KeyBinding = rec.Binding
		}
		if existing.Description == "" {
			existing.Description = rec.Description
		}
		err = gestures.Update(existing)

	case err == store.ErrNotFound:
		err = gestures.Create(&store.Gesture{
			ID:              uuid.New().String(),
			ProfileID:       profileID,
			Name:            rec.Name,
			Pattern:         rec.Pattern,
			HandType:        store.HandType(rec.HandType),
			Description:     rec.Description,
			KeyBinding:      rec.Binding,
			Active:          true,
			RecordedSamples: rec.Samples,
		})
	}
	if err != nil {
		log.Printf("Failed to save recorded gesture %q: %v", rec.Name, err)
		a.events.Publish("Failed to save gesture: "+rec.Name, "red")
		return
	}

	if err := a.ReloadProfile(); err != nil {
		log.Printf("Failed to reload profile after recording: %v", err)
	}
	a.events.Publish(fmt.Sprintf("Saved gesture %q (%d samples)", rec.Name, rec.Samples), "green")
}

// Status is a point-in-time summary for the API and the tray.
type Status struct {
	Enabled          bool            `json:"enabled"`
	Profile          string          `json:"profile"`
	ProfileID        string          `json:"profile_id"`
	Recording        bool            `json:"recording"`
	RecordingGesture string          `json:"recording_gesture,omitempty"`
	LastGesture      string          `json:"last_gesture"`
	LastResult       *gesture.Result `json:"last_result,omitempty"`
	CameraOpen       bool            `json:"camera_open"`
}

// Status reports the current service state.
func (a *App) Status() Status {
	a.mu.RLock()
	st := Status{
		Enabled:     a.enabled,
		Profile:     a.profile.name,
		ProfileID:   a.profile.id,
		LastGesture: a.lastGesture,
		LastResult:  a.lastResult,
	}
	a.mu.RUnlock()

	st.CameraOpen = a.camera.IsOpen()
	if a.recorder.Active() {
		st.Recording = true
		st.RecordingGesture, _ = a.recorder.Session()
	}
	return st
}

// LatestAnalysis returns the most recent per-hand analysis. The slice
// is replaced wholesale each frame and safe to read concurrently.
func (a *App) LatestAnalysis() []HandAnalysis {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.analysis
}

// Events exposes the status event bus.
func (a *App) Events() *EventBus {
	return a.events
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Start opens the camera and begins the detection loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}
