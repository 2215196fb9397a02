package gesture

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

type statusLog struct {
	messages []string
	colors   []string
}

func (s *statusLog) record(message, color string) {
	s.messages = append(s.messages, message)
	s.colors = append(s.colors, color)
}

func TestRecorder_FullSession(t *testing.T) {
	var status statusLog
	var done []RecordedGesture

	rec := NewRecorder(status.record, func(g RecordedGesture) {
		done = append(done, g)
	})

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := rec.Start("wave", "space", HandTypeSingle, start); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !rec.Active() {
		t.Fatal("Active() = false after Start")
	}

	// samples during the countdown are dropped
	rec.AddSample([]float64{1, 1, 1, 1, 1})

	rec.Tick(start.Add(1 * time.Second))
	rec.Tick(start.Add(2 * time.Second))
	rec.Tick(start.Add(3 * time.Second))

	if !rec.Recording() {
		t.Fatal("Recording() = false after the countdown")
	}

	rec.AddSample([]float64{1, 1, 0.5, 1, 1})
	rec.AddSample([]float64{1, 1, 1, 1, 1})
	rec.AddSample([]float64{1, 1, 1, 1, 1})

	// the window closes 3 seconds after recording began
	rec.Tick(start.Add(6100 * time.Millisecond))

	if rec.Active() {
		t.Error("Active() = true after the session finished")
	}
	if len(done) != 1 {
		t.Fatalf("completion callbacks = %d, want 1", len(done))
	}

	g := done[0]
	if g.Name != "wave" {
		t.Errorf("Name = %q, want wave", g.Name)
	}
	if g.Binding != "space" {
		t.Errorf("Binding = %q, want space", g.Binding)
	}
	if g.HandType != HandTypeSingle {
		t.Errorf("HandType = %q, want single", g.HandType)
	}
	if g.Samples != 3 {
		t.Errorf("Samples = %d, want 3 (countdown sample must be dropped)", g.Samples)
	}
	if want := []int{1, 1, 1, 1, 1}; !reflect.DeepEqual(g.Pattern, want) {
		t.Errorf("Pattern = %v, want %v", g.Pattern, want)
	}
	if g.Description != "Custom gesture: wave" {
		t.Errorf("Description = %q, want %q", g.Description, "Custom gesture: wave")
	}
	if g.Jitter <= 0 {
		t.Errorf("Jitter = %v, want positive for noisy samples", g.Jitter)
	}

	joined := strings.Join(status.messages, "\n")
	for _, want := range []string{"Get ready: 3", "Get ready: 2", "Get ready: 1", "Recording", "Recorded gesture: wave"} {
		if !strings.Contains(joined, want) {
			t.Errorf("status log missing %q:\n%s", want, joined)
		}
	}
}

func TestRecorder_NoSamples(t *testing.T) {
	var status statusLog
	completed := false

	rec := NewRecorder(status.record, func(RecordedGesture) { completed = true })

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := rec.Start("ghost", "g", HandTypeSingle, start); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for i := 1; i <= 7; i++ {
		rec.Tick(start.Add(time.Duration(i) * time.Second))
	}

	if completed {
		t.Error("completion fired with no samples")
	}
	if rec.Active() {
		t.Error("Active() = true after an empty session")
	}

	last := len(status.messages) - 1
	if status.messages[last] != "No hand detected during recording" {
		t.Errorf("last status = %q, want the no-hand warning", status.messages[last])
	}
	if status.colors[last] != "red" {
		t.Errorf("warning color = %q, want red", status.colors[last])
	}
}

func TestRecorder_StartWhileBusy(t *testing.T) {
	rec := NewRecorder(nil, nil)

	start := time.Now()
	if err := rec.Start("one", "a", HandTypeSingle, start); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := rec.Start("two", "b", HandTypeSingle, start); !errors.Is(err, ErrRecorderBusy) {
		t.Errorf("second Start() error = %v, want ErrRecorderBusy", err)
	}
}

func TestRecorder_Cancel(t *testing.T) {
	completed := false
	rec := NewRecorder(nil, func(RecordedGesture) { completed = true })

	start := time.Now()
	if err := rec.Start("abort", "x", HandTypeSingle, start); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	rec.Cancel()

	if rec.Active() {
		t.Error("Active() = true after Cancel")
	}
	if completed {
		t.Error("completion fired for a cancelled session")
	}

	// the recorder is free again
	if err := rec.Start("retry", "y", HandTypeSingle, start); err != nil {
		t.Errorf("Start() after Cancel error = %v", err)
	}
}

func TestRecorder_BothHandsRoundsCounts(t *testing.T) {
	var done []RecordedGesture
	rec := NewRecorder(nil, func(g RecordedGesture) { done = append(done, g) })

	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if err := rec.Start("six", "6", HandTypeBoth, start); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for i := 1; i <= 3; i++ {
		rec.Tick(start.Add(time.Duration(i) * time.Second))
	}

	// two frames see six fingers, one noisy frame sees seven
	rec.AddSample([]float64{6, 0, 1, 0, 0, 0, 1, 1, 1, 1, 1})
	rec.AddSample([]float64{6, 0, 1, 0, 0, 0, 1, 1, 1, 1, 1})
	rec.AddSample([]float64{7, 0, 1, 1, 0, 0, 1, 1, 1, 1, 1})

	rec.Tick(start.Add(7 * time.Second))

	if len(done) != 1 {
		t.Fatalf("completion callbacks = %d, want 1", len(done))
	}

	g := done[0]
	if g.HandType != HandTypeBoth {
		t.Errorf("HandType = %q, want both", g.HandType)
	}
	// the count column averages 6.33 and rounds to 6 instead of being
	// sign-quantized to 1
	want := []int{6, 0, 1, 0, 0, 0, 1, 1, 1, 1, 1}
	if !reflect.DeepEqual(g.Pattern, want) {
		t.Errorf("Pattern = %v, want %v", g.Pattern, want)
	}
}

func TestRecorder_SessionInfo(t *testing.T) {
	rec := NewRecorder(nil, nil)

	start := time.Now()
	if err := rec.Start("pinch", "ctrl+c", HandTypeSingle, start); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	name, handType := rec.Session()
	if name != "pinch" {
		t.Errorf("Session() name = %q, want pinch", name)
	}
	if handType != HandTypeSingle {
		t.Errorf("Session() handType = %q, want single", handType)
	}
}
