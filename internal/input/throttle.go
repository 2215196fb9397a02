package input

import (
	"log"
	"sync"
	"time"
)

// DefaultCooldown is the minimum time between repeated firings of the
// same gesture's binding.
const DefaultCooldown = time.Second

// Throttle fires gesture bindings while suppressing repeats. A held
// gesture is recognized on every frame; the cooldown collapses those
// recognitions into one key event per window.
type Throttle struct {
	mu       sync.Mutex
	injector Injector
	cooldown time.Duration
	now      func() time.Time

	lastGesture string
	lastTime    time.Time
}

// NewThrottle creates a Throttle over the given injector. A cooldown
// of zero or less selects DefaultCooldown.
func NewThrottle(injector Injector, cooldown time.Duration) *Throttle {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Throttle{
		injector: injector,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// TryExecute fires the binding for gestureName if one exists and the
// cooldown allows it. The cooldown state only advances on a successful
// injection: unparseable bindings and injection failures are logged and
// leave the state untouched, so a corrected binding fires on the very
// next frame.
func (t *Throttle) TryExecute(gestureName string, bindings map[string]string) bool {
	raw, ok := bindings[gestureName]
	if !ok {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if t.lastGesture == gestureName && now.Sub(t.lastTime) < t.cooldown {
		return false
	}

	binding, err := ParseBinding(raw)
	if err != nil {
		log.Printf("gesture %q has an unusable binding %q: %v", gestureName, raw, err)
		return false
	}

	if err := Send(t.injector, binding); err != nil {
		log.Printf("gesture %q failed to inject %q: %v", gestureName, raw, err)
		return false
	}

	t.lastGesture = gestureName
	t.lastTime = now
	return true
}

// Reset clears the cooldown state.
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastGesture = ""
	t.lastTime = time.Time{}
}

// Last returns the most recently fired gesture and when it fired.
func (t *Throttle) Last() (string, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastGesture, t.lastTime
}
