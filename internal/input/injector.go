// Package input parses key-binding strings and injects the bound key
// events on the host.
package input

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// Injector sends key events to the host.
type Injector interface {
	// Tap presses and releases a key.
	Tap(key string) error
	// Press holds a key down.
	Press(key string) error
	// Release lets a held key up.
	Release(key string) error
}

// SystemInjector injects real key events through robotgo.
type SystemInjector struct{}

func (SystemInjector) Tap(key string) error { return robotgo.KeyTap(key) }

func (SystemInjector) Press(key string) error { return robotgo.KeyToggle(key, "down") }

func (SystemInjector) Release(key string) error { return robotgo.KeyToggle(key, "up") }

// Send injects a parsed binding: modifiers pressed in order around a
// tap of the main key, then released in reverse. When any event fails,
// every already-pressed modifier is still released before returning so
// none are left stuck on the host.
func Send(inj Injector, b Binding) error {
	for i, mod := range b.Modifiers {
		if err := inj.Press(mod); err != nil {
			releaseAll(inj, b.Modifiers[:i])
			return fmt.Errorf("press %s: %w", mod, err)
		}
	}

	tapErr := inj.Tap(b.Key)
	releaseErr := releaseAll(inj, b.Modifiers)

	if tapErr != nil {
		return fmt.Errorf("tap %s: %w", b.Key, tapErr)
	}
	return releaseErr
}

// releaseAll releases keys in reverse press order. Individual failures
// do not stop the sweep; the first one is returned.
func releaseAll(inj Injector, keys []string) error {
	var first error
	for i := len(keys) - 1; i >= 0; i-- {
		if err := inj.Release(keys[i]); err != nil && first == nil {
			first = fmt.Errorf("release %s: %w", keys[i], err)
		}
	}
	return first
}
