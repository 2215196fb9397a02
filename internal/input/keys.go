package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnknownKey marks a binding string that cannot be mapped to a key.
var ErrUnknownKey = errors.New("unknown key")

// specialKeys maps binding names onto injector key names. The name set
// is a compatibility contract with saved profiles; entries must not be
// renamed or removed.
var specialKeys = map[string]string{
	"space":     "space",
	"enter":     "enter",
	"return":    "enter",
	"tab":       "tab",
	"esc":       "esc",
	"escape":    "esc",
	"backspace": "backspace",
	"delete":    "delete",
	"up":        "up",
	"down":      "down",
	"left":      "left",
	"right":     "right",
	"home":      "home",
	"end":       "end",
	"page_up":   "pageup",
	"page_down": "pagedown",
	"shift":     "shift",
	"ctrl":      "ctrl",
	"alt":       "alt",
	"cmd":       "cmd",
	"caps_lock": "capslock",
	"f1":        "f1",
	"f2":        "f2",
	"f3":        "f3",
	"f4":        "f4",
	"f5":        "f5",
	"f6":        "f6",
	"f7":        "f7",
	"f8":        "f8",
	"f9":        "f9",
	"f10":       "f10",
	"f11":       "f11",
	"f12":       "f12",
}

// modifierKeys maps accepted modifier spellings onto injector key names.
var modifierKeys = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"alt":     "alt",
	"cmd":     "cmd",
	"super":   "cmd",
}

// Binding is a parsed key binding: zero or more modifiers held around
// one main key.
type Binding struct {
	Raw       string   // The binding string as configured
	Modifiers []string // Injector names in press order
	Key       string   // Injector name of the main key
}

// ParseBinding parses a binding string: a '+' combination such as
// "ctrl+shift+z", a named special key such as "page_up", or a single
// alphanumeric character. Anything else returns an error wrapping
// ErrUnknownKey; nothing is injected for rejected bindings.
func ParseBinding(raw string) (Binding, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Binding{}, fmt.Errorf("empty binding: %w", ErrUnknownKey)
	}

	if strings.Contains(normalized, "+") {
		return parseCombination(raw, normalized)
	}

	key, err := resolveKey(normalized)
	if err != nil {
		return Binding{}, err
	}
	return Binding{Raw: raw, Key: key}, nil
}

func parseCombination(raw, normalized string) (Binding, error) {
	parts := strings.Split(normalized, "+")

	b := Binding{Raw: raw, Modifiers: make([]string, 0, len(parts)-1)}
	for _, part := range parts[:len(parts)-1] {
		mod, ok := modifierKeys[part]
		if !ok {
			return Binding{}, fmt.Errorf("modifier %q: %w", part, ErrUnknownKey)
		}
		b.Modifiers = append(b.Modifiers, mod)
	}

	key, err := resolveKey(parts[len(parts)-1])
	if err != nil {
		return Binding{}, err
	}
	b.Key = key
	return b, nil
}

// resolveKey maps a single token onto an injector key name.
func resolveKey(token string) (string, error) {
	if key, ok := specialKeys[token]; ok {
		return key, nil
	}
	runes := []rune(token)
	if len(runes) == 1 && (unicode.IsLetter(runes[0]) || unicode.IsDigit(runes[0])) {
		return token, nil
	}
	return "", fmt.Errorf("key %q: %w", token, ErrUnknownKey)
}
