package gesture

// FixedPattern is one entry in the built-in gesture table.
type FixedPattern struct {
	Name        string `json:"name"`
	Pattern     [5]int `json:"pattern"`
	Description string `json:"description"`
}

// fixedPatterns is the built-in single-hand gesture table. Order
// matters: the matcher keeps the first entry on score ties, so
// reordering changes recognition results.
var fixedPatterns = []FixedPattern{
	{"fist", [5]int{0, 0, 0, 0, 0}, "Closed fist"},
	{"open", [5]int{1, 1, 1, 1, 1}, "Open hand"},
	{"thumbs_up", [5]int{1, 0, 0, 0, 0}, "Thumbs up"},
	{"thumbs_down", [5]int{-1, 0, 0, 0, 0}, "Thumbs down"},
	{"index_point", [5]int{0, 1, 0, 0, 0}, "Index pointing"},
	{"peace", [5]int{0, 1, 1, 0, 0}, "Peace sign"},
	{"rock", [5]int{0, 1, 0, 0, 1}, "Rock on"},
	{"ok", [5]int{0, 0, 1, 1, 1}, "OK sign"},
	{"three", [5]int{0, 1, 1, 1, 0}, "Three fingers"},
	{"four", [5]int{0, 1, 1, 1, 1}, "Four fingers"},
	{"gun", [5]int{1, 1, 0, 0, 0}, "Gun gesture"},
	{"call_me", [5]int{1, 0, 0, 0, 1}, "Call me"},
	{"middle_finger", [5]int{0, 0, 1, 0, 0}, "Middle finger"},
	{"spock", [5]int{1, 1, 1, 0, 0}, "Vulcan salute"},
	{"love", [5]int{0, 1, 0, 1, 1}, "I love you"},
}

// FixedPatterns returns a copy of the built-in gesture table in its
// canonical order.
func FixedPatterns() []FixedPattern {
	out := make([]FixedPattern, len(fixedPatterns))
	copy(out, fixedPatterns)
	return out
}

// LookupFixed returns the built-in pattern with the given name.
func LookupFixed(name string) (FixedPattern, bool) {
	for _, p := range fixedPatterns {
		if p.Name == name {
			return p, true
		}
	}
	return FixedPattern{}, false
}
