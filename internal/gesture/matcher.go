package gesture

// HandType discriminates single-hand patterns from combined two-hand
// patterns. Patterns of different hand types are never compared.
type HandType string

const (
	// HandTypeSingle marks a pattern matched against one hand.
	HandTypeSingle HandType = "single"
	// HandTypeBoth marks a pattern matched against both hands combined.
	HandTypeBoth HandType = "both"
)

// CustomGesture is a user-recorded pattern supplied by the profile
// layer. The matcher reads these per call and never stores them.
type CustomGesture struct {
	Name        string   `json:"name"`
	Pattern     []int    `json:"pattern"`
	HandType    HandType `json:"hand_type"`
	Description string   `json:"description"`
}

// Result is the outcome of one recognition call.
type Result struct {
	Gesture      string   `json:"gesture"` // Matched name, "" when nothing fit
	Confidence   float64  `json:"confidence"`
	Pattern      []int    `json:"pattern"` // The quantized pattern that was scored
	Description  string   `json:"description"`
	IsCustom     bool     `json:"is_custom"`
	HandType     HandType `json:"hand_type"`
	TotalFingers int      `json:"total_fingers,omitempty"` // Combined matches only
}

// customThreshold is the confidence floor a custom gesture must clear
// before it is reported at all.
const customThreshold = 0.7

// Quantize maps continuous finger states onto {-1, 0, 1}.
func Quantize(states []float64) []int {
	out := make([]int, len(states))
	for i, s := range states {
		switch {
		case s > 0.5:
			out[i] = 1
		case s < -0.5:
			out[i] = -1
		}
	}
	return out
}

// patternScore measures agreement between two same-length patterns:
// +1 per exact position, +0.5 per position off by one, 0 otherwise.
func patternScore(got, want []int) float64 {
	var score float64
	for i := range got {
		diff := got[i] - want[i]
		if diff < 0 {
			diff = -diff
		}
		switch diff {
		case 0:
			score++
		case 1:
			score += 0.5
		}
	}
	return score
}

// MatchFixed scores the pattern against every built-in gesture and
// returns the best name with its raw score (5 means identical). Ties
// keep the earlier table entry.
func MatchFixed(pattern []int) (string, float64) {
	var (
		bestName  string
		bestScore float64
	)
	for _, p := range fixedPatterns {
		if len(pattern) != len(p.Pattern) {
			continue
		}
		if s := patternScore(pattern, p.Pattern[:]); s > bestScore {
			bestName = p.Name
			bestScore = s
		}
	}
	return bestName, bestScore
}

// MatchCustom scores the pattern against the caller's custom gestures,
// considering only entries that are active, of the requested hand type,
// and of the same pattern length. It returns nil unless some candidate's
// confidence strictly clears the acceptance floor; ties keep the earlier
// entry.
func MatchCustom(pattern []int, customs []CustomGesture, active map[string]bool, handType HandType) *Result {
	if len(pattern) == 0 {
		return nil
	}

	var best *Result
	bestConf := customThreshold
	for _, g := range customs {
		if !active[g.Name] || g.HandType != handType || len(g.Pattern) != len(pattern) {
			continue
		}

		conf := patternScore(pattern, g.Pattern) / float64(len(pattern))
		if conf <= bestConf {
			continue
		}

		desc := g.Description
		if desc == "" {
			desc = "Custom gesture"
		}
		best = &Result{
			Gesture:     g.Name,
			Confidence:  conf,
			Pattern:     pattern,
			Description: desc,
			IsCustom:    true,
			HandType:    handType,
		}
		bestConf = conf
	}
	return best
}

// Recognize classifies a single hand's finger states against the
// built-in table and the caller's custom gestures. A custom match wins
// only when its confidence is strictly higher than the fixed match's.
func Recognize(states []float64, customs []CustomGesture, active map[string]bool) Result {
	pattern := Quantize(states)
	name, score := MatchFixed(pattern)

	result := Result{
		Gesture:     name,
		Confidence:  score / 5,
		Pattern:     pattern,
		Description: "Unknown",
		HandType:    HandTypeSingle,
	}
	if p, ok := LookupFixed(name); ok {
		result.Description = p.Description
	}

	if len(customs) == 0 || len(active) == 0 {
		return result
	}
	if custom := MatchCustom(pattern, customs, active, HandTypeSingle); custom != nil && custom.Confidence > result.Confidence {
		return *custom
	}
	return result
}

// binarize reduces finger states to extended bits: anything past 0.5
// counts as an extended finger, bend direction is ignored.
func binarize(states []float64) ([]int, int) {
	bits := make([]int, len(states))
	extended := 0
	for i, s := range states {
		if s > 0.5 {
			bits[i] = 1
			extended++
		}
	}
	return bits, extended
}

// CombinedStates folds a two-hand pose into one vector: the total
// extended finger count followed by each hand's extended bits, left
// first. Recording and recognition of combined gestures share this
// layout.
func CombinedStates(left, right []float64) []float64 {
	leftBits, leftCount := binarize(left)
	rightBits, rightCount := binarize(right)

	out := make([]float64, 0, 1+len(leftBits)+len(rightBits))
	out = append(out, float64(leftCount+rightCount))
	for _, b := range leftBits {
		out = append(out, float64(b))
	}
	for _, b := range rightBits {
		out = append(out, float64(b))
	}
	return out
}

// RecognizeBothHands classifies a two-hand pose against the caller's
// combined custom gestures. There is no built-in table for combined
// gestures; nil means no match.
func RecognizeBothHands(left, right []float64, customs []CustomGesture, active map[string]bool) *Result {
	if len(left) == 0 || len(right) == 0 || len(customs) == 0 || len(active) == 0 {
		return nil
	}

	combined := CombinedStates(left, right)
	pattern := make([]int, len(combined))
	for i, v := range combined {
		pattern[i] = int(v)
	}

	result := MatchCustom(pattern, customs, active, HandTypeBoth)
	if result == nil {
		return nil
	}
	result.TotalFingers = pattern[0]
	result.Description = "Both hands: " + result.Description
	return result
}
