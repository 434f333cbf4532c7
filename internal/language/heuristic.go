package language

import "context"

const (
	cjkFirst = '一'
	cjkLast  = '鿿'
)

// Classify reports the language of text by character ranges alone: any CJK
// unified ideograph means Chinese, otherwise any ASCII letter means English,
// otherwise Unknown.
func Classify(text string) string {
	hasLatin := false
	for _, r := range text {
		if r >= cjkFirst && r <= cjkLast {
			return Chinese
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			hasLatin = true
		}
	}
	if hasLatin {
		return English
	}
	return Unknown
}

// HeuristicPolicy decides direction from Classify without any network call.
type HeuristicPolicy struct{}

// NewHeuristicPolicy returns the character-range policy.
func NewHeuristicPolicy() HeuristicPolicy {
	return HeuristicPolicy{}
}

func (HeuristicPolicy) Name() string { return "heuristic" }

// Decide never fails. Unclassifiable text is translated English to Chinese
// and displayed as Unknown.
func (HeuristicPolicy) Decide(_ context.Context, text string) (Decision, error) {
	return heuristicDecision(text), nil
}

func heuristicDecision(text string) Decision {
	switch Classify(text) {
	case Chinese:
		return decide(Chinese)
	case English:
		return decide(English)
	default:
		return Decision{Source: English, Target: Chinese, Display: Unknown}
	}
}
