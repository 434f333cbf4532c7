package language

import (
	"context"
	"errors"
	"fmt"

	"github.com/pemistahl/lingua-go"
)

// Policy names accepted in configuration.
const (
	PolicyAPI       = "api"
	PolicyHeuristic = "heuristic"
	PolicyLingua    = "lingua"
)

// ErrNoDetection is returned when a detector answers with no candidates.
var ErrNoDetection = errors.New("language detection returned no result")

// APIPolicy asks a remote detector and takes its best candidate.
type APIPolicy struct {
	detector Detector
}

// NewAPIPolicy wraps a detection-capable backend.
func NewAPIPolicy(d Detector) *APIPolicy {
	return &APIPolicy{detector: d}
}

func (p *APIPolicy) Name() string { return PolicyAPI }

func (p *APIPolicy) Decide(ctx context.Context, text string) (Decision, error) {
	detections, err := p.detector.Detect(ctx, text)
	if err != nil {
		return Decision{}, err
	}

	best, ok := Best(detections)
	if !ok {
		return Decision{}, ErrNoDetection
	}
	return decide(best.Language), nil
}

// Best returns the highest-confidence detection with a non-empty language.
// On ties the earlier candidate wins, matching detectors that already sort
// their answers.
func Best(detections []Detection) (Detection, bool) {
	var (
		best  Detection
		found bool
	)
	for _, d := range detections {
		if Normalize(d.Language) == "" {
			continue
		}
		if !found || d.Confidence > best.Confidence {
			best = d
			found = true
		}
	}
	return best, found
}

// LinguaPolicy runs an offline statistical detector limited to Chinese and
// English and falls back to the character-range heuristic when it cannot
// decide.
type LinguaPolicy struct {
	detector lingua.LanguageDetector
}

// NewLinguaPolicy builds the lingua detector. Building it loads the language
// models, so it is done once at startup.
func NewLinguaPolicy() *LinguaPolicy {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Chinese, lingua.English).
		Build()
	return &LinguaPolicy{detector: detector}
}

func (p *LinguaPolicy) Name() string { return PolicyLingua }

func (p *LinguaPolicy) Decide(_ context.Context, text string) (Decision, error) {
	lang, ok := p.detector.DetectLanguageOf(text)
	if !ok {
		return heuristicDecision(text), nil
	}
	switch lang {
	case lingua.Chinese:
		return decide(Chinese), nil
	case lingua.English:
		return decide(English), nil
	default:
		return heuristicDecision(text), nil
	}
}

// NewPolicy returns the policy registered under name. The api policy needs a
// detector; pass nil for the others.
func NewPolicy(name string, d Detector) (Policy, error) {
	switch name {
	case PolicyAPI:
		if d == nil {
			return nil, fmt.Errorf("detection policy %q requires a backend that supports language detection", name)
		}
		return NewAPIPolicy(d), nil
	case PolicyHeuristic:
		return NewHeuristicPolicy(), nil
	case PolicyLingua:
		return NewLinguaPolicy(), nil
	default:
		return nil, fmt.Errorf("unknown detection policy %q", name)
	}
}
