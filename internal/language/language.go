// Package language decides which way a message is translated. It owns the
// canonical language codes used across the bot and the detection policies
// that map a text to a source and target language.
package language

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

// Canonical codes. Everything crossing a package boundary is normalised to
// the base ISO 639-1 subtag.
const (
	Chinese = "zh"
	English = "en"

	// Unknown is displayed when no policy could classify the text.
	Unknown = "unknown"
)

// Detection is one candidate returned by a language detector.
type Detection struct {
	Language   string
	Confidence float64
}

// Detector is implemented by translation backends that can identify the
// language of a text.
type Detector interface {
	Detect(ctx context.Context, text string) ([]Detection, error)
}

// Decision is the outcome of a policy for one message.
type Decision struct {
	// Source is the code sent to the translation backend.
	Source string
	// Target is the code the text is translated into.
	Target string
	// Display is the source shown to the user; it differs from Source only
	// when the language is unknown.
	Display string
}

// Policy maps a text to a translation direction.
type Policy interface {
	Name() string
	Decide(ctx context.Context, text string) (Decision, error)
}

// Normalize canonicalises a language code: "zh-CN", "zh_cn" and "zh-Hans"
// become "zh", "en-US" becomes "en". Codes x/text cannot parse are lowered
// and trimmed to their first subtag.
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	code = strings.ReplaceAll(code, "_", "-")

	tag, err := language.Parse(code)
	if err != nil {
		base, _, _ := strings.Cut(code, "-")
		return strings.ToLower(base)
	}

	base, _ := tag.Base()
	return base.String()
}

// TargetFor returns the fixed two-way direction: Chinese goes to English,
// everything else goes to Chinese.
func TargetFor(source string) string {
	if Normalize(source) == Chinese {
		return English
	}
	return Chinese
}

// decide builds a Decision for a known source language.
func decide(source string) Decision {
	source = Normalize(source)
	return Decision{Source: source, Target: TargetFor(source), Display: source}
}
