package translator

import (
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/edgard/transbot/internal/language"
)

// regionalChinese maps canonical Chinese to the simplified-script code that
// Google and MyMemory expect.
func regionalChinese(code string) string {
	if code == language.Chinese {
		return "zh-CN"
	}
	return code
}

// languageName returns an English name for code for use in LLM prompts.
func languageName(code string) string {
	if code == language.Chinese {
		return "Simplified Chinese"
	}
	tag, err := xlanguage.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
