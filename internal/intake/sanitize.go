package intake

import "regexp"

var (
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	eventPattern   = regexp.MustCompile(`on\w+=\s*["']?[^"']*["']?`)
	jsAttrPattern  = regexp.MustCompile(`(href|src|data)=\s*["']?javascript:[^"']*["']?`)
)

// Sanitize strips HTML tags, inline event handlers and javascript: URL
// attributes from user input, then clamps the result to maxRunes.
func Sanitize(input string, maxRunes int) string {
	cleaned := tagPattern.ReplaceAllString(input, "")
	cleaned = eventPattern.ReplaceAllString(cleaned, "")
	cleaned = jsAttrPattern.ReplaceAllString(cleaned, "")

	if maxRunes > 0 {
		runes := []rune(cleaned)
		if len(runes) > maxRunes {
			cleaned = string(runes[:maxRunes])
		}
	}
	return cleaned
}
