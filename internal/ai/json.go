package ai

import (
	"regexp"
	"strings"
)

var codeFencePattern = regexp.MustCompile("(?s)```(?:json)?\n?(.*?)```")

// ExtractJSON pulls a JSON object out of model output that may wrap it in
// markdown code fences or extra prose. It strips fences first, then scans for
// the first '{' and its balanced closing '}' while honoring string literals
// and escapes. Returns "" when no object is found; callers fall back to the
// default verdict.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if matches := codeFencePattern.FindStringSubmatch(text); len(matches) > 1 {
		text = strings.TrimSpace(matches[1])
	}

	start := strings.IndexByte(text, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}

	return ""
}
