package gemini

import "strings"

// cleanMarkdownWrapper strips a ```json ... ``` (or bare ```) fence that
// models often wrap around JSON payloads despite instructions not to.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	// Drop the opening fence line (``` or ```json).
	lines = lines[1:]
	// Drop the closing fence if present.
	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if trimmed == "```" {
			lines = lines[:i]
		}
		break
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
