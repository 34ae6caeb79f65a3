package llm

import "strings"

// StripCodeFence removes a markdown code-fence wrapper from a model reply.
// Replies are requested as bare JSON, but models occasionally wrap the
// payload in ``` delimiter lines anyway. Stripping an unwrapped reply is a
// no-op beyond trimming surrounding whitespace.
func StripCodeFence(reply string) string {
	text := strings.TrimSpace(reply)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// Drop the opening delimiter line, which may carry a language tag.
	if i := strings.IndexByte(text, '\n'); i != -1 {
		text = text[i+1:]
	}

	if strings.HasSuffix(strings.TrimSpace(text), "```") {
		text = text[:strings.LastIndex(text, "```")]
	}

	return strings.TrimSpace(text)
}
