package estimator

import "strings"

// StripFence removes a markdown code fence wrapped around a model response.
// Models are told to answer with raw JSON but sometimes reply with
//
//	```json
//	{"items": [...]}
//	```
//
// When the trimmed text opens with a fence, the first line is dropped along
// with everything from the last closing fence onward. Unfenced text is only
// trimmed.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	_, body, found := strings.Cut(text, "\n")
	if !found {
		return ""
	}
	if i := strings.LastIndex(body, "```"); i >= 0 {
		body = body[:i]
	}
	return strings.TrimSpace(body)
}
