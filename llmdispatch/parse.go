package llmdispatch

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/yosuke-furukawa/json5"

	"cultivation-world-simulator/simerr"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json5?|JSON5?)?\\s*\\n(.*?)```")

// ParseJSONObject extracts a JSON object from raw assistant text (spec
// §4.5 "JSON response parsing"): first by trying fenced ```json/```json5
// code blocks in order, then by parsing the entire text tolerant of
// JSON5 syntax (trailing commas, unquoted keys, comments). Arrays and
// scalars are rejected.
func ParseJSONObject(raw string) (map[string]any, error) {
	for _, block := range fencedBlockPattern.FindAllStringSubmatch(raw, -1) {
		if obj, ok := tryParseObject(block[1]); ok {
			return obj, nil
		}
	}

	if obj, ok := tryParseObject(raw); ok {
		return obj, nil
	}

	snippet := raw
	if len(snippet) > 500 {
		snippet = snippet[:500]
	}
	return nil, simerr.WithKind(simerr.ErrParse, fmt.Sprintf("could not parse JSON object from response: %q", snippet))
}

func tryParseObject(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, true
	}
	if err := json5.Unmarshal([]byte(text), &obj); err == nil {
		return obj, true
	}
	return nil, false
}
