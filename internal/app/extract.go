package app

import (
	"encoding/json"
	"strings"

	"travela/internal/domain"
)

// ExtractGuide recovers the first balanced top-level JSON object from a model
// completion and projects it onto a TravelGuide. Hotels come back without a
// booking link; that is added by PatchBookingLinks.
func ExtractGuide(text string) (domain.TravelGuide, error) {
	region, ok := firstBalancedObject(text)
	if !ok {
		return domain.TravelGuide{}, &domain.ExtractionError{Reason: "no JSON object found in response"}
	}

	var raw any
	if err := json.Unmarshal([]byte(region), &raw); err != nil {
		return domain.TravelGuide{}, &domain.ExtractionError{Reason: "invalid JSON object", Err: err}
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return domain.TravelGuide{}, &domain.ExtractionError{Reason: "JSON value is not an object"}
	}
	return mapGuide(obj), nil
}

// firstBalancedObject returns text[start:end] where start is the first '{'
// and end is just past its matching '}'. Braces inside string literals are
// ignored and backslash escapes are honoured. ok is false when there is no
// '{' or the object never closes.
func firstBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
