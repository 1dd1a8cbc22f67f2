package naming

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Source identifies which strategy produced a list of names.
type Source string

const (
	// SourceAI means the model returned a usable JSON array.
	SourceAI Source = "ai"
	// SourceText means names were scraped from a non-JSON model reply.
	SourceText Source = "text"
	// SourceFallback means the AI call failed or yielded nothing and the pool was used.
	SourceFallback Source = "fallback"
)

var errNotArray = errors.New("ai response is not a JSON array")

// ParseNames decodes raw model output into at most count normalized, distinct
// names. Output that is not a JSON array is handed to ExtractNames.
func ParseNames(raw string, count int) ([]string, Source) {
	names, err := decodeNames(raw, count)
	if err != nil {
		return ExtractNames(raw, count), SourceText
	}
	return names, SourceAI
}

func decodeNames(raw string, count int) ([]string, error) {
	var decoded any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &decoded); err != nil {
		return nil, fmt.Errorf("decode names: %w", err)
	}
	items, ok := decoded.([]any)
	if !ok {
		return nil, errNotArray
	}

	accepted := newNameSet(min(len(items), max(count, 0)))
	for _, item := range items {
		if accepted.len() >= count {
			break
		}
		value, ok := item.(string)
		if !ok {
			continue
		}
		accepted.add(Normalize(value))
	}
	return accepted.names, nil
}
