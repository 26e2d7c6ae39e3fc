// Package llm is the capability boundary to the language model that turns a
// free-text business question into a structured query specification. The core
// engines never depend on a live model; anything implementing Translator
// (including test fixtures) can stand in.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"txninsights/internal/dto"
	"txninsights/internal/metric"
)

type Translator interface {
	Translate(ctx context.Context, question string) (*dto.QuerySpec, error)
}

// DecodeSpec parses a model response into a QuerySpec. The model is asked
// for strict JSON but is not trusted to comply: markdown fences and
// surrounding prose are stripped, and a response without a recognized
// metric is rejected outright.
func DecodeSpec(raw string) (*dto.QuerySpec, error) {
	clean := cleanModelJSON(raw)

	var spec dto.QuerySpec
	if err := json.Unmarshal([]byte(clean), &spec); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	if _, ok := metric.Parse(spec.Metric); !ok {
		return nil, fmt.Errorf("model response lacks a recognized metric (got %q)", spec.Metric)
	}

	return &spec, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost object if prose leaked around the JSON.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
