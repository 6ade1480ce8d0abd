// Package extract recovers a JSON object from loosely formatted text such as
// the reply of a text-generation model. Extraction is purely structural: the
// input is scanned for braces and quotes and the isolated span is handed to
// encoding/json. Nothing in the input is ever evaluated.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PabloGalante/pill-oracle/internal/domain"
)

var (
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmptyFortune is returned by Fortune when the reply parses but carries
	// no usable fortune. It matches ErrExtractionFailed under errors.Is.
	ErrEmptyFortune = fmt.Errorf("%w: empty fortune", ErrExtractionFailed)
)

// Object returns the JSON object contained in raw.
//
// If raw (trimmed) is already a JSON object it is returned directly.
// Otherwise the first balanced {...} span is returned when it is valid JSON,
// which covers objects wrapped in prose or fenced code blocks. Anything else
// fails with ErrExtractionFailed.
func Object(raw string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty input", ErrExtractionFailed)
	}

	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	span, ok := firstObject(trimmed)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object found", ErrExtractionFailed)
	}
	if !json.Valid([]byte(span)) {
		return nil, fmt.Errorf("%w: candidate object is not valid JSON", ErrExtractionFailed)
	}

	return json.RawMessage(span), nil
}

// Decode extracts the object in raw and unmarshals it into v.
func Decode(raw string, v any) error {
	obj, err := Object(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(obj, v); err != nil {
		return fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	return nil
}

// Fortune decodes the agent reply shape and requires a non-blank
// result.fortune.
func Fortune(raw string) (domain.FortuneResponse, error) {
	var resp domain.FortuneResponse
	if err := Decode(raw, &resp); err != nil {
		return domain.FortuneResponse{}, err
	}

	resp.Result.Fortune = strings.TrimSpace(resp.Result.Fortune)
	if resp.Result.Fortune == "" {
		return domain.FortuneResponse{}, ErrEmptyFortune
	}

	return resp, nil
}
