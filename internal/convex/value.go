package convex

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// DecodeValue converts a Convex-encoded JSON value into plain Go values.
//
// Objects become map[string]any, arrays []any, numbers float64. The special
// single-key objects {"$integer": b64}, {"$float": b64} and {"$bytes": b64}
// become int64, float64 and []byte respectively. An empty input decodes to nil.
func DecodeValue(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return decode(v)
}

func decode(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 1 {
			for k, inner := range t {
				if strings.HasPrefix(k, "$") {
					if s, ok := inner.(string); ok {
						return decodeSpecial(k, s)
					}
				}
			}
		}
		out := make(map[string]any, len(t))
		for k, inner := range t {
			d, err := decode(inner)
			if err != nil {
				return nil, err
			}
			out[k] = d
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			d, err := decode(inner)
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	default:
		return v, nil
	}
}

func decodeSpecial(key, b64 string) (any, error) {
	switch key {
	case "$integer", "$float":
		b, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		if len(b) != 8 {
			return nil, fmt.Errorf("decode %s: expected 8 bytes, got %d", key, len(b))
		}
		bits := binary.LittleEndian.Uint64(b)
		if key == "$integer" {
			return int64(bits), nil
		}
		return math.Float64frombits(bits), nil
	case "$bytes":
		b, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("decode $bytes: %w", err)
		}
		return b, nil
	default:
		// Unknown markers are passed through untouched.
		return map[string]any{key: b64}, nil
	}
}

// LogLine is one console call made by a function during execution.
type LogLine struct {
	Level     string
	Messages  []string
	Truncated bool
}

// Text joins the messages the way a console would print them.
func (l LogLine) Text() string {
	return strings.Join(l.Messages, " ")
}

// parseLogLine accepts both the structured form
// {"level":"INFO","messages":["..."],"isTruncated":false} and the legacy
// string form "[LOG] 'message'".
func parseLogLine(raw json.RawMessage) (LogLine, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		line := LogLine{Level: "LOG"}
		if strings.HasPrefix(s, "[") {
			if end := strings.Index(s, "]"); end > 0 {
				line.Level = s[1:end]
				s = strings.TrimSpace(s[end+1:])
			}
		}
		line.Messages = []string{s}
		return line, true
	}

	var structured struct {
		Level       string   `json:"level"`
		Messages    []string `json:"messages"`
		IsTruncated bool     `json:"isTruncated"`
	}
	if err := json.Unmarshal(raw, &structured); err != nil {
		return LogLine{}, false
	}
	return LogLine{
		Level:     structured.Level,
		Messages:  structured.Messages,
		Truncated: structured.IsTruncated,
	}, true
}
