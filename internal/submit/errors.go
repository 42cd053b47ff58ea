package submit

import (
	"strings"

	"github.com/goccy/go-json"
)

// FallbackMessage is shown when a failure carries no usable message.
const FallbackMessage = "Failed to generate trip. Please try again."

// Error is a failed trip generation. StatusCode is 0 when no response was
// received. Message is ready to show to the user.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// NormalizeDetail extracts a human readable message from an error body.
//
// "detail" may be a string, a list of validation entries (strings or objects
// with "msg" or "message"), or a single such object. Bodies without a usable
// detail fall back to a top-level "message" or "error" string, then to
// FallbackMessage.
func NormalizeDetail(body []byte) string {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return FallbackMessage
	}

	if detail, ok := doc["detail"]; ok && truthy(detail) {
		switch d := detail.(type) {
		case string:
			return d
		case []any:
			var msgs []string
			for _, item := range d {
				if m := entryMessage(item); m != "" {
					msgs = append(msgs, m)
				}
			}
			if len(msgs) == 0 {
				return FallbackMessage
			}
			return strings.Join(msgs, ". ")
		case map[string]any:
			if m := entryMessage(d); m != "" {
				return m
			}
			return FallbackMessage
		}
	}

	if m, ok := doc["message"].(string); ok && m != "" {
		return m
	}
	if e, ok := doc["error"]; ok && truthy(e) {
		if s, ok := e.(string); ok {
			return s
		}
	}
	return FallbackMessage
}

func entryMessage(v any) string {
	switch e := v.(type) {
	case string:
		return e
	case map[string]any:
		for _, key := range []string{"msg", "message"} {
			if s, ok := e[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	}
	return true
}
