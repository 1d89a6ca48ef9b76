package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// maxErrorMessage caps how much of a raw error body ends up in a message.
const maxErrorMessage = 512

func encodePayload(promptField, prompt string, parameters map[string]interface{}) ([]byte, error) {
	payload := make(map[string]interface{}, len(parameters)+1)
	for k, v := range parameters {
		payload[k] = v
	}
	payload[promptField] = prompt
	return json.Marshal(payload)
}

// extractAnswer returns the first of fields holding a JSON string. A null
// value counts as absent.
func extractAnswer(raw []byte, fields []string) (string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	for _, field := range fields {
		value, ok := doc[field]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		var answer string
		if err := json.Unmarshal(value, &answer); err != nil {
			return "", fmt.Errorf("answer field %q is not a string", field)
		}
		return answer, nil
	}

	return "", fmt.Errorf("response has none of the answer fields %v", fields)
}

// errorMessage describes a non-2xx response. The API reports failures as
// {"statusCode": 500, "message": "..."}; anything else falls back to the
// raw body, then to the status text.
func errorMessage(status int, raw []byte) string {
	var apiErr struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}

	if text := strings.TrimSpace(string(raw)); text != "" {
		if len(text) > maxErrorMessage {
			cut := maxErrorMessage
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			text = text[:cut] + "..."
		}
		return text
	}

	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("unexpected status %d", status)
}
