package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NetworkError wraps a transport failure where no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError wraps a non-2xx response from the drafting service.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("service error: status=%d", e.Status)
	}
	return fmt.Sprintf("service error: status=%d detail=%s", e.Status, e.Detail)
}

// decodeDetail extracts a human-readable message from an error response body.
// The service returns {"detail": ...} where detail is either a string or a
// list of field errors; lists are joined into one message.
func decodeDetail(body []byte) string {
	var wrapper struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil || len(wrapper.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}
	var s string
	if err := json.Unmarshal(wrapper.Detail, &s); err == nil {
		return s
	}
	var items []json.RawMessage
	if err := json.Unmarshal(wrapper.Detail, &items); err == nil {
		var parts []string
		for _, item := range items {
			var fieldErr struct {
				Msg string `json:"msg"`
			}
			if err := json.Unmarshal(item, &fieldErr); err == nil && fieldErr.Msg != "" {
				parts = append(parts, fieldErr.Msg)
				continue
			}
			var plain string
			if err := json.Unmarshal(item, &plain); err == nil {
				parts = append(parts, plain)
				continue
			}
			parts = append(parts, strings.TrimSpace(string(item)))
		}
		return strings.Join(parts, ", ")
	}
	return strings.TrimSpace(string(wrapper.Detail))
}
