package webdriver

import (
	"encoding/json"
	"fmt"
)

// Request and response bodies of the W3C WebDriver protocol, limited to the commands the
// fixtures use.

type newSessionParams struct {
	Capabilities capabilitiesParams `json:"capabilities"`
}

type capabilitiesParams struct {
	AlwaysMatch map[string]interface{} `json:"alwaysMatch"`
}

type navigateParams struct {
	URL string `json:"url"`
}

// Every response wraps its payload in "value". Older remote ends also put the session ID
// at the top level.
type response struct {
	Value     json.RawMessage `json:"value"`
	SessionID string          `json:"sessionId,omitempty"`
}

type newSessionValue struct {
	SessionID    string                 `json:"sessionId"`
	Capabilities map[string]interface{} `json:"capabilities"`
}

// Status is the readiness information returned by the remote end's status resource.
type Status struct {
	Ready   bool   `json:"ready"`
	Message string `json:"message"`
}

// Error is a W3C error response from the remote end.
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Message    string `json:"message"`
	Stacktrace string `json:"stacktrace,omitempty"`
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("webdriver returned HTTP status %d", e.StatusCode)
	}
	return fmt.Sprintf("webdriver error %q (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}
