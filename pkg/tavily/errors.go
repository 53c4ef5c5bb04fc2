package tavily

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Machine-readable error codes surfaced to tool callers and the CLI.
const (
	CodeMissingQuery    = "missing_query"
	CodeMissingURLs     = "missing_urls"
	CodeMissingURL      = "missing_url"
	CodeMissingInput    = "missing_input"
	CodeAPIError        = "tavily_api_error"
	CodeFetchError      = "tavily_fetch_error"
	CodeResearchFailed  = "tavily_research_failed"
	CodeResearchTimeout = "tavily_research_timeout"
)

// ValidationError reports a missing required parameter. It is the only
// parameter problem surfaced to the caller; invalid optional values are
// silently defaulted or clamped instead.
type ValidationError struct {
	Code  string
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s is required", e.Code, e.Field)
}

// APIError is a non-success HTTP response from the provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tavily api error: status %d: %s", e.Status, e.Message)
}

// TransportError covers network failures, timeouts, and unreadable responses.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("tavily %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResearchFailedError is a research job that reached a failed status.
// Payload holds the raw status response for diagnostics.
type ResearchFailedError struct {
	RequestID string
	Payload   json.RawMessage
}

func (e *ResearchFailedError) Error() string {
	return fmt.Sprintf("research job %s failed: %s", e.RequestID, e.Payload)
}

// ResearchTimeoutError is a research job abandoned after the wait budget
// elapsed. The remote job is left running; RequestID allows the caller to
// fetch it out-of-band.
type ResearchTimeoutError struct {
	RequestID string
	Waited    time.Duration
}

func (e *ResearchTimeoutError) Error() string {
	return fmt.Sprintf("research job %s still pending after %s", e.RequestID, e.Waited)
}

// ErrorCode maps an error from any operation to its machine-readable code.
func ErrorCode(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return CodeAPIError
	}
	var fe *ResearchFailedError
	if errors.As(err, &fe) {
		return CodeResearchFailed
	}
	var te *ResearchTimeoutError
	if errors.As(err, &te) {
		return CodeResearchTimeout
	}
	return CodeFetchError
}

// errorPayload is the wire shape of a failed tool result.
type errorPayload struct {
	Error     string          `json:"error"`
	Message   string          `json:"message"`
	Status    int             `json:"status,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	Detail    json.RawMessage `json:"detail,omitempty"`
}

// ErrorResult serializes err as the normalized JSON error object returned
// to tool callers.
func ErrorResult(err error) []byte {
	p := errorPayload{
		Error:   ErrorCode(err),
		Message: err.Error(),
	}
	var ae *APIError
	if errors.As(err, &ae) {
		p.Status = ae.Status
	}
	var fe *ResearchFailedError
	if errors.As(err, &fe) {
		p.RequestID = fe.RequestID
		p.Detail = fe.Payload
	}
	var te *ResearchTimeoutError
	if errors.As(err, &te) {
		p.RequestID = te.RequestID
	}
	out, marshalErr := json.Marshal(p)
	if marshalErr != nil {
		return []byte(`{"error":"` + CodeFetchError + `"}`)
	}
	return out
}
