package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

// jobStatus is the subset of the research job payload the poller inspects.
type jobStatus struct {
	RequestID string          `json:"request_id"`
	Status    string          `json:"status"`
	Output    json.RawMessage `json:"output,omitempty"`
}

// Research runs the long-running research workflow: create a remote job,
// then poll its status on a fixed interval until it completes, fails, or
// the wait budget elapses. The budget bounds total wall-clock wait; on
// expiry the remote job is abandoned locally, never canceled remotely.
func (c *Client) Research(ctx context.Context, spec ResearchSpec) (*Result, error) {
	resolved, err := spec.resolve(c.cfg.Defaults)
	if err != nil {
		return nil, err
	}

	body, err := c.post(ctx, "/research", resolved.body())
	if err != nil {
		return nil, err
	}
	start := time.Now()

	st := parseJobStatus(body)
	// Some models answer synchronously; without a job id or a pending
	// status the create response is already the final result.
	if st.RequestID == "" || !isPending(st.Status) {
		return &Result{Body: body}, nil
	}

	budget := time.Duration(*resolved.TimeoutSeconds) * time.Second
	if c.budgetOverride > 0 {
		budget = c.budgetOverride
	}

	for {
		if time.Since(start) >= budget {
			return nil, &ResearchTimeoutError{RequestID: st.RequestID, Waited: time.Since(start)}
		}

		select {
		case <-ctx.Done():
			return nil, &TransportError{Op: "/research poll", Err: ctx.Err()}
		case <-time.After(c.cfg.PollInterval):
		}
		if time.Since(start) >= budget {
			return nil, &ResearchTimeoutError{RequestID: st.RequestID, Waited: time.Since(start)}
		}

		body, err = c.get(ctx, "/research/"+st.RequestID)
		if err != nil {
			return nil, err
		}

		poll := parseJobStatus(body)
		switch {
		case isFailed(poll.Status):
			return nil, &ResearchFailedError{RequestID: st.RequestID, Payload: body}
		case poll.Status == "completed" || outputPresent(poll.Output):
			return &Result{Body: body}, nil
		}
	}
}

func parseJobStatus(body []byte) jobStatus {
	var st jobStatus
	// A malformed body leaves the zero status, which reads as terminal.
	_ = json.Unmarshal(body, &st)
	return st
}

func isPending(status string) bool {
	switch status {
	case "pending", "queued", "running", "in_progress":
		return true
	}
	return false
}

func isFailed(status string) bool {
	switch status {
	case "failed", "error", "cancelled":
		return true
	}
	return false
}

// outputPresent reports whether the output field carries actual content.
func outputPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", `""`, "{}", "[]":
		return false
	}
	return true
}
