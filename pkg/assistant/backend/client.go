// Package backend is the thin HTTP adapter for the external email/calendar
// service. Calls are fail-fast: errors are reported to the caller, never
// retried, so a conversational turn is never stalled behind backoff.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vango-go/assistant-core/pkg/core"
)

const defaultTimeout = 3 * time.Second

// Client owns the HTTP exchange lifetime; no state survives a call.
type Client struct {
	baseURL    string
	authToken  string
	timezone   string
	httpClient *http.Client
}

// NewClient builds a backend client. The timezone label is attached to
// every calendar timestamp and is fixed per deployment.
func NewClient(baseURL, authToken, timezone string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		authToken:  strings.TrimSpace(authToken),
		timezone:   strings.TrimSpace(timezone),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateEventParams are the validated arguments for event creation.
// Attendees are bare email addresses; the wire representation is built here.
type CreateEventParams struct {
	Summary     string
	StartTime   string
	EndTime     string
	Location    string
	Description string
	Attendees   []string
}

// UpdateEventParams are the validated arguments for event edits.
type UpdateEventParams struct {
	EventID   string
	Summary   string
	StartTime string
	EndTime   string
}

// ListEmailsByLabel fetches emails filtered by label. The payload is
// returned exactly as the service produced it.
func (c *Client) ListEmailsByLabel(ctx context.Context, label string) (json.RawMessage, *core.Error) {
	return c.do(ctx, http.MethodGet, "/emails?label="+url.QueryEscape(label), nil)
}

// ReplyToEmail sends a reply to an existing message.
func (c *Client) ReplyToEmail(ctx context.Context, messageID, to, body string) (json.RawMessage, *core.Error) {
	return c.do(ctx, http.MethodPost, "/emails/reply", map[string]any{
		"message_id": messageID,
		"to":         to,
		"body":       body,
	})
}

// TodayEvents fetches the calendar events for the current day.
func (c *Client) TodayEvents(ctx context.Context) (json.RawMessage, *core.Error) {
	return c.do(ctx, http.MethodGet, "/calendar/events", nil)
}

// CreateEvent creates a calendar event.
func (c *Client) CreateEvent(ctx context.Context, params CreateEventParams) (json.RawMessage, *core.Error) {
	return c.do(ctx, http.MethodPost, "/calendar/events", map[string]any{
		"summary":     params.Summary,
		"start":       c.eventTime(params.StartTime),
		"end":         c.eventTime(params.EndTime),
		"location":    params.Location,
		"description": params.Description,
		"attendees":   attendeeObjects(params.Attendees),
	})
}

// UpdateEvent edits an existing calendar event.
func (c *Client) UpdateEvent(ctx context.Context, params UpdateEventParams) (json.RawMessage, *core.Error) {
	return c.do(ctx, http.MethodPut, "/calendar/events/"+url.PathEscape(params.EventID), map[string]any{
		"summary": params.Summary,
		"start":   c.eventTime(params.StartTime),
		"end":     c.eventTime(params.EndTime),
	})
}

func (c *Client) eventTime(dateTime string) map[string]string {
	return map[string]string{
		"dateTime": dateTime,
		"timeZone": c.timezone,
	}
}

// attendeeObjects normalizes a bare address list into the service's
// expected {"email": ...} representation. Callers pass addresses only;
// display-name composites are rejected earlier, at validation.
func attendeeObjects(attendees []string) []map[string]string {
	out := make([]map[string]string, 0, len(attendees))
	for _, addr := range attendees {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		out = append(out, map[string]string{"email": addr})
	}
	return out
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, *core.Error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, core.NewBackendError("encode_failed", fmt.Sprintf("marshal request: %v", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, core.NewBackendError("bad_request", fmt.Sprintf("create request: %v", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.NewBackendError("transport_failed", fmt.Sprintf("%s %s: %v", method, path, err))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, core.NewBackendError("read_failed", fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serviceError(resp.StatusCode, payload)
	}

	if !json.Valid(payload) {
		return nil, core.NewBackendError("decode_failed", "service returned invalid JSON")
	}
	return json.RawMessage(payload), nil
}

func serviceError(status int, body []byte) *core.Error {
	code := fmt.Sprintf("http_%d", status)
	var decoded struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil {
		if strings.TrimSpace(decoded.Code) != "" {
			code = strings.TrimSpace(decoded.Code)
		}
		if msg := strings.TrimSpace(decoded.Message); msg != "" {
			return core.NewBackendError(code, msg)
		}
		if msg := strings.TrimSpace(decoded.Error); msg != "" {
			return core.NewBackendError(code, msg)
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 240 {
		msg = msg[:240]
	}
	if msg == "" {
		msg = "service request failed"
	}
	return core.NewBackendError(code, msg)
}
