package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vango-go/assistant-core/pkg/core"
)

func TestListEmailsByLabel_PassthroughPayload(t *testing.T) {
	fixture := `{"emails":[{"email_id":"199697489918bc26","snippet":"Hi im testing","subject":"Testing only","from":"leykwan132@gmail.com"}],"count":1}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("auth header=%q", got)
		}
		if got := r.URL.Query().Get("label"); got != "Work" {
			t.Fatalf("label=%q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixture))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "tok", "Asia/Kuala_Lumpur", 0)
	payload, err := c.ListEmailsByLabel(context.Background(), "Work")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if string(payload) != fixture {
		t.Fatalf("payload=%s, want fixture unchanged", payload)
	}
}

func TestReplyToEmail_SendsExpectedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails/reply" {
			t.Fatalf("method=%s path=%s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var decoded map[string]string
		if err := json.Unmarshal(body, &decoded); err != nil {
			t.Fatalf("body=%s: %v", body, err)
		}
		if decoded["message_id"] != "199697489918bc26" || decoded["to"] != "leykwan132@gmail.com" {
			t.Fatalf("decoded=%v", decoded)
		}
		_, _ = w.Write([]byte(`{"status":"sent"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "tok", "Asia/Kuala_Lumpur", 0)
	if _, err := c.ReplyToEmail(context.Background(), "199697489918bc26", "leykwan132@gmail.com", "Hello"); err != nil {
		t.Fatalf("err=%v", err)
	}
}

func TestCreateEvent_NormalizesAttendeesAndTimezone(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var decoded struct {
			Start     map[string]string   `json:"start"`
			Attendees []map[string]string `json:"attendees"`
		}
		if err := json.NewDecoder(r.Body).Decode(&decoded); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if decoded.Start["timeZone"] != "Asia/Kuala_Lumpur" {
			t.Fatalf("timeZone=%q", decoded.Start["timeZone"])
		}
		if len(decoded.Attendees) != 1 || decoded.Attendees[0]["email"] != "feliciayin197@gmail.com" {
			t.Fatalf("attendees=%v", decoded.Attendees)
		}
		_, _ = w.Write([]byte(`{"status":"created"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "tok", "Asia/Kuala_Lumpur", 0)
	_, err := c.CreateEvent(context.Background(), CreateEventParams{
		Summary:   "Test Event",
		StartTime: "2025-09-22T09:00:00+08:00",
		EndTime:   "2025-09-22T10:00:00+08:00",
		Attendees: []string{"feliciayin197@gmail.com"},
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
}

func TestUpdateEvent_UsesPutWithEventID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/calendar/events/evt_123" {
			t.Fatalf("method=%s path=%s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"updated"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "tok", "Asia/Kuala_Lumpur", 0)
	_, err := c.UpdateEvent(context.Background(), UpdateEventParams{
		EventID:   "evt_123",
		Summary:   "Test Event",
		StartTime: "2025-09-22T09:00:00+08:00",
		EndTime:   "2025-09-22T10:00:00+08:00",
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
}

func TestDo_Non2xxBecomesBackendError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"code":"gmail_unavailable","message":"upstream down"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "tok", "Asia/Kuala_Lumpur", 0)
	_, err := c.TodayEvents(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Type != core.ErrBackend || err.Code != "gmail_unavailable" {
		t.Fatalf("err=%+v", err)
	}
}

func TestDo_Non2xxWithoutStructuredBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such event"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "tok", "Asia/Kuala_Lumpur", 0)
	_, err := c.TodayEvents(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Code != "http_404" {
		t.Fatalf("code=%q, want http_404", err.Code)
	}
}

func TestDo_TimeoutSurfacesAsTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "tok", "Asia/Kuala_Lumpur", 10*time.Millisecond)
	_, err := c.TodayEvents(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if err.Code != "transport_failed" {
		t.Fatalf("code=%q, want transport_failed", err.Code)
	}
}

func TestDo_InvalidJSONSuccessBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "tok", "Asia/Kuala_Lumpur", 0)
	if _, err := c.TodayEvents(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
