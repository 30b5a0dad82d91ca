package nethttp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/tech-sea-sa/allstack-go/pkg/allstack"
)

// captureTransport collects events for inspection.
type captureTransport struct {
	mu     sync.Mutex
	events []*allstack.Event
}

func (c *captureTransport) Send(ctx context.Context, event *allstack.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *captureTransport) Flush(ctx context.Context) error { return nil }

func (c *captureTransport) Close() error { return nil }

func (c *captureTransport) getEvents() []*allstack.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]*allstack.Event, len(c.events))
	copy(result, c.events)
	return result
}

func newCaptureClient(t *testing.T) (*allstack.Client, *captureTransport) {
	t.Helper()
	transport := &captureTransport{}
	client, err := allstack.NewClient(
		allstack.Config{APIKey: "test-key", BaseURL: "http://localhost:0"},
		allstack.WithTransport(transport),
		allstack.WithLogger(slog.New(slog.DiscardHandler)),
	)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client, transport
}

func TestMiddleware_CapturesRequest(t *testing.T) {
	client, transport := newCaptureClient(t)

	handler := Middleware(client)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "http://example.com/users?page=2", nil)
	req.Header.Set("User-Agent", "curl/8.0")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	events := transport.getEvents()
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.ErrorType != allstack.ErrorTypeHTTPRequest {
		t.Errorf("ErrorType = %q, want %q", event.ErrorType, allstack.ErrorTypeHTTPRequest)
	}
	if event.URL != "http://example.com/users?page=2" {
		t.Errorf("URL = %q", event.URL)
	}
	if event.ErrorMessage != "GET http://example.com/users?page=2" {
		t.Errorf("ErrorMessage = %q", event.ErrorMessage)
	}
	if event.UserAgent != "curl/8.0" {
		t.Errorf("UserAgent = %q", event.UserAgent)
	}
	if event.ResponseTime < 0 {
		t.Errorf("ResponseTime = %v, want non-negative", event.ResponseTime)
	}
	if event.AdditionalData["method"] != "GET" {
		t.Errorf("additionalData method = %v", event.AdditionalData["method"])
	}
}

func TestMiddleware_RedactsCapturedBody(t *testing.T) {
	client, transport := newCaptureClient(t)

	handler := Middleware(client)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	body := strings.NewReader(`{"password":"abc123","age":"30"}`)
	req := httptest.NewRequest("POST", "http://example.com/signup", body)
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	events := transport.getEvents()
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}

	captured, ok := events[0].AdditionalData["body"].(map[string]any)
	if !ok {
		t.Fatalf("body = %T, want map", events[0].AdditionalData["body"])
	}
	if captured["password"] != allstack.Redacted {
		t.Errorf("password = %v, want redacted", captured["password"])
	}
	if captured["age"] != int64(30) {
		t.Errorf("age = %v (%T), want int64(30)", captured["age"], captured["age"])
	}
}

func TestMiddleware_HandlerSeesFullBody(t *testing.T) {
	client, _ := newCaptureClient(t)

	const payload = `{"password":"abc123","age":"30"}`
	var seen string
	handler := Middleware(client)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Handler failed to read body: %v", err)
		}
		seen = string(data)
	}))

	req := httptest.NewRequest("POST", "http://example.com/signup", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != payload {
		t.Errorf("Handler saw body %q, want the original payload", seen)
	}
}

func TestMiddleware_PanicCapturedAndRepanics(t *testing.T) {
	client, transport := newCaptureClient(t)

	handler := Middleware(client)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	req := httptest.NewRequest("GET", "http://example.com/boom", nil)
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}()

	if recovered != "kaboom" {
		t.Errorf("Recovered = %v, want the original panic value re-raised", recovered)
	}

	events := transport.getEvents()
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].ErrorMessage != "panic: kaboom" {
		t.Errorf("ErrorMessage = %q", events[0].ErrorMessage)
	}
	if events[0].Category != "panic" {
		t.Errorf("Category = %q, want panic", events[0].Category)
	}
}

func TestMiddleware_FilterSkipsCapture(t *testing.T) {
	client, transport := newCaptureClient(t)

	handler := Middleware(client, WithFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz"
	}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "http://example.com/healthz", nil))
	if got := len(transport.getEvents()); got != 0 {
		t.Fatalf("Filtered request should not be captured, got %d events", got)
	}

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "http://example.com/users", nil))
	if got := len(transport.getEvents()); got != 1 {
		t.Errorf("Unfiltered request should be captured, got %d events", got)
	}
}
