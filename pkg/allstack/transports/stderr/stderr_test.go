package stderr

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/tech-sea-sa/allstack-go/pkg/allstack"
)

func TestStderr_ImplementsTransportInterface(t *testing.T) {
	var _ allstack.Transport = New()
}

func captureStderr(fn func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fn()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	os.Stderr = old
	return buf.String()
}

func sampleEvent() *allstack.Event {
	return &allstack.Event{
		ErrorMessage:  "nil pointer dereference",
		ErrorType:     "runtime.Error",
		ErrorLevel:    allstack.LevelError,
		ErrorSeverity: allstack.SeverityHigh,
		Environment:   "production",
		Component:     "checkout",
		Timestamp:     "2025-03-01T10:30:00",
		Fingerprint:   "abc123def456",
		StackTrace: allstack.StackTrace{
			{File: "/app/main.go", Line: 10, Function: "main.main"},
			{Raw: "#2 {main}"},
		},
	}
}

func TestStderr_Send_FormatsOutput(t *testing.T) {
	transport := New()
	event := sampleEvent()

	output := captureStderr(func() {
		transport.Send(context.Background(), event)
	})

	if !strings.Contains(output, "[ALLSTACK]") {
		t.Error("Output should contain [ALLSTACK] prefix")
	}
	if !strings.Contains(output, "ERROR") {
		t.Error("Output should contain the level")
	}
	if !strings.Contains(output, "runtime.Error") {
		t.Error("Output should contain the error type")
	}
	if !strings.Contains(output, "severity: high") {
		t.Error("Output should contain the severity")
	}
	if !strings.Contains(output, "checkout") {
		t.Error("Output should contain the component")
	}
	if !strings.Contains(output, "nil pointer dereference") {
		t.Error("Output should contain the message")
	}
	if !strings.Contains(output, "abc123def456") {
		t.Error("Output should contain the fingerprint")
	}
}

func TestStderr_Send_IncludesURL(t *testing.T) {
	transport := New()
	event := sampleEvent()
	event.URL = "http://localhost/users"

	output := captureStderr(func() {
		transport.Send(context.Background(), event)
	})

	if !strings.Contains(output, "http://localhost/users") {
		t.Error("Output should contain the URL")
	}
}

func TestStderr_WithVerbose_IncludesFrames(t *testing.T) {
	transport := New(WithVerbose())

	output := captureStderr(func() {
		transport.Send(context.Background(), sampleEvent())
	})

	if !strings.Contains(output, "/app/main.go(10): main.main") {
		t.Error("Verbose output should include parsed frames")
	}
	if !strings.Contains(output, "#2 {main}") {
		t.Error("Verbose output should include raw frames")
	}
}

func TestStderr_NonVerbose_ExcludesFrames(t *testing.T) {
	transport := New()

	output := captureStderr(func() {
		transport.Send(context.Background(), sampleEvent())
	})

	if strings.Contains(output, "/app/main.go") {
		t.Error("Non-verbose output should not include stack frames")
	}
}

func TestStderr_LevelFormatting(t *testing.T) {
	tests := []struct {
		level allstack.Level
		want  string
	}{
		{allstack.LevelWarning, "WARNING"},
		{allstack.LevelError, "ERROR"},
		{allstack.LevelCritical, "CRITICAL"},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			transport := New()
			event := sampleEvent()
			event.ErrorLevel = tt.level

			output := captureStderr(func() {
				transport.Send(context.Background(), event)
			})

			if !strings.Contains(output, tt.want) {
				t.Errorf("Output should contain %q for level %q", tt.want, tt.level)
			}
		})
	}
}

func TestStderr_Flush_ReturnsNil(t *testing.T) {
	if err := New().Flush(context.Background()); err != nil {
		t.Errorf("Flush returned error: %v", err)
	}
}

func TestStderr_Close_ReturnsNil(t *testing.T) {
	if err := New().Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}
