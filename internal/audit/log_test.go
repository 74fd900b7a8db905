package audit

import (
	"context"
	"testing"
)

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatal("empty event name accepted")
	}
	if err := LogEvent(context.Background(), "order_created", map[string]any{"order_id": "o1"}); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}
}

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := requestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("request id = %q", got)
	}
	// Blank ids are not attached.
	ctx = WithRequestID(context.Background(), "  ")
	if got := requestIDFromContext(ctx); got != "" {
		t.Fatalf("blank id stored as %q", got)
	}
}
