package requestctx

import (
	"context"
	"testing"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestID(ctx); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
}

func TestRequestID_EmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	if WithRequestID(ctx, "") != ctx {
		t.Fatalf("expected same context for empty id")
	}
	if got := RequestID(ctx); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}
