package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestLFallsBackToGlobal(t *testing.T) {
	if got := L(context.Background()); got != zap.L() {
		t.Errorf("Expected global logger, got %v", got)
	}
}

func TestNewContextRoundTrip(t *testing.T) {
	l := zap.NewNop().Named("test")
	ctx := NewContext(context.Background(), l)
	if got := L(ctx); got != l {
		t.Errorf("Expected logger from context, got %v", got)
	}
}
