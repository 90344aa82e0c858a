package dbctx

import (
	"context"
	"errors"
	"testing"
)

func TestDBWithoutTxOrFallback(t *testing.T) {
	_, err := Context{Ctx: context.Background()}.DB(nil)
	if !errors.Is(err, ErrNoActiveTx) {
		t.Fatalf("want ErrNoActiveTx, got %v", err)
	}
}

func TestContextNeverNil(t *testing.T) {
	if (Context{}).Context() == nil {
		t.Fatalf("Context() returned nil")
	}
}
