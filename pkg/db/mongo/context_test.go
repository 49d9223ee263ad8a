package mongo

import (
	"context"
	"testing"
	"time"
)

func TestWithTimeout_NoDeadline(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Second)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if until := time.Until(deadline); until > time.Second {
		t.Errorf("deadline too far: %s", until)
	}
}

func TestWithTimeout_KeepsEarlierDeadline(t *testing.T) {
	parent, parentCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer parentCancel()

	ctx, cancel := WithTimeout(parent, time.Minute)
	defer cancel()

	deadline, _ := ctx.Deadline()
	if until := time.Until(deadline); until > 50*time.Millisecond {
		t.Errorf("expected parent deadline to win, got %s", until)
	}
}
