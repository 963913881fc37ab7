package servicemgr

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestManager_Spawn_CancelsOnTaskError(t *testing.T) {
	m := New(context.Background())

	otherStarted := make(chan struct{})
	otherCancelled := make(chan struct{})
	m.Spawn("other", func(ctx context.Context) error {
		close(otherStarted)
		<-ctx.Done()
		close(otherCancelled)
		return nil
	})

	<-otherStarted

	m.Spawn("failing", func(ctx context.Context) error {
		return errors.New("boom")
	})

	select {
	case <-otherCancelled:
	case <-time.After(time.Second):
		t.Fatal("a failing task did not cancel the manager's context for other tasks")
	}
}

func TestManager_Stop_WaitsForTasksToExit(t *testing.T) {
	m := New(context.Background())

	exited := false
	m.Spawn("task", func(ctx context.Context) error {
		<-ctx.Done()
		exited = true
		return nil
	})

	m.Stop()

	if !exited {
		t.Error("Stop() returned before the tracked task observed cancellation")
	}
}

func TestManager_Context_IsCancelledAfterStop(t *testing.T) {
	m := New(context.Background())
	m.Stop()

	select {
	case <-m.Context().Done():
	default:
		t.Error("Context() was not cancelled after Stop()")
	}
}
