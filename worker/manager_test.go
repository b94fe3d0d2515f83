package worker

import (
	"context"
	"errors"
	"testing"
	"time"
)

type funcWorker func(ctx context.Context) error

func (f funcWorker) Start(ctx context.Context) error { return f(ctx) }

func TestManagerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	m := NewManager(funcWorker(func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return nil
	}))
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop")
	}
	<-stopped
}

func TestManagerPropagatesWorkerError(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager(
		funcWorker(func(ctx context.Context) error { return boom }),
		funcWorker(func(ctx context.Context) error { <-ctx.Done(); return nil }),
	)
	done := make(chan error, 1)
	go func() { done <- m.Start(context.Background()) }()
	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want boom", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not return after worker failure")
	}
}
