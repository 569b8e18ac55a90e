package bgtask

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackgroundTask_ShutdownWaitsForTasks(t *testing.T) {
	b := New()
	done := make(chan struct{})
	b.Run(func(shutdownCtx context.Context) {
		<-shutdownCtx.Done()
		close(done)
	})
	assert.Equal(t, 1, b.Tasks())

	assert.NoError(t, b.Shutdown(time.Second))
	select {
	case <-done:
	default:
		t.Fatal("task must observe the cancelled context before Shutdown returns")
	}
	assert.Equal(t, 0, b.Tasks())
}

func TestBackgroundTask_ShutdownTimeout(t *testing.T) {
	b := New()
	release := make(chan struct{})
	defer close(release)
	b.Run(func(context.Context) { <-release }) // ignores cancellation

	err := b.Shutdown(20 * time.Millisecond)
	assert.Error(t, err)
}

func TestBackgroundTask_RecoversPanic(t *testing.T) {
	b := New()
	got := make(chan any, 1)
	b.Run(func(context.Context) { panic("boom") }, func(r any) { got <- r })

	select {
	case r := <-got:
		assert.Equal(t, "boom", r)
	case <-time.After(time.Second):
		t.Fatal("panic handler was not called")
	}
	assert.NoError(t, b.Shutdown(time.Second))
}

func TestGet_IsSingleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}
