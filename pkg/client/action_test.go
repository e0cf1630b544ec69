package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

func TestAction_Transitions(t *testing.T) {
	a := NewAction()
	assert.Equal(t, StateIdle, a.State())

	var during State
	applied := a.Run(context.Background(), func(context.Context) (string, error) {
		during = a.State()
		return "done", nil
	})

	assert.True(t, applied)
	assert.Equal(t, StateLoading, during)
	assert.Equal(t, StateSuccess, a.State())
	assert.Equal(t, "done", a.Result())

	a.Run(context.Background(), func(context.Context) (string, error) {
		return "", errors.New("boom")
	})
	assert.Equal(t, StateError, a.State())
	assert.EqualError(t, a.Err(), "boom")
	assert.Equal(t, "done", a.Result())

	a.Reset()
	assert.Equal(t, StateIdle, a.State())
	assert.NoError(t, a.Err())
}

func TestAction_IgnoresStaleResponse(t *testing.T) {
	a := NewAction()
	release := make(chan struct{})
	firstDone := make(chan bool)

	go func() {
		firstDone <- a.Run(context.Background(), func(context.Context) (string, error) {
			<-release
			return "stale", nil
		})
	}()

	// wait until the first call is loading
	assert.Eventually(t, func() bool { return a.State() == StateLoading }, timeout, tick)

	assert.True(t, a.Run(context.Background(), func(context.Context) (string, error) {
		return "fresh", nil
	}))
	close(release)

	assert.False(t, <-firstDone)
	assert.Equal(t, StateSuccess, a.State())
	assert.Equal(t, "fresh", a.Result())
}
