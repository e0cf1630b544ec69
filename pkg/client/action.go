package client

import (
	"context"
	"sync"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Action tracks one AI button: idle -> loading -> success | error. Each Run
// takes a sequence number; a response that arrives after a newer Run started
// is dropped, so the last request wins rather than the last response.
type Action struct {
	mu     sync.Mutex
	seq    uint64
	state  State
	result string
	err    error
}

func NewAction() *Action {
	return &Action{state: StateIdle}
}

// Run calls fn and records its outcome unless a later Run superseded it. It
// reports whether the outcome was applied.
func (a *Action) Run(ctx context.Context, fn func(context.Context) (string, error)) bool {
	a.mu.Lock()
	a.seq++
	mine := a.seq
	a.state = StateLoading
	a.err = nil
	a.mu.Unlock()

	result, err := fn(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if mine != a.seq {
		return false
	}
	if err != nil {
		a.state = StateError
		a.err = err
		return true
	}
	a.state = StateSuccess
	a.result = result
	return true
}

// Reset returns to idle and invalidates any request still in flight.
func (a *Action) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	a.state = StateIdle
	a.result = ""
	a.err = nil
}

func (a *Action) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Result is the text of the last applied success. It is kept while a newer
// request is loading.
func (a *Action) Result() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

func (a *Action) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}
