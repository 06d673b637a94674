package anim

import (
	"context"
	"sync"
)

// Completion resolves when an asynchronously applied sequence finishes or is
// canceled. It resolves from inside the sequencer's tick.
type Completion struct {
	once sync.Once
	done chan struct{}

	mu  sync.Mutex
	err error
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

func (c *Completion) resolve(err error) {
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		close(c.done)
	})
}

// Done is closed once the sequence has finished or was canceled.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Err returns ErrCanceled for a canceled sequence and nil otherwise.
func (c *Completion) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Wait blocks until the sequence completes or ctx is done.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
