package db

import (
	"context"
	"sync"
)

// Conn is the handle for a connection attempt started by Connect. The
// attempt is made once; nothing retries it.
type Conn struct {
	done chan struct{}

	mu     sync.Mutex
	client Client
	err    error
	onFail []func(error)
}

// Connect starts dialing uri in the background and returns at once.
// A nil dial uses Open.
func Connect(ctx context.Context, uri string, dial Dialer) *Conn {
	if dial == nil {
		dial = Open
	}
	c := &Conn{done: make(chan struct{})}
	go c.run(ctx, uri, dial)
	return c
}

func (c *Conn) run(ctx context.Context, uri string, dial Dialer) {
	client, err := dial(ctx, uri)

	c.mu.Lock()
	c.client, c.err = client, err
	callbacks := c.onFail
	c.onFail = nil
	close(c.done)
	c.mu.Unlock()

	if err != nil {
		for _, fn := range callbacks {
			fn(err)
		}
	}
}

// Done is closed once the attempt has finished, successfully or not.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Wait blocks until the attempt finishes or ctx is done.
func (c *Conn) Wait(ctx context.Context) (Client, error) {
	select {
	case <-c.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client, c.err
}

// Err reports the attempt's error. It is nil while the attempt is pending.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// OnFailure registers fn to run if the attempt fails. If it already
// failed, fn runs immediately on the calling goroutine.
func (c *Conn) OnFailure(fn func(error)) {
	c.mu.Lock()
	select {
	case <-c.done:
		err := c.err
		c.mu.Unlock()
		if err != nil {
			fn(err)
		}
		return
	default:
	}
	c.onFail = append(c.onFail, fn)
	c.mu.Unlock()
}

// Close waits for the attempt and closes the client if one was opened.
func (c *Conn) Close(ctx context.Context) error {
	client, err := c.Wait(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil && err == ctxErr {
		return ctxErr
	}
	// A failed dial leaves nothing to close.
	if err != nil || client == nil {
		return nil
	}
	return client.Close(ctx)
}
