package skystack

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrSessionClosed is returned when an invocation races session teardown.
var ErrSessionClosed = errors.New("skystack: session is closed")

// ExecHandle is an opaque, reusable execution context created by a
// ConnProvider. The cache and dispatcher never look inside it.
type ExecHandle any

// ConnProvider opens and closes execution handles. Open is expected to be
// expensive (session negotiation with a module runner), which is why handles
// are cached per fingerprint for the life of a session.
type ConnProvider interface {
	Open(ctx context.Context, fp Fingerprint) (ExecHandle, error)
	Close(ctx context.Context, handle ExecHandle) error
}

// Fingerprint identifies a connection target. Two invocations with equal
// fingerprints share one execution handle within a session.
type Fingerprint struct {
	// Inventory identifies the target host set.
	Inventory string
	// Runner identifies the module-execution runtime.
	Runner string
	// Region is the cloud region the handle is bound to.
	Region string
}

// String renders the fingerprint for logs and events.
func (fp Fingerprint) String() string {
	return fmt.Sprintf("%s|%s|%s", fp.Inventory, fp.Runner, fp.Region)
}

// gateEntry tracks one fingerprint's handle. The creator closes ready once
// the open attempt finished, successfully or not.
type gateEntry struct {
	ready  chan struct{}
	handle ExecHandle
	err    error
}

// GateCache is the session-scoped execution cache. It guarantees at most one
// provider Open per fingerprint, lets unrelated fingerprints open in
// parallel, and blocks teardown until every holder has released its handle.
type GateCache struct {
	provider ConnProvider
	emit     EventHandler

	mu      sync.Mutex
	entries map[Fingerprint]*gateEntry
	closed  bool

	// holders counts open attempts in progress plus handles currently held
	// by invocations; ReleaseAll waits on it before closing anything.
	holders sync.WaitGroup
}

// NewGateCache builds a cache backed by the given connection provider.
// emit may be nil.
func NewGateCache(provider ConnProvider, emit EventHandler) *GateCache {
	if emit == nil {
		emit = func(Event) {}
	}
	return &GateCache{
		provider: provider,
		emit:     emit,
		entries:  make(map[Fingerprint]*gateEntry),
	}
}

// Acquire returns the execution handle for fp, opening it on first use. The
// returned release function must be called once the invocation no longer
// uses the handle; it is safe to call more than once.
//
// Concurrent Acquire calls for the same fingerprint observe a single Open:
// the first caller becomes the creator and everyone else waits on the entry.
// A failed Open is reported to all current waiters and then forgotten, so a
// later invocation may try again.
func (c *GateCache) Acquire(ctx context.Context, fp Fingerprint) (ExecHandle, func(), error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, nil, ErrSessionClosed
	}
	entry, found := c.entries[fp]
	if !found {
		entry = &gateEntry{ready: make(chan struct{})}
		c.entries[fp] = entry
		c.holders.Add(1)
		c.mu.Unlock()
		return c.open(ctx, fp, entry)
	}
	c.holders.Add(1)
	c.mu.Unlock()

	select {
	case <-entry.ready:
	case <-ctx.Done():
		c.holders.Done()
		return nil, nil, ctx.Err()
	}
	if entry.err != nil {
		c.holders.Done()
		return nil, nil, entry.err
	}
	c.emit(NewEvent(EventGateHit, "").WithPayload("fingerprint", fp.String()))
	return entry.handle, c.releaseFunc(), nil
}

// open performs the single provider Open for a fresh entry. The caller has
// already registered as a holder.
func (c *GateCache) open(ctx context.Context, fp Fingerprint, entry *gateEntry) (ExecHandle, func(), error) {
	handle, err := c.provider.Open(ctx, fp)

	c.mu.Lock()
	if err != nil {
		entry.err = err
		delete(c.entries, fp)
		close(entry.ready)
		c.mu.Unlock()
		c.holders.Done()
		return nil, nil, err
	}
	if c.closed {
		// Teardown started while we were opening. ReleaseAll's snapshot will
		// not see this handle, so close it ourselves and publish the error,
		// not the handle, so waiters cannot use a handle being torn down.
		entry.err = ErrSessionClosed
		delete(c.entries, fp)
		close(entry.ready)
		c.mu.Unlock()

		closeErr := c.provider.Close(context.WithoutCancel(ctx), handle)
		c.holders.Done()
		if closeErr != nil {
			return nil, nil, errors.Join(ErrSessionClosed, closeErr)
		}
		return nil, nil, ErrSessionClosed
	}
	entry.handle = handle
	close(entry.ready)
	c.mu.Unlock()

	c.emit(NewEvent(EventGateOpened, "").WithPayload("fingerprint", fp.String()))
	return handle, c.releaseFunc(), nil
}

// releaseFunc returns an idempotent holder release.
func (c *GateCache) releaseFunc() func() {
	var once sync.Once
	return func() {
		once.Do(c.holders.Done)
	}
}

// ReleaseAll tears down every opened handle exactly once. It first bars new
// Acquire calls, then waits for in-flight holders to release, then closes
// the handles. Calling it on a never-used cache is fine; calling it twice is
// a no-op.
func (c *GateCache) ReleaseAll(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.holders.Wait()

	c.mu.Lock()
	entries := c.entries
	c.entries = nil
	c.mu.Unlock()

	var errs []error
	for fp, entry := range entries {
		if entry.err != nil || entry.handle == nil {
			continue
		}
		if err := c.provider.Close(ctx, entry.handle); err != nil {
			errs = append(errs, fmt.Errorf("closing handle for %s: %w", fp, err))
		}
	}
	return errors.Join(errs...)
}
