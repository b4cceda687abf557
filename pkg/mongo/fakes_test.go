package mongo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

type fakeConn struct {
	mu       sync.Mutex
	state    ReadyState
	pingErr  error
	closeErr error

	pings    atomic.Int32
	closes   atomic.Int32
	releases atomic.Int32
}

func newFakeConn() *fakeConn {
	return &fakeConn{state: StateConnected}
}

func (c *fakeConn) Ping(context.Context) error {
	c.pings.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pingErr
}

func (c *fakeConn) Close(context.Context) error {
	c.closes.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closeErr != nil {
		return c.closeErr
	}
	c.state = StateDisconnected
	return nil
}

func (c *fakeConn) release(context.Context) {
	c.releases.Add(1)
}

func (c *fakeConn) ReadyState() ReadyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *fakeConn) Database(string) *mongo.Database { return nil }

func (c *fakeConn) setState(s ReadyState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// fakeDialer fails the first failFirst attempts, then hands out conns.
type fakeDialer struct {
	calls     atomic.Int32
	failFirst int32
	err       error
	gate      chan struct{}
	started   chan struct{}

	mu       sync.Mutex
	conns    []*fakeConn
	notify   func(Event)
	notifies []func(Event) // one per Dial call
}

var errDial = errors.New("connection refused")

func (d *fakeDialer) Dial(ctx context.Context, cfg Config, notify func(Event)) (Conn, error) {
	n := d.calls.Add(1)
	if d.started != nil {
		select {
		case d.started <- struct{}{}:
		default:
		}
	}
	if d.gate != nil {
		<-d.gate
	}

	d.mu.Lock()
	d.notify = notify
	d.notifies = append(d.notifies, notify)
	d.mu.Unlock()

	if n <= d.failFirst {
		if d.err != nil {
			return nil, d.err
		}
		return nil, errDial
	}

	conn := newFakeConn()
	d.mu.Lock()
	d.conns = append(d.conns, conn)
	d.mu.Unlock()
	notify(Event{Type: EventConnected})
	return conn, nil
}

func (d *fakeDialer) emit(ev Event) {
	d.mu.Lock()
	notify := d.notify
	d.mu.Unlock()
	notify(ev)
}

// notifyFor returns the notify func handed to the n-th Dial call, from 1.
func (d *fakeDialer) notifyFor(n int) func(Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notifies[n-1]
}

func (d *fakeDialer) lastConn() *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.conns) == 0 {
		return nil
	}
	return d.conns[len(d.conns)-1]
}

func testConfig(attempts int) Config {
	return Config{
		URI:           "mongodb://localhost:27017",
		Database:      "app",
		RetryAttempts: attempts,
		RetryDelay:    time.Millisecond,
	}
}

func newTestManager(d Dialer, opts ...Option) *Manager {
	opts = append([]Option{
		WithDialer(d),
		WithConfigResolver(func() (Config, error) { return testConfig(3), nil }),
	}, opts...)
	return NewManager(opts...)
}
