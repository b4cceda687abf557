package mongo

import (
	"context"
	"errors"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/v2/event"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Conn is a live database handle owned by a Manager.
type Conn interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	ReadyState() ReadyState
	Database(name string) *mongo.Database
}

// Dialer opens a single connection. It performs exactly one attempt; retries
// belong to the Manager. notify receives lifecycle events for the returned Conn.
type Dialer interface {
	Dial(ctx context.Context, cfg Config, notify func(Event)) (Conn, error)
}

// DialFunc adapts a function to the Dialer interface.
type DialFunc func(ctx context.Context, cfg Config, notify func(Event)) (Conn, error)

func (f DialFunc) Dial(ctx context.Context, cfg Config, notify func(Event)) (Conn, error) {
	return f(ctx, cfg, notify)
}

// DriverDialer connects with the official MongoDB driver.
type DriverDialer struct{}

// Dial creates a client, verifies it with a ping and wires the topology
// monitor into notify. Nothing is reported before the ping succeeds.
func (DriverDialer) Dial(ctx context.Context, cfg Config, notify func(Event)) (Conn, error) {
	conn := &driverConn{notify: notify}
	conn.state.Store(int32(StateConnecting))

	client, err := mongo.Connect(clientOptions(cfg, conn.monitor()))
	if err != nil {
		conn.closed.Store(true)
		return nil, err
	}
	conn.client = client

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		conn.closed.Store(true)
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}
	conn.verify()

	return conn, nil
}

func clientOptions(cfg Config, monitor *event.ServerMonitor) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerMonitor(monitor)

	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}
	if cfg.Timeout > 0 {
		opts.SetTimeout(cfg.Timeout)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		opts.SetMinPoolSize(cfg.MinPoolSize)
	}
	if cfg.HasCredentials() {
		opts.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	return opts
}

// usableKinds are the server kinds that can serve operations.
var usableKinds = map[string]bool{
	"Standalone":   true,
	"RSPrimary":    true,
	"RSSecondary":  true,
	"Mongos":       true,
	"LoadBalancer": true,
}

// reachable reports whether any server of the topology can serve operations.
func reachable(desc event.TopologyDescription) bool {
	for _, srv := range desc.Servers {
		if usableKinds[srv.Kind] {
			return true
		}
	}
	return false
}

// driverConn tracks the ready state of a *mongo.Client from topology events.
// A single member going down does not disconnect the handle; only a topology
// without any usable server does.
type driverConn struct {
	client *mongo.Client
	notify func(Event)

	state    atomic.Int32
	verified atomic.Bool
	everUp   atomic.Bool
	closed   atomic.Bool
}

func (c *driverConn) monitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		TopologyDescriptionChanged: func(e *event.TopologyDescriptionChangedEvent) {
			if reachable(e.NewDescription) {
				c.up()
				return
			}
			c.down(ErrNoReachableServer)
		},
		ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
			c.fail(e.Failure)
		},
	}
}

// verify marks the handle usable once Dial's ping succeeded and reports it.
func (c *driverConn) verify() {
	c.state.Store(int32(StateConnected))
	c.everUp.Store(true)
	c.verified.Store(true)
	c.emit(Event{Type: EventConnected})
}

func (c *driverConn) silent() bool {
	return c.closed.Load() || !c.verified.Load()
}

func (c *driverConn) up() {
	if c.silent() {
		return
	}
	if ReadyState(c.state.Swap(int32(StateConnected))) == StateConnected {
		return
	}
	typ := EventConnected
	if c.everUp.Swap(true) {
		typ = EventReconnected
	}
	c.emit(Event{Type: typ})
}

func (c *driverConn) down(err error) {
	if c.silent() {
		return
	}
	if ReadyState(c.state.Swap(int32(StateDisconnected))) == StateConnected {
		c.emit(Event{Type: EventDisconnected, Err: err})
	}
}

// fail reports a heartbeat failure of one server without changing state.
func (c *driverConn) fail(err error) {
	if c.silent() {
		return
	}
	c.emit(Event{Type: EventError, Err: err})
}

func (c *driverConn) emit(ev Event) {
	if c.notify != nil {
		c.notify(ev)
	}
}

func (c *driverConn) Ping(ctx context.Context) error {
	if c.client == nil {
		return ErrNotConnected
	}
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *driverConn) Close(ctx context.Context) error {
	if c.client == nil {
		return ErrNotConnected
	}
	prev := ReadyState(c.state.Swap(int32(StateDisconnecting)))
	c.closed.Store(true)

	if err := c.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		c.closed.Store(false)
		c.state.Store(int32(prev))
		return err
	}
	c.state.Store(int32(StateDisconnected))
	return nil
}

// release stops event reporting and frees the client of a handle whose
// server was already lost. Errors are ignored: the handle is being dropped.
func (c *driverConn) release(ctx context.Context) {
	c.closed.Store(true)
	c.state.Store(int32(StateDisconnected))
	if c.client != nil {
		_ = c.client.Disconnect(ctx)
	}
}

func (c *driverConn) ReadyState() ReadyState {
	return ReadyState(c.state.Load())
}

func (c *driverConn) Database(name string) *mongo.Database {
	if c.client == nil {
		return nil
	}
	return c.client.Database(name)
}
