package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/authservice/pkg/logger"
)

const connectKey = "connect"

// Manager owns the single shared connection handle of the process.
//
// Concurrent Connect calls share one in-flight attempt. Lifecycle events from
// the driver and results of Connect/Disconnect all go through the same mutex,
// so the connected flag has a single mutation point. Every dial attempt gets a
// generation number; events are only applied while their generation is the
// live handle or the attempt in progress.
type Manager struct {
	log     *slog.Logger
	dialer  Dialer
	resolve func() (Config, error)
	hooks   []func(Event)

	inflight singleflight.Group
	initOnce sync.Once

	mu         sync.RWMutex
	conn       Conn
	cfg        Config
	connected  bool
	connecting bool
	models     map[string]struct{}

	gen     uint64 // last generation handed to a dial attempt
	live    uint64 // generation of conn, 0 when there is none
	pending uint64 // generation of the attempt in progress
}

// releaser is implemented by handles that hold resources after the server
// was lost. Disconnect calls it instead of Close for such handles.
type releaser interface {
	release(ctx context.Context)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for lifecycle and retry logs.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithDialer replaces the driver-backed dialer.
func WithDialer(d Dialer) Option {
	return func(m *Manager) {
		if d != nil {
			m.dialer = d
		}
	}
}

// WithConfigResolver replaces ResolveConfig as the source of Config for Connect.
func WithConfigResolver(fn func() (Config, error)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.resolve = fn
		}
	}
}

// WithEventHook registers an observer invoked after every lifecycle event is applied.
func WithEventHook(fn func(Event)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.hooks = append(m.hooks, fn)
		}
	}
}

// NewManager creates a disconnected manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		log:     logger.Nop(),
		dialer:  DriverDialer{},
		resolve: ResolveConfig,
		models:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("mongo"))
	return m
}

// Connect returns the live connection, establishing it with a freshly
// resolved Config when needed.
func (m *Manager) Connect(ctx context.Context) (Conn, error) {
	return m.connect(ctx, nil)
}

// ConnectWithConfig is Connect with an explicit Config. If a connection is
// already live or being established, cfg is ignored.
func (m *Manager) ConnectWithConfig(ctx context.Context, cfg Config) (Conn, error) {
	return m.connect(ctx, &cfg)
}

func (m *Manager) connect(ctx context.Context, cfg *Config) (Conn, error) {
	if conn, ok := m.ready(); ok {
		return conn, nil
	}

	// The attempt is detached from the caller: cancelling ctx stops this
	// caller from waiting but never aborts the shared attempt.
	ch := m.inflight.DoChan(connectKey, func() (any, error) {
		return m.establish(context.WithoutCancel(ctx), cfg)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Conn), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) establish(ctx context.Context, explicit *Config) (Conn, error) {
	if conn, ok := m.ready(); ok {
		return conn, nil
	}

	var cfg Config
	if explicit != nil {
		cfg = *explicit
	} else {
		resolved, err := m.resolve()
		if err != nil {
			return nil, err
		}
		cfg = resolved
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	stale := m.conn
	m.conn = nil
	m.live = 0
	m.cfg = cfg
	m.connecting = true
	m.mu.Unlock()

	if stale != nil {
		if err := stale.Close(ctx); err != nil {
			m.log.WarnContext(ctx, "failed to close stale mongo connection", logger.Error(err))
		}
	}

	conn, gen, err := m.dialWithRetry(ctx, cfg)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.connecting = false
	m.pending = 0
	if err != nil {
		m.connected = false
		return nil, err
	}
	m.conn = conn
	m.live = gen
	m.connected = true
	return conn, nil
}

// dialWithRetry makes up to cfg.RetryAttempts attempts separated by a fixed
// cfg.RetryDelay.
func (m *Manager) dialWithRetry(ctx context.Context, cfg Config) (Conn, uint64, error) {
	target := cfg.Target()

	var lastErr error
	for attempt := 1; attempt <= cfg.RetryAttempts; attempt++ {
		gen := m.beginAttempt()
		start := time.Now()
		conn, err := m.dialer.Dial(ctx, cfg, m.notifier(gen))
		if err == nil {
			m.log.InfoContext(ctx, "mongo connected",
				logger.Attempt(attempt),
				slog.String("target", target),
				logger.Duration(time.Since(start)),
			)
			return conn, gen, nil
		}

		lastErr = err
		final := attempt == cfg.RetryAttempts
		m.log.WarnContext(ctx, "mongo connection attempt failed",
			logger.Attempt(attempt),
			slog.Int("max_attempts", cfg.RetryAttempts),
			slog.Bool("final", final),
			slog.String("target", target),
			logger.Error(err),
		)
		if final {
			break
		}
		time.Sleep(cfg.RetryDelay)
	}

	return nil, 0, fmt.Errorf("%w after %d attempts: %w", ErrConnectionFailed, cfg.RetryAttempts, lastErr)
}

func (m *Manager) beginAttempt() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.pending = m.gen
	return m.gen
}

// notifier binds driver events to the generation of one dial attempt.
func (m *Manager) notifier(gen uint64) func(Event) {
	return func(ev Event) {
		m.apply(gen, ev)
	}
}

// Disconnect closes the live connection. When the handle is missing or
// already reports StateDisconnected it is not closed again, only detached and
// released so later driver events cannot revive it. Close failures are returned.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	conn := m.conn
	if conn == nil || conn.ReadyState() == StateDisconnected {
		m.conn = nil
		m.live = 0
		m.connected = false
		m.mu.Unlock()

		if r, ok := conn.(releaser); ok {
			r.release(ctx)
		}
		m.inflight.Forget(connectKey)
		return nil
	}
	m.mu.Unlock()

	if err := conn.Close(ctx); err != nil {
		m.log.ErrorContext(ctx, "mongo disconnect failed", logger.Error(err))
		return errors.Join(ErrDisconnectFailed, err)
	}

	m.inflight.Forget(connectKey)

	m.mu.Lock()
	if m.conn == conn {
		m.conn = nil
		m.live = 0
	}
	m.connected = false
	m.mu.Unlock()

	m.log.InfoContext(ctx, "mongo disconnected")
	return nil
}

// IsConnected reports whether the internal flag is set and the live handle
// confirms StateConnected. The second check guards against a stale flag.
func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isConnectedLocked()
}

func (m *Manager) isConnectedLocked() bool {
	return m.connected && m.conn != nil && m.conn.ReadyState() == StateConnected
}

func (m *Manager) ready() (Conn, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.isConnectedLocked() {
		return m.conn, true
	}
	return nil, false
}

// ConnectionInfo is a read-only snapshot of the manager state.
type ConnectionInfo struct {
	IsConnected bool       `json:"is_connected"`
	ReadyState  ReadyState `json:"ready_state"`
	Host        string     `json:"host"`
	Port        string     `json:"port"`
	Database    string     `json:"database"`
	Models      []string   `json:"models"`
}

// Info returns a snapshot of the connection state. Models are sorted.
func (m *Manager) Info() ConnectionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state := StateDisconnected
	switch {
	case m.conn != nil:
		state = m.conn.ReadyState()
	case m.connecting:
		state = StateConnecting
	}

	host, port := m.cfg.HostPort()
	models := make([]string, 0, len(m.models))
	for name := range m.models {
		models = append(models, name)
	}
	slices.Sort(models)

	return ConnectionInfo{
		IsConnected: m.isConnectedLocked(),
		ReadyState:  state,
		Host:        host,
		Port:        port,
		Database:    m.cfg.Database,
		Models:      models,
	}
}

// RegisterModel records a collection name reported by Info.
func (m *Manager) RegisterModel(name string) {
	if name == "" {
		return
	}
	m.mu.Lock()
	m.models[name] = struct{}{}
	m.mu.Unlock()
}

// Database returns the configured database of the live connection.
func (m *Manager) Database() (*mongo.Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.conn == nil {
		return nil, ErrNotConnected
	}
	db := m.conn.Database(m.cfg.Database)
	if db == nil {
		return nil, ErrNotConnected
	}
	return db, nil
}

// apply is the only place lifecycle events mutate the connected flag.
// An error event is logged but leaves the flag untouched; the driver follows
// a real loss of connectivity with a disconnected event. Events from a
// retired or replaced handle are dropped.
func (m *Manager) apply(gen uint64, ev Event) {
	m.mu.Lock()
	if gen == 0 || (gen != m.live && gen != m.pending) {
		m.mu.Unlock()
		m.log.Debug("ignoring event from retired mongo connection", logger.Event(string(ev.Type)))
		return
	}
	switch ev.Type {
	case EventConnected, EventReconnected:
		m.connected = true
	case EventDisconnected:
		m.connected = false
	}
	hooks := m.hooks
	m.mu.Unlock()

	ctx := context.Background()
	switch ev.Type {
	case EventConnected:
		m.log.InfoContext(ctx, "mongo connection established", logger.Event(string(ev.Type)))
	case EventReconnected:
		m.log.InfoContext(ctx, "mongo connection restored", logger.Event(string(ev.Type)))
	case EventDisconnected:
		m.log.WarnContext(ctx, "mongo connection lost", logger.Event(string(ev.Type)), logger.Error(ev.Err))
	case EventError:
		m.log.ErrorContext(ctx, "mongo connection error", logger.Event(string(ev.Type)), logger.Error(ev.Err))
	}

	for _, h := range hooks {
		h(ev)
	}
}
