package mongo

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrymomot/authservice/pkg/logger"
)

// Initialize prepares the manager for use and connects. Lifecycle events are
// always routed through the manager; Initialize only logs the registration
// once per manager and then behaves like Connect.
func (m *Manager) Initialize(ctx context.Context) (Conn, error) {
	m.initOnce.Do(func() {
		events := []string{
			string(EventConnected),
			string(EventError),
			string(EventDisconnected),
			string(EventReconnected),
		}
		m.log.DebugContext(ctx, "mongo lifecycle listeners registered", slog.Any("events", events))
	})
	return m.Connect(ctx)
}

// HandleTermination disconnects and calls exit when one of sigs arrives
// (os.Interrupt and SIGTERM by default): exit(0) after a clean disconnect,
// exit(1) when disconnecting fails. The returned stop function uninstalls
// the handler; cancelling ctx has the same effect.
func (m *Manager) HandleTermination(ctx context.Context, exit func(code int), sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	if exit == nil {
		exit = os.Exit
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	done := make(chan struct{})
	var once sync.Once
	stop = func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}

	go func() {
		defer stop()
		m.awaitTermination(ctx, ch, done, exit)
	}()

	return stop
}

func (m *Manager) awaitTermination(ctx context.Context, sigs <-chan os.Signal, done <-chan struct{}, exit func(int)) {
	select {
	case sig := <-sigs:
		m.log.InfoContext(ctx, "termination signal received, closing mongo connection",
			slog.String("signal", sig.String()))
		if err := m.Disconnect(context.WithoutCancel(ctx)); err != nil {
			m.log.ErrorContext(ctx, "mongo shutdown failed", logger.Error(err))
			exit(1)
			return
		}
		exit(0)
	case <-done:
	case <-ctx.Done():
	}
}
