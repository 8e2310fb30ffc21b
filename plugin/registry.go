package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/coin/event"
)

// DefaultTimeout bounds a single plugin call.
const DefaultTimeout = 5 * time.Second

// Registry manages all registered plugins and dispatches events to them.
// Hook implementations are discovered once at registration time.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached plugin lists for efficient dispatch
	onInit           []OnInit
	onShutdown       []OnShutdown
	onAccountCreated []OnAccountCreated
	onAccountKilled  []OnAccountKilled
	onMinted         []OnMinted
	onBurned         []OnBurned
	onRejected       []OnRejected
	sinks            []EventSink
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets how long a single plugin call may run.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnAccountCreated); ok {
		r.onAccountCreated = append(r.onAccountCreated, v)
	}
	if v, ok := p.(OnAccountKilled); ok {
		r.onAccountKilled = append(r.onAccountKilled, v)
	}
	if v, ok := p.(OnMinted); ok {
		r.onMinted = append(r.onMinted, v)
	}
	if v, ok := p.(OnBurned); ok {
		r.onBurned = append(r.onBurned, v)
	}
	if v, ok := p.(OnRejected); ok {
		r.onRejected = append(r.onRejected, v)
	}
	if v, ok := p.(EventSink); ok {
		r.sinks = append(r.sinks, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedInterfaces(p),
	)

	return nil
}

// implementedInterfaces returns the hook names a plugin implements.
func implementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnAccountCreated)(nil)).Elem(), "OnAccountCreated")
	checkInterface(reflect.TypeOf((*OnAccountKilled)(nil)).Elem(), "OnAccountKilled")
	checkInterface(reflect.TypeOf((*OnMinted)(nil)).Elem(), "OnMinted")
	checkInterface(reflect.TypeOf((*OnBurned)(nil)).Elem(), "OnBurned")
	checkInterface(reflect.TypeOf((*OnRejected)(nil)).Elem(), "OnRejected")
	checkInterface(reflect.TypeOf((*EventSink)(nil)).Elem(), "EventSink")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, l interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnInit", func(ctx context.Context) error {
			return p.OnInit(ctx, l)
		})
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnShutdown", func(ctx context.Context) error {
			return p.OnShutdown(ctx)
		})
	}
}

// Emit delivers one ledger event to the typed hook for its kind and then to
// every EventSink. Calls are made one at a time so plugins observe events
// in emission order, provided each hook returns before its deadline. A hook
// that outlives its context is abandoned and may overlap later calls.
func (r *Registry) Emit(ctx context.Context, e event.Event) {
	r.mu.RLock()
	created := r.onAccountCreated
	killed := r.onAccountKilled
	minted := r.onMinted
	burned := r.onBurned
	sinks := r.sinks
	r.mu.RUnlock()

	switch v := e.(type) {
	case event.Created:
		for _, p := range created {
			r.dispatch(ctx, p.Name(), "OnAccountCreated", func(ctx context.Context) error {
				return p.OnAccountCreated(ctx, v)
			})
		}
	case event.Killed:
		for _, p := range killed {
			r.dispatch(ctx, p.Name(), "OnAccountKilled", func(ctx context.Context) error {
				return p.OnAccountKilled(ctx, v)
			})
		}
	case event.Minted:
		for _, p := range minted {
			r.dispatch(ctx, p.Name(), "OnMinted", func(ctx context.Context) error {
				return p.OnMinted(ctx, v)
			})
		}
	case event.Burned:
		for _, p := range burned {
			r.dispatch(ctx, p.Name(), "OnBurned", func(ctx context.Context) error {
				return p.OnBurned(ctx, v)
			})
		}
	}

	for _, p := range sinks {
		r.dispatch(ctx, p.Name(), "OnEvent", func(ctx context.Context) error {
			return p.OnEvent(ctx, e)
		})
	}
}

// EmitRejected notifies plugins that a mint or burn was rejected.
func (r *Registry) EmitRejected(ctx context.Context, op string, cause error) {
	r.mu.RLock()
	plugins := r.onRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnRejected", func(ctx context.Context) error {
			return p.OnRejected(ctx, op, cause)
		})
	}
}

// dispatch runs one hook and logs its failure. Plugin errors never propagate
// back into the ledger: by the time a hook runs the transition is committed.
func (r *Registry) dispatch(ctx context.Context, pluginName, hook string, fn func(context.Context) error) {
	if err := r.callWithTimeout(ctx, pluginName, fn); err != nil {
		r.logger.Warn("plugin "+hook+" failed",
			"plugin", pluginName,
			"error", err,
		)
	}
}

// callWithTimeout calls a plugin function with a context that is cancelled
// after the registry timeout. Plugins should never block the ledger, so the
// call is abandoned at the deadline; a hook that ignores its context may
// still be running when the next event is dispatched.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("plugin timeout: %s", pluginName)
		}
		return ctx.Err()
	}
}
