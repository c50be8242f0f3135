package component

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/vango-dev/hookdom/pkg/hooks"
	"github.com/vango-dev/hookdom/pkg/host"
	"github.com/vango-dev/hookdom/pkg/reconcile"
	"github.com/vango-dev/hookdom/pkg/vdom"
)

// DefaultDispatchQueue is the capacity of the dispatch queue.
const DefaultDispatchQueue = 256

// RenderFunc produces the virtual tree of a component. It reads and updates
// its state through h.
type RenderFunc func(h *hooks.Hooks) *vdom.VNode

// Instance is a mounted component.
type Instance struct {
	root  host.Node
	fn    RenderFunc
	hooks *hooks.Hooks
	rec   *reconcile.Reconciler
	chain PassFunc

	prev    *vdom.VNode
	pending int
	current *Pass
	passes  atomic.Int64

	wakeCh     chan struct{} // Signal for a pending state change
	dispatchCh chan func()   // Functions to run on the loop
	done       chan struct{}
	closed     atomic.Bool

	middleware []Middleware
	hookOpts   []hooks.Option
	queue      int
	logger     *slog.Logger
}

// Option configures an Instance.
type Option func(*Instance)

// WithMiddleware appends middleware to the pass chain.
func WithMiddleware(mw ...Middleware) Option {
	return func(in *Instance) {
		in.middleware = append(in.middleware, mw...)
	}
}

// WithLogger sets the instance logger.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Instance) {
		in.logger = logger
	}
}

// WithHookOptions passes options to the instance's hooks.
func WithHookOptions(opts ...hooks.Option) Option {
	return func(in *Instance) {
		in.hookOpts = append(in.hookOpts, opts...)
	}
}

// WithDispatchQueue sets the dispatch queue capacity.
func WithDispatchQueue(n int) Option {
	return func(in *Instance) {
		if n > 0 {
			in.queue = n
		}
	}
}

// Mount prepares fn to render under root. Nothing is rendered until the
// first RenderPass or Run.
func Mount(doc host.Document, root host.Node, fn RenderFunc, opts ...Option) *Instance {
	in := &Instance{
		root:   root,
		fn:     fn,
		wakeCh: make(chan struct{}, 1),
		done:   make(chan struct{}),
		queue:  DefaultDispatchQueue,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}

	in.logger = in.logger.With("component", "instance")
	in.dispatchCh = make(chan func(), in.queue)
	in.hooks = hooks.New(in.stateChanged, in.hookOpts...)
	in.rec = reconcile.New(doc,
		reconcile.WithObserver(in.observe),
		reconcile.WithLogger(in.logger))
	in.chain = Chain(in.render, in.middleware...)
	return in
}

// stateChanged is the hooks callback. It records the change and wakes the
// loop; it never renders.
func (in *Instance) stateChanged() {
	in.pending++
	select {
	case in.wakeCh <- struct{}{}:
	default:
		// Already signalled
	}
}

func (in *Instance) observe(kind host.OpKind) {
	if in.current != nil {
		in.current.Ops[kind]++
	}
}

// render is the innermost PassFunc.
func (in *Instance) render(ctx context.Context, pass *Pass) error {
	in.current = pass
	defer func() { in.current = nil }()

	in.hooks.ResetContext()
	next := in.fn(in.hooks)
	pass.Tree = next

	in.rec.Render(in.root, next, in.prev, 0)
	in.prev = next
	return nil
}

// RenderPass runs a single pass through the middleware chain. A pass that
// panics part way leaves the host tree partially updated and the previous
// tree unchanged.
func (in *Instance) RenderPass(ctx context.Context) error {
	pass := &Pass{
		Number: int(in.passes.Add(1)),
		Ops:    make(map[host.OpKind]int),
	}
	return in.chain(ctx, pass)
}

// Pending returns the number of state changes not yet rendered.
func (in *Instance) Pending() int {
	return in.pending
}

// Flush runs one pass per pending state change until none remain. Changes
// made during a pass add to the count. It stops at the first failing pass.
func (in *Instance) Flush(ctx context.Context) error {
	for in.pending > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		in.pending--
		if err := in.RenderPass(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Run renders the initial pass if none has run yet, then serves state
// changes and dispatched functions until ctx is done. An error from the
// initial pass is returned; later failures are logged and the loop goes on.
func (in *Instance) Run(ctx context.Context) error {
	defer func() {
		in.closed.Store(true)
		close(in.done)
	}()

	if in.Passes() == 0 {
		if err := in.RenderPass(ctx); err != nil {
			return err
		}
	}
	in.flush(ctx)

	for {
		select {
		case fn := <-in.dispatchCh:
			fn()
			in.flush(ctx)

		case <-in.wakeCh:
			in.flush(ctx)

		case <-ctx.Done():
			return nil
		}
	}
}

// flush is Flush for the loop: a failing pass is logged and the remaining
// changes still render.
func (in *Instance) flush(ctx context.Context) {
	for in.pending > 0 && ctx.Err() == nil {
		in.pending--
		if err := in.RenderPass(ctx); err != nil {
			in.logger.Error("render pass failed",
				"pass", in.Passes(),
				"error", err,
				"pending", in.pending)
		}
	}
}

// Dispatch queues fn to run on the loop goroutine. It is the only safe way
// to call setters from other goroutines. Functions dispatched after Run has
// returned are dropped.
func (in *Instance) Dispatch(fn func()) {
	if in.closed.Load() {
		return
	}
	select {
	case in.dispatchCh <- fn:
	case <-in.done:
	default:
		in.logger.Warn("dispatch queue full, discarding callback")
	}
}

// Done is closed when Run returns.
func (in *Instance) Done() <-chan struct{} {
	return in.done
}

// Tree returns the last successfully rendered tree.
func (in *Instance) Tree() *vdom.VNode {
	return in.prev
}

// Passes returns the number of passes started so far.
func (in *Instance) Passes() int {
	return int(in.passes.Load())
}

// Hooks returns the instance's hooks.
func (in *Instance) Hooks() *hooks.Hooks {
	return in.hooks
}
