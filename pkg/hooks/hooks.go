package hooks

import (
	"log/slog"

	"github.com/vango-dev/hookdom/internal/errors"
	"github.com/vango-dev/hookdom/internal/same"
)

// Hooks is the slot list of one component instance.
// It is not safe for concurrent use.
type Hooks struct {
	callback func()

	// Slot storage, addressed by call order within a pass.
	states []any
	cursor int

	// The single memo cell.
	memo     any
	memoDeps []any
	cached   bool

	// Order checking (WithOrderCheck).
	checkOrder bool
	expected   int
	passes     int
	logger     *slog.Logger
}

// Option configures a Hooks instance.
type Option func(*Hooks)

// WithOrderCheck logs an E100 warning whenever a render pass addresses a
// different number of slots than the first pass did. It does not change
// behavior; the mismatched pass still reads whatever slots it reaches.
func WithOrderCheck(logger *slog.Logger) Option {
	return func(h *Hooks) {
		h.checkOrder = true
		if logger != nil {
			h.logger = logger
		}
	}
}

// New returns an independent Hooks instance. callback runs synchronously
// each time a setter stores a new value; it may be nil.
func New(callback func(), opts ...Option) *Hooks {
	h := &Hooks{
		callback: callback,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ResetContext moves the cursor back to the first slot.
// Call it immediately before each render pass.
func (h *Hooks) ResetContext() {
	if h.checkOrder {
		h.checkPass()
	}
	h.cursor = 0
}

// checkPass compares the slot count of the pass that just ended with the
// count recorded after the first pass.
func (h *Hooks) checkPass() {
	if h.cursor == 0 && h.passes == 0 && len(h.states) == 0 {
		// Nothing rendered yet.
		return
	}
	h.passes++
	if h.passes == 1 {
		h.expected = h.cursor
		return
	}
	if h.cursor != h.expected {
		err := errors.New("E100").WithDetailf("expected %d hook calls, got %d", h.expected, h.cursor)
		h.logger.Warn("hook order changed",
			"code", err.Code,
			"pass", h.passes,
			"expected", h.expected,
			"got", h.cursor)
	}
}

// UseState returns the value stored in the slot at the cursor, allocating it
// with initial on the first pass, and a setter bound to that slot.
func (h *Hooks) UseState(initial any) (any, func(any)) {
	idx := h.slot(initial)
	return h.states[idx], h.setter(idx)
}

// slot advances the cursor and returns the index it addressed.
func (h *Hooks) slot(initial any) int {
	idx := h.cursor
	h.cursor++
	if idx >= len(h.states) {
		h.states = append(h.states, initial)
	}
	return idx
}

func (h *Hooks) setter(idx int) func(any) {
	return func(v any) {
		if same.Values(h.states[idx], v) {
			return
		}
		h.states[idx] = v
		if h.callback != nil {
			h.callback()
		}
	}
}

// UseMemo returns the cached value, recomputing it when nothing is cached
// yet or when deps differ from the recorded dependencies. Dependencies are
// compared element-wise over the shorter of the two lists, so appending a
// dependency does not by itself force a recompute.
func (h *Hooks) UseMemo(compute func() any, deps []any) any {
	if !h.cached || !same.Prefix(deps, h.memoDeps) {
		h.memo = compute()
		h.memoDeps = append([]any(nil), deps...)
		h.cached = true
	}
	return h.memo
}

// Len returns the number of allocated state slots.
func (h *Hooks) Len() int {
	return len(h.states)
}

// State is the typed form of UseState. It shares the same slot list.
// It panics with E101 when the slot already holds a value of another type,
// which only happens when hook call order changed between passes.
func State[T any](h *Hooks, initial T) (T, func(T)) {
	idx := h.slot(initial)
	v, ok := h.states[idx].(T)
	if !ok && h.states[idx] != nil {
		panic(errors.New("E101").WithDetailf("slot %d holds %T, want %T", idx, h.states[idx], initial))
	}
	set := h.setter(idx)
	return v, func(next T) { set(next) }
}

// Memo is the typed form of UseMemo. It uses the same single memo cell.
func Memo[T any](h *Hooks, compute func() T, deps ...any) T {
	v := h.UseMemo(func() any { return compute() }, deps)
	out, ok := v.(T)
	if !ok && v != nil {
		panic(errors.New("E101").WithDetailf("memo cell holds %T", v))
	}
	return out
}
