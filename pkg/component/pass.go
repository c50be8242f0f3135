package component

import (
	"context"

	"github.com/vango-dev/hookdom/pkg/host"
	"github.com/vango-dev/hookdom/pkg/vdom"
)

// Pass describes one render pass as it flows through the middleware chain.
type Pass struct {
	// Number is 1 for the initial pass and increases by one per pass.
	Number int

	// Ops counts the host operations the reconciler issued, by kind. It is
	// filled while the pass runs.
	Ops map[host.OpKind]int

	// Tree is the virtual tree the pass rendered. Nil until the render
	// function has returned.
	Tree *vdom.VNode
}

// OpCount returns the total number of host operations of the pass.
func (p *Pass) OpCount() int {
	n := 0
	for _, c := range p.Ops {
		n += c
	}
	return n
}

// Mutations returns the number of operations that changed an existing tree,
// excluding node creation.
func (p *Pass) Mutations() int {
	n := 0
	for k, c := range p.Ops {
		if k.IsMutation() {
			n += c
		}
	}
	return n
}

// PassFunc runs a render pass.
type PassFunc func(ctx context.Context, pass *Pass) error

// Middleware wraps a PassFunc. The first middleware given to an Instance is
// the outermost.
type Middleware func(next PassFunc) PassFunc

// Chain composes middleware around final.
func Chain(final PassFunc, mw ...Middleware) PassFunc {
	h := final
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
