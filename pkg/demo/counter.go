// Package demo holds the built-in counter component used by the CLI and the
// server.
package demo

import (
	"strconv"

	"github.com/vango-dev/hookdom/pkg/hooks"
	"github.com/vango-dev/hookdom/pkg/vdom"
)

// Counter renders a count, its parity, and a list that grows and shrinks
// with the count. Tick must be called from the goroutine that renders.
type Counter struct {
	start int
	count int
	set   func(int)
}

// NewCounter creates a counter starting at start.
func NewCounter(start int) *Counter {
	return &Counter{start: start}
}

// Render is a component.RenderFunc.
func (c *Counter) Render(h *hooks.Hooks) *vdom.VNode {
	n, set := hooks.State(h, c.start)
	c.count, c.set = n, set

	parity := hooks.Memo(h, func() string {
		if n%2 == 0 {
			return "even"
		}
		return "odd"
	}, n)

	return vdom.Div(
		vdom.ID("counter"),
		vdom.Class("counter", parity),
		vdom.H1("hookdom"),
		vdom.P(vdom.Data("count", strconv.Itoa(n)), vdom.Textf("Count: %d", n)),
		vdom.Ul(vdom.Repeat(n%4, func(i int) *vdom.VNode {
			return vdom.Li(vdom.Textf("item %d", i))
		})),
	)
}

// Tick advances the count by one. It does nothing before the first render.
func (c *Counter) Tick() {
	if c.set != nil {
		c.set(c.count + 1)
	}
}

// Count returns the count seen by the last render.
func (c *Counter) Count() int {
	return c.count
}
