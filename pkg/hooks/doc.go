// Package hooks lets a stateless render function keep per-instance state
// across repeated invocations.
//
// A Hooks value owns an ordered list of slots and a cursor. Every render pass
// starts with ResetContext; each UseState call then takes the slot at the
// cursor and advances it. The n-th call of a pass therefore always addresses
// the n-th slot, which is correct only while the render function calls its
// hooks the same number of times, in the same order, on every pass.
//
//	h := hooks.New(func() { /* state changed: schedule a pass */ })
//
//	render := func() *vdom.VNode {
//	    h.ResetContext()
//	    count, setCount := hooks.State(h, 0)
//	    label, _ := hooks.State(h, "clicks")
//	    _ = setCount
//	    return vdom.Div(vdom.Textf("%s: %d", label, count))
//	}
//
// A setter called with a value strictly equal to the slot's current value
// does nothing. Any other value is stored and the callback fires once,
// synchronously. The engine never renders by itself; see package component
// for a loop that turns callbacks into render passes.
//
// UseMemo keeps exactly one cached value per Hooks instance. Every call site
// shares that cell.
package hooks
