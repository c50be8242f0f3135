// Package component drives a render function through repeated render
// passes.
//
// An Instance pairs a RenderFunc with its own hooks.Hooks and a host root.
// State setters never render directly: the hooks callback only counts a
// pending change and wakes the loop. The loop then runs one pass per pending
// change, so a setter called while a pass is still walking the tree cannot
// re-enter the reconciler.
//
//	inst := component.Mount(doc, doc.Root(), func(h *hooks.Hooks) *vdom.VNode {
//	    n, setN := hooks.State(h, 0)
//	    ...
//	})
//	go inst.Run(ctx)
//	inst.Dispatch(func() { setN(1) })
//
// Instance methods other than Dispatch and Passes must be called from the
// goroutine running Run, or before Run starts.
package component
