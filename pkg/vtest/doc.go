// Package vtest provides testing helpers for hookdom components.
//
// The vtest package reduces boilerplate when testing components by
// mounting them on an in-memory document and asserting on the resulting
// markup and host mutations.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    c := demo.NewCounter(0)
//	    h := vtest.Mount(t, c.Render)
//	    h.ExpectAttribute("data-count", "0")
//
//	    c.Tick()
//	    h.Flush()
//	    h.ExpectContains("Count: 1")
//	}
//
// # Mutation Assertions
//
// Every host mutation since the last TakeOps is available in its compact
// form ("SetAttribute /0 class=a"):
//
//	h.TakeOps()
//	set(2)
//	h.Flush()
//	h.ExpectOps("SetAttribute /0 class=even")
//
// ExpectOps compares with go-cmp and reports a diff.
package vtest
