// Package vdom provides the virtual node model for hookdom.
//
// A VNode describes a desired piece of UI without touching the host tree.
// It is either an element (tag, props, ordered children) or a text leaf.
// Trees are built fresh on every render pass and never mutated afterwards;
// the reconcile package diffs the new tree against the previous one.
//
// # Building trees
//
// H is the plain builder, the target of a JSX-style transform:
//
//	H("ul", Props{"class": "todo"},
//	    H("li", nil, "write code"),
//	    H("li", nil, "ship it"),
//	)
//
// Tag helpers take attributes and children in any order:
//
//	Div(Class("card"), ID("main"),
//	    H1("Title"),
//	    P(Text("Content")),
//	)
//
// # Determinism
//
// Props is a map, so every consumer that iterates attributes goes through
// Props.Keys, which returns names in sorted order. Host mutations issued for
// a given pair of trees are therefore reproducible.
package vdom
