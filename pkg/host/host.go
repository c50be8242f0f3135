// Package host defines the live tree that the reconciler mutates.
//
// The reconciler and tree materialization depend only on these two
// interfaces. A browser binding, a terminal widget tree or the in-memory
// implementation in package memhost can sit behind them. Implementations
// crash (panic) on out-of-range child indexes, as a real document API would;
// the reconciler performs no validation of its own.
package host

import (
	"strconv"

	"github.com/vango-dev/hookdom/pkg/vdom"
)

// Node is a live host node: an element or a text node.
type Node interface {
	// SetAttribute sets a named attribute. No-op on text nodes.
	SetAttribute(name, value string)

	// RemoveAttribute removes a named attribute. No-op on text nodes.
	RemoveAttribute(name string)

	// AppendChild adds child as the last child.
	AppendChild(child Node)

	// ReplaceChild replaces the child at index with child.
	ReplaceChild(index int, child Node)

	// RemoveChild removes the child at index.
	RemoveChild(index int)

	// ChildNodes returns the ordered child list. Callers must not modify it.
	ChildNodes() []Node
}

// Document creates detached host nodes.
type Document interface {
	CreateElement(tag string) Node
	CreateTextNode(text string) Node
}

// OpKind identifies a host mutation.
type OpKind uint8

const (
	OpCreateElement OpKind = iota + 1
	OpCreateText
	OpSetAttribute
	OpRemoveAttribute
	OpAppendChild
	OpReplaceChild
	OpRemoveChild
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpSetAttribute:
		return "SetAttribute"
	case OpRemoveAttribute:
		return "RemoveAttribute"
	case OpAppendChild:
		return "AppendChild"
	case OpReplaceChild:
		return "ReplaceChild"
	case OpRemoveChild:
		return "RemoveChild"
	default:
		return "Unknown"
	}
}

// IsMutation reports whether k changes an existing tree (as opposed to
// creating a detached node).
func (k OpKind) IsMutation() bool {
	return k >= OpSetAttribute && k <= OpRemoveChild
}

// AllOpKinds lists every OpKind in declaration order.
var AllOpKinds = []OpKind{
	OpCreateElement,
	OpCreateText,
	OpSetAttribute,
	OpRemoveAttribute,
	OpAppendChild,
	OpReplaceChild,
	OpRemoveChild,
}

// Op is one recorded host mutation.
type Op struct {
	Kind OpKind

	// Path is the child-index path from the document root to the target
	// element. Empty for the root itself; nil when Detached.
	Path []int

	// Detached is set for operations on nodes not reachable from the root.
	Detached bool

	// Name and Value carry the tag (CreateElement), text (CreateText) or
	// attribute name and value.
	Name  string
	Value string

	// Index is the child position for ReplaceChild and RemoveChild, and the
	// position the appended child took for AppendChild.
	Index int

	// Node is a snapshot of the subtree inserted by AppendChild and
	// ReplaceChild.
	Node *vdom.VNode
}

// String renders the op compactly, e.g. "SetAttribute /0/1 class=b".
func (op Op) String() string {
	s := op.Kind.String()
	if op.Detached {
		s += " ~"
	} else {
		s += " " + PathString(op.Path)
	}
	switch op.Kind {
	case OpCreateElement, OpCreateText:
		s += " " + strconv.Quote(op.Name)
	case OpSetAttribute:
		s += " " + op.Name + "=" + op.Value
	case OpRemoveAttribute:
		s += " " + op.Name
	case OpAppendChild:
		s += " " + op.Node.String()
	case OpReplaceChild:
		s += " [" + strconv.Itoa(op.Index) + "] " + op.Node.String()
	case OpRemoveChild:
		s += " [" + strconv.Itoa(op.Index) + "]"
	}
	return s
}

// PathString formats a child-index path as "/0/2". The root is "/".
func PathString(path []int) string {
	if len(path) == 0 {
		return "/"
	}
	var s string
	for _, i := range path {
		s += "/" + strconv.Itoa(i)
	}
	return s
}
