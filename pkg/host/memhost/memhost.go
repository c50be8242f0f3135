package memhost

import (
	"fmt"

	"github.com/vango-dev/hookdom/pkg/host"
	"github.com/vango-dev/hookdom/pkg/vdom"
)

// DefaultRootTag is the tag of the root element created by New.
const DefaultRootTag = "body"

// Document is an in-memory host document.
// It is not safe for concurrent use.
type Document struct {
	root    *Element
	journal []host.Op
}

var _ host.Document = (*Document)(nil)

// New creates a document with an empty root element.
func New() *Document {
	return NewWithRoot(DefaultRootTag)
}

// NewWithRoot creates a document whose root element has the given tag.
func NewWithRoot(tag string) *Document {
	d := &Document{}
	d.root = &Element{doc: d, tag: tag, attrs: map[string]string{}}
	return d
}

// Root returns the root element.
func (d *Document) Root() *Element {
	return d.root
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) host.Node {
	d.record(host.Op{Kind: host.OpCreateElement, Detached: true, Name: tag})
	return &Element{doc: d, tag: tag, attrs: map[string]string{}}
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(text string) host.Node {
	d.record(host.Op{Kind: host.OpCreateText, Detached: true, Name: text})
	return &Text{doc: d, data: text}
}

// Journal returns a copy of every recorded operation.
func (d *Document) Journal() []host.Op {
	out := make([]host.Op, len(d.journal))
	copy(out, d.journal)
	return out
}

// Attached returns the recorded operations that targeted attached nodes.
func (d *Document) Attached() []host.Op {
	var out []host.Op
	for _, op := range d.journal {
		if !op.Detached {
			out = append(out, op)
		}
	}
	return out
}

// ResetJournal discards the recorded operations.
func (d *Document) ResetJournal() {
	d.journal = nil
}

func (d *Document) record(op host.Op) {
	d.journal = append(d.journal, op)
}

// node is implemented by *Element and *Text.
type node interface {
	host.Node
	parentElement() *Element
	setParent(*Element)
	snapshot() *vdom.VNode
}

// Element is an in-memory element.
type Element struct {
	doc      *Document
	tag      string
	attrs    map[string]string
	children []host.Node
	parent   *Element
}

var _ host.Node = (*Element)(nil)

// Tag returns the element tag.
func (e *Element) Tag() string { return e.tag }

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// Attrs returns a copy of the attributes.
func (e *Element) Attrs() map[string]string {
	out := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element { return e.parent }

// SetAttribute implements host.Node.
func (e *Element) SetAttribute(name, value string) {
	e.attrs[name] = value
	e.recordAt(host.Op{Kind: host.OpSetAttribute, Name: name, Value: value})
}

// RemoveAttribute implements host.Node.
func (e *Element) RemoveAttribute(name string) {
	delete(e.attrs, name)
	e.recordAt(host.Op{Kind: host.OpRemoveAttribute, Name: name})
}

// AppendChild implements host.Node. A child that already has a parent is
// moved.
func (e *Element) AppendChild(child host.Node) {
	c := e.adopt(child)
	e.children = append(e.children, c)
	e.recordAt(host.Op{Kind: host.OpAppendChild, Index: len(e.children) - 1, Node: c.snapshot()})
}

// ReplaceChild implements host.Node. It panics if index is out of range.
func (e *Element) ReplaceChild(index int, child host.Node) {
	old := e.children[index].(node)
	c := e.adopt(child)
	old.setParent(nil)
	e.children[index] = c
	e.recordAt(host.Op{Kind: host.OpReplaceChild, Index: index, Node: c.snapshot()})
}

// RemoveChild implements host.Node. It panics if index is out of range.
func (e *Element) RemoveChild(index int) {
	old := e.children[index].(node)
	e.children = append(e.children[:index], e.children[index+1:]...)
	old.setParent(nil)
	e.recordAt(host.Op{Kind: host.OpRemoveChild, Index: index})
}

// ChildNodes implements host.Node.
func (e *Element) ChildNodes() []host.Node {
	return e.children
}

func (e *Element) adopt(child host.Node) node {
	c, ok := child.(node)
	if !ok {
		panic(fmt.Sprintf("memhost: foreign node %T", child))
	}
	if p := c.parentElement(); p != nil {
		p.detach(c)
	}
	c.setParent(e)
	return c
}

// detach drops c from e's children without journaling; the move is
// journaled by the adopting parent.
func (e *Element) detach(c node) {
	for i, n := range e.children {
		if n == host.Node(c) {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return
		}
	}
}

func (e *Element) parentElement() *Element { return e.parent }
func (e *Element) setParent(p *Element)    { e.parent = p }

func (e *Element) snapshot() *vdom.VNode {
	props := make(vdom.Props, len(e.attrs))
	for k, v := range e.attrs {
		props[k] = v
	}
	children := make([]any, len(e.children))
	for i, c := range e.children {
		children[i] = c.(node).snapshot()
	}
	return vdom.H(e.tag, props, children...)
}

// Snapshot returns the subtree rooted at e as a virtual tree whose props
// are the string attribute values.
func (e *Element) Snapshot() *vdom.VNode { return e.snapshot() }

// path returns the child-index path from the root, and whether e is
// attached.
func (e *Element) path() ([]int, bool) {
	var rev []int
	cur := e
	for cur.parent != nil {
		p := cur.parent
		idx := -1
		for i, c := range p.children {
			if c == host.Node(cur) {
				idx = i
				break
			}
		}
		rev = append(rev, idx)
		cur = p
	}
	if cur != e.doc.root {
		return nil, false
	}
	path := make([]int, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path, true
}

func (e *Element) recordAt(op host.Op) {
	path, attached := e.path()
	op.Path = path
	op.Detached = !attached
	e.doc.record(op)
}

// Text is an in-memory text node.
type Text struct {
	doc    *Document
	data   string
	parent *Element
}

var _ host.Node = (*Text)(nil)

// Data returns the text content.
func (t *Text) Data() string { return t.data }

// SetAttribute is a no-op on text nodes.
func (t *Text) SetAttribute(name, value string) {}

// RemoveAttribute is a no-op on text nodes.
func (t *Text) RemoveAttribute(name string) {}

// AppendChild panics: text nodes have no children.
func (t *Text) AppendChild(child host.Node) {
	panic("memhost: text node cannot have children")
}

// ReplaceChild panics: text nodes have no children.
func (t *Text) ReplaceChild(index int, child host.Node) {
	panic("memhost: text node cannot have children")
}

// RemoveChild panics: text nodes have no children.
func (t *Text) RemoveChild(index int) {
	panic("memhost: text node cannot have children")
}

// ChildNodes returns nil.
func (t *Text) ChildNodes() []host.Node { return nil }

func (t *Text) parentElement() *Element { return t.parent }
func (t *Text) setParent(p *Element)    { t.parent = p }
func (t *Text) snapshot() *vdom.VNode   { return vdom.Text(t.data) }
