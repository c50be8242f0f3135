package reconcile

import (
	"log/slog"

	"github.com/vango-dev/hookdom/internal/same"
	"github.com/vango-dev/hookdom/pkg/host"
	"github.com/vango-dev/hookdom/pkg/vdom"
)

// Reconciler applies virtual trees to a host document.
// It is not safe for concurrent use.
type Reconciler struct {
	doc     host.Document
	observe func(host.OpKind)
	logger  *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithObserver registers fn to be called for every host operation the
// reconciler issues, including node creation.
func WithObserver(fn func(host.OpKind)) Option {
	return func(r *Reconciler) {
		r.observe = fn
	}
}

// WithLogger sets the logger used for debug tracing of decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// New creates a Reconciler for doc.
func New(doc host.Document, opts ...Option) *Reconciler {
	r := &Reconciler{
		doc:    doc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render is a one-shot convenience for New(doc).Render(parent, newNode, oldNode, 0).
func Render(doc host.Document, parent host.Node, newNode, oldNode *vdom.VNode) {
	New(doc).Render(parent, newNode, oldNode, 0)
}

// Render mutates the host child of parent at index so that it matches
// newNode, given that it currently matches oldNode. A nil node means
// absent. No input validation is performed: a host child that does not
// exist where oldNode says it should makes the host API panic.
func (r *Reconciler) Render(parent host.Node, newNode, oldNode *vdom.VNode, index int) {
	switch {
	case newNode == nil && oldNode == nil:
		return

	case newNode == nil:
		r.note(host.OpRemoveChild)
		parent.RemoveChild(index)
		return

	case oldNode == nil:
		child := r.Materialize(newNode)
		r.note(host.OpAppendChild)
		parent.AppendChild(child)
		return

	case newNode.Kind == vdom.KindText && oldNode.Kind == vdom.KindText:
		if newNode.Text != oldNode.Text {
			r.note(host.OpCreateText)
			text := r.doc.CreateTextNode(newNode.Text)
			r.note(host.OpReplaceChild)
			parent.ReplaceChild(index, text)
		}
		return

	case newNode.Kind != oldNode.Kind || newNode.Tag != oldNode.Tag:
		r.logger.Debug("reconcile: replace",
			"index", index,
			"old", describe(oldNode),
			"new", describe(newNode))
		child := r.Materialize(newNode)
		r.note(host.OpReplaceChild)
		parent.ReplaceChild(index, child)
		return
	}

	target := parent.ChildNodes()[index]
	r.SyncAttributes(target, newNode.Props, oldNode.Props)
	r.renderChildren(target, newNode.Children, oldNode.Children)
}

// renderChildren walks the children of a kept element by position. Pairs
// and appends are visited in ascending order; surplus old children are
// removed from the highest index down so every removal addresses a live
// position.
func (r *Reconciler) renderChildren(target host.Node, next, prev []*vdom.VNode) {
	shared := len(next)
	if len(prev) < shared {
		shared = len(prev)
	}
	for i := 0; i < shared; i++ {
		r.Render(target, next[i], prev[i], i)
	}
	for i := shared; i < len(next); i++ {
		r.Render(target, next[i], nil, i)
	}
	for i := len(prev) - 1; i >= shared; i-- {
		r.Render(target, nil, prev[i], i)
	}
}

// Materialize creates the host subtree for v. Children are created and
// appended to their freshly created parent in order.
func (r *Reconciler) Materialize(v *vdom.VNode) host.Node {
	if v.Kind == vdom.KindText {
		r.note(host.OpCreateText)
		return r.doc.CreateTextNode(v.Text)
	}
	r.note(host.OpCreateElement)
	el := r.doc.CreateElement(v.Tag)
	r.SyncAttributes(el, v.Props, nil)
	for _, c := range v.Children {
		child := r.Materialize(c)
		r.note(host.OpAppendChild)
		el.AppendChild(child)
	}
	return el
}

// SyncAttributes makes target's attributes equal to newProps, given that
// they currently equal oldProps. Unchanged values are skipped. Keys are
// visited in sorted order.
func (r *Reconciler) SyncAttributes(target host.Node, newProps, oldProps vdom.Props) {
	for _, k := range newProps.Keys() {
		nv := newProps[k]
		if ov, ok := oldProps[k]; ok && same.Values(ov, nv) {
			continue
		}
		r.note(host.OpSetAttribute)
		target.SetAttribute(k, vdom.PropString(nv))
	}
	for _, k := range oldProps.Keys() {
		if _, ok := newProps[k]; ok {
			continue
		}
		r.note(host.OpRemoveAttribute)
		target.RemoveAttribute(k)
	}
}

func (r *Reconciler) note(kind host.OpKind) {
	if r.observe != nil {
		r.observe(kind)
	}
}

func describe(v *vdom.VNode) string {
	if v.Kind == vdom.KindText {
		return "#text"
	}
	return v.Tag
}
