package memhost

import (
	"github.com/vango-dev/hookdom/internal/errors"
	"github.com/vango-dev/hookdom/pkg/host"
	"github.com/vango-dev/hookdom/pkg/vdom"
)

// Apply replays attached operations onto the tree under root. Detached and
// create operations are skipped: inserted subtrees arrive as snapshots on
// their append or replace op. Apply stops at the first op whose path or
// index does not resolve and returns an E120 error.
func Apply(root *Element, ops []host.Op) error {
	for i, op := range ops {
		if op.Detached || !op.Kind.IsMutation() {
			continue
		}
		target, err := resolve(root, op.Path)
		if err != nil {
			return err.WithDetailf("op %d (%s): path %s", i, op.Kind, host.PathString(op.Path))
		}
		switch op.Kind {
		case host.OpSetAttribute:
			target.SetAttribute(op.Name, op.Value)
		case host.OpRemoveAttribute:
			target.RemoveAttribute(op.Name)
		case host.OpAppendChild:
			target.AppendChild(Build(root.doc, op.Node))
		case host.OpReplaceChild:
			if op.Index < 0 || op.Index >= len(target.children) {
				return errors.New("E120").WithDetailf("op %d (%s): index %d of %d children", i, op.Kind, op.Index, len(target.children))
			}
			target.ReplaceChild(op.Index, Build(root.doc, op.Node))
		case host.OpRemoveChild:
			if op.Index < 0 || op.Index >= len(target.children) {
				return errors.New("E120").WithDetailf("op %d (%s): index %d of %d children", i, op.Kind, op.Index, len(target.children))
			}
			target.RemoveChild(op.Index)
		}
	}
	return nil
}

func resolve(root *Element, path []int) (*Element, *errors.HookdomError) {
	cur := root
	for _, idx := range path {
		if idx < 0 || idx >= len(cur.children) {
			return nil, errors.New("E120")
		}
		el, ok := cur.children[idx].(*Element)
		if !ok {
			return nil, errors.New("E120")
		}
		cur = el
	}
	return cur, nil
}

// Build creates a detached subtree in doc from a virtual tree. Prop values
// are stringified with vdom.PropString.
func Build(doc *Document, v *vdom.VNode) host.Node {
	if v.IsText() {
		return doc.CreateTextNode(v.Text)
	}
	el := doc.CreateElement(v.Tag)
	for _, k := range v.Props.Keys() {
		el.SetAttribute(k, vdom.PropString(v.Props[k]))
	}
	for _, c := range v.Children {
		el.AppendChild(Build(doc, c))
	}
	return el
}
