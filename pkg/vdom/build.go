package vdom

import (
	"fmt"

	"github.com/vango-dev/hookdom/internal/errors"
)

// H builds an element node from a tag, a property bag and children.
//
// props may be nil. Each child must be a *VNode or a string (a text leaf);
// nil children are skipped. Only the variadic list itself is flattened: a
// slice passed as one child panics, since it is not a node. Use the tag
// helpers or Range when splicing lists.
func H(tag string, props Props, children ...any) *VNode {
	if props == nil {
		props = Props{}
	}
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    props,
		Children: make([]*VNode, 0, len(children)),
	}
	for i, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case string:
			node.Children = append(node.Children, Text(v))
		default:
			panic(errors.New("E102").WithDetailf("child %d of <%s> is %s", i, tag, fmt.Sprintf("%T", child)))
		}
	}
	return node
}
