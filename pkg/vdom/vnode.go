package vdom

import (
	"sort"
	"strconv"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement VKind = iota // <div>, <button>, etc.
	KindText                 // Plain text leaf
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes
	Children []*VNode // Child nodes, matched positionally when diffing
	Text     string   // For KindText
}

// Props holds attribute values keyed by attribute name.
type Props map[string]any

// Keys returns the attribute names in sorted order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsText reports whether v is a text leaf.
func (v *VNode) IsText() bool {
	return v != nil && v.Kind == KindText
}

// IsElement reports whether v is an element.
func (v *VNode) IsElement() bool {
	return v != nil && v.Kind == KindElement
}

// String renders a compact form such as <li class="a">"x"</li>.
func (v *VNode) String() string {
	var b strings.Builder
	v.writeTo(&b)
	return b.String()
}

func (v *VNode) writeTo(b *strings.Builder) {
	switch {
	case v == nil:
		b.WriteString("<nil>")
	case v.Kind == KindText:
		b.WriteString(strconv.Quote(v.Text))
	default:
		b.WriteByte('<')
		b.WriteString(v.Tag)
		for _, k := range v.Props.Keys() {
			b.WriteByte(' ')
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(strconv.Quote(PropString(v.Props[k])))
		}
		b.WriteByte('>')
		for _, c := range v.Children {
			c.writeTo(b)
		}
		b.WriteString("</")
		b.WriteString(v.Tag)
		b.WriteByte('>')
	}
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}
