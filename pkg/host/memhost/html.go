package memhost

import (
	"sort"
	"strings"

	"github.com/vango-dev/hookdom/pkg/host"
	"github.com/vango-dev/hookdom/pkg/vdom"
)

// HTML serializes n and its subtree. Attributes are written in sorted order
// so the output is deterministic.
func HTML(n host.Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n host.Node) string {
	var b strings.Builder
	for _, c := range n.ChildNodes() {
		writeNode(&b, c)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n host.Node) {
	switch v := n.(type) {
	case *Text:
		b.WriteString(escapeHTML(v.data))
	case *Element:
		b.WriteByte('<')
		b.WriteString(v.tag)
		names := make([]string, 0, len(v.attrs))
		for k := range v.attrs {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			b.WriteByte(' ')
			b.WriteString(k)
			b.WriteString(`="`)
			b.WriteString(escapeAttr(v.attrs[k]))
			b.WriteByte('"')
		}
		b.WriteByte('>')
		if vdom.IsVoidElement(v.tag) && len(v.children) == 0 {
			return
		}
		for _, c := range v.children {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(v.tag)
		b.WriteByte('>')
	}
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for attribute values, including whitespace that
// could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
