package protocol

import (
	"github.com/vango-dev/hookdom/pkg/vdom"
)

// EncodeNode appends a node snapshot. Prop values are written in their
// attribute string form, so a decoded snapshot has string props only.
func EncodeNode(e *Encoder, v *vdom.VNode) {
	e.WriteByte(byte(v.Kind))

	if v.Kind == vdom.KindText {
		e.WriteString(v.Text)
		return
	}

	e.WriteString(v.Tag)
	keys := v.Props.Keys()
	e.WriteInt(len(keys))
	for _, k := range keys {
		e.WriteString(k)
		e.WriteString(vdom.PropString(v.Props[k]))
	}
	e.WriteInt(len(v.Children))
	for _, c := range v.Children {
		EncodeNode(e, c)
	}
}

// DecodeNode reads a node snapshot, enforcing the decoder's depth limit.
func DecodeNode(d *Decoder) (*vdom.VNode, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	kind, err := d.ReadByte()
	if err != nil {
		return nil, err
	}

	switch vdom.VKind(kind) {
	case vdom.KindText:
		text, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		return vdom.Text(text), nil

	case vdom.KindElement:
		return decodeElement(d)

	default:
		return nil, ErrUnknownNodeKind
	}
}

func decodeElement(d *Decoder) (*vdom.VNode, error) {
	tag, err := d.ReadString()
	if err != nil {
		return nil, err
	}

	n, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	props := make(vdom.Props, n)
	for i := 0; i < n; i++ {
		k, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		props[k] = v
	}

	n, err = d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	children := make([]*vdom.VNode, 0, n)
	for i := 0; i < n; i++ {
		c, err := DecodeNode(d)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}

	return &vdom.VNode{
		Kind:     vdom.KindElement,
		Tag:      tag,
		Props:    props,
		Children: children,
	}, nil
}
