package protocol

import (
	"fmt"

	hderrors "github.com/vango-dev/hookdom/internal/errors"
	"github.com/vango-dev/hookdom/pkg/host"
)

// PatchesFrame is the decoded payload of a patches frame.
type PatchesFrame struct {
	Seq uint64
	Ops []host.Op
}

// EncodeOp appends one op. Only the fields its kind uses are written; the
// Detached flag is not carried since only attached ops are sent.
func EncodeOp(e *Encoder, op host.Op) {
	e.WriteByte(byte(op.Kind))
	e.WriteInt(len(op.Path))
	for _, i := range op.Path {
		e.WriteInt(i)
	}

	switch op.Kind {
	case host.OpCreateElement, host.OpCreateText, host.OpRemoveAttribute:
		e.WriteString(op.Name)
	case host.OpSetAttribute:
		e.WriteString(op.Name)
		e.WriteString(op.Value)
	case host.OpAppendChild, host.OpReplaceChild:
		e.WriteInt(op.Index)
		EncodeNode(e, op.Node)
	case host.OpRemoveChild:
		e.WriteInt(op.Index)
	}
}

// DecodeOp reads one op.
func DecodeOp(d *Decoder) (host.Op, error) {
	var op host.Op

	kind, err := d.ReadByte()
	if err != nil {
		return op, err
	}
	op.Kind = host.OpKind(kind)
	if op.Kind < host.OpCreateElement || op.Kind > host.OpRemoveChild {
		return op, ErrUnknownOp
	}

	n, err := d.ReadCollectionCount()
	if err != nil {
		return op, err
	}
	if n > MaxPathLen {
		return op, ErrMaxDepthExceeded
	}
	op.Path = make([]int, n)
	for i := range op.Path {
		if op.Path[i], err = d.ReadInt(); err != nil {
			return op, err
		}
	}

	switch op.Kind {
	case host.OpCreateElement, host.OpCreateText, host.OpRemoveAttribute:
		op.Name, err = d.ReadString()
	case host.OpSetAttribute:
		if op.Name, err = d.ReadString(); err == nil {
			op.Value, err = d.ReadString()
		}
	case host.OpAppendChild, host.OpReplaceChild:
		if op.Index, err = d.ReadInt(); err == nil {
			op.Node, err = DecodeNode(d)
		}
	case host.OpRemoveChild:
		op.Index, err = d.ReadInt()
	}
	return op, err
}

// EncodePatches encodes a patches payload.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	e.WriteUvarint(pf.Seq)
	e.WriteInt(len(pf.Ops))
	for _, op := range pf.Ops {
		EncodeOp(e, op)
	}
	return e.Bytes()
}

// DecodePatches decodes a patches payload. Errors are E121 errors.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	return DecodePatchesWithLimits(data, DefaultLimits())
}

// DecodePatchesWithLimits is DecodePatches with custom limits.
func DecodePatchesWithLimits(data []byte, limits Limits) (*PatchesFrame, error) {
	d := NewDecoderWithLimits(data, limits)

	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, wrapDecode(err, "sequence")
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, wrapDecode(err, "op count")
	}

	pf := &PatchesFrame{Seq: seq, Ops: make([]host.Op, 0, count)}
	for i := 0; i < count; i++ {
		op, err := DecodeOp(d)
		if err != nil {
			return nil, wrapDecode(err, fmt.Sprintf("op %d of %d", i, count))
		}
		pf.Ops = append(pf.Ops, op)
	}
	if !d.EOF() {
		return nil, wrapDecode(ErrTrailingData, "patches")
	}
	return pf, nil
}

// EncodePatchFrames encodes the ops of one pass into as few patches frames
// as fit MaxPayloadSize. A pass without ops still yields one frame. An
// append or replace too large for a frame is broken up by splitOp; any
// other op that alone exceeds the limit fails with ErrFrameTooLarge.
func EncodePatchFrames(seq uint64, ops []host.Op) ([]*Frame, error) {
	// Room for the seq and any op count.
	room := MaxPayloadSize - UvarintLen(seq) - MaxVarintLen

	var encoded [][]byte
	for i, op := range ops {
		var err error
		if encoded, err = splitOp(encoded, op, room); err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
	}

	var frames []*Frame
	var chunk [][]byte
	size := 0
	flush := func() {
		e := NewEncoderWithCap(size + 2*MaxVarintLen)
		e.WriteUvarint(seq)
		e.WriteInt(len(chunk))
		for _, b := range chunk {
			e.WriteBytes(b)
		}
		frames = append(frames, &Frame{Type: FramePatches, Flags: FlagContinued, Payload: e.Bytes()})
		chunk, size = nil, 0
	}

	for _, b := range encoded {
		if size+len(b) > room {
			flush()
		}
		chunk = append(chunk, b)
		size += len(b)
	}
	flush()

	frames[len(frames)-1].Flags &^= FlagContinued
	return frames, nil
}

// splitOp appends the encoding of op to out. An append or replace larger
// than room is encoded as the element without children followed by one
// append per child at the element's path, recursively.
func splitOp(out [][]byte, op host.Op, room int) ([][]byte, error) {
	e := NewEncoder()
	EncodeOp(e, op)
	if b := e.Bytes(); len(b) <= room {
		return append(out, b), nil
	}

	splittable := op.Kind == host.OpAppendChild || op.Kind == host.OpReplaceChild
	if !splittable || op.Node == nil || !op.Node.IsElement() || len(op.Node.Children) == 0 {
		return out, fmt.Errorf("%w: %s encodes to %d bytes", ErrFrameTooLarge, op.Kind, e.Len())
	}

	shallow := *op.Node
	shallow.Children = nil
	head := op
	head.Node = &shallow

	out, err := splitOp(out, head, room)
	if err != nil {
		return out, err
	}

	path := make([]int, len(op.Path), len(op.Path)+1)
	copy(path, op.Path)
	path = append(path, op.Index)
	for i, child := range op.Node.Children {
		out, err = splitOp(out, host.Op{Kind: host.OpAppendChild, Path: path, Index: i, Node: child}, room)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func wrapDecode(err error, where string) error {
	return hderrors.New("E121").WithDetail(where).Wrap(err)
}
