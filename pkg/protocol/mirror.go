package protocol

import (
	hderrors "github.com/vango-dev/hookdom/internal/errors"
	"github.com/vango-dev/hookdom/pkg/host/memhost"
)

// Mirror replays received frames onto a local in-memory tree. The first
// pass must carry sequence number 0; every following pass must carry the
// next number, and the frames of a split pass share theirs.
type Mirror struct {
	doc       *memhost.Document
	limits    Limits
	last      uint64
	started   bool
	continued bool
}

// NewMirror creates a mirror applying to doc's root.
func NewMirror(doc *memhost.Document) *Mirror {
	return &Mirror{doc: doc, limits: DefaultLimits()}
}

// Doc returns the mirrored document.
func (m *Mirror) Doc() *memhost.Document {
	return m.doc
}

// Seq returns the sequence number of the last applied frame, and whether
// any frame was applied.
func (m *Mirror) Seq() (uint64, bool) {
	return m.last, m.started
}

// Pending reports whether the last applied frame was continued, so the
// mirror holds a partially applied pass.
func (m *Mirror) Pending() bool {
	return m.continued
}

// ApplyMessage decodes and applies one websocket message.
func (m *Mirror) ApplyMessage(data []byte) error {
	f, err := DecodeFrame(data)
	if err != nil {
		return err
	}
	return m.ApplyFrame(f)
}

// ApplyFrame applies a patches frame. An error frame is decoded and
// returned as an *ErrorMessage.
func (m *Mirror) ApplyFrame(f *Frame) error {
	switch f.Type {
	case FrameError:
		em, err := DecodeErrorMessage(f.Payload)
		if err != nil {
			return err
		}
		return em
	case FramePatches:
	default:
		return wrapDecode(ErrInvalidFrameType, f.Type.String())
	}

	pf, err := DecodePatchesWithLimits(f.Payload, m.limits)
	if err != nil {
		return err
	}

	var want uint64
	switch {
	case !m.started:
		want = 0
	case m.continued:
		want = m.last
	default:
		want = m.last + 1
	}
	if pf.Seq != want {
		return hderrors.New("E121").WithDetailf("sequence %d, expected %d", pf.Seq, want)
	}

	if err := memhost.Apply(m.doc.Root(), pf.Ops); err != nil {
		return err
	}
	m.last = pf.Seq
	m.started = true
	m.continued = f.Flags.Has(FlagContinued)
	return nil
}
