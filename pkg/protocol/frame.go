package protocol

import (
	"errors"
	"fmt"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 4

	// MaxPayloadSize is the largest payload a header can describe.
	MaxPayloadSize = 65535
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FramePatches FrameType = 0x02 // Server → mirror host ops
	FrameError   FrameType = 0x05 // Server → mirror error before close
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FramePatches:
		return "Patches"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// FrameFlags are optional flags for frame processing.
type FrameFlags uint8

const (
	// FlagContinued marks a patches frame whose pass continues in the next
	// frame.
	FlagContinued FrameFlags = 0x01
)

// Has reports whether ff contains flag.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame is a header plus payload.
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//	│  Payload (variable length)                                  │
//	└─────────────────────────────────────────────────────────────┘
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame creates a frame without flags.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode returns the frame bytes, header included. It fails when the payload
// does not fit the 16-bit length.
func (f *Frame) Encode() ([]byte, error) {
	if len(f.Payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(f.Payload))
	}
	e := NewEncoderWithCap(FrameHeaderSize + len(f.Payload))
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUint16(uint16(len(f.Payload)))
	e.WriteBytes(f.Payload)
	return e.Bytes(), nil
}

// DecodeFrame decodes one frame occupying all of data.
func DecodeFrame(data []byte) (*Frame, error) {
	d := NewDecoder(data)
	ft, _ := d.ReadByte()
	flags, _ := d.ReadByte()
	length, err := d.ReadUint16()
	if err != nil {
		return nil, wrapDecode(ErrBufferTooShort, "frame header")
	}

	switch FrameType(ft) {
	case FramePatches, FrameError:
	default:
		return nil, wrapDecode(ErrInvalidFrameType, fmt.Sprintf("type 0x%02x", ft))
	}

	switch {
	case d.Remaining() < int(length):
		return nil, wrapDecode(ErrBufferTooShort, fmt.Sprintf("payload %d of %d bytes", d.Remaining(), length))
	case d.Remaining() > int(length):
		return nil, wrapDecode(ErrTrailingData, "frame")
	}

	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:])
	return &Frame{
		Type:    FrameType(ft),
		Flags:   FrameFlags(flags),
		Payload: payload,
	}, nil
}
