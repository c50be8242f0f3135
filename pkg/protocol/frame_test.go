package protocol

import (
	"bytes"
	"errors"
	"testing"

	hderrors "github.com/vango-dev/hookdom/internal/errors"
)

func TestFrameEncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		frame *Frame
	}{
		{"empty patches", NewFrame(FramePatches, []byte{})},
		{"patches", NewFrame(FramePatches, []byte{0x00, 0x01, 0x07, 0x00, 0x00})},
		{"continued", &Frame{Type: FramePatches, Flags: FlagContinued, Payload: []byte{0x01}}},
		{"error", NewFrame(FrameError, EncodeErrorMessage(&ErrorMessage{Code: "E110", Message: "boom"}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.frame.Encode()
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if len(data) != FrameHeaderSize+len(tt.frame.Payload) {
				t.Errorf("encoded %d bytes", len(data))
			}
			if data[2] != byte(len(tt.frame.Payload)>>8) || data[3] != byte(len(tt.frame.Payload)) {
				t.Errorf("length bytes = %x %x", data[2], data[3])
			}

			got, err := DecodeFrame(data)
			if err != nil {
				t.Fatalf("DecodeFrame: %v", err)
			}
			if got.Type != tt.frame.Type || got.Flags != tt.frame.Flags || !bytes.Equal(got.Payload, tt.frame.Payload) {
				t.Errorf("DecodeFrame = %+v, want %+v", got, tt.frame)
			}
		})
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrBufferTooShort},
		{"short header", []byte{0x02, 0x00, 0x00}, ErrBufferTooShort},
		{"short payload", []byte{0x02, 0x00, 0x00, 0x03, 0x01}, ErrBufferTooShort},
		{"trailing bytes", []byte{0x02, 0x00, 0x00, 0x01, 0x01, 0x02}, ErrTrailingData},
		{"unknown type", []byte{0x09, 0x00, 0x00, 0x00}, ErrInvalidFrameType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !hderrors.Is(err, "E121") {
				t.Errorf("error %v is not E121", err)
			}
		})
	}
}

func TestFrameTooLarge(t *testing.T) {
	f := NewFrame(FramePatches, make([]byte, MaxPayloadSize+1))
	if _, err := f.Encode(); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("Encode error = %v, want ErrFrameTooLarge", err)
	}
	f.Payload = f.Payload[:MaxPayloadSize]
	if _, err := f.Encode(); err != nil {
		t.Errorf("Encode at the limit: %v", err)
	}
}

func TestFrameTypeString(t *testing.T) {
	tests := []struct {
		ft   FrameType
		want string
	}{
		{FramePatches, "Patches"},
		{FrameError, "Error"},
		{FrameType(0x7F), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.ft.String(); got != tt.want {
			t.Errorf("FrameType(%d).String() = %q, want %q", tt.ft, got, tt.want)
		}
	}
}

func TestFrameFlagsHas(t *testing.T) {
	if !FlagContinued.Has(FlagContinued) {
		t.Error("FlagContinued.Has(FlagContinued) = false")
	}
	if FrameFlags(0).Has(FlagContinued) {
		t.Error("0.Has(FlagContinued) = true")
	}
}

func TestErrorMessage(t *testing.T) {
	em := &ErrorMessage{Code: "E110", Message: "render pass panicked"}
	got, err := DecodeErrorMessage(EncodeErrorMessage(em))
	if err != nil {
		t.Fatal(err)
	}
	if *got != *em {
		t.Errorf("decoded %+v, want %+v", got, em)
	}
	if em.Error() != "E110: render pass panicked" {
		t.Errorf("Error() = %q", em.Error())
	}
	if _, err := DecodeErrorMessage([]byte{0x04, 'E'}); !hderrors.Is(err, "E121") {
		t.Errorf("truncated message error = %v", err)
	}
}
