// Package protocol implements the binary format that carries host tree
// mutations to a remote mirror.
//
// After every render pass the server sends the pass's attached operations,
// in journal order, to each connected mirror. The mirror replays them onto
// its own copy of the tree (see memhost.Apply), so both trees stay equal.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// A patches payload is the pass sequence number and an op count, both
// varints, followed by the ops:
//
//	[Seq: uvarint][Count: uvarint][Op]...
//	Op: [Kind: byte][PathLen: uvarint][Index: uvarint]...[fields]
//
// The fields depend on the kind: a name and value for SetAttribute, a name
// for RemoveAttribute, an index and a node for AppendChild and
// ReplaceChild, an index for RemoveChild. A node is its kind byte followed
// by the text, or by the tag, the attributes sorted by name and the
// children.
//
// A pass too large for one frame is split over several frames with the
// same sequence number; all but the last carry FlagContinued. An append or
// replace whose snapshot alone does not fit is sent as the element without
// its children, followed by one append per child at the new element's path.
//
// # Encoding
//
//   - Varint: protobuf-style unsigned integers
//   - Length-prefixed: strings prefixed with their varint length
//   - Big-endian: the uint16 payload length of the header
//
// Decoding enforces allocation, collection and depth limits. Every decode
// error is reported as an E121 error wrapping one of the sentinel errors
// below.
package protocol
