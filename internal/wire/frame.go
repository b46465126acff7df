package wire

// Prefix identifies which of the three envelope variants a frame uses.
type Prefix byte

const (
	// PrefixModern marks a length-prefixed frame with a 20-byte header,
	// CRC and check byte.
	PrefixModern Prefix = 0x2f

	// PrefixLegacyChunk marks a fixed 147-byte chunked frame used by
	// servers older than version 11.10.
	PrefixLegacyChunk Prefix = 0x4c

	// PrefixLegacyTerminator marks a 2-byte sentinel that closes a
	// legacy exchange.
	PrefixLegacyTerminator Prefix = 0x4e
)

// legacyFrameLen is the fixed size of one 0x4C chunk.
const legacyFrameLen = 147

// legacyMetaLen is the size of the undocumented per-chunk metadata
// header; only the decimal length within it is interpreted.
const legacyMetaLen = 13

// HeaderLen is the size of a modern frame's header, prefix through the
// 8 null pad bytes.
const HeaderLen = 20

// Frame is a decoded envelope, independent of message semantics. C2
// interprets Type/Body according to the message kind.
type Frame struct {
	Prefix Prefix

	// Modern-frame fields.
	CheckByte byte
	CRC       uint16
	Type      uint16
	Timestamp uint32

	// Body holds the payload: for modern frames, the bytes after the
	// 20-byte header; for legacy chunked frames, the concatenation of
	// every chunk's payload slice (bytes 13..147), each with its trailing
	// NUL padding removed.
	Body []byte

	// LegacyMeta preserves the first legacy chunk's 13-byte metadata
	// header verbatim; only LegacyMeta[2:13] (the decimal length) is
	// interpreted elsewhere. See DESIGN.md open questions.
	LegacyMeta [legacyMetaLen]byte
}
