package wire

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/snksoft/crc"
)

// crcParams is the FlexNet CRC-14 variant: polynomial 0x2E97, reflected
// in and out, no init or final xor. Width/polynomial/reflect are the
// only knobs the wire format specifies; everything else defaults to
// zero.
var crcParams = &crc.Parameters{
	Width:      14,
	Polynomial: 0x2e97,
	Init:       0,
	ReflectIn:  true,
	ReflectOut: true,
	FinalXor:   0,
}

// Codec reads and writes FlexNet frames on a connection. It owns its
// own CRC table rather than relying on a package-level singleton, so
// multiple Codecs (e.g. one per Client) never share mutable state.
type Codec struct {
	table *crc.Table
}

// NewCodec builds a Codec with a freshly computed CRC table.
func NewCodec() *Codec {
	return &Codec{table: crc.NewTable(crcParams)}
}

// CheckBytes computes the check byte and 2-byte big-endian CRC over
// buf, per §4.1: the CRC covers all of buf, and the check byte is a
// modular sum of the CRC bytes plus the first 16 bytes of buf, plus 47.
func (c *Codec) CheckBytes(buf []byte) (checkByte byte, crcBytes [2]byte) {
	crcVal := uint16(c.table.CalculateCRC(buf))
	binary.BigEndian.PutUint16(crcBytes[:], crcVal)

	sum := int(crcBytes[0]) + int(crcBytes[1])
	for i := 0; i < 16 && i < len(buf); i++ {
		sum += int(buf[i])
	}
	checkByte = byte((sum + 47) % 256)
	return checkByte, crcBytes
}

// WriteFrame builds a modern (0x2F) frame carrying a message of the
// given type. timestamp is seconds since the Unix epoch, UTC.
func (c *Codec) WriteFrame(msgType uint16, timestamp uint32, body []byte) []byte {
	header := make([]byte, 16)
	binary.BigEndian.PutUint16(header[0:2], uint16(len(body)+HeaderLen))
	binary.BigEndian.PutUint16(header[2:4], msgType)
	binary.BigEndian.PutUint32(header[4:8], timestamp)
	// header[8:16] stays zero (the 8 null pad bytes).

	checkByte, crcBytes := c.CheckBytes(append(append([]byte{}, header...), body...))

	out := make([]byte, 0, HeaderLen+len(body))
	out = append(out, byte(PrefixModern), checkByte, crcBytes[0], crcBytes[1])
	out = append(out, header...)
	out = append(out, body...)
	return out
}

// ReadFrame reads one frame from r, dispatching on the prefix byte.
func (c *Codec) ReadFrame(r io.Reader) (*Frame, error) {
	var firstByte [1]byte
	if _, err := io.ReadFull(r, firstByte[:]); err != nil {
		return nil, wrapIOErr(err)
	}

	switch Prefix(firstByte[0]) {
	case PrefixModern:
		return c.readModernFrame(r, firstByte[0])
	case PrefixLegacyChunk:
		return c.readLegacyChunkFrame(r, firstByte[0])
	case PrefixLegacyTerminator:
		return c.readLegacyTerminatorFrame(r, firstByte[0])
	default:
		return nil, ErrUnexpectedPrefix(firstByte[0])
	}
}

func (c *Codec) readModernFrame(r io.Reader, prefix byte) (*Frame, error) {
	rest := make([]byte, HeaderLen-1)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, wrapIOErr(err)
	}
	header := append([]byte{prefix}, rest...)

	totalLen := binary.BigEndian.Uint16(header[4:6])
	if int(totalLen) < HeaderLen {
		return nil, ErrTruncatedFrame
	}
	body := make([]byte, int(totalLen)-HeaderLen)
	if len(body) > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, wrapIOErr(err)
		}
	}

	f := &Frame{
		Prefix:    PrefixModern,
		CheckByte: header[1],
		CRC:       binary.BigEndian.Uint16(header[2:4]),
		Type:      binary.BigEndian.Uint16(header[6:8]),
		Timestamp: binary.BigEndian.Uint32(header[8:12]),
		Body:      body,
	}

	verifyOver := append(append([]byte{}, header[4:]...), body...)
	checkByte, crcBytes := c.CheckBytes(verifyOver)
	wantCRC := binary.BigEndian.Uint16(crcBytes[:])
	if checkByte != f.CheckByte || wantCRC != f.CRC {
		return nil, ErrBadChecksum
	}

	return f, nil
}

func (c *Codec) readLegacyChunkFrame(r io.Reader, prefix byte) (*Frame, error) {
	rest := make([]byte, legacyFrameLen-1)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, wrapIOErr(err)
	}
	chunk := append([]byte{prefix}, rest...)

	f := &Frame{Prefix: PrefixLegacyChunk}
	copy(f.LegacyMeta[:], chunk[:legacyMetaLen])

	// Each chunk's trailing NUL padding is dropped before concatenation,
	// so text split across chunks reads as one run.
	body := append([]byte{}, bytes.TrimRight(chunk[legacyMetaLen:], "\x00")...)
	remaining := legacyChunkRemaining(chunk)

	for remaining > legacyFrameLen-legacyMetaLen {
		next := make([]byte, legacyFrameLen)
		if _, err := io.ReadFull(r, next); err != nil {
			return nil, wrapIOErr(err)
		}
		body = append(body, bytes.TrimRight(next[legacyMetaLen:], "\x00")...)
		remaining = legacyChunkRemaining(next)
	}

	f.Body = body
	return f, nil
}

func (c *Codec) readLegacyTerminatorFrame(r io.Reader, prefix byte) (*Frame, error) {
	var second [1]byte
	if _, err := io.ReadFull(r, second[:]); err != nil {
		return nil, wrapIOErr(err)
	}
	return &Frame{Prefix: PrefixLegacyTerminator, Body: nil}, nil
}

// legacyChunkRemaining extracts the decimal "bytes remaining" field
// from a 147-byte legacy chunk: a NUL-terminated ASCII integer at
// offsets 2..13.
func legacyChunkRemaining(chunk []byte) int {
	field := chunk[2:legacyMetaLen]
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	n := 0
	for _, b := range field {
		if b < '0' || b > '9' {
			break
		}
		n = n*10 + int(b-'0')
	}
	return n
}

func wrapIOErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncatedFrame
	}
	return err
}
