package wire

import (
	"bytes"
	"testing"
)

func TestCheckBytesDeterministic(t *testing.T) {
	buf := []byte("\x00\x14\x01\x08\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")
	c := NewCodec()

	cb1, crc1 := c.CheckBytes(buf)
	cb2, crc2 := c.CheckBytes(buf)

	if cb1 != cb2 || crc1 != crc2 {
		t.Fatalf("CheckBytes not deterministic: (%x,%v) vs (%x,%v)", cb1, crc1, cb2, crc2)
	}
}

func TestWriteReadFrameRoundTrip(t *testing.T) {
	c := NewCodec()
	body := []byte("dlist")

	framed := c.WriteFrame(0x0108, 0x11223344, body)
	r := bytes.NewReader(framed)

	f, err := c.ReadFrame(r)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if f.Prefix != PrefixModern {
		t.Fatalf("Prefix = %v, want PrefixModern", f.Prefix)
	}
	if f.Type != 0x0108 {
		t.Fatalf("Type = %#x, want 0x0108", f.Type)
	}
	if f.Timestamp != 0x11223344 {
		t.Fatalf("Timestamp = %#x, want 0x11223344", f.Timestamp)
	}
	if !bytes.Equal(f.Body, body) {
		t.Fatalf("Body = %q, want %q", f.Body, body)
	}
}

func TestReadFrameBadChecksum(t *testing.T) {
	c := NewCodec()
	framed := c.WriteFrame(0x0108, 1, []byte("x"))
	framed[1] ^= 0xff // corrupt the check byte

	_, err := c.ReadFrame(bytes.NewReader(framed))
	if err != ErrBadChecksum {
		t.Fatalf("err = %v, want ErrBadChecksum", err)
	}
}

func TestReadFrameUnexpectedPrefix(t *testing.T) {
	c := NewCodec()
	_, err := c.ReadFrame(bytes.NewReader([]byte{0x99, 0x00}))

	pe, ok := err.(*ProtocolError)
	if !ok || pe.Kind != "unexpected_prefix" || pe.Byte != 0x99 {
		t.Fatalf("err = %v, want unexpected_prefix(0x99)", err)
	}
}

// legacyChunk builds one 147-byte 0x4C frame: a 13-byte metadata header
// whose bytes 2..13 hold the decimal "remaining" field, NUL-terminated,
// followed by a 134-byte payload slice.
func legacyChunk(remaining int, payload string) []byte {
	chunk := make([]byte, legacyFrameLen)
	chunk[0] = byte(PrefixLegacyChunk)
	field := []byte(itoa(remaining))
	copy(chunk[2:legacyMetaLen], field)
	copy(chunk[legacyMetaLen:], []byte(payload))
	return chunk
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestReadFrameLegacyChunkReassembly(t *testing.T) {
	c := NewCodec()
	chunk1 := legacyChunk(268, "dlist foo")
	chunk2 := legacyChunk(268-(legacyFrameLen-legacyMetaLen), " bar baz")

	buf := append(append([]byte{}, chunk1...), chunk2...)
	f, err := c.ReadFrame(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if f.Prefix != PrefixLegacyChunk {
		t.Fatalf("Prefix = %v, want PrefixLegacyChunk", f.Prefix)
	}

	text := bytes.Trim(f.Body, "\x00")
	if !bytes.Equal(text, []byte("dlist foo bar baz")) {
		t.Fatalf("reassembled body = %q, want %q", text, "dlist foo bar baz")
	}
}

func TestReadFrameLegacyOneChunkBoundary(t *testing.T) {
	c := NewCodec()
	// remaining == 134 (== legacyFrameLen-legacyMetaLen) must not read a
	// second chunk.
	chunk := legacyChunk(134, "solo")
	f, err := c.ReadFrame(bytes.NewReader(chunk))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	text := bytes.Trim(f.Body, "\x00")
	if !bytes.Equal(text, []byte("solo")) {
		t.Fatalf("body = %q, want %q", text, "solo")
	}
}

func TestReadFrameLegacyTerminator(t *testing.T) {
	c := NewCodec()
	f, err := c.ReadFrame(bytes.NewReader([]byte{0x4e, 0x00}))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if f.Prefix != PrefixLegacyTerminator {
		t.Fatalf("Prefix = %v, want PrefixLegacyTerminator", f.Prefix)
	}
}
