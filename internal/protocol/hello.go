package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/cosmolei/flexnet/internal/wire"
)

// HELLO is not carried inside a wire.Codec frame at all: it has its
// own 4-byte non-framed prefix and its own (non-CRC) checksum. See
// §4.2 and DESIGN.md's open questions for the unexplained magic
// constants kept verbatim below.
const (
	helloPrefixMagic1 = 0x68
	helloPrefixMagic2 = 0x31
	helloPrefixMagic3 = 0x33
	helloPadByte      = 0x84
)

// helloTrailer is the literal bytes appended after the version pair:
// "78\x0014\x00", 6 bytes, producing a 147-byte HELLO request. This
// must stay bit-exact to interoperate with a real lmgrd.
var helloTrailer = []byte{'7', '8', 0x00, '1', '4', 0x00}

// HelloRequest is the fixed-width identification a client sends to a
// manager or, with Vendor set, to request a redirect to that vendor's
// daemon.
type HelloRequest struct {
	User        string
	Host        string
	Vendor      string
	TTY         string
	PID         string
	Arch        string
	VersionMaj  uint8
	VersionMin  uint8
}

// Encode builds the raw HELLO request bytes.
func (h HelloRequest) Encode() []byte {
	pad := func(s string, width int) []byte {
		b := make([]byte, width)
		copy(b, s)
		return b
	}

	var body []byte
	for _, field := range []struct {
		s     string
		width int
	}{
		{h.User, 20},
		{h.Host, 32},
		{h.Vendor, 10},
		{h.TTY, 32},
	} {
		body = append(body, pad(field.s, field.width)...)
		body = append(body, 0)
	}
	padByte := make([]byte, 12)
	padByte[0] = helloPadByte
	body = append(body, padByte...)
	body = append(body, 0)

	body = append(body, pad(h.PID, 10)...)
	body = append(body, 0)
	body = append(body, pad(h.Arch, 12)...)
	body = append(body, 0)

	body = append(body, h.VersionMaj, h.VersionMin)
	body = append(body, helloTrailer...)

	sum := 0
	for _, b := range body[:len(body)-2] {
		sum += int(b)
	}
	checkByte := byte(sum % 256)

	out := make([]byte, 0, 4+len(body))
	out = append(out, helloPrefixMagic1, checkByte, helloPrefixMagic2, helloPrefixMagic3)
	out = append(out, body...)
	return out
}

// HelloResponse is the server's or vendor's greeting.
type HelloResponse struct {
	Hostname     string
	Daemon       string
	ServerVerMaj uint8
	ServerVerMin uint8
	Token        uint32
	Suffix       uint16
}

func (h HelloResponse) Type() Type { return TypeHello }

func (h HelloResponse) String() string {
	return fmt.Sprintf("HELLO host=%s daemon=%s version=%d.%d", h.Hostname, h.Daemon, h.ServerVerMaj, h.ServerVerMin)
}

// IsLegacy reports whether the greeted server predates the 11.10
// protocol split.
func (h HelloResponse) IsLegacy() bool {
	ver := uint16(h.ServerVerMaj)<<8 | uint16(h.ServerVerMin)
	return ver < (uint16(11)<<8 | uint16(10))
}

func decodeHello(f *wire.Frame) HelloResponse {
	// f.Body starts at frame offset 20; HELLO's header extends to
	// offset 24, so the first 4 bytes of Body are srv_ver (2 bytes)
	// and suffix (2 bytes), with the NUL-separated text following.
	var srvVer [2]byte
	var suffix uint16
	body := f.Body
	if len(body) >= 4 {
		copy(srvVer[:], body[0:2])
		suffix = binary.BigEndian.Uint16(body[2:4])
		body = body[4:]
	}

	fields := splitFields(body)
	h := HelloResponse{
		ServerVerMaj: srvVer[0],
		ServerVerMin: srvVer[1],
		Token:        f.Timestamp,
		Suffix:       suffix,
	}
	if len(fields) > 0 {
		h.Hostname = fields[0]
	}
	if len(fields) > 1 {
		h.Daemon = fields[1]
	}
	return h
}
