package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/cosmolei/flexnet/internal/wire"
)

// Resp is the manager's generic reply to a REQ command. Text carries
// the command's result: a single license-file-path string, the full
// license-file text, or whitespace-separated vendor names, depending
// on which REQ prompted it.
type Resp struct {
	Time    uint32
	TxtLen  uint16
	Text    []string
}

func (r Resp) Type() Type { return TypeResp }

func (r Resp) String() string {
	return fmt.Sprintf("RESP time=%d fields=%d", r.Time, len(r.Text))
}

func decodeResp(f *wire.Frame) Resp {
	// RESP's header extends to offset 24: txt_len sits at body[2:4]
	// (frame offset 22:24); the NUL-separated text follows at body[4:].
	body := f.Body
	var txtLen uint16
	if len(body) >= 4 {
		txtLen = binary.BigEndian.Uint16(body[2:4])
		body = body[4:]
	}
	return Resp{
		Time:   f.Timestamp,
		TxtLen: txtLen,
		Text:   splitFields(body),
	}
}
