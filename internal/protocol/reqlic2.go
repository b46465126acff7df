package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cosmolei/flexnet/internal/wire"
)

// ReqLic2 is one usage record: either a group reservation (a named
// pool holding seats on behalf of a group) or an individual checkout.
type ReqLic2 struct {
	GroupReservation string // set when this record is a group reservation

	User      string
	Host      string
	TTY       string
	Version   string
	StartTime uint32
	Opaque    uint64
}

func (r ReqLic2) Type() Type { return TypeReqLic2 }

func (r ReqLic2) IsGroup() bool { return r.GroupReservation != "" }

func (r ReqLic2) String() string {
	if r.IsGroup() {
		return fmt.Sprintf("REQLIC2 group=%s", r.GroupReservation)
	}
	return fmt.Sprintf("REQLIC2 user=%s host=%s tty=%s", r.User, r.Host, r.TTY)
}

// decodeReqLic2 splits the body at the first 0x01 byte: text fields
// before it, a start-time/opaque pair (or all-zero group marker) after.
func decodeReqLic2(f *wire.Frame) ReqLic2 {
	i := bytes.IndexByte(f.Body, 0x01)
	var before, after []byte
	if i < 0 {
		before = f.Body
	} else {
		before, after = f.Body[:i], f.Body[i+1:]
	}

	text := splitFields(before)

	allZero := true
	for _, b := range after {
		if b != 0 {
			allZero = false
			break
		}
	}

	if allZero && len(text) > 0 && len(text[0]) > 0 && text[0][0] == 'G' {
		return ReqLic2{GroupReservation: text[0][1:]}
	}

	r := ReqLic2{}
	if len(text) > 0 {
		r.User = text[0]
	}
	if len(text) > 1 {
		r.Host = text[1]
	}
	if len(text) > 2 {
		r.TTY = text[2]
	}
	if len(text) > 3 {
		r.Version = text[3]
	}
	if len(after) >= 8 {
		r.StartTime = binary.BigEndian.Uint32(after[4:8])
	}
	if len(after) >= 16 {
		r.Opaque = binary.BigEndian.Uint64(after[8:16])
	}
	return r
}
