package protocol

import (
	"testing"

	"github.com/cosmolei/flexnet/internal/wire"
)

func TestDecodeReqLic1(t *testing.T) {
	body := append([]byte{0xaa, 0xbb}, []byte("3\x0010\x001700000000")...)
	f := &wire.Frame{Prefix: wire.PrefixModern, Type: uint16(TypeReqLic1), Body: body}

	r, err := decodeReqLic1(f)
	if err != nil {
		t.Fatalf("decodeReqLic1: %v", err)
	}
	if r.Prefix != [2]byte{0xaa, 0xbb} {
		t.Fatalf("Prefix = %v", r.Prefix)
	}
	if r.Used != 3 || r.Total != 10 || r.Timestamp != 1700000000 {
		t.Fatalf("decoded = %+v", r)
	}
}
