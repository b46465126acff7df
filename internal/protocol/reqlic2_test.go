package protocol

import (
	"testing"

	"github.com/cosmolei/flexnet/internal/wire"
)

func TestDecodeReqLic2GroupReservation(t *testing.T) {
	body := []byte("GroupA\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")
	f := &wire.Frame{Prefix: wire.PrefixModern, Type: uint16(TypeReqLic2), Body: body}

	r := decodeReqLic2(f)
	if !r.IsGroup() {
		t.Fatalf("expected a group reservation")
	}
	if r.GroupReservation != "roupA" {
		t.Fatalf("GroupReservation = %q, want %q", r.GroupReservation, "roupA")
	}
}

func TestDecodeReqLic2Checkout(t *testing.T) {
	var after [16]byte
	after[4], after[5], after[6], after[7] = 0x00, 0x00, 0x04, 0xd2 // start time 1234
	after[15] = 0x01                                                // opaque = 1
	body := append([]byte("bob\x00host1\x00pts/2\x00v1\x00\x01"), after[:]...)
	f := &wire.Frame{Prefix: wire.PrefixModern, Type: uint16(TypeReqLic2), Body: body}

	r := decodeReqLic2(f)
	if r.IsGroup() {
		t.Fatalf("expected a checkout record, not a group reservation")
	}
	if r.User != "bob" || r.Host != "host1" || r.TTY != "pts/2" || r.Version != "v1" {
		t.Fatalf("decoded = %+v", r)
	}
	if r.StartTime != 1234 {
		t.Fatalf("StartTime = %d, want 1234", r.StartTime)
	}
	if r.Opaque != 1 {
		t.Fatalf("Opaque = %d, want 1", r.Opaque)
	}
}
