package protocol

import (
	"testing"

	"github.com/cosmolei/flexnet/internal/wire"
)

func TestDecodeStubRRedirect(t *testing.T) {
	body := append([]byte("licserver2\x00"), 0x00, 0x00, 0x6e, 0x1c)
	f := &wire.Frame{Prefix: wire.PrefixModern, Type: uint16(TypeStubR), Body: body}

	s, err := decodeStubR(f)
	if err != nil {
		t.Fatalf("decodeStubR: %v", err)
	}
	if s.VendorHostname != "licserver2" {
		t.Fatalf("VendorHostname = %q, want %q", s.VendorHostname, "licserver2")
	}
	if s.VendorPort != 28188 {
		t.Fatalf("VendorPort = %d, want 28188", s.VendorPort)
	}
}
