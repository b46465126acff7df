package protocol

import "testing"

func TestHelloRequestRoundTripLength(t *testing.T) {
	h := HelloRequest{
		User:       "alice",
		Host:       "work",
		Vendor:     "",
		TTY:        "/dev/pts/1",
		PID:        "4242",
		Arch:       "x64_lsb",
		VersionMaj: 11,
		VersionMin: 11,
	}

	req := h.Encode()
	if len(req) != 147 {
		t.Fatalf("len(req) = %d, want 147", len(req))
	}

	if req[0] != helloPrefixMagic1 || req[2] != helloPrefixMagic2 || req[3] != helloPrefixMagic3 {
		t.Fatalf("prefix bytes = % x, want 68 ?? 31 33", req[:4])
	}

	sum := 0
	for _, b := range req[4 : len(req)-2] {
		sum += int(b)
	}
	want := byte(sum % 256)
	if req[1] != want {
		t.Fatalf("check byte = %#x, want %#x", req[1], want)
	}
}
