package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cosmolei/flexnet/internal/wire"
)

// StubR is the manager's redirect to a vendor daemon's host and port,
// sent in reply to a HELLO naming a vendor.
type StubR struct {
	VendorHostname string
	VendorPort     uint32
}

func (s StubR) Type() Type { return TypeStubR }

func (s StubR) String() string {
	return fmt.Sprintf("STUBR host=%s port=%d", s.VendorHostname, s.VendorPort)
}

func decodeStubR(f *wire.Frame) (StubR, error) {
	i := bytes.IndexByte(f.Body, 0)
	if i < 0 {
		return StubR{}, fmt.Errorf("protocol: STUBR body missing NUL-terminated hostname")
	}
	hostname := string(f.Body[:i])
	remainder := f.Body[i+1:]
	if len(remainder) < 4 {
		return StubR{}, wire.ErrTruncatedFrame
	}
	port := binary.BigEndian.Uint32(remainder[:4])
	return StubR{VendorHostname: hostname, VendorPort: port}, nil
}
