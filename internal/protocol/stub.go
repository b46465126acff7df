package protocol

import (
	"fmt"

	"github.com/cosmolei/flexnet/internal/wire"
)

// StubRequest is a generic request to a vendor daemon: the feature
// list query in MODERN dialect. The default body matches what the
// original client sends for a plain feature-list STUB.
type StubRequest struct {
	Data []byte
}

// DefaultStubRequest is the body used to ask a vendor for its feature
// list.
func DefaultStubRequest() StubRequest {
	return StubRequest{Data: []byte{0x31, 0x00, 0x30, 0x00}}
}

func (s StubRequest) Encode() []byte { return s.Data }

// LicSetRequest asks a vendor daemon for its full license catalog.
type LicSetRequest struct{}

func (LicSetRequest) Encode() []byte {
	return []byte{0x01, 0x00, 0x00, 0x00, 0x00}
}

// Stub2 carries a vendor's license catalog: a run of 8-field records
// (fid, sig, names, date1, date2, fid, url, license text).
type Stub2 struct {
	Fields []string
}

func (s Stub2) Type() Type { return TypeStub2 }

func (s Stub2) String() string {
	return fmt.Sprintf("STUB2 fields=%d", len(s.Fields))
}

// stub2FieldsPerRecord is the number of fields in one license-set
// record within a STUB2 payload.
const stub2FieldsPerRecord = 8

func decodeStub2(f *wire.Frame) Stub2 {
	var fields []string
	start := 0
	for i := 0; i <= len(f.Body); i++ {
		if i == len(f.Body) || f.Body[i] == 0 {
			field := stripStub2Binary(f.Body[start:i])
			if len(field) > 0 {
				fields = append(fields, string(field))
			}
			start = i + 1
		}
	}
	return Stub2{Fields: fields}
}

// stripStub2Binary drops the stray 0x01/0x07 bytes interspersed in
// STUB2 fields; their meaning is unknown, only their removal matters.
func stripStub2Binary(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c == 0x01 || c == 0x07 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Records groups Fields into LicenseSet-shaped 8-tuples.
func (s Stub2) Records() [][stub2FieldsPerRecord]string {
	n := len(s.Fields) / stub2FieldsPerRecord
	out := make([][stub2FieldsPerRecord]string, n)
	for i := 0; i < n; i++ {
		var rec [stub2FieldsPerRecord]string
		copy(rec[:], s.Fields[i*stub2FieldsPerRecord:(i+1)*stub2FieldsPerRecord])
		out[i] = rec
	}
	return out
}
