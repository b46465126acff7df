package protocol

import (
	"fmt"
	"strconv"

	"github.com/cosmolei/flexnet/internal/wire"
)

// ReqLic1 is a license status reply: seats in use, total seats, and
// the timestamp (seconds since epoch, UTC) the daemon computed it at.
// N = Used more REQLIC2 usage records follow on the same connection.
type ReqLic1 struct {
	// Prefix is retained but never interpreted; see DESIGN.md open
	// questions.
	Prefix    [2]byte
	Used      int
	Total     int
	Timestamp int64
}

func (r ReqLic1) Type() Type { return TypeReqLic1 }

func (r ReqLic1) String() string {
	return fmt.Sprintf("REQLIC1 used=%d total=%d", r.Used, r.Total)
}

func decodeReqLic1(f *wire.Frame) (ReqLic1, error) {
	body := f.Body
	if len(body) < 2 {
		return ReqLic1{}, wire.ErrTruncatedFrame
	}
	var r ReqLic1
	copy(r.Prefix[:], body[:2])

	fields := splitFields(body[2:])
	if len(fields) < 3 {
		return ReqLic1{}, fmt.Errorf("protocol: REQLIC1 expected 3 fields, got %d", len(fields))
	}
	used, err := strconv.Atoi(fields[0])
	if err != nil {
		return ReqLic1{}, fmt.Errorf("protocol: REQLIC1 used field: %w", err)
	}
	total, err := strconv.Atoi(fields[1])
	if err != nil {
		return ReqLic1{}, fmt.Errorf("protocol: REQLIC1 total field: %w", err)
	}
	ts, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return ReqLic1{}, fmt.Errorf("protocol: REQLIC1 timestamp field: %w", err)
	}
	r.Used, r.Total, r.Timestamp = used, total, ts
	return r, nil
}
