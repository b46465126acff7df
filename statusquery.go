package flexnet

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cosmolei/flexnet/internal/domain"
	"github.com/cosmolei/flexnet/internal/protocol"
	"github.com/cosmolei/flexnet/internal/wire"
)

// maxCadenceStrayFrames bounds the legacy-dialect discard loop below;
// some vendor daemons (noted upstream as a Cadence bug) interleave
// extra frames before the status reply. We don't resend the request
// to work around it, we just drain and discard, per §9.
const maxCadenceStrayFrames = 16

// StatusQuery owns a connection from the moment a license-status
// request is answered until every usage record it promised has been
// read. Per §9's design note, modeling this explicitly as a type-state
// object is what keeps "read exactly N more frames, no new request"
// from leaking into caller code as an easy-to-miss counter.
type StatusQuery struct {
	client      *Client
	used        int
	total       int
	timestamp   int64
	extraFrames int
	drained     bool
}

// Used, Total, Timestamp report the status counters from the initial
// reply, available before Drain is called.
func (q *StatusQuery) Used() int       { return q.used }
func (q *StatusQuery) Total() int      { return q.total }
func (q *StatusQuery) Timestamp() int64 { return q.timestamp }

// ExtraFrames reports how many stray frames were discarded before the
// expected status reply arrived (the Cadence quirk).
func (q *StatusQuery) ExtraFrames() int { return q.extraFrames }

// startStatusQuery sends a license-status request (REQLIC in MODERN,
// the 147-byte legacy packet in LEGACY) and parses the initial reply,
// returning a StatusQuery that must be drained before any further
// request is sent on this connection (§5's ordering rule).
func (c *Client) startStatusQuery(feature, sign string) (*StatusQuery, error) {
	if c.dialect == DialectLegacy {
		return c.startLegacyStatusQuery(feature, sign)
	}
	return c.startModernStatusQuery(feature, sign)
}

func (c *Client) startModernStatusQuery(feature, sign string) (*StatusQuery, error) {
	req := protocol.ReqLicRequest{Feature: feature, Sign: sign}
	frame, err := c.sendFramed(protocol.TypeReqLic, req.Encode())
	if err != nil {
		return nil, err
	}
	msg, err := protocol.Decode(frame)
	if err != nil {
		return nil, err
	}
	status, ok := msg.(protocol.ReqLic1)
	if !ok {
		return nil, fmt.Errorf("flexnet: expected REQLIC1 status, got %s", msg)
	}
	return &StatusQuery{client: c, used: status.Used, total: status.Total, timestamp: status.Timestamp}, nil
}

func (c *Client) startLegacyStatusQuery(feature, sign string) (*StatusQuery, error) {
	req := protocol.LegacyStatusRequest(feature, sign)
	frame, err := c.sendRaw(req)
	if err != nil {
		return nil, err
	}

	extra := 0
	for frame.Prefix != wire.PrefixLegacyChunk {
		extra++
		if extra > maxCadenceStrayFrames {
			return nil, fmt.Errorf("flexnet: legacy status query: too many stray frames (Cadence quirk)")
		}
		c.logger.Warn().Int("stray_frames", extra).Msg("discarding unexpected legacy frame before status reply")
		frame, err = c.codec.ReadFrame(c.conn)
		if err != nil {
			return nil, err
		}
	}

	msg, err := protocol.Decode(frame)
	if err != nil {
		return nil, err
	}
	text := msg.(protocol.LegacyText).Text
	if len(text) < 3 {
		return nil, fmt.Errorf("flexnet: legacy status reply has %d fields, want 3", len(text))
	}
	used, err := strconv.Atoi(text[0])
	if err != nil {
		return nil, fmt.Errorf("flexnet: legacy status used field: %w", err)
	}
	total, err := strconv.Atoi(text[1])
	if err != nil {
		return nil, fmt.Errorf("flexnet: legacy status total field: %w", err)
	}
	ts, err := strconv.ParseInt(text[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("flexnet: legacy status timestamp field: %w", err)
	}
	return &StatusQuery{client: c, used: used, total: total, timestamp: ts, extraFrames: extra}, nil
}

// Drain reads exactly Used() more frames, each a REQLIC2 usage record,
// with no further request sent. Calling Drain twice is an error.
func (q *StatusQuery) Drain() ([]domain.UsageRecord, error) {
	if q.drained {
		return nil, fmt.Errorf("flexnet: status query already drained")
	}
	q.drained = true

	usage := make([]domain.UsageRecord, 0, q.used)
	for i := 0; i < q.used; i++ {
		frame, err := q.client.codec.ReadFrame(q.client.conn)
		if err != nil {
			return usage, err
		}
		msg, err := protocol.Decode(frame)
		if err != nil {
			return usage, err
		}
		rec, ok := msg.(protocol.ReqLic2)
		if !ok {
			return usage, fmt.Errorf("flexnet: expected REQLIC2 usage record, got %s", msg)
		}
		usage = append(usage, domain.UsageRecord{
			GroupReservation: rec.GroupReservation,
			User:             rec.User,
			Host:             rec.Host,
			TTY:              rec.TTY,
			Version:          rec.Version,
			StartTime:        rec.StartTime,
			Opaque:           rec.Opaque,
		})
	}
	return usage, nil
}

// queryVendorLicenseStatus fills in lic.Status. A missing status key
// (no Sign, no Others) skips the query entirely, per §8's documented
// boundary behavior; any query failure is captured on Status.Err
// rather than aborting the rest of the sweep (§7).
func (c *Client) queryVendorLicenseStatus(ctx context.Context, lic *domain.License) {
	key := lic.StatusKey()
	if key == "" {
		return
	}

	sq, err := c.startStatusQuery(lic.Feature, key)
	if err != nil {
		lic.Status = &domain.LicenseStatus{Err: err}
		return
	}

	usage, err := sq.Drain()
	status := &domain.LicenseStatus{
		Used:      sq.Used(),
		Total:     sq.Total(),
		Timestamp: sq.Timestamp(),
		Usage:     usage,
	}
	if err != nil {
		status.Err = err
	}
	lic.Status = status
}
