package domain

import (
	"fmt"
	"strings"
)

// LicenseStatus is the usage snapshot attached to a License by the
// status-query phase. Err is set instead when the query itself failed;
// per §7, a broken license must not abort the rest of the sweep.
type LicenseStatus struct {
	Used      int
	Total     int
	Timestamp int64
	Usage     []UsageRecord
	Err       error
}

// License is a single FlexNet license record, sourced from either the
// manager's license-file text or a vendor's license-set catalog.
type License struct {
	// Required
	Feature  string
	Vendor   string
	Version  string
	ExpDate  string
	Quantity int // 0 means uncounted

	// Optional
	Notice string
	Issued string
	Start  string
	Sign   string
	Others []string

	// Status is filled in lazily by the status-query phase; it is the
	// only mutable field on an otherwise immutable record.
	Status *LicenseStatus
}

// StatusKey returns the identifier used to query this license's usage:
// Sign if present, else the first "others" token, else "" (status
// query is skipped for that license, per §8 boundary behaviors).
func (l *License) StatusKey() string {
	if l.Sign != "" {
		return l.Sign
	}
	if len(l.Others) > 0 {
		return l.Others[0]
	}
	return ""
}

func (l *License) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-15s: %s\n", "feature", l.Feature)
	fmt.Fprintf(&b, "%-15s: %s\n", "vendor", l.Vendor)
	fmt.Fprintf(&b, "%-15s: %s\n", "version", l.Version)
	fmt.Fprintf(&b, "%-15s: %s\n", "expdate", l.ExpDate)
	fmt.Fprintf(&b, "%-15s: %d\n", "quantity", l.Quantity)
	if l.Notice != "" {
		fmt.Fprintf(&b, "%-15s: %s\n", "notice", l.Notice)
	}
	if l.Issued != "" {
		fmt.Fprintf(&b, "%-15s: %s\n", "issued", l.Issued)
	}
	if l.Start != "" {
		fmt.Fprintf(&b, "%-15s: %s\n", "start", l.Start)
	}
	if l.Sign != "" {
		fmt.Fprintf(&b, "%-15s: %s\n", "sign", l.Sign)
	}
	b.WriteString("status\n")
	if l.Status != nil {
		if l.Status.Err != nil {
			fmt.Fprintf(&b, "    error: %v\n", l.Status.Err)
		} else {
			fmt.Fprintf(&b, "    %-15s: %d\n", "used", l.Status.Used)
			fmt.Fprintf(&b, "    %-15s: %d\n", "total", l.Status.Total)
			fmt.Fprintf(&b, "    %-15s: %d\n", "timestamp", l.Status.Timestamp)
		}
	}
	return b.String()
}
