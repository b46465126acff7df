package domain

import (
	"fmt"
	"strings"
)

// LicenseSet is a grouping returned by a vendor daemon's STUB2 catalog
// reply: metadata plus the embedded license-file text, parsed into its
// member Licenses.
type LicenseSet struct {
	FID    string
	Sig    string
	Names  string
	Date1  string
	Date2  string
	URL    string
	Text   string

	Licenses []*License

	// ParseErr holds a license-file grammar error on Text; per §7 this
	// does not abort vendor enumeration, only this set's member list.
	ParseErr error
}

func (s *LicenseSet) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-15s: %s\n", "fid", s.FID)
	fmt.Fprintf(&b, "%-15s: %s\n", "sig", s.Sig)
	fmt.Fprintf(&b, "%-15s: %s\n", "names", s.Names)
	fmt.Fprintf(&b, "%-15s: %s\n", "date1", s.Date1)
	fmt.Fprintf(&b, "%-15s: %s\n", "date2", s.Date2)
	fmt.Fprintf(&b, "%-15s: %s\n", "url", s.URL)
	fmt.Fprintf(&b, "%-15s: %d\n", "licenses", len(s.Licenses))
	return b.String()
}
