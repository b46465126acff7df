package domain

import "fmt"

// UsageRecord is one REQLIC2 reply: either a group reservation (a
// named pool holding seats on behalf of a group) or an individual
// checkout.
type UsageRecord struct {
	GroupReservation string // non-empty for a group reservation

	User      string
	Host      string
	TTY       string
	Version   string
	StartTime uint32
	Opaque    uint64
}

func (u UsageRecord) IsGroup() bool { return u.GroupReservation != "" }

func (u UsageRecord) String() string {
	if u.IsGroup() {
		return fmt.Sprintf("group reservation: %s", u.GroupReservation)
	}
	return fmt.Sprintf("%s@%s (%s, %s)", u.User, u.Host, u.TTY, u.Version)
}
