package domain

import "fmt"

// Vendor is a per-software-publisher FlexNet daemon discovered via a
// manager redirect (STUBR).
type Vendor struct {
	Name        string
	Hostname    string
	Port        uint32
	Features    []string
	LicenseSets []*LicenseSet
	Licenses    []*License
}

func (v *Vendor) String() string {
	return fmt.Sprintf("vendor %s at %d@%s", v.Name, v.Port, v.Hostname)
}
