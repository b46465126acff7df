package licensefile

// ServerEntry is one SERVER line: a redundant-manager host candidate.
type ServerEntry struct {
	Host   string
	HostID string
	Port   int // 0 if absent
}

// VendorEntry is one VENDOR/DAEMON line.
type VendorEntry struct {
	Name string
	Path string // empty if absent
}

// LicenseEntry is one INCREMENT/FEATURE line.
type LicenseEntry struct {
	Feature  string
	Vendor   string
	Version  string
	ExpDate  string
	Quantity int // 0 means uncounted

	Notice string
	Issued string
	Start  string
	Sign   string
	Others []string
}

// Entries is the parsed content of a FlexNet license-file text blob.
type Entries struct {
	UseServer bool
	Servers   []ServerEntry
	Vendors   []VendorEntry
	Licenses  []LicenseEntry
}
