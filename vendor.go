package flexnet

import (
	"context"
	"fmt"
	"strings"

	"github.com/cosmolei/flexnet/internal/domain"
	"github.com/cosmolei/flexnet/internal/licensefile"
	"github.com/cosmolei/flexnet/internal/protocol"
	"github.com/cosmolei/flexnet/internal/wire"
)

// queryVendorDetails opens a fresh connection to the named vendor's
// daemon (per §4.4 step 7: "each vendor gets its own TCP connection"),
// greets it, and gathers its features, license catalog, and
// reconciled license list with per-license status.
func (c *Client) queryVendorDetails(ctx context.Context, name string, fileLicenses []*domain.License) (*domain.Vendor, error) {
	loc, ok := c.registry.get(name)
	if !ok {
		return nil, fmt.Errorf("flexnet: no redirect recorded for vendor %s", name)
	}

	vc := NewClient(loc.host, int(loc.port),
		WithTimeout(c.timeout),
		WithLogger(c.logger),
		WithVerbose(c.Verbose),
		WithDumpWire(c.DumpWire),
	)
	vc.User, vc.Host, vc.TTY, vc.PID, vc.Arch = c.User, c.Host, c.TTY, c.PID, c.Arch
	vc.VersionMaj, vc.VersionMin = c.VersionMaj, c.VersionMin

	if err := vc.Connect(ctx); err != nil {
		return nil, err
	}
	defer vc.Close()

	msg, err := vc.hello(ctx, "")
	if err != nil {
		return nil, err
	}
	hr, ok := msg.(protocol.HelloResponse)
	if !ok {
		return nil, fmt.Errorf("flexnet: expected HELLO from vendor %s, got %s", name, msg)
	}
	if hr.IsLegacy() {
		vc.dialect = DialectLegacy
	} else {
		vc.dialect = DialectModern
	}

	v := &domain.Vendor{Name: name, Hostname: loc.host, Port: loc.port}

	features, err := vc.queryVendorFeatures(ctx)
	if err != nil {
		return nil, err
	}
	v.Features = features

	if vc.dialect == DialectModern {
		sets, err := vc.queryVendorLicenseSets(ctx)
		if err != nil {
			return nil, err
		}
		v.LicenseSets = sets
		for _, set := range sets {
			v.Licenses = append(v.Licenses, set.Licenses...)
		}
	}

	seen := make(map[[2]string]bool, len(v.Licenses))
	for _, lic := range v.Licenses {
		seen[[2]string{lic.Feature, lic.StatusKey()}] = true
	}
	for _, lic := range fileLicenses {
		if lic.Vendor != name {
			continue
		}
		key := [2]string{lic.Feature, lic.StatusKey()}
		if seen[key] {
			continue
		}
		seen[key] = true
		v.Licenses = append(v.Licenses, lic)
	}

	for _, lic := range v.Licenses {
		vc.queryVendorLicenseStatus(ctx, lic)
	}

	return v, nil
}

// queryVendorFeatures asks a vendor daemon for its feature list: STUB
// in MODERN, a fixed legacy packet in LEGACY.
func (c *Client) queryVendorFeatures(ctx context.Context) ([]string, error) {
	var (
		frame *wire.Frame
		err   error
	)
	if c.dialect == DialectLegacy {
		frame, err = c.sendRaw(protocol.LegacyFeatureRequest())
	} else {
		req := protocol.DefaultStubRequest()
		frame, err = c.sendFramed(protocol.TypeStub, req.Encode())
	}
	if err != nil {
		return nil, err
	}
	msg, err := protocol.Decode(frame)
	if err != nil {
		return nil, err
	}
	return strings.Fields(firstField(msg)), nil
}

// queryVendorLicenseSets asks a MODERN vendor daemon for its license
// catalog and parses each set's embedded license text.
func (c *Client) queryVendorLicenseSets(ctx context.Context) ([]*domain.LicenseSet, error) {
	req := protocol.LicSetRequest{}
	frame, err := c.sendFramed(protocol.TypeLicSet, req.Encode())
	if err != nil {
		return nil, err
	}
	msg, err := protocol.Decode(frame)
	if err != nil {
		return nil, err
	}
	stub2, ok := msg.(protocol.Stub2)
	if !ok {
		return nil, fmt.Errorf("flexnet: expected STUB2 catalog, got %s", msg)
	}

	var sets []*domain.LicenseSet
	for _, rec := range stub2.Records() {
		set := &domain.LicenseSet{
			FID:   rec[0],
			Sig:   rec[1],
			Names: rec[2],
			Date1: rec[3],
			Date2: rec[4],
			URL:   rec[6],
			Text:  rec[7],
		}
		entries, err := licensefile.Parse(set.Text)
		if err != nil {
			set.ParseErr = err
		} else {
			set.Licenses = licensesFromEntries(entries.Licenses)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func firstField(msg protocol.Message) string {
	fields := fieldsOf(msg)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func fieldsOf(msg protocol.Message) []string {
	switch m := msg.(type) {
	case protocol.Resp:
		return m.Text
	case protocol.LegacyText:
		return m.Text
	case protocol.Stub2:
		return m.Fields
	default:
		return nil
	}
}
