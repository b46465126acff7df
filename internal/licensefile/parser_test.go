package licensefile

import "testing"

func TestParseIncrementLine(t *testing.T) {
	text := `INCREMENT widget acme 1.0 31-dec-2030 5 SIGN="ABCD" NOTICE="site A"`

	entries, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries.Licenses) != 1 {
		t.Fatalf("len(Licenses) = %d, want 1", len(entries.Licenses))
	}

	lic := entries.Licenses[0]
	want := LicenseEntry{
		Feature: "widget",
		Vendor:  "acme",
		Version: "1.0",
		ExpDate: "31-dec-2030",
		Quantity: 5,
		Notice:  "site A",
		Sign:    "ABCD",
	}
	if lic.Feature != want.Feature || lic.Vendor != want.Vendor || lic.Version != want.Version ||
		lic.ExpDate != want.ExpDate || lic.Quantity != want.Quantity || lic.Notice != want.Notice || lic.Sign != want.Sign {
		t.Fatalf("parsed = %+v, want %+v", lic, want)
	}
}

func TestParseUncountedQuantity(t *testing.T) {
	entries, err := Parse("FEATURE foo bar 2.0 01-jan-2030 uncounted")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries.Licenses) != 1 || entries.Licenses[0].Quantity != 0 {
		t.Fatalf("licenses = %+v, want quantity 0", entries.Licenses)
	}
}

func TestParseServerHostidConcat(t *testing.T) {
	entries, err := Parse("SERVER myhost 001122334455 = 66778899 27000")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries.Servers) != 1 {
		t.Fatalf("len(Servers) = %d, want 1", len(entries.Servers))
	}
	s := entries.Servers[0]
	if s.HostID != "001122334455=66778899" {
		t.Fatalf("HostID = %q, want %q", s.HostID, "001122334455=66778899")
	}
	if s.Port != 27000 {
		t.Fatalf("Port = %d, want 27000", s.Port)
	}
}

func TestParseVendorAndUseServer(t *testing.T) {
	entries, err := Parse("USE_SERVER\nVENDOR acme /opt/acme/acmed\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !entries.UseServer {
		t.Fatalf("UseServer = false, want true")
	}
	if len(entries.Vendors) != 1 || entries.Vendors[0].Name != "acme" || entries.Vendors[0].Path != "/opt/acme/acmed" {
		t.Fatalf("vendors = %+v", entries.Vendors)
	}
}

func TestParseUnknownKeywordIgnored(t *testing.T) {
	entries, err := Parse("UPGRADE widget acme 1.0 2.0 01-jan-2030 5\nPACKAGE suite acme 1.0 comp1:1.0")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries.Licenses) != 0 || len(entries.Vendors) != 0 || len(entries.Servers) != 0 {
		t.Fatalf("expected UPGRADE/PACKAGE lines to be ignored, got %+v", entries)
	}
}

func TestParseLineContinuation(t *testing.T) {
	entries, err := Parse("INCREMENT widget acme 1.0 \\\n31-dec-2030 5")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries.Licenses) != 1 || entries.Licenses[0].ExpDate != "31-dec-2030" {
		t.Fatalf("licenses = %+v", entries.Licenses)
	}
}
