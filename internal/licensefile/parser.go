package licensefile

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a grammar violation: a recognized keyword with
// too few trailing tokens to satisfy its own fields.
type ParseError struct {
	Line string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("licensefile: %s (line: %q)", e.Msg, e.Line)
}

// Parse tokenizes and parses FlexNet license-file text. Unknown
// keywords (UPGRADE, PACKAGE, and anything else) are silently
// skipped, matching the upstream grammar's documented scope.
func Parse(text string) (Entries, error) {
	var entries Entries
	for _, line := range lexLines(text) {
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case "USE_SERVER":
			entries.UseServer = true

		case "SERVER":
			s, err := parseServer(line)
			if err != nil {
				return entries, err
			}
			entries.Servers = append(entries.Servers, s)

		case "VENDOR", "DAEMON":
			v, err := parseVendor(line)
			if err != nil {
				return entries, err
			}
			entries.Vendors = append(entries.Vendors, v)

		case "INCREMENT", "FEATURE":
			l, err := parseLicense(line)
			if err != nil {
				return entries, err
			}
			entries.Licenses = append(entries.Licenses, l)

		default:
			// UPGRADE, PACKAGE, and anything unrecognized: ignored.
		}
	}
	return entries, nil
}

func parseServer(line []string) (ServerEntry, error) {
	if len(line) < 3 {
		return ServerEntry{}, &ParseError{Line: strings.Join(line, " "), Msg: "SERVER needs host and hostid"}
	}
	s := ServerEntry{Host: line[1], HostID: line[2]}
	opts := line[3:]
	i := 0
	for i < len(opts) && opts[i] == "=" && i+1 < len(opts) {
		s.HostID += opts[i] + opts[i+1]
		i += 2
	}
	opts = opts[i:]
	if len(opts) > 0 {
		port, err := strconv.Atoi(opts[0])
		if err != nil {
			return ServerEntry{}, &ParseError{Line: strings.Join(line, " "), Msg: "SERVER port not an integer"}
		}
		s.Port = port
	}
	return s, nil
}

func parseVendor(line []string) (VendorEntry, error) {
	if len(line) < 2 {
		return VendorEntry{}, &ParseError{Line: strings.Join(line, " "), Msg: "VENDOR/DAEMON needs a name"}
	}
	v := VendorEntry{Name: line[1]}
	if len(line) > 2 {
		v.Path = line[2]
	}
	return v, nil
}

func parseLicense(line []string) (LicenseEntry, error) {
	if len(line) < 6 {
		return LicenseEntry{}, &ParseError{Line: strings.Join(line, " "), Msg: "INCREMENT/FEATURE needs feature, vendor, version, expdate, quantity"}
	}
	l := LicenseEntry{
		Feature: line[1],
		Vendor:  line[2],
		Version: line[3],
		ExpDate: line[4],
	}
	if line[5] == "uncounted" {
		l.Quantity = 0
	} else {
		q, err := strconv.Atoi(line[5])
		if err != nil {
			return LicenseEntry{}, &ParseError{Line: strings.Join(line, " "), Msg: "quantity not an integer or \"uncounted\""}
		}
		l.Quantity = q
	}

	pairs, others := parseTrailing(line[6:])
	for key, val := range pairs {
		switch key {
		case "notice":
			l.Notice = val
		case "issued":
			l.Issued = val
		case "start":
			l.Start = val
		case "sign":
			l.Sign = val
		}
	}
	if len(others) > 0 {
		l.Others = others
	}
	return l, nil
}

// parseTrailing scans the tokens after quantity for KEY = VALUE
// triples (value de-quoted, continued across further "= token" pairs),
// returning the recognized pairs and any tokens that didn't fit the
// pattern.
func parseTrailing(opts []string) (map[string]string, []string) {
	pairs := map[string]string{}
	var others []string

	i := 0
	for i < len(opts) {
		if i+2 < len(opts) && opts[i+1] == "=" {
			key := strings.ToLower(stripQuotes(opts[i]))
			val := stripQuotes(opts[i+2])
			j := i + 3
			for j+1 < len(opts) && opts[j] == "=" {
				val += "=" + opts[j+1]
				j += 2
			}
			pairs[key] = val
			i = j
			continue
		}
		others = append(others, opts[i])
		i++
	}
	return pairs, others
}

func stripQuotes(s string) string {
	return strings.Trim(s, `"`)
}
