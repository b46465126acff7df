package flexnet

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/cosmolei/flexnet/internal/domain"
)

// ReportEverything runs QueryEverything and renders the result as a
// sequence of tables: one row per server fact, then per vendor a table
// of its features and a table of its licenses with their usage.
func (c *Client) ReportEverything(ctx context.Context, w io.Writer) error {
	server, vendors, err := c.QueryEverything(ctx)
	if err != nil {
		return err
	}
	writeServerReport(w, server, c.ShowReserved)
	for _, v := range vendors {
		writeVendorReport(w, v)
	}
	return nil
}

func writeServerReport(w io.Writer, s *domain.Server, showReserved bool) {
	fmt.Fprintln(w, "Server")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"field", "value"})
	table.Append([]string{"hostname", s.Hostname})
	table.Append([]string{"port", fmt.Sprintf("%d", s.Port)})
	table.Append([]string{"daemon", s.DaemonName})
	table.Append([]string{"version", fmt.Sprintf("%d.%d", s.VersionMaj, s.VersionMin)})
	table.Append([]string{"license file", s.LicenseFilePath})
	table.Append([]string{"vendors", fmt.Sprintf("%d", len(s.VendorNames))})
	if showReserved {
		table.Append([]string{"reserved token", fmt.Sprintf("%#08x", s.Token)})
		table.Append([]string{"reserved suffix", fmt.Sprintf("%#04x", s.Suffix)})
	}
	table.Render()
	fmt.Fprintln(w)
}

func writeVendorReport(w io.Writer, v *domain.Vendor) {
	fmt.Fprintf(w, "Vendor %s (%d@%s)\n", v.Name, v.Port, v.Hostname)

	if len(v.Features) > 0 {
		features := tablewriter.NewWriter(w)
		features.SetHeader([]string{"feature"})
		for _, f := range v.Features {
			features.Append([]string{f})
		}
		features.Render()
	}

	if len(v.Licenses) > 0 {
		licenses := tablewriter.NewWriter(w)
		licenses.SetHeader([]string{"feature", "version", "expdate", "quantity", "used", "total", "status"})
		for _, lic := range v.Licenses {
			row := []string{lic.Feature, lic.Version, lic.ExpDate, fmt.Sprintf("%d", lic.Quantity), "", "", "not queried"}
			if lic.Status != nil {
				if lic.Status.Err != nil {
					row[6] = lic.Status.Err.Error()
				} else {
					row[4] = fmt.Sprintf("%d", lic.Status.Used)
					row[5] = fmt.Sprintf("%d", lic.Status.Total)
					row[6] = fmt.Sprintf("%d in use", len(lic.Status.Usage))
				}
			}
			licenses.Append(row)
		}
		licenses.Render()
	}
	fmt.Fprintln(w)
}
