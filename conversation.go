package flexnet

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cosmolei/flexnet/internal/domain"
	"github.com/cosmolei/flexnet/internal/licensefile"
	"github.com/cosmolei/flexnet/internal/protocol"
	"github.com/cosmolei/flexnet/internal/wire"
)

// sendRaw writes bytes that bypass wire.Codec entirely (HELLO, and
// LEGACY-dialect vendor requests, each of which have their own framing).
func (c *Client) sendRaw(req []byte) (*wire.Frame, error) {
	if c.DumpWire {
		c.logger.Debug().Str("request", hex.EncodeToString(req)).Msg("wire request")
	}
	if _, err := c.conn.Write(req); err != nil {
		return nil, fmt.Errorf("flexnet: write: %w", err)
	}
	f, err := c.codec.ReadFrame(c.conn)
	if err != nil {
		return nil, err
	}
	if c.DumpWire {
		c.logger.Debug().Str("response_prefix", fmt.Sprintf("%#02x", byte(f.Prefix))).Msg("wire response")
	}
	return f, nil
}

// sendFramed builds and sends a modern frame of the given type, then
// reads the response frame.
func (c *Client) sendFramed(msgType protocol.Type, body []byte) (*wire.Frame, error) {
	framed := c.codec.WriteFrame(uint16(msgType), uint32(time.Now().UTC().Unix()), body)
	return c.sendRaw(framed)
}

// hello sends a HELLO, optionally naming a vendor to ask the manager
// for a redirect. An empty vendor addresses whichever daemon this
// connection is already talking to.
func (c *Client) hello(ctx context.Context, vendor string) (protocol.Message, error) {
	req := protocol.HelloRequest{
		User:       c.User,
		Host:       c.Host,
		Vendor:     vendor,
		TTY:        c.TTY,
		PID:        c.PID,
		Arch:       c.Arch,
		VersionMaj: c.VersionMaj,
		VersionMin: c.VersionMin,
	}
	f, err := c.sendRaw(req.Encode())
	if err != nil {
		return nil, err
	}
	msg, err := protocol.Decode(f)
	if err != nil {
		return nil, err
	}
	if c.Verbose {
		c.logger.Info().Str("message", msg.String()).Msg("received")
	}
	return msg, nil
}

// request sends a REQ command to the manager and returns its decoded
// text fields, regardless of dialect (legacy responses arrive as
// LegacyText, modern ones as Resp; both expose Text/[]string shaped
// the same way to the caller).
func (c *Client) request(ctx context.Context, command string) ([]string, error) {
	req := protocol.ReqRequest{
		User:         c.User,
		Host:         c.Host,
		ServerDaemon: c.Server.DaemonName,
		TTY:          c.TTY,
		Command:      command,
	}
	f, err := c.sendFramed(protocol.TypeReq, req.Encode())
	if err != nil {
		return nil, err
	}
	msg, err := protocol.Decode(f)
	if err != nil {
		return nil, err
	}
	if c.Verbose {
		c.logger.Info().Str("message", msg.String()).Msg("received")
	}
	switch m := msg.(type) {
	case protocol.Resp:
		return m.Text, nil
	case protocol.LegacyText:
		return m.Text, nil
	default:
		return nil, fmt.Errorf("flexnet: unexpected response to REQ: %s", msg)
	}
}

// greetManager performs the Disconnected->Connected->GreetedManager
// transition: connect, HELLO, set dialect, and follow a manager
// cluster redirect to a different hostname if the greeting names one.
func (c *Client) greetManager(ctx context.Context) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	msg, err := c.hello(ctx, "")
	if err != nil {
		return err
	}
	hr, ok := msg.(protocol.HelloResponse)
	if !ok {
		return fmt.Errorf("flexnet: expected HELLO response, got %s", msg)
	}

	if hr.IsLegacy() {
		c.dialect = DialectLegacy
	} else {
		c.dialect = DialectModern
	}

	c.Server = &domain.Server{
		Hostname:   hr.Hostname,
		Port:       c.port,
		DaemonName: hr.Daemon,
		VersionMaj: hr.ServerVerMaj,
		VersionMin: hr.ServerVerMin,
		Token:      hr.Token,
		Suffix:     hr.Suffix,
	}

	if hr.Hostname != "" && hr.Hostname != c.host {
		c.logger.Info().Str("reported_host", hr.Hostname).Str("dialed_host", c.host).Msg("manager redundant-cluster redirect")
		c.Close()
		c.host = hr.Hostname
		return c.greetManager(ctx)
	}
	return nil
}

// QueryEverything runs the full discovery sweep: greet the manager,
// fetch the license file path and text, enumerate vendors, then
// connect to each vendor in turn for features, catalog, and per-license
// status/usage.
func (c *Client) QueryEverything(ctx context.Context) (*domain.Server, []*domain.Vendor, error) {
	if err := c.greetManager(ctx); err != nil {
		return nil, nil, err
	}
	defer c.Close()

	path, err := c.queryServerLicenseFilePath(ctx)
	if err != nil {
		return nil, nil, err
	}
	c.Server.LicenseFilePath = path

	fileLicenses, err := c.queryServerLicenseFileContents(ctx)
	if err != nil {
		return nil, nil, err
	}

	vendorNames, err := c.queryVendorList(ctx)
	if err != nil {
		return nil, nil, err
	}
	c.Server.VendorNames = vendorNames

	if err := c.discoverVendorRedirects(ctx, vendorNames); err != nil {
		return nil, nil, err
	}

	vendors := make([]*domain.Vendor, 0, len(vendorNames))
	for _, name := range vendorNames {
		v, err := c.queryVendorDetails(ctx, name, fileLicenses)
		if err != nil {
			c.logger.Warn().Err(err).Str("vendor", name).Msg("vendor query failed")
			continue
		}
		vendors = append(vendors, v)
	}
	c.Vendors = vendors
	return c.Server, vendors, nil
}

func (c *Client) queryServerLicenseFilePath(ctx context.Context) (string, error) {
	text, err := c.request(ctx, "getpaths")
	if err != nil {
		return "", err
	}
	if len(text) == 0 {
		return "", fmt.Errorf("flexnet: getpaths returned no text")
	}
	return text[0], nil
}

func (c *Client) queryServerLicenseFileContents(ctx context.Context) ([]*domain.License, error) {
	text, err := c.request(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(text) == 0 {
		return nil, nil
	}
	c.Server.LicenseFileText = text[0]

	entries, err := licensefile.Parse(text[0])
	if err != nil {
		return nil, err
	}
	return licensesFromEntries(entries.Licenses), nil
}

func (c *Client) queryVendorList(ctx context.Context) ([]string, error) {
	text, err := c.request(ctx, "dlist")
	if err != nil {
		return nil, err
	}
	if len(text) == 0 {
		return nil, nil
	}
	return strings.Fields(text[0]), nil
}

// discoverVendorRedirects asks the manager, for each vendor name, to
// redirect via STUBR to that vendor's daemon, recording the result in
// the vendor registry.
func (c *Client) discoverVendorRedirects(ctx context.Context, vendorNames []string) error {
	for _, name := range vendorNames {
		msg, err := c.hello(ctx, name)
		if err != nil {
			return err
		}
		redirect, ok := msg.(protocol.StubR)
		if !ok {
			return fmt.Errorf("flexnet: expected STUBR redirect for vendor %s, got %s", name, msg)
		}
		c.registry.set(name, redirect.VendorHostname, redirect.VendorPort)
	}
	return nil
}

func licensesFromEntries(entries []licensefile.LicenseEntry) []*domain.License {
	out := make([]*domain.License, 0, len(entries))
	for _, e := range entries {
		out = append(out, &domain.License{
			Feature:  e.Feature,
			Vendor:   e.Vendor,
			Version:  e.Version,
			ExpDate:  e.ExpDate,
			Quantity: e.Quantity,
			Notice:   e.Notice,
			Issued:   e.Issued,
			Start:    e.Start,
			Sign:     e.Sign,
			Others:   e.Others,
		})
	}
	return out
}
