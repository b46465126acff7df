// Package flexnet is a client for the FlexNet license management
// protocol: it speaks to a license manager daemon and the vendor
// daemons it redirects to, and reconciles what each side reports into
// a single inventory of features, licenses and usage.
package flexnet

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cosmolei/flexnet/internal/domain"
	"github.com/cosmolei/flexnet/internal/wire"
)

// Dialect is the protocol variant a connection settled on after its
// first HELLO, sticky for the lifetime of that connection (§3
// invariant 4).
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectModern
	DialectLegacy
)

func (d Dialect) String() string {
	switch d {
	case DialectModern:
		return "modern"
	case DialectLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// modernVersionFloor is the (major, minor) boundary: servers at or
// above it speak MODERN, below it speak LEGACY.
var modernVersionFloor = [2]uint8{11, 10}

const defaultTimeout = 10 * time.Second

// Client drives one FlexNet conversation. A single instance owns its
// sockets and derived domain objects; callers wanting to poll several
// servers concurrently instantiate one Client per server.
type Client struct {
	codec *wire.Codec
	conn  net.Conn

	host string
	port int

	// Identification fields sent on every HELLO/REQ, defaulted the way
	// the original client does.
	User       string
	Host       string
	Vendor     string
	TTY        string
	PID        string
	Arch       string
	VersionMaj uint8
	VersionMin uint8

	dialect Dialect
	timeout time.Duration

	// Verbose logs one line per decoded message; DumpWire logs the raw
	// hex of every request sent and the prefix byte of the frame read in
	// reply to it (response bodies and the usage records drained after a
	// status query are not dumped). Independent toggles, mirroring
	// the original client's separate debug/verbose flags. ShowReserved
	// asks a report to include fields with no resolved upstream meaning.
	Verbose      bool
	DumpWire     bool
	ShowReserved bool

	logger zerolog.Logger

	registry *vendorRegistry
	Server   *domain.Server
	Vendors  []*domain.Vendor
}

// Option configures a Client constructed by New.
type Option func(*Client)

// WithTimeout overrides the default 10-second I/O timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger overrides the zerolog.Logger a Client logs through.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithVerbose enables per-message logging.
func WithVerbose(v bool) Option {
	return func(c *Client) { c.Verbose = v }
}

// WithReserved includes fields with no resolved upstream meaning (the
// HELLO greeting's token/suffix) in reports.
func WithReserved(v bool) Option {
	return func(c *Client) { c.ShowReserved = v }
}

// WithDumpWire enables raw hex logging of every request and logging of
// each reply's prefix byte.
func WithDumpWire(v bool) Option {
	return func(c *Client) { c.DumpWire = v }
}

// New builds a Client for serverSpec, either "port@host" or "host:port".
func New(serverSpec string, opts ...Option) (*Client, error) {
	host, port, err := parseServerSpec(serverSpec)
	if err != nil {
		return nil, err
	}
	return NewClient(host, port, opts...), nil
}

func parseServerSpec(spec string) (string, int, error) {
	if at := strings.IndexByte(spec, '@'); at >= 0 {
		portStr, host := spec[:at], spec[at+1:]
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return "", 0, fmt.Errorf("flexnet: bad server spec %q: %w", spec, err)
		}
		return host, port, nil
	}
	host, portStr, err := net.SplitHostPort(spec)
	if err != nil {
		return "", 0, fmt.Errorf("flexnet: bad server spec %q: %w", spec, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("flexnet: bad server spec %q: %w", spec, err)
	}
	return host, port, nil
}

// NewClient builds a Client for an explicit host and port, with
// defaults matching the original client: USER from the environment
// (empty if unset), the local hostname, tty "/dev/pts/1", the current
// PID, arch "x64_lsb", and version 11.11.
func NewClient(host string, port int, opts ...Option) *Client {
	c := &Client{
		host:       host,
		port:       port,
		codec:      wire.NewCodec(),
		User:       currentUser(),
		Host:       localHostname(),
		TTY:        "/dev/pts/1",
		PID:        strconv.Itoa(os.Getpid()),
		Arch:       "x64_lsb",
		VersionMaj: 11,
		VersionMin: 11,
		timeout:    defaultTimeout,
		logger:     log.Logger,
		registry:   newVendorRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func currentUser() string {
	return os.Getenv("USER")
}

func localHostname() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}
	return h
}

// Connect opens the TCP connection, honoring ctx for cancellation and
// the Client's configured timeout as a deadline.
func (c *Client) Connect(ctx context.Context) error {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(c.host, strconv.Itoa(c.port)))
	if err != nil {
		return fmt.Errorf("flexnet: connect %s:%d: %w", c.host, c.port, err)
	}
	_ = conn.SetDeadline(time.Now().Add(c.timeout))
	c.conn = conn
	return nil
}

// Close closes the current connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Dialect reports the protocol variant negotiated by the first HELLO
// on the current connection.
func (c *Client) Dialect() Dialect { return c.dialect }
