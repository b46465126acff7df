package flexnet

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cosmolei/flexnet/internal/protocol"
	"github.com/cosmolei/flexnet/internal/wire"
)

// fakeServer wraps the server side of a loopback TCP connection with a
// wire.Codec, so test
// bodies can build and read frames the way a real manager/vendor
// daemon would.
type fakeServer struct {
	conn  net.Conn
	codec *wire.Codec
}

func newFakeServer(conn net.Conn) *fakeServer {
	return &fakeServer{conn: conn, codec: wire.NewCodec()}
}

func (s *fakeServer) readRaw(n int) []byte {
	buf := make([]byte, n)
	if _, err := s.conn.Read(buf); err != nil {
		panic(err)
	}
	return buf
}

func (s *fakeServer) sendHello(maj, min uint8, hostname, daemon string) {
	s.sendHelloAt(uint32(time.Now().Unix()), maj, min, hostname, daemon)
}

func (s *fakeServer) sendHelloAt(timestamp uint32, maj, min uint8, hostname, daemon string) {
	body := []byte{maj, min, 0, 0}
	body = append(body, []byte(hostname)...)
	body = append(body, 0)
	body = append(body, []byte(daemon)...)
	body = append(body, 0)
	frame := s.codec.WriteFrame(uint16(protocol.TypeHello), timestamp, body)
	if _, err := s.conn.Write(frame); err != nil {
		panic(err)
	}
}

func (s *fakeServer) sendResp(text ...string) {
	var body []byte
	body = append(body, 0, 0) // txt_len slot, unused by decodeResp
	for _, t := range text {
		body = append(body, []byte(t)...)
		body = append(body, 0)
	}
	frame := s.codec.WriteFrame(uint16(protocol.TypeResp), uint32(time.Now().Unix()), body)
	if _, err := s.conn.Write(frame); err != nil {
		panic(err)
	}
}

// newTestClient starts a loopback TCP listener, accepts exactly one
// connection and hands it to serverFn (running in its own goroutine
// playing the role of the manager), and returns a Client pointed at
// the listener's address, so greetManager's own Connect/Dial exercises
// the real network path.
func newTestClient(t *testing.T, serverFn func(*fakeServer)) *Client {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		serverFn(newFakeServer(conn))
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return NewClient(host, port, WithTimeout(2*time.Second))
}

func TestGreetManagerModernDialect(t *testing.T) {
	var gotHost string
	c := newTestClient(t, func(s *fakeServer) {
		// drain the raw HELLO request before replying.
		s.readRaw(len(protocol.HelloRequest{}.Encode()))
		s.sendHello(11, 11, gotHost, "lmgrd")
	})
	gotHost = c.host

	err := c.greetManager(context.Background())
	require.NoError(t, err)
	require.Equal(t, DialectModern, c.Dialect())
	require.Equal(t, c.host, c.Server.Hostname)
	require.Equal(t, "lmgrd", c.Server.DaemonName)
}

func TestGreetManagerLegacyDialect(t *testing.T) {
	var gotHost string
	c := newTestClient(t, func(s *fakeServer) {
		s.readRaw(len(protocol.HelloRequest{}.Encode()))
		s.sendHello(11, 9, gotHost, "lmgrd")
	})
	gotHost = c.host

	err := c.greetManager(context.Background())
	require.NoError(t, err)
	require.Equal(t, DialectLegacy, c.Dialect())
}

func TestRequestRoundTrip(t *testing.T) {
	req := protocol.ReqRequest{User: "alice", Host: "work1", ServerDaemon: "lmgrd", TTY: "pts/0", Command: "getpaths"}
	var gotHost string

	c := newTestClient(t, func(s *fakeServer) {
		s.readRaw(len(protocol.HelloRequest{}.Encode()))
		s.sendHello(11, 11, gotHost, "lmgrd")

		s.readRaw(len(req.Encode()) + wire.HeaderLen)
		s.sendResp("/opt/flexnet/license.dat")
	})
	gotHost = c.host
	c.User, c.Host, c.TTY = req.User, req.Host, req.TTY

	require.NoError(t, c.greetManager(context.Background()))
	text, err := c.request(context.Background(), "getpaths")
	require.NoError(t, err)
	require.Equal(t, []string{"/opt/flexnet/license.dat"}, text)
}

func TestParseServerSpecBothForms(t *testing.T) {
	host, port, err := parseServerSpec("27000@license-server")
	require.NoError(t, err)
	require.Equal(t, "license-server", host)
	require.Equal(t, 27000, port)

	host, port, err = parseServerSpec("license-server:27000")
	require.NoError(t, err)
	require.Equal(t, "license-server", host)
	require.Equal(t, 27000, port)
}

func TestHelloResponseTokenCarriesFrameTimestamp(t *testing.T) {
	var gotHost string
	c := newTestClient(t, func(s *fakeServer) {
		s.readRaw(len(protocol.HelloRequest{}.Encode()))
		s.sendHelloAt(555, 11, 11, gotHost, "lmgrd")
	})
	gotHost = c.host

	require.NoError(t, c.greetManager(context.Background()))
	require.Equal(t, uint32(555), c.Server.Token)
}
