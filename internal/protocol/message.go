// Package protocol implements the typed FlexNet message kinds carried
// inside wire frames: fixed-width encodings for outgoing requests and
// structured decoders for the responses a manager or vendor daemon
// sends back.
package protocol

import (
	"fmt"

	"github.com/cosmolei/flexnet/internal/wire"
)

// Type is a 16-bit FlexNet message type code, carried in a modern
// frame's header.
type Type uint16

const (
	TypeReqLic1 Type = 0x004e // vendor->client: license status (legacy header slot)
	TypeReq     Type = 0x0108 // client->manager: command
	TypeHello   Type = 0x010e // server->client: greeting
	TypeStubR   Type = 0x0113 // manager->client: vendor redirect
	TypeReqLic2 Type = 0x0114 // vendor->client: usage record
	TypeLicSet  Type = 0x0127 // client->vendor: request license catalog
	TypeStub2   Type = 0x0128 // vendor->client: license catalog
	TypeStub    Type = 0x013b // client->vendor: generic request
	TypeReqLic  Type = 0x013c // client->vendor: license status query
	TypeResp    Type = 0x0146 // manager->client: generic response
)

func (t Type) String() string {
	switch t {
	case TypeReqLic1:
		return "REQLIC1"
	case TypeReq:
		return "REQ"
	case TypeHello:
		return "HELLO"
	case TypeStubR:
		return "STUBR"
	case TypeReqLic2:
		return "REQLIC2"
	case TypeLicSet:
		return "LICSET"
	case TypeStub2:
		return "STUB2"
	case TypeStub:
		return "STUB"
	case TypeReqLic:
		return "REQLIC"
	case TypeResp:
		return "RESP"
	default:
		return fmt.Sprintf("Type(%#04x)", uint16(t))
	}
}

// Message is any decoded FlexNet response.
type Message interface {
	Type() Type
	String() string
}

// ErrUnknownMessageType is returned by Decode when a modern frame
// carries a type code this package has no decoder for.
type ErrUnknownMessageType Type

func (e ErrUnknownMessageType) Error() string {
	return fmt.Sprintf("protocol: unknown message type %s", Type(e))
}

// Decode interprets a wire.Frame into a typed Message. Legacy (0x4C)
// frames decode to LegacyText regardless of any type field (they carry
// none); modern (0x2F) frames dispatch on Frame.Type.
func Decode(f *wire.Frame) (Message, error) {
	if f.Prefix == wire.PrefixLegacyChunk {
		return decodeLegacyText(f), nil
	}
	if f.Prefix == wire.PrefixLegacyTerminator {
		return LegacyTerminator{}, nil
	}

	switch Type(f.Type) {
	case TypeHello:
		return decodeHello(f), nil
	case TypeStubR:
		return decodeStubR(f)
	case TypeStub2:
		return decodeStub2(f), nil
	case TypeReqLic1:
		return decodeReqLic1(f)
	case TypeReqLic2:
		return decodeReqLic2(f), nil
	case TypeResp:
		return decodeResp(f), nil
	default:
		return nil, ErrUnknownMessageType(f.Type)
	}
}

// splitFields splits buf on NUL bytes and drops empty fields, the
// generic decoding rule for message kinds with no further structure.
func splitFields(buf []byte) []string {
	var fields []string
	start := 0
	for i := 0; i <= len(buf); i++ {
		if i == len(buf) || buf[i] == 0 {
			if i > start {
				fields = append(fields, string(buf[start:i]))
			}
			start = i + 1
		}
	}
	return fields
}
