package protocol

// legacyFrameLen mirrors wire's fixed legacy chunk size: LEGACY-dialect
// requests are sent as a single 147-byte packet rather than a modern
// framed message.
const legacyFrameLen = 147

// LegacyFeatureRequest is the LEGACY-dialect feature-list query: a
// fixed 4-byte magic payload, null-padded to one legacy frame. Its
// meaning is unknown upstream; kept as a fixed constant.
func LegacyFeatureRequest() []byte {
	return padLegacy([]byte{0x3d, 0xda, 0x6c, 0x31})
}

// LegacyStatusRequest builds the LEGACY-dialect license-status query:
// feature padded to 31 bytes, signature padded to 21 bytes, a literal
// "1", prefixed with 0x6C and a one-byte checksum over the body.
func LegacyStatusRequest(feature, sign string) []byte {
	body := make([]byte, 0, 31+21+1)
	body = append(body, ljust(feature, 31)...)
	body = append(body, ljust(sign, 21)...)
	body = append(body, '1')

	sum := 0
	for _, b := range body {
		sum += int(b)
	}
	checkByte := byte((sum + 108) % 256)

	out := make([]byte, 0, 2+len(body))
	out = append(out, 0x6c, checkByte)
	out = append(out, body...)
	return padLegacy(out)
}

func ljust(s string, width int) []byte {
	b := make([]byte, width)
	copy(b, s)
	return b
}

func padLegacy(b []byte) []byte {
	out := make([]byte, legacyFrameLen)
	copy(out, b)
	return out
}
