package protocol

import (
	"bytes"
	"fmt"

	"github.com/cosmolei/flexnet/internal/wire"
)

// LegacyText is what a 0x4C-prefixed response decodes to: the
// reassembled chunk payload, NUL-stripped and NUL-split into text
// fields, mirroring the modern Resp's Text in shape.
type LegacyText struct {
	Text []string
}

func (l LegacyText) Type() Type { return 0 }

func (l LegacyText) String() string {
	return fmt.Sprintf("LEGACY fields=%d", len(l.Text))
}

func decodeLegacyText(f *wire.Frame) LegacyText {
	stripped := bytes.Trim(f.Body, "\x00")
	parts := bytes.Split(stripped, []byte{0})
	text := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) > 0 {
			text = append(text, string(p))
		}
	}
	return LegacyText{Text: text}
}

// LegacyTerminator is the 0x4E 2-byte sentinel closing a legacy
// status-query exchange.
type LegacyTerminator struct{}

func (LegacyTerminator) Type() Type      { return 0 }
func (LegacyTerminator) String() string { return "LEGACY-TERM" }
