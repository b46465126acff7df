package protocol

// ReqRequest is a command sent to the license manager over an
// already-established connection: empty (fetch license file text),
// "dlist" (vendor names), or "getpaths" (license file path).
type ReqRequest struct {
	User         string
	Host         string
	ServerDaemon string
	TTY          string
	Command      string
}

// Encode builds the REQ body; wire.Codec.WriteFrame wraps it with
// type=TypeReq.
func (r ReqRequest) Encode() []byte {
	body := []byte{0x01, 0x04}
	for _, s := range []string{r.User, r.Host, r.ServerDaemon, r.TTY, r.Command} {
		body = append(body, []byte(s)...)
		body = append(body, 0)
	}
	return body
}
