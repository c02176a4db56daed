package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Response is the relayer's answer to a relay request.
type Response struct {
	StatusCode int
	Body       []byte

	// Challenge holds the JSON body of a 402 Payment Required answer.
	Challenge json.RawMessage
}

func newResponse(code int, body []byte) (*Response, error) {
	resp := &Response{StatusCode: code, Body: body}
	if code != http.StatusPaymentRequired {
		return resp, nil
	}

	if !json.Valid(body) {
		return nil, NewChallengeDecodeError(body)
	}
	resp.Challenge = json.RawMessage(body)

	return resp, nil
}

// PaymentRequired reports whether the relayer answered with the x402 challenge.
func (r *Response) PaymentRequired() bool {
	return r.StatusCode == http.StatusPaymentRequired
}

// Print writes the response the way operators expect to read it: the indented challenge for
// a 402, the status and raw text otherwise.
func (r *Response) Print(w io.Writer) error {
	if !r.PaymentRequired() {
		_, err := fmt.Fprintf(w, "Response %d: %s\n", r.StatusCode, r.Body)
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Challenge, "", "  "); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "402 Received!\n%s\n", buf.String())

	return err
}
