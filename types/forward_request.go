package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// ForwardRequestType is the EIP-712 primary type name the relayer signs over.
const ForwardRequestType = "ForwardRequest"

// ForwardRequest is a meta-transaction submitted to the relayer on behalf of From.
type ForwardRequest struct {
	From     common.Address
	To       common.Address
	Value    *big.Int
	Gas      *big.Int
	Nonce    *big.Int
	Deadline *big.Int
	Data     []byte
}

// forwardRequestWire is the relayer's JSON shape: checksummed addresses, numbers as decimal
// strings, data as 0x hex.
type forwardRequestWire struct {
	From     string        `json:"from"`
	To       string        `json:"to"`
	Value    string        `json:"value"`
	Gas      string        `json:"gas"`
	Nonce    string        `json:"nonce"`
	Deadline string        `json:"deadline"`
	Data     hexutil.Bytes `json:"data"`
}

// MarshalJSON encodes the request in the relayer wire format.
func (r ForwardRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(forwardRequestWire{
		From:     r.From.Hex(),
		To:       r.To.Hex(),
		Value:    decimal(r.Value),
		Gas:      decimal(r.Gas),
		Nonce:    decimal(r.Nonce),
		Deadline: decimal(r.Deadline),
		Data:     r.Data,
	})
}

// UnmarshalJSON decodes the relayer wire format.
func (r *ForwardRequest) UnmarshalJSON(data []byte) error {
	var w forwardRequestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := ForwardRequest{Data: w.Data}
	addrs := []struct {
		name string
		raw  string
		dst  *common.Address
	}{
		{"from", w.From, &out.From},
		{"to", w.To, &out.To},
	}
	for _, a := range addrs {
		if !common.IsHexAddress(a.raw) {
			return fmt.Errorf("invalid %s: %q is not a hex address", a.name, a.raw)
		}
		*a.dst = common.HexToAddress(a.raw)
	}

	fields := []struct {
		name string
		raw  string
		dst  **big.Int
	}{
		{"value", w.Value, &out.Value},
		{"gas", w.Gas, &out.Gas},
		{"nonce", w.Nonce, &out.Nonce},
		{"deadline", w.Deadline, &out.Deadline},
	}
	for _, f := range fields {
		n, ok := new(big.Int).SetString(f.raw, 10)
		if !ok {
			return fmt.Errorf("invalid %s: %q is not a decimal integer", f.name, f.raw)
		}
		*f.dst = n
	}
	*r = out

	return nil
}

// TypedMessage returns the EIP-712 message for the request, restricted to the fields declared
// in schema. Field values use the string forms go-ethereum's encoder accepts.
func (r ForwardRequest) TypedMessage(schema []apitypes.Type) apitypes.TypedDataMessage {
	all := map[string]any{
		"from":     r.From.Hex(),
		"to":       r.To.Hex(),
		"value":    decimal(r.Value),
		"gas":      decimal(r.Gas),
		"nonce":    decimal(r.Nonce),
		"deadline": decimal(r.Deadline),
		"data":     hexutil.Encode(r.Data),
	}

	msg := make(apitypes.TypedDataMessage, len(schema))
	for _, field := range schema {
		if v, ok := all[field.Name]; ok {
			msg[field.Name] = v
		}
	}

	return msg
}

func decimal(n *big.Int) string {
	if n == nil {
		return "0"
	}

	return n.String()
}
