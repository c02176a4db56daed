package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"fmt"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// EIP712DomainName is the EIP-712 type name of the domain separator.
const EIP712DomainName = "EIP712Domain"

// EIP712DomainType lists the standard domain fields in signing order.
var EIP712DomainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

// DomainResponse is the body returned by GET /meta/domain.
type DomainResponse struct {
	Domain apitypes.TypedDataDomain `json:"domain"`
	Types  apitypes.Types           `json:"types"`
}

// ForwardRequestSchema returns the ForwardRequest field list advertised by the relayer.
func (d DomainResponse) ForwardRequestSchema() ([]apitypes.Type, error) {
	schema, ok := d.Types[ForwardRequestType]
	if !ok || len(schema) == 0 {
		return nil, fmt.Errorf("domain response has no %s type", ForwardRequestType)
	}

	return schema, nil
}

// NonceResponse is the body returned by GET /meta/nonce/{address}. The relayer sends the
// nonce either as a JSON number or as a decimal string.
type NonceResponse struct {
	Nonce any `json:"nonce"`
}

// RelayPayload is the body POSTed to /meta/relay.
type RelayPayload struct {
	Request   ForwardRequest `json:"request"`
	Signature Signature      `json:"signature"`
}
