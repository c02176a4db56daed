package opskit

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/0rca-network/opskit/types"
)

// NewForwardRequestTypedData builds the EIP-712 envelope for req under the domain and
// ForwardRequest schema advertised by the relayer.
func NewForwardRequestTypedData(domain types.DomainResponse, req types.ForwardRequest) (apitypes.TypedData, error) {
	schema, err := domain.ForwardRequestSchema()
	if err != nil {
		return apitypes.TypedData{}, err
	}

	msg := req.TypedMessage(schema)
	for _, field := range schema {
		if _, ok := msg[field.Name]; !ok {
			return apitypes.TypedData{}, NewUnknownSchemaFieldError(field.Name)
		}
	}

	return apitypes.TypedData{
		Types: apitypes.Types{
			types.EIP712DomainName:   domainSchema(domain),
			types.ForwardRequestType: schema,
		},
		PrimaryType: types.ForwardRequestType,
		Domain:      domain.Domain,
		Message:     msg,
	}, nil
}

// domainSchema prefers the EIP712Domain type sent by the relayer and otherwise lists the
// standard domain fields that are set.
func domainSchema(domain types.DomainResponse) []apitypes.Type {
	if schema := domain.Types[types.EIP712DomainName]; len(schema) > 0 {
		return schema
	}

	d := domain.Domain
	set := map[string]bool{
		"name":              d.Name != "",
		"version":           d.Version != "",
		"chainId":           d.ChainId != nil,
		"verifyingContract": d.VerifyingContract != "",
	}

	schema := make([]apitypes.Type, 0, len(types.EIP712DomainType))
	for _, field := range types.EIP712DomainType {
		if set[field.Name] {
			schema = append(schema, field)
		}
	}

	return schema
}

// SignForwardRequest signs req with signer under the relayer's domain.
func SignForwardRequest(signer Signer, domain types.DomainResponse, req types.ForwardRequest) (types.Signature, error) {
	typed, err := NewForwardRequestTypedData(domain, req)
	if err != nil {
		return types.Signature{}, err
	}

	return signer.SignTypedData(typed)
}

// RecoverForwardRequestSigner returns the address that produced sig over req.
func RecoverForwardRequestSigner(domain types.DomainResponse, req types.ForwardRequest, sig types.Signature) (common.Address, error) {
	typed, err := NewForwardRequestTypedData(domain, req)
	if err != nil {
		return common.Address{}, err
	}

	hash, _, err := apitypes.TypedDataAndHash(typed)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to hash typed data: %w", err)
	}

	return sig.Recover(common.BytesToHash(hash))
}

// CheckChainID verifies that the domain targets the expected chain. A nil expected chain
// disables the check.
func CheckChainID(domain types.DomainResponse, expected *big.Int) error {
	if expected == nil {
		return nil
	}
	if domain.Domain.ChainId == nil {
		return NewChainIDMismatchError(expected, nil)
	}

	got := (*big.Int)(domain.Domain.ChainId)
	if got.Cmp(expected) != 0 {
		return NewChainIDMismatchError(expected, got)
	}

	return nil
}
