package opskit

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/0rca-network/opskit/types"
)

// Signer is an interface for different strategies for signing EIP-712 typed data.
type Signer interface {
	SignTypedData(typed apitypes.TypedData) (types.Signature, error)
	GetAddress() (common.Address, error)
}

var _ Signer = &PrivateKeySigner{}

// PrivateKeySigner signs typed data using a private key.
type PrivateKeySigner struct {
	pk *ecdsa.PrivateKey
}

// NewPrivateKeySigner creates a new PrivateKeySigner.
func NewPrivateKeySigner(pk *ecdsa.PrivateKey) *PrivateKeySigner {
	return &PrivateKeySigner{pk: pk}
}

// NewPrivateKeySignerFromHex creates a PrivateKeySigner from a hex key, with or without 0x.
func NewPrivateKeySignerFromHex(hexKey string) (*PrivateKeySigner, error) {
	pk, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return NewPrivateKeySigner(pk), nil
}

// SignTypedData hashes typed per EIP-712 and signs the digest. The returned V is 27 or 28.
func (s *PrivateKeySigner) SignTypedData(typed apitypes.TypedData) (types.Signature, error) {
	hash, _, err := apitypes.TypedDataAndHash(typed)
	if err != nil {
		return types.Signature{}, fmt.Errorf("failed to hash typed data: %w", err)
	}

	sig, err := crypto.Sign(hash, s.pk)
	if err != nil {
		return types.Signature{}, err
	}
	sig[types.SignatureBytesLength-1] += types.SignatureVOffset

	return types.NewSignatureFromBytes(sig)
}

// GetAddress returns the address of the signer.
func (s *PrivateKeySigner) GetAddress() (common.Address, error) {
	return crypto.PubkeyToAddress(s.pk.PublicKey), nil
}
