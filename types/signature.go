package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"crypto/ecdsa"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// SignatureBytesLength defines the length of the signature in bytes after summing the byte
	// values of R, S, and V.
	SignatureBytesLength = 65

	// SignatureComponentSize defines the size of each signature component (R and S) in bytes.
	SignatureComponentSize = 32

	// SignatureVOffset defines the offset to adjust the recovery id (v) if needed.
	SignatureVOffset = 27
)

// Signature is a 65 byte secp256k1 signature as submitted to the relayer.
type Signature struct {
	R common.Hash
	S common.Hash
	V uint8
}

// ZeroSignature is the all-zero signature sent by the unauthenticated probe.
var ZeroSignature = Signature{}

// NewSignatureFromBytes creates a new Signature from a byte slice of concatenated R, S, and V
// values.
func NewSignatureFromBytes(sig []byte) (Signature, error) {
	if len(sig) != SignatureBytesLength {
		return Signature{}, fmt.Errorf("invalid signature length: %d", len(sig))
	}

	return Signature{
		R: common.BytesToHash(sig[:SignatureComponentSize]),
		S: common.BytesToHash(sig[SignatureComponentSize:(SignatureBytesLength - 1)]),
		V: sig[SignatureBytesLength-1],
	}, nil
}

// ParseSignature decodes a 0x prefixed hex signature.
func ParseSignature(s string) (Signature, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Signature{}, fmt.Errorf("invalid signature hex: %w", err)
	}

	return NewSignatureFromBytes(b)
}

// ToBytes returns the byte representation of the signature.
func (s Signature) ToBytes() []byte {
	return slices.Concat(
		s.R.Bytes(),
		s.S.Bytes(),
		[]byte{s.V},
	)
}

// Hex returns the signature as "0x" followed by 130 hex characters.
func (s Signature) Hex() string {
	return hexutil.Encode(s.ToBytes())
}

// MarshalText implements encoding.TextMarshaler so the signature serializes as hex in JSON.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Signature) UnmarshalText(text []byte) error {
	sig, err := ParseSignature(string(text))
	if err != nil {
		return err
	}
	*s = sig

	return nil
}

// Recover returns the address recovered from the signature and the message hash
func (s Signature) Recover(hash common.Hash) (common.Address, error) {
	pubKey, err := s.RecoverPublicKey(hash)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

// RecoverPublicKey returns the public key recovered from the signature and the message hash
func (s Signature) RecoverPublicKey(hash common.Hash) (*ecdsa.PublicKey, error) {
	sig := s.ToBytes()

	// crypto.SigToPub expects a recovery id of 0 or 1.
	if sig[SignatureBytesLength-1] >= SignatureVOffset {
		sig[SignatureBytesLength-1] -= SignatureVOffset
	}

	return crypto.SigToPub(hash.Bytes(), sig)
}
