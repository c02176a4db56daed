package relay

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/0rca-network/opskit"
	"github.com/0rca-network/opskit/internal/logger"
	"github.com/0rca-network/opskit/types"
)

const (
	DefaultTarget = "0xe7bad567ed213efE7Dd1c31DF554461271356F30"
	DefaultGas    = 200000
	DefaultTTL    = time.Hour
)

// DefaultData is the call data sent by both probes.
var DefaultData = []byte{0x12, 0x34}

// ProbeOptions shapes the forward request sent by a Prober.
type ProbeOptions struct {
	To    common.Address
	Data  []byte
	Value *big.Int
	Gas   *big.Int
	TTL   time.Duration

	// ChainID, when set, must match the chainId of the relayer's domain before signing.
	ChainID *big.Int
}

// DefaultProbeOptions returns the request shape used for manual handshake checks.
func DefaultProbeOptions() ProbeOptions {
	return ProbeOptions{
		To:    common.HexToAddress(DefaultTarget),
		Data:  slices.Clone(DefaultData),
		Value: big.NewInt(0),
		Gas:   big.NewInt(DefaultGas),
		TTL:   DefaultTTL,
	}
}

// Prober runs the x402 handshake against a relayer.
type Prober struct {
	client *Client
	opts   ProbeOptions
	now    func() time.Time
}

// NewProber creates a Prober using client.
func NewProber(client *Client, opts ProbeOptions) *Prober {
	return &Prober{client: client, opts: opts, now: time.Now}
}

// ProbeUnsigned relays a well formed request from a throwaway address with a zero signature.
// The relayer is expected to answer 402 with its payment challenge.
func (p *Prober) ProbeUnsigned(ctx context.Context) (*Response, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sender key: %w", err)
	}

	req := p.newRequest(crypto.PubkeyToAddress(key.PublicKey), big.NewInt(0))
	logger.LoggerFrom(ctx).Infof("Requesting relay for dummy...")

	return p.client.Relay(ctx, types.RelayPayload{Request: req, Signature: types.ZeroSignature})
}

// ProbeSigned fetches the live nonce and domain, signs the request with signer and relays it.
func (p *Prober) ProbeSigned(ctx context.Context, signer opskit.Signer) (*Response, error) {
	from, err := signer.GetAddress()
	if err != nil {
		return nil, fmt.Errorf("failed to get signer address: %w", err)
	}

	nonce, err := p.client.Nonce(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nonce: %w", err)
	}

	domain, err := p.client.Domain(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch domain: %w", err)
	}
	if err = opskit.CheckChainID(*domain, p.opts.ChainID); err != nil {
		return nil, err
	}

	req := p.newRequest(from, new(big.Int).SetUint64(nonce))
	sig, err := opskit.SignForwardRequest(signer, *domain, req)
	if err != nil {
		return nil, fmt.Errorf("failed to sign forward request: %w", err)
	}
	logger.LoggerFrom(ctx).Infof("Requesting relay for valid signature...")

	return p.client.Relay(ctx, types.RelayPayload{Request: req, Signature: sig})
}

func (p *Prober) newRequest(from common.Address, nonce *big.Int) types.ForwardRequest {
	deadline := p.now().Add(p.opts.TTL).Unix()

	return types.ForwardRequest{
		From:     from,
		To:       p.opts.To,
		Value:    valueOrZero(p.opts.Value),
		Gas:      valueOrZero(p.opts.Gas),
		Nonce:    nonce,
		Deadline: big.NewInt(deadline),
		Data:     p.opts.Data,
	}
}

func valueOrZero(n *big.Int) *big.Int {
	if n == nil {
		return big.NewInt(0)
	}

	return new(big.Int).Set(n)
}
