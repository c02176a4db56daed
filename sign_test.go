package opskit

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0rca-network/opskit/types"
)

func TestSignForwardRequest(t *testing.T) {
	t.Parallel()

	signer, err := NewPrivateKeySignerFromHex(testPrivateKeyHex)
	require.NoError(t, err)
	addr, err := signer.GetAddress()
	require.NoError(t, err)

	domain := testDomain()
	req := testRequest(addr)

	sig, err := SignForwardRequest(signer, domain, req)
	require.NoError(t, err)

	got, err := RecoverForwardRequestSigner(domain, req, sig)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	// Any change to the request changes the recovered signer.
	tampered := req
	tampered.Nonce = big.NewInt(4)
	got, err = RecoverForwardRequestSigner(domain, tampered, sig)
	require.NoError(t, err)
	assert.NotEqual(t, addr, got)
}

func TestNewForwardRequestTypedData(t *testing.T) {
	t.Parallel()

	req := testRequest(common.HexToAddress("0x1111111111111111111111111111111111111111"))

	t.Run("subset schema", func(t *testing.T) {
		t.Parallel()

		domain := testDomain()
		domain.Types = apitypes.Types{
			types.ForwardRequestType: {
				{Name: "from", Type: "address"},
				{Name: "nonce", Type: "uint256"},
			},
		}

		typed, err := NewForwardRequestTypedData(domain, req)
		require.NoError(t, err)
		assert.Equal(t, types.ForwardRequestType, typed.PrimaryType)
		assert.Len(t, typed.Message, 2)
		assert.Equal(t, types.EIP712DomainType, typed.Types["EIP712Domain"])
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		domain := testDomain()
		domain.Types = apitypes.Types{
			types.ForwardRequestType: {{Name: "salt", Type: "uint256"}},
		}

		_, err := NewForwardRequestTypedData(domain, req)
		require.EqualError(t, err, `ForwardRequest schema field "salt" has no value in the request`)
	})

	t.Run("missing schema", func(t *testing.T) {
		t.Parallel()

		_, err := NewForwardRequestTypedData(types.DomainResponse{}, req)
		require.EqualError(t, err, "domain response has no ForwardRequest type")
	})
}

func TestDomainSchema(t *testing.T) {
	t.Parallel()

	relayerSchema := []apitypes.Type{
		{Name: "name", Type: "string"},
		{Name: "chainId", Type: "uint256"},
	}

	tests := []struct {
		name string
		give func() types.DomainResponse
		want []string
	}{
		{
			name: "all standard fields",
			give: testDomain,
			want: []string{"name", "version", "chainId", "verifyingContract"},
		},
		{
			name: "unset fields are dropped",
			give: func() types.DomainResponse {
				d := testDomain()
				d.Domain.Version = ""

				return d
			},
			want: []string{"name", "chainId", "verifyingContract"},
		},
		{
			name: "relayer schema wins",
			give: func() types.DomainResponse {
				d := testDomain()
				d.Types[types.EIP712DomainName] = relayerSchema

				return d
			},
			want: []string{"name", "chainId"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			for _, field := range domainSchema(tt.give()) {
				got = append(got, field.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckChainID(t *testing.T) {
	t.Parallel()

	noChain := testDomain()
	noChain.Domain.ChainId = nil

	tests := []struct {
		name     string
		domain   types.DomainResponse
		expected *big.Int
		wantErr  string
	}{
		{name: "disabled", domain: testDomain()},
		{name: "match", domain: testDomain(), expected: big.NewInt(338)},
		{name: "mismatch", domain: testDomain(), expected: big.NewInt(25), wantErr: "domain chainId 338 doesn't match expected chain 25"},
		{name: "absent", domain: noChain, expected: big.NewInt(25), wantErr: "domain has no chainId, expected 25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckChainID(tt.domain, tt.expected)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
