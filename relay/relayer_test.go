package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/0rca-network/opskit"
	"github.com/0rca-network/opskit/internal/logger"
	"github.com/0rca-network/opskit/types"
)

const (
	testPrivateKeyHex = "b17c4c6a409cebce4b39977689180900d9009d5c55a57ff9fd9cb962b24ae99d"

	testDomainJSON = `{
		"domain": {
			"name": "CroGasForwarder",
			"version": "1",
			"chainId": 338,
			"verifyingContract": "0x2222222222222222222222222222222222222222"
		},
		"types": {
			"ForwardRequest": [
				{"name": "from", "type": "address"},
				{"name": "to", "type": "address"},
				{"name": "value", "type": "uint256"},
				{"name": "gas", "type": "uint256"},
				{"name": "nonce", "type": "uint256"},
				{"name": "deadline", "type": "uint48"},
				{"name": "data", "type": "bytes"}
			]
		}
	}`

	testChallengeJSON = `{"x402Version":1,"error":"payment required","accepts":[{"scheme":"exact","network":"cronos-testnet","maxAmountRequired":"10000"}]}`
)

// fakeRelayer stands in for the relayer service: a zero signature gets the 402 challenge,
// a signature that does not recover to the sender is rejected with 400, anything else is
// accepted.
type fakeRelayer struct {
	t      *testing.T
	domain types.DomainResponse
	nonce  string

	mu         sync.Mutex
	payloads   []types.RelayPayload
	requestIDs []string
}

func newFakeRelayer(t *testing.T, nonce string) (*fakeRelayer, *httptest.Server) {
	t.Helper()

	f := &fakeRelayer{t: t, nonce: nonce}
	require.NoError(t, json.Unmarshal([]byte(testDomainJSON), &f.domain))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /meta/nonce/{address}", f.handleNonce)
	mux.HandleFunc("GET /meta/domain", f.handleDomain)
	mux.HandleFunc("POST /meta/relay", f.handleRelay)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return f, srv
}

func (f *fakeRelayer) record(r *http.Request, payload *types.RelayPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requestIDs = append(f.requestIDs, r.Header.Get(RequestIDHeader))
	if payload != nil {
		f.payloads = append(f.payloads, *payload)
	}
}

func (f *fakeRelayer) lastPayload() types.RelayPayload {
	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(f.t, f.payloads)

	return f.payloads[len(f.payloads)-1]
}

func (f *fakeRelayer) seenRequestIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.requestIDs...)
}

func (f *fakeRelayer) handleNonce(w http.ResponseWriter, r *http.Request) {
	f.record(r, nil)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"nonce":` + f.nonce + `}`))
}

func (f *fakeRelayer) handleDomain(w http.ResponseWriter, r *http.Request) {
	f.record(r, nil)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(testDomainJSON))
}

func (f *fakeRelayer) handleRelay(w http.ResponseWriter, r *http.Request) {
	var payload types.RelayPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.record(r, &payload)

	w.Header().Set("Content-Type", "application/json")
	if payload.Signature == types.ZeroSignature {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(testChallengeJSON))

		return
	}

	signer, err := opskit.RecoverForwardRequestSigner(f.domain, payload.Request, payload.Signature)
	if err != nil || signer != payload.Request.From {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid signature"}`))

		return
	}

	_, _ = w.Write([]byte(`{"txHash":"0xabc"}`))
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	return logger.WithLogger(context.Background(), zaptest.NewLogger(t).Sugar())
}
