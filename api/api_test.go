// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacolabs/childapp/abi"
	"github.com/tacolabs/childapp/api/bridge"
	"github.com/tacolabs/childapp/api/events"
	apinode "github.com/tacolabs/childapp/api/node"
	"github.com/tacolabs/childapp/api/providers"
	"github.com/tacolabs/childapp/api/subscriptions"
	"github.com/tacolabs/childapp/api/transactions"
	"github.com/tacolabs/childapp/builtin"
	"github.com/tacolabs/childapp/genesis"
	"github.com/tacolabs/childapp/logdb"
	"github.com/tacolabs/childapp/lvldb"
	"github.com/tacolabs/childapp/node"
	"github.com/tacolabs/childapp/taco"
)

var (
	provider = taco.BytesToAddress([]byte("provider"))
	operator = taco.BytesToAddress([]byte("operator"))
)

type testServer struct {
	*httptest.Server
	node *node.Node
	now  uint64
}

func newTestServer(t *testing.T, opts Options) *testServer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	logDB, err := logdb.NewMem()
	require.NoError(t, err)

	ts := &testServer{now: 1_800_000_000}
	ts.node, err = node.New(db, logDB, genesis.NewDevnet(), node.Options{
		Clock: func() uint64 { return ts.now },
	})
	require.NoError(t, err)

	if opts.LogsLimit == 0 {
		opts.LogsLimit = 100
	}
	if opts.AllowedOrigins == "" {
		opts.AllowedOrigins = "*"
	}
	handler, closeSubs := New(ts.node, opts)
	ts.Server = httptest.NewServer(handler)
	t.Cleanup(func() {
		closeSubs()
		ts.Close()
		ts.node.Close()
		logDB.Close()
		db.Close()
	})
	return ts
}

func encodeInput(t *testing.T, contractABI *abi.ABI, name string, args ...any) []byte {
	method, ok := contractABI.MethodByName(name)
	require.True(t, ok, name)
	data, err := method.EncodeInput(args...)
	require.NoError(t, err)
	return data
}

func (ts *testServer) get(t *testing.T, path string, v any) int {
	res, err := http.Get(ts.URL + path) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.Unmarshal(body, v), string(body))
	}
	return res.StatusCode
}

func (ts *testServer) post(t *testing.T, path string, caller, to taco.Address, data []byte) (*transactions.Receipt, int) {
	reqBody, err := json.Marshal(&transactions.Clause{Caller: caller, To: &to, Data: data})
	require.NoError(t, err)
	res, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(reqBody)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode != http.StatusOK {
		return nil, res.StatusCode
	}
	var receipt transactions.Receipt
	require.NoError(t, json.Unmarshal(body, &receipt), string(body))
	return &receipt, res.StatusCode
}

func (ts *testServer) relay(t *testing.T, name string, args ...any) *transactions.Receipt {
	message := encodeInput(t, builtin.ChildApplication.ABI, name, args...)
	receipt, code := ts.post(t, "/transactions", genesis.DevAccounts()[0].Address, builtin.Bridge.Address,
		encodeInput(t, builtin.Bridge.ABI, "relay", message))
	require.Equal(t, http.StatusOK, code)
	return receipt
}

func amount(n int64) *big.Int {
	return new(big.Int).Mul(genesis.DevMinimumAuthorization, big.NewInt(n))
}

func TestRegistryFlow(t *testing.T) {
	ts := newTestServer(t, Options{})

	receipt := ts.relay(t, "updateAuthorization0", common.Address(provider), amount(2))
	require.False(t, receipt.Reverted)
	require.NotNil(t, receipt.Block)
	assert.Equal(t, uint32(1), receipt.Block.Number)
	receipt = ts.relay(t, "updateOperator", common.Address(provider), common.Address(operator))
	require.False(t, receipt.Reverted)

	// reverted transactions are reported, not failed
	receipt = ts.relay(t, "updateAuthorization", common.Address(operator), big.NewInt(1), big.NewInt(2), uint64(0))
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "Deauthorizing exceeds authorization", receipt.RevertReason)
	assert.Nil(t, receipt.Block)

	var info providers.ProviderInfo
	require.Equal(t, http.StatusOK, ts.get(t, "/providers/"+provider.String(), &info))
	assert.Equal(t, operator, info.Operator)
	assert.Equal(t, amount(2), (*big.Int)(info.Authorized))
	assert.False(t, info.OperatorConfirmed)
	assert.Equal(t, uint64(1), info.Index)

	var length providers.Length
	require.Equal(t, http.StatusOK, ts.get(t, "/providers/length", &length))
	assert.Equal(t, uint64(1), length.Length)

	// not confirmed yet
	var active providers.ActiveProviders
	require.Equal(t, http.StatusOK, ts.get(t, "/providers/active", &active))
	assert.Empty(t, active.Providers)

	// the operator publishes its key through the coordinator
	receipt, code := ts.post(t, "/transactions", operator, builtin.Coordinator.Address,
		encodeInput(t, builtin.Coordinator.ABI, "setProviderPublicKey", []byte{0xaa}))
	require.Equal(t, http.StatusOK, code)
	require.False(t, receipt.Reverted)

	require.Equal(t, http.StatusOK, ts.get(t, "/providers/active?start=0&max=10", &active))
	require.Len(t, active.Providers, 1)
	assert.Equal(t, provider, active.Providers[0].StakingProvider)
	assert.Equal(t, amount(2), (*big.Int)(active.Providers[0].Amount))
	assert.Equal(t, amount(2), (*big.Int)(active.Total))

	var op providers.OperatorInfo
	require.Equal(t, http.StatusOK, ts.get(t, "/operators/"+operator.String(), &op))
	assert.Equal(t, provider, op.StakingProvider)
	assert.True(t, op.Confirmed)

	var eligible providers.EligibleStake
	require.Equal(t, http.StatusOK, ts.get(t, "/providers/"+provider.String()+"/eligible?end=1900000000", &eligible))
	assert.Equal(t, amount(2), (*big.Int)(eligible.Eligible))

	var outbox bridge.Outbox
	require.Equal(t, http.StatusOK, ts.get(t, "/bridge/outbox", &outbox))
	assert.Equal(t, uint64(1), outbox.Length)
	assert.Equal(t, []taco.Address{operator}, outbox.Operators)

	var relayer bridge.Relayer
	require.Equal(t, http.StatusOK, ts.get(t, "/bridge/relayer", &relayer))
	assert.Equal(t, genesis.DevAccounts()[0].Address, relayer.Relayer)

	var logs []*events.FilteredEvent
	require.Equal(t, http.StatusOK, ts.get(t, "/logs/event?address="+builtin.ChildApplication.Address.String(), &logs))
	var names []string
	for _, l := range logs {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"AuthorizationUpdated", "OperatorUpdated", "OperatorConfirmed"}, names)

	require.Equal(t, http.StatusOK, ts.get(t, "/logs/event?order=desc&limit=1", &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "OperatorConfirmationSent", logs[0].Name)
	assert.Equal(t, operator, logs[0].Meta.Caller)

	var nodeInfo apinode.Info
	require.Equal(t, http.StatusOK, ts.get(t, "/node/info", &nodeInfo))
	assert.Equal(t, ts.node.GenesisID(), nodeInfo.GenesisID)
	assert.Equal(t, uint32(3), nodeInfo.Head.Number)
}

func TestCalls(t *testing.T) {
	ts := newTestServer(t, Options{})

	receipt, code := ts.post(t, "/calls", taco.Address{}, builtin.ChildApplication.Address,
		encodeInput(t, builtin.ChildApplication.ABI, "minimumAuthorization"))
	require.Equal(t, http.StatusOK, code)
	require.False(t, receipt.Reverted)
	assert.Equal(t, genesis.DevMinimumAuthorization, new(big.Int).SetBytes(receipt.Output))

	// calls never commit
	receipt, code = ts.post(t, "/calls", genesis.DevAccounts()[0].Address, builtin.Bridge.Address,
		encodeInput(t, builtin.Bridge.ABI, "relay",
			encodeInput(t, builtin.ChildApplication.ABI, "updateAuthorization0", common.Address(provider), amount(1))))
	require.Equal(t, http.StatusOK, code)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, uint32(0), ts.node.Head().Number)
}

func TestBadRequests(t *testing.T) {
	ts := newTestServer(t, Options{LogsLimit: 10})

	for _, path := range []string{
		"/providers/0xabc",
		"/providers/active?start=x",
		"/providers/active?cohort=-1",
		"/operators/xyz",
		"/logs/event?from=10&to=1",
		"/logs/event?order=random",
		"/logs/event?topic0=0x01",
		"/bridge/outbox?max=abc",
	} {
		assert.Equal(t, http.StatusBadRequest, ts.get(t, path, nil), path)
	}

	// the registry is empty
	assert.Equal(t, http.StatusBadRequest, ts.get(t, "/providers/active", nil))
	assert.Equal(t, http.StatusForbidden, ts.get(t, "/logs/event?limit=11", nil))

	res, err := http.Post(ts.URL+"/transactions", "application/json", strings.NewReader(`{"caller":"0x00"}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/node/info", nil)
	require.NoError(t, err)
	req.Header.Set("x-genesis-id", taco.Bytes32{}.String())
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, ts.node.GenesisID().String(), res.Header.Get("x-genesis-id"))
}

func TestSubscribeEvents(t *testing.T) {
	ts := newTestServer(t, Options{BacktraceLimit: 10})
	ts.relay(t, "updateAuthorization0", common.Address(provider), amount(3))

	u := url.URL{
		Scheme:   "ws",
		Host:     strings.TrimPrefix(ts.URL, "http://"),
		Path:     "/subscriptions/event",
		RawQuery: "pos=1&address=" + builtin.ChildApplication.Address.String(),
	}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn.Close()

	// replayed from the index
	var msg subscriptions.EventMessage
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "AuthorizationUpdated", msg.Name)
	assert.Equal(t, uint32(1), msg.Meta.BlockNumber)

	// live, the bridge event is filtered out
	ts.relay(t, "updateOperator", common.Address(provider), common.Address(operator))
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "OperatorUpdated", msg.Name)
	assert.Equal(t, uint32(2), msg.Meta.BlockNumber)
	assert.Equal(t, builtin.ChildApplication.Address, msg.Address)
}

func TestSubscribeBacktraceLimit(t *testing.T) {
	ts := newTestServer(t, Options{BacktraceLimit: 1})
	for i := int64(1); i <= 3; i++ {
		ts.relay(t, "updateAuthorization0", common.Address(provider), amount(i))
	}

	u := url.URL{
		Scheme:   "ws",
		Host:     strings.TrimPrefix(ts.URL, "http://"),
		Path:     "/subscriptions/event",
		RawQuery: "pos=0",
	}
	_, res, err := websocket.DefaultDialer.Dial(u.String(), nil)
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}
