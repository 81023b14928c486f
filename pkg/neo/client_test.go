package neo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// newNode starts a JSON-RPC server answering from handler. A handler returning
// a non-nil rpcError produces an error response.
func newNode(t *testing.T, handler func(method string, params []json.RawMessage) (any, *rpcError)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}

		result, rerr := handler(req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rerr != nil {
			resp["error"] = rerr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

const txid = "0x8fc4c3a0d2c4f5a04c9e0d4e5b1c3f8e2d1a0b9c8d7e6f5a4b3c2d1e0f9a8b7c"

func TestRPCClient_GetRawTransaction(t *testing.T) {
	url := newNode(t, func(method string, params []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "getrawtransaction", method)
		if !assert.Len(t, params, 2) {
			return nil, &rpcError{Code: -32602, Message: "bad params"}
		}
		assert.JSONEq(t, `"`+txid+`"`, string(params[0]))
		assert.JSONEq(t, `true`, string(params[1]))
		return map[string]any{
			"hash":          txid,
			"sender":        "NAliceAddress",
			"blockhash":     "0xabc",
			"confirmations": 3,
			"vmstate":       "HALT",
		}, nil
	})

	c, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer c.Close()

	tx, err := c.GetRawTransaction(context.Background(), txid)
	require.NoError(t, err)
	assert.Equal(t, txid, tx.Hash)
	assert.Equal(t, uint32(3), tx.Confirmations)
	assert.True(t, tx.Confirmed())
	assert.False(t, tx.Faulted())
}

func TestRPCClient_UnknownTransaction(t *testing.T) {
	url := newNode(t, func(string, []json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: -100, Message: "Unknown transaction"}
	})

	c, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.GetRawTransaction(context.Background(), txid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknown))
}

func TestRPCClient_OtherErrorIsNotUnknown(t *testing.T) {
	url := newNode(t, func(string, []json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: -32603, Message: "internal error"}
	})

	c, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.GetContractState(context.Background(), "0xd2a4cff31913016155e38e474a2c06d08be276cf")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnknown))
}

func TestRPCClient_GetContractState(t *testing.T) {
	url := newNode(t, func(method string, params []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "getcontractstate", method)
		return json.RawMessage(`{
			"id": -6,
			"updatecounter": 0,
			"hash": "0xd2a4cff31913016155e38e474a2c06d08be276cf",
			"manifest": {
				"name": "GasToken",
				"supportedstandards": ["NEP-17"],
				"abi": {
					"methods": [{"name": "symbol", "parameters": [], "returntype": "String", "offset": 0, "safe": true}],
					"events": [{"name": "Transfer", "parameters": [{"name": "from", "type": "Hash160"}]}]
				}
			}
		}`), nil
	})

	c, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer c.Close()

	state, err := c.GetContractState(context.Background(), "0xd2a4cff31913016155e38e474a2c06d08be276cf")
	require.NoError(t, err)
	assert.Equal(t, "GasToken", state.Manifest.Name)
	assert.Equal(t, []string{"NEP-17"}, state.Manifest.SupportedStandards)
	require.Len(t, state.Manifest.ABI.Methods, 1)
	assert.Equal(t, "symbol", state.Manifest.ABI.Methods[0].Name)
	assert.True(t, state.Manifest.ABI.Methods[0].Safe)
}

func TestTransaction_Status(t *testing.T) {
	var nilTx *Transaction
	assert.False(t, nilTx.Confirmed())
	assert.False(t, nilTx.Faulted())

	assert.False(t, (&Transaction{Hash: txid}).Confirmed())
	assert.True(t, (&Transaction{BlockHash: "0x1"}).Confirmed())
	assert.True(t, (&Transaction{VMState: "FAULT"}).Faulted())
	assert.True(t, (&Transaction{VMState: "fault"}).Faulted())
	assert.False(t, (&Transaction{VMState: "HALT"}).Faulted())
}

func TestRPCClient_ListContracts(t *testing.T) {
	url := newNode(t, func(method string, _ []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "expresslistcontracts", method)
		return []map[string]any{
			{"hash": "0x01", "manifest": map[string]any{"name": "Token"}},
			{"hash": "0x02", "manifest": map[string]any{"name": "Registry"}},
		}, nil
	})

	c, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer c.Close()

	var lister ContractLister = c
	contracts, err := lister.ListContracts(context.Background())
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, "0x01", contracts[0].Hash)
	assert.Equal(t, "Registry", contracts[1].Manifest.Name)
}
