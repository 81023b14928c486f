package neo

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/rpc"
)

// ErrUnknown is returned when the node does not know the requested transaction or contract.
var ErrUnknown = errors.New("unknown to node")

// Client is the part of the node RPC surface used to track transactions and
// look up contracts.
type Client interface {
	GetRawTransaction(ctx context.Context, id string) (*Transaction, error)
	GetContractState(ctx context.Context, hash string) (*ContractState, error)
}

// RPCClient speaks JSON-RPC 2.0 to a neo node.
type RPCClient struct {
	url string
	rpc *rpc.Client
}

// Dial connects to the JSON-RPC endpoint at url.
func Dial(ctx context.Context, url string) (*RPCClient, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", url)
	}
	return &RPCClient{url: url, rpc: c}, nil
}

func (c *RPCClient) URL() string { return c.url }

func (c *RPCClient) Close() {
	c.rpc.Close()
}

// GetRawTransaction fetches the verbose form of a transaction.
func (c *RPCClient) GetRawTransaction(ctx context.Context, id string) (*Transaction, error) {
	var tx Transaction
	if err := c.rpc.CallContext(ctx, &tx, "getrawtransaction", id, true); err != nil {
		return nil, classify(err, "getrawtransaction %s", id)
	}
	if tx.Hash == "" {
		return nil, errors.Wrapf(ErrUnknown, "transaction %s", id)
	}
	return &tx, nil
}

// GetContractState fetches a deployed contract including its manifest.
func (c *RPCClient) GetContractState(ctx context.Context, hash string) (*ContractState, error) {
	var state ContractState
	if err := c.rpc.CallContext(ctx, &state, "getcontractstate", hash); err != nil {
		return nil, classify(err, "getcontractstate %s", hash)
	}
	if state.Hash == "" {
		return nil, errors.Wrapf(ErrUnknown, "contract %s", hash)
	}
	return &state, nil
}

// GetVersion is used to check that the endpoint is a live node.
func (c *RPCClient) GetVersion(ctx context.Context) (*Version, error) {
	var v Version
	if err := c.rpc.CallContext(ctx, &v, "getversion"); err != nil {
		return nil, classify(err, "getversion")
	}
	return &v, nil
}

// neo reports unknown items with code -100 or an "Unknown ..." message
func classify(err error, format string, args ...any) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		if rpcErr.ErrorCode() == -100 || strings.HasPrefix(rpcErr.Error(), "Unknown") {
			return errors.Wrapf(errors.Mark(err, ErrUnknown), format, args...)
		}
	}
	return errors.Wrapf(err, format, args...)
}

// DeployedContract is one entry of the neo-express contract list.
type DeployedContract struct {
	Hash     string   `json:"hash"`
	Manifest Manifest `json:"manifest"`
}

// ContractLister is implemented by clients of express nodes, which can list
// every deployed contract in one call.
type ContractLister interface {
	ListContracts(ctx context.Context) ([]DeployedContract, error)
}

// ListContracts calls the neo-express expresslistcontracts extension.
func (c *RPCClient) ListContracts(ctx context.Context) ([]DeployedContract, error) {
	var contracts []DeployedContract
	if err := c.rpc.CallContext(ctx, &contracts, "expresslistcontracts"); err != nil {
		return nil, classify(err, "expresslistcontracts")
	}
	return contracts, nil
}
