// Package daemon provides a typed interface to the json-rpc surface of a
// UTXO-model node (bitcoind and compatible daemons).
//
// Each method maps to exactly one rpc call, decoding the result against
// an explicit schema - a result that doesn't fit the schema surfaces as a
// protocol error rather than a missing-key surprise further down the
// line.
//
package daemon

import (
	"context"
)

// Caller is the transport-level contract this client needs - satisfied
// by `*rpc.Client`.
//
type Caller interface {
	Call(ctx context.Context, method string, params []interface{}, out interface{}) error
}

// Client is a json-rpc client geared towards the daemon-specific
// methods.
//
type Client struct {
	caller Caller
}

// NewClient instantiates a new daemon rpc client on top of a raw
// transport client.
//
func NewClient(c Caller) *Client {
	return &Client{caller: c}
}

// GetBlockchainInfo retrieves general state info about the chain being
// tracked by the node.
//
func (c *Client) GetBlockchainInfo(ctx context.Context) (*GetBlockchainInfoResult, error) {
	res := &GetBlockchainInfoResult{}

	if err := c.caller.Call(ctx, "getblockchaininfo", nil, res); err != nil {
		return nil, err
	}

	return res, nil
}

// GetBlockStats retrieves computed statistics about the block identified
// by `hash`, limited to the given stat names.
//
func (c *Client) GetBlockStats(ctx context.Context, hash string, stats []string) (*GetBlockStatsResult, error) {
	res := &GetBlockStatsResult{}

	if err := c.caller.Call(ctx, "getblockstats", []interface{}{hash, stats}, res); err != nil {
		return nil, err
	}

	return res, nil
}

// GetMempoolInfo retrieves details about the node's transaction memory
// pool.
//
func (c *Client) GetMempoolInfo(ctx context.Context) (*GetMempoolInfoResult, error) {
	res := &GetMempoolInfoResult{}

	if err := c.caller.Call(ctx, "getmempoolinfo", nil, res); err != nil {
		return nil, err
	}

	return res, nil
}

// GetNetworkInfo retrieves p2p networking state from the node.
//
func (c *Client) GetNetworkInfo(ctx context.Context) (*GetNetworkInfoResult, error) {
	res := &GetNetworkInfoResult{}

	if err := c.caller.Call(ctx, "getnetworkinfo", nil, res); err != nil {
		return nil, err
	}

	return res, nil
}

// GetPeerInfo retrieves data about each connected peer.
//
func (c *Client) GetPeerInfo(ctx context.Context) ([]Peer, error) {
	res := []Peer{}

	if err := c.caller.Call(ctx, "getpeerinfo", nil, &res); err != nil {
		return nil, err
	}

	return res, nil
}

// GetNetTotals retrieves the node's total traffic counters.
//
func (c *Client) GetNetTotals(ctx context.Context) (*GetNetTotalsResult, error) {
	res := &GetNetTotalsResult{}

	if err := c.caller.Call(ctx, "getnettotals", nil, res); err != nil {
		return nil, err
	}

	return res, nil
}

// GetTxOutSetInfo retrieves statistics about the unspent transaction
// output set.
//
// ps.: on a cold node this call can take a long while as the node scans
// the whole utxo set.
//
func (c *Client) GetTxOutSetInfo(ctx context.Context) (*GetTxOutSetInfoResult, error) {
	res := &GetTxOutSetInfoResult{}

	if err := c.caller.Call(ctx, "gettxoutsetinfo", nil, res); err != nil {
		return nil, err
	}

	return res, nil
}

// GetMemoryInfo retrieves information about the node's memory usage.
//
func (c *Client) GetMemoryInfo(ctx context.Context) (*GetMemoryInfoResult, error) {
	res := &GetMemoryInfoResult{}

	if err := c.caller.Call(ctx, "getmemoryinfo", []interface{}{"stats"}, res); err != nil {
		return nil, err
	}

	return res, nil
}

// Uptime retrieves for how many seconds the node has been running.
//
func (c *Client) Uptime(ctx context.Context) (int64, error) {
	var res int64

	if err := c.caller.Call(ctx, "uptime", nil, &res); err != nil {
		return 0, err
	}

	return res, nil
}

// GetChainTips retrieves all known tips of the block tree, including the
// main chain and orphaned branches.
//
func (c *Client) GetChainTips(ctx context.Context) ([]ChainTip, error) {
	res := []ChainTip{}

	if err := c.caller.Call(ctx, "getchaintips", nil, &res); err != nil {
		return nil, err
	}

	return res, nil
}

// GetChainTxStats retrieves statistics about the total number and rate
// of transactions in the chain.
//
func (c *Client) GetChainTxStats(ctx context.Context) (*GetChainTxStatsResult, error) {
	res := &GetChainTxStatsResult{}

	if err := c.caller.Call(ctx, "getchaintxstats", nil, res); err != nil {
		return nil, err
	}

	return res, nil
}

// GetRPCInfo retrieves details about the rpc server itself.
//
func (c *Client) GetRPCInfo(ctx context.Context) (*GetRPCInfoResult, error) {
	res := &GetRPCInfoResult{}

	if err := c.caller.Call(ctx, "getrpcinfo", nil, res); err != nil {
		return nil, err
	}

	return res, nil
}

// ListBanned retrieves all manually or automatically banned addresses.
//
func (c *Client) ListBanned(ctx context.Context) ([]BannedEntry, error) {
	res := []BannedEntry{}

	if err := c.caller.Call(ctx, "listbanned", nil, &res); err != nil {
		return nil, err
	}

	return res, nil
}

// EstimateSmartFee retrieves the estimated fee rate needed for a
// transaction to confirm within `target` blocks.
//
func (c *Client) EstimateSmartFee(ctx context.Context, target int64) (*EstimateSmartFeeResult, error) {
	res := &EstimateSmartFeeResult{}

	if err := c.caller.Call(ctx, "estimatesmartfee", []interface{}{target}, res); err != nil {
		return nil, err
	}

	return res, nil
}

// GetNetworkHashPS retrieves the estimated network hashes per second
// over the last `window` blocks (-1 meaning "since the last difficulty
// change").
//
func (c *Client) GetNetworkHashPS(ctx context.Context, window int64) (float64, error) {
	var res float64

	if err := c.caller.Call(ctx, "getnetworkhashps", []interface{}{window}, &res); err != nil {
		return 0, err
	}

	return res, nil
}
