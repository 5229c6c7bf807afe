package collector

import (
	"context"

	"github.com/utxonode/utxo-exporter/pkg/retry"
	"github.com/utxonode/utxo-exporter/pkg/rpc/daemon"
)

// Client is the set of node rpc calls the collectors depend on -
// satisfied by `*daemon.Client`.
//
type Client interface {
	GetBlockchainInfo(ctx context.Context) (*daemon.GetBlockchainInfoResult, error)
	GetBlockStats(ctx context.Context, hash string, stats []string) (*daemon.GetBlockStatsResult, error)
	GetMempoolInfo(ctx context.Context) (*daemon.GetMempoolInfoResult, error)
	GetNetworkInfo(ctx context.Context) (*daemon.GetNetworkInfoResult, error)
	GetPeerInfo(ctx context.Context) ([]daemon.Peer, error)
	GetNetTotals(ctx context.Context) (*daemon.GetNetTotalsResult, error)
	GetTxOutSetInfo(ctx context.Context) (*daemon.GetTxOutSetInfoResult, error)
	GetMemoryInfo(ctx context.Context) (*daemon.GetMemoryInfoResult, error)
	Uptime(ctx context.Context) (int64, error)
	GetChainTips(ctx context.Context) ([]daemon.ChainTip, error)
	GetChainTxStats(ctx context.Context) (*daemon.GetChainTxStatsResult, error)
	GetRPCInfo(ctx context.Context) (*daemon.GetRPCInfoResult, error)
	ListBanned(ctx context.Context) ([]daemon.BannedEntry, error)
	EstimateSmartFee(ctx context.Context, target int64) (*daemon.EstimateSmartFeeResult, error)
	GetNetworkHashPS(ctx context.Context, window int64) (float64, error)
}

var _ Client = (*daemon.Client)(nil)

// retryingClient decorates a Client so that every individual rpc call
// runs under the retrier's bounded backoff budget. Each call gets a
// fresh budget - retry state is never shared across calls.
//
type retryingClient struct {
	client  Client
	retrier *retry.Retrier
}

var _ Client = (*retryingClient)(nil)

func (r *retryingClient) GetBlockchainInfo(ctx context.Context) (res *daemon.GetBlockchainInfoResult, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.GetBlockchainInfo(ctx)
		return opErr
	})
	return res, err
}

func (r *retryingClient) GetBlockStats(ctx context.Context, hash string, stats []string) (res *daemon.GetBlockStatsResult, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.GetBlockStats(ctx, hash, stats)
		return opErr
	})
	return res, err
}

func (r *retryingClient) GetMempoolInfo(ctx context.Context) (res *daemon.GetMempoolInfoResult, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.GetMempoolInfo(ctx)
		return opErr
	})
	return res, err
}

func (r *retryingClient) GetNetworkInfo(ctx context.Context) (res *daemon.GetNetworkInfoResult, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.GetNetworkInfo(ctx)
		return opErr
	})
	return res, err
}

func (r *retryingClient) GetPeerInfo(ctx context.Context) (res []daemon.Peer, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.GetPeerInfo(ctx)
		return opErr
	})
	return res, err
}

func (r *retryingClient) GetNetTotals(ctx context.Context) (res *daemon.GetNetTotalsResult, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.GetNetTotals(ctx)
		return opErr
	})
	return res, err
}

func (r *retryingClient) GetTxOutSetInfo(ctx context.Context) (res *daemon.GetTxOutSetInfoResult, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.GetTxOutSetInfo(ctx)
		return opErr
	})
	return res, err
}

func (r *retryingClient) GetMemoryInfo(ctx context.Context) (res *daemon.GetMemoryInfoResult, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.GetMemoryInfo(ctx)
		return opErr
	})
	return res, err
}

func (r *retryingClient) Uptime(ctx context.Context) (res int64, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.Uptime(ctx)
		return opErr
	})
	return res, err
}

func (r *retryingClient) GetChainTips(ctx context.Context) (res []daemon.ChainTip, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.GetChainTips(ctx)
		return opErr
	})
	return res, err
}

func (r *retryingClient) GetChainTxStats(ctx context.Context) (res *daemon.GetChainTxStatsResult, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.GetChainTxStats(ctx)
		return opErr
	})
	return res, err
}

func (r *retryingClient) GetRPCInfo(ctx context.Context) (res *daemon.GetRPCInfoResult, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.GetRPCInfo(ctx)
		return opErr
	})
	return res, err
}

func (r *retryingClient) ListBanned(ctx context.Context) (res []daemon.BannedEntry, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.ListBanned(ctx)
		return opErr
	})
	return res, err
}

func (r *retryingClient) EstimateSmartFee(ctx context.Context, target int64) (res *daemon.EstimateSmartFeeResult, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.EstimateSmartFee(ctx, target)
		return opErr
	})
	return res, err
}

func (r *retryingClient) GetNetworkHashPS(ctx context.Context, window int64) (res float64, err error) {
	err = r.retrier.Do(ctx, func(ctx context.Context) (opErr error) {
		res, opErr = r.client.GetNetworkHashPS(ctx, window)
		return opErr
	})
	return res, err
}
