package daemon_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utxonode/utxo-exporter/pkg/rpc/daemon"
)

// fakeCaller records the last call submitted through it and answers
// with a canned raw result.
type fakeCaller struct {
	method string
	params []interface{}
	result string
}

func (f *fakeCaller) Call(
	_ context.Context, method string, params []interface{}, out interface{},
) error {
	f.method = method
	f.params = params

	if out == nil {
		return nil
	}

	return json.Unmarshal([]byte(f.result), out)
}

func TestGetBlockchainInfo(t *testing.T) {
	caller := &fakeCaller{result: `{
		"chain": "main",
		"blocks": 800000,
		"bestblockhash": "deadbeef",
		"difficulty": 53911173001054.59,
		"verificationprogress": 0.9999,
		"size_on_disk": 563325954979
	}`}

	res, err := daemon.NewClient(caller).GetBlockchainInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "getblockchaininfo", caller.method)
	assert.Equal(t, int64(800000), res.Blocks)
	assert.Equal(t, "deadbeef", res.BestBlockHash)
	assert.Equal(t, "main", res.Chain)
}

func TestGetBlockStatsOrdersParameters(t *testing.T) {
	caller := &fakeCaller{result: `{
		"height": 800000,
		"txs": 3721,
		"totalfee": 12570425,
		"total_out": 224124684722297
	}`}

	stats := []string{"height", "txs", "totalfee", "total_out"}

	res, err := daemon.NewClient(caller).GetBlockStats(
		context.Background(), "deadbeef", stats,
	)
	require.NoError(t, err)

	assert.Equal(t, "getblockstats", caller.method)
	require.Len(t, caller.params, 2)
	assert.Equal(t, "deadbeef", caller.params[0])
	assert.Equal(t, stats, caller.params[1])
	assert.Equal(t, int64(12570425), res.TotalFee)
}

func TestGetMemoryInfoRequestsStatsMode(t *testing.T) {
	caller := &fakeCaller{result: `{
		"locked": {
			"used": 128,
			"free": 65408,
			"total": 65536,
			"locked": 65536,
			"chunks_used": 2,
			"chunks_free": 1
		}
	}`}

	res, err := daemon.NewClient(caller).GetMemoryInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "getmemoryinfo", caller.method)
	assert.Equal(t, []interface{}{"stats"}, caller.params)
	assert.Equal(t, int64(128), res.Locked.Used)
	assert.Equal(t, int64(65536), res.Locked.Total)
}

func TestUptimeDecodesScalarResult(t *testing.T) {
	caller := &fakeCaller{result: `86400`}

	uptime, err := daemon.NewClient(caller).Uptime(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "uptime", caller.method)
	assert.Equal(t, int64(86400), uptime)
}

func TestGetMempoolInfoOptionalFields(t *testing.T) {
	caller := &fakeCaller{result: `{"size": 120, "bytes": 40960, "usage": 65536}`}

	res, err := daemon.NewClient(caller).GetMempoolInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(120), res.Size)
	assert.Nil(t, res.UnbroadcastCount)

	caller.result = `{"size": 120, "bytes": 40960, "usage": 65536, "unbroadcastcount": 3}`

	res, err = daemon.NewClient(caller).GetMempoolInfo(context.Background())
	require.NoError(t, err)

	require.NotNil(t, res.UnbroadcastCount)
	assert.Equal(t, int64(3), *res.UnbroadcastCount)
}

func TestEstimateSmartFee(t *testing.T) {
	caller := &fakeCaller{result: `{"feerate": 0.00023, "blocks": 2}`}

	res, err := daemon.NewClient(caller).EstimateSmartFee(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, "estimatesmartfee", caller.method)
	assert.Equal(t, []interface{}{int64(2)}, caller.params)
	require.NotNil(t, res.FeeRate)
	assert.InDelta(t, 0.00023, *res.FeeRate, 1e-9)

	// no estimate available yet.
	caller.result = `{"blocks": 2, "errors": ["Insufficient data"]}`

	res, err = daemon.NewClient(caller).EstimateSmartFee(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, res.FeeRate)
}

func TestGetNetworkHashPS(t *testing.T) {
	caller := &fakeCaller{result: `3.94622e+20`}

	hps, err := daemon.NewClient(caller).GetNetworkHashPS(context.Background(), 120)
	require.NoError(t, err)

	assert.Equal(t, "getnetworkhashps", caller.method)
	assert.Equal(t, []interface{}{int64(120)}, caller.params)
	assert.InEpsilon(t, 3.94622e+20, hps, 1e-9)
}
