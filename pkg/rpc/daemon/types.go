package daemon

// GetBlockchainInfoResult is the result of `getblockchaininfo`.
//
type GetBlockchainInfoResult struct {
	Chain                string  `json:"chain"`
	Blocks               int64   `json:"blocks"`
	Headers              int64   `json:"headers"`
	BestBlockHash        string  `json:"bestblockhash"`
	Difficulty           float64 `json:"difficulty"`
	VerificationProgress float64 `json:"verificationprogress"`
	InitialBlockDownload bool    `json:"initialblockdownload"`
	SizeOnDisk           int64   `json:"size_on_disk"`
	Pruned               bool    `json:"pruned"`
}

// GetBlockStatsResult is the result of `getblockstats`.
//
// Monetary fields (`totalfee`, `total_out`) are reported by the node in
// the smallest indivisible unit already.
//
type GetBlockStatsResult struct {
	Height      int64 `json:"height"`
	Txs         int64 `json:"txs"`
	TotalSize   int64 `json:"total_size"`
	TotalWeight int64 `json:"total_weight"`
	TotalFee    int64 `json:"totalfee"`
	TotalOut    int64 `json:"total_out"`
	Ins         int64 `json:"ins"`
	Outs        int64 `json:"outs"`
}

// GetMempoolInfoResult is the result of `getmempoolinfo`.
//
// `unbroadcastcount` only exists on recent node versions, hence the
// pointer - absent means "don't report".
//
type GetMempoolInfoResult struct {
	Size             int64  `json:"size"`
	Bytes            int64  `json:"bytes"`
	Usage            int64  `json:"usage"`
	UnbroadcastCount *int64 `json:"unbroadcastcount"`
}

// GetNetworkInfoResult is the result of `getnetworkinfo`.
//
// The per-direction connection counts were only introduced in v0.21, so
// they're optional.
//
type GetNetworkInfoResult struct {
	Version         int64  `json:"version"`
	Subversion      string `json:"subversion"`
	ProtocolVersion int64  `json:"protocolversion"`
	Connections     int64  `json:"connections"`
	ConnectionsIn   *int64 `json:"connections_in"`
	ConnectionsOut  *int64 `json:"connections_out"`
	Warnings        string `json:"warnings"`
}

// Peer is a single entry of the `getpeerinfo` result.
//
type Peer struct {
	ID       int64    `json:"id"`
	Addr     string   `json:"addr"`
	Inbound  bool     `json:"inbound"`
	ConnTime int64    `json:"conntime"`
	PingTime *float64 `json:"pingtime"`
}

// GetNetTotalsResult is the result of `getnettotals`.
//
type GetNetTotalsResult struct {
	TotalBytesRecv int64 `json:"totalbytesrecv"`
	TotalBytesSent int64 `json:"totalbytessent"`
}

// GetTxOutSetInfoResult is the result of `gettxoutsetinfo`.
//
// `total_amount` comes back denominated in whole coins;
// `total_unspendable_amount` requires the node to run with
// `-coinstatsindex` and is absent otherwise.
//
type GetTxOutSetInfoResult struct {
	Height                 int64    `json:"height"`
	BestBlock              string   `json:"bestblock"`
	Transactions           int64    `json:"transactions"`
	TxOuts                 int64    `json:"txouts"`
	BogoSize               int64    `json:"bogosize"`
	DiskSize               int64    `json:"disk_size"`
	TotalAmount            float64  `json:"total_amount"`
	TotalUnspendableAmount *float64 `json:"total_unspendable_amount"`
}

// MemoryStats is the per-allocator section of `getmemoryinfo`.
//
type MemoryStats struct {
	Used       int64 `json:"used"`
	Free       int64 `json:"free"`
	Total      int64 `json:"total"`
	Locked     int64 `json:"locked"`
	ChunksUsed int64 `json:"chunks_used"`
	ChunksFree int64 `json:"chunks_free"`
}

// GetMemoryInfoResult is the result of `getmemoryinfo stats`.
//
type GetMemoryInfoResult struct {
	Locked MemoryStats `json:"locked"`
}

// ChainTip is a single entry of the `getchaintips` result.
//
type ChainTip struct {
	Height    int64  `json:"height"`
	Hash      string `json:"hash"`
	BranchLen int64  `json:"branchlen"`
	Status    string `json:"status"`
}

// GetChainTxStatsResult is the result of `getchaintxstats`.
//
type GetChainTxStatsResult struct {
	Time    int64    `json:"time"`
	TxCount int64    `json:"txcount"`
	TxRate  *float64 `json:"txrate"`
}

// RPCCommand is a single in-flight command of the `getrpcinfo` result.
//
type RPCCommand struct {
	Method   string `json:"method"`
	Duration int64  `json:"duration"`
}

// GetRPCInfoResult is the result of `getrpcinfo`.
//
type GetRPCInfoResult struct {
	ActiveCommands []RPCCommand `json:"active_commands"`
}

// BannedEntry is a single entry of the `listbanned` result.
//
type BannedEntry struct {
	Address     string `json:"address"`
	BanCreated  int64  `json:"ban_created"`
	BannedUntil int64  `json:"banned_until"`
	BanReason   string `json:"ban_reason"`
}

// EstimateSmartFeeResult is the result of `estimatesmartfee`.
//
// `feerate` (coins per kvB) is absent when the node has not seen enough
// traffic to produce an estimate.
//
type EstimateSmartFeeResult struct {
	FeeRate *float64 `json:"feerate"`
	Blocks  int64    `json:"blocks"`
}
