package collector

import (
	"math"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// prefix put in front of every metric name exposed by this exporter.
//
const prefix = "utxo_node_"

// satsPerCoin is the number of indivisible units in a whole coin.
//
const satsPerCoin = 1e8

// coinsToSats converts a coin-denominated amount reported by the node
// into the smallest indivisible unit, which is what every monetary
// metric of this exporter is stored in.
//
func coinsToSats(v float64) float64 {
	return math.Round(v * satsPerCoin)
}

// metrics is the full set of series this exporter exposes, registered
// once at construction time and then mutated in place by the collection
// cycles.
//
type metrics struct {
	// chain
	blocks               prometheus.Gauge
	difficulty           prometheus.Gauge
	sizeOnDisk           prometheus.Gauge
	verificationProgress prometheus.Gauge
	chainTips            prometheus.Gauge
	txCount              prometheus.Gauge

	// latest block
	latestBlockHeight  prometheus.Gauge
	latestBlockSize    prometheus.Gauge
	latestBlockWeight  prometheus.Gauge
	latestBlockTxs     prometheus.Gauge
	latestBlockInputs  prometheus.Gauge
	latestBlockOutputs prometheus.Gauge
	latestBlockValue   prometheus.Gauge
	latestBlockFee     prometheus.Gauge

	// mempool
	mempoolSize        prometheus.Gauge
	mempoolBytes       prometheus.Gauge
	mempoolUsage       prometheus.Gauge
	mempoolUnbroadcast prometheus.Gauge

	// networking
	peers           prometheus.Gauge
	connections     *prometheus.GaugeVec
	serverVersion   prometheus.Gauge
	protocolVersion prometheus.Gauge
	warnings        prometheus.Counter
	totalBytesRecv  prometheus.Gauge
	totalBytesSent  prometheus.Gauge
	peersPing       *prometheus.GaugeVec
	peersAge        *prometheus.GaugeVec
	peersCountry    *prometheus.GaugeVec
	banCreated      *prometheus.GaugeVec
	bannedUntil     *prometheus.GaugeVec

	// utxo set
	utxoTransactions prometheus.Gauge
	utxoTxOuts       prometheus.Gauge
	utxoDiskSize     prometheus.Gauge
	utxoTotalAmount  prometheus.Gauge
	utxoUnspendable  prometheus.Gauge

	// node process
	uptime        prometheus.Gauge
	memUsed       prometheus.Gauge
	memFree       prometheus.Gauge
	memTotal      prometheus.Gauge
	memLocked     prometheus.Gauge
	memChunksUsed prometheus.Gauge
	memChunksFree prometheus.Gauge
	rpcActive     prometheus.Gauge

	// fee / hashrate estimates
	smartFee *prometheus.GaugeVec
	hashPS   *prometheus.GaugeVec

	// exporter self-telemetry
	up             prometheus.Gauge
	scrapeDuration prometheus.Gauge
	lastScrapeTime prometheus.Gauge
	scrapeErrors   *prometheus.CounterVec
}

// newMetrics registers the whole metric set against `reg`, stamping
// every series with a constant `blockchain` label.
//
func newMetrics(reg prometheus.Registerer, blockchain string) *metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"blockchain": blockchain}

	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Name:        prefix + name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}

	gaugeVec := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        prefix + name,
			Help:        help,
			ConstLabels: constLabels,
		}, labels)
	}

	return &metrics{
		blocks:               gauge("blocks", "height of the most-work fully-validated chain"),
		difficulty:           gauge("difficulty", "current proof-of-work difficulty"),
		sizeOnDisk:           gauge("size_on_disk", "estimated size of the block and undo files on disk"),
		verificationProgress: gauge("verification_progress", "estimate of chain verification progress [0..1]"),
		chainTips:            gauge("num_chaintips", "number of known blockchain branches"),
		txCount:              gauge("txcount", "number of transactions since the genesis block"),

		latestBlockHeight:  gauge("latest_block_height", "height of the latest block"),
		latestBlockSize:    gauge("latest_block_size", "size of the latest block in bytes"),
		latestBlockWeight:  gauge("latest_block_weight", "weight of the latest block"),
		latestBlockTxs:     gauge("latest_block_txs", "number of transactions in the latest block"),
		latestBlockInputs:  gauge("latest_block_inputs", "number of inputs in transactions of the latest block"),
		latestBlockOutputs: gauge("latest_block_outputs", "number of outputs in transactions of the latest block"),
		latestBlockValue:   gauge("latest_block_value_sat", "output value of all transactions in the latest block"),
		latestBlockFee:     gauge("latest_block_fee_sat", "total fee paid to process the latest block"),

		mempoolSize:        gauge("mempool_size", "number of unconfirmed transactions in the mempool"),
		mempoolBytes:       gauge("mempool_bytes", "virtual size of the mempool in bytes"),
		mempoolUsage:       gauge("mempool_usage", "total memory usage of the mempool"),
		mempoolUnbroadcast: gauge("mempool_unbroadcast", "number of transactions waiting for initial broadcast acknowledgement"),

		peers:           gauge("peers", "number of connected peers"),
		connections:     gaugeVec("connections", "number of connections broken down by direction", "direction"),
		serverVersion:   gauge("server_version", "version of the node"),
		protocolVersion: gauge("protocol_version", "p2p protocol version spoken by the node"),
		warnings: factory.NewCounter(prometheus.CounterOpts{
			Name:        prefix + "warnings_total",
			Help:        "number of network or blockchain warnings observed",
			ConstLabels: constLabels,
		}),
		totalBytesRecv: gauge("total_bytes_recv", "total bytes received by the node"),
		totalBytesSent: gauge("total_bytes_sent", "total bytes sent by the node"),
		peersPing:      gaugeVec("peers_ping_seconds", "distribution of peer ping times", "quantile"),
		peersAge:       gaugeVec("peers_connection_age_seconds", "distribution of how long peers have been connected", "quantile"),
		peersCountry:   gaugeVec("peers_by_country", "number of connected peers broken down by country", "country"),
		banCreated:     gaugeVec("ban_created", "time at which a ban was created", "address", "reason"),
		bannedUntil:    gaugeVec("banned_until", "time at which a ban expires", "address", "reason"),

		utxoTransactions: gauge("utxo_transactions", "number of transactions with unspent outputs"),
		utxoTxOuts:       gauge("utxo_txouts", "number of unspent transaction outputs"),
		utxoDiskSize:     gauge("utxo_disk_size", "size of the utxo index on disk"),
		utxoTotalAmount:  gauge("utxo_total_amount_sat", "total value held in the utxo set"),
		utxoUnspendable:  gauge("utxo_unspendable_amount_sat", "total value of provably unspendable outputs"),

		uptime:        gauge("uptime", "number of seconds the node has been running"),
		memUsed:       gauge("meminfo_used", "number of bytes used by the node's allocator"),
		memFree:       gauge("meminfo_free", "number of bytes available to the node's allocator"),
		memTotal:      gauge("meminfo_total", "number of bytes managed by the node's allocator"),
		memLocked:     gauge("meminfo_locked", "number of locked bytes"),
		memChunksUsed: gauge("meminfo_chunks_used", "number of allocated chunks"),
		memChunksFree: gauge("meminfo_chunks_free", "number of unused chunks"),
		rpcActive:     gauge("rpc_active", "number of rpc calls being processed by the node"),

		smartFee: gaugeVec("est_smart_fee_sat_kvb", "estimated fee rate for confirmation within a number of blocks", "blocks"),
		hashPS:   gaugeVec("hashps", "estimated network hash rate over a trailing block window", "window"),

		up:             gauge("up", "1 if every call of the last collection cycle succeeded, 0 otherwise"),
		scrapeDuration: gauge("scrape_duration_seconds", "wall-clock duration of the last collection cycle"),
		lastScrapeTime: gauge("last_scrape_time_seconds", "unix time at which the last collection cycle finished"),
		scrapeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        prefix + "scrape_errors_total",
			Help:        "number of collection failures broken down by collector",
			ConstLabels: constLabels,
		}, []string{"collector"}),
	}
}

// setQuantiles publishes a computed summary into a quantile-labeled
// gauge vector.
//
func setQuantiles(vec *prometheus.GaugeVec, s *Summary) {
	for phi, v := range s.Quantiles() {
		vec.WithLabelValues(
			strconv.FormatFloat(phi, 'g', -1, 64),
		).Set(v)
	}
}
