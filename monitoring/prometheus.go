package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mezonai/mmn-runtime/logx"
)

// ExtrinsicResult labels the outcome of one dispatched extrinsic. Failed
// extrinsics use their dispatch error code.
type ExtrinsicResult string

const ExtrinsicOk ExtrinsicResult = "ok"

type nodePromMetrics struct {
	nodeUpUnixSeconds  prometheus.Gauge
	blockHeight        prometheus.Gauge
	executedBlocks     prometheus.Counter
	rejectedBlocks     prometheus.Counter
	blockExecutionTime prometheus.Histogram
	extrinsicInBlock   prometheus.Histogram
	extrinsicCount     *prometheus.CounterVec
	stateCommitFailure prometheus.Counter
	panicCount         prometheus.Counter
}

func newNodePromMetrics() *nodePromMetrics {
	return &nodePromMetrics{
		nodeUpUnixSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mmn_runtime_up_timestamp_unix_seconds",
				Help: "Unix timestamp of the node start",
			},
		),
		blockHeight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mmn_runtime_block_height",
				Help: "The current block number of the runtime",
			},
		),
		executedBlocks: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mmn_runtime_executed_block_count",
				Help: "The total number of executed blocks",
			},
		),
		rejectedBlocks: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mmn_runtime_rejected_block_count",
				Help: "The total number of blocks rejected before execution",
			},
		),
		blockExecutionTime: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name: "mmn_runtime_block_execution_seconds",
				Help: "Time spent executing one block, state commit included",
			},
		),
		extrinsicInBlock: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name: "mmn_runtime_extrinsic_in_block",
				Help: "Number of extrinsics in block",
			},
		),
		extrinsicCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mmn_runtime_extrinsic_count",
				Help: "The total number of dispatched extrinsics by result",
			},
			[]string{"result"},
		),
		stateCommitFailure: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mmn_runtime_state_commit_failure_count",
				Help: "The total number of failed state commits",
			},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mmn_runtime_panic_count",
				Help: "The total number of recovered panics",
			},
		),
	}
}

var (
	nodeMetrics *nodePromMetrics
	initOnce    sync.Once
)

// InitMetrics registers the node metrics with the default registry. Calls
// after the first are no-ops; recorders do nothing until it has been called.
func InitMetrics() {
	initOnce.Do(func() {
		nodeMetrics = newNodePromMetrics()
		nodeMetrics.nodeUpUnixSeconds.SetToCurrentTime()
	})
}

func RegisterMetrics(mux *http.ServeMux, path string) {
	logx.Info("MONITORING", "Registering prometheus metrics at ", path)
	mux.Handle(path, promhttp.Handler())
}

func SetBlockHeight(blockHeight uint64) {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.blockHeight.Set(float64(blockHeight))
}

func RecordExecutedBlock(duration time.Duration, extrinsics int) {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.executedBlocks.Inc()
	nodeMetrics.blockExecutionTime.Observe(duration.Seconds())
	nodeMetrics.extrinsicInBlock.Observe(float64(extrinsics))
}

func IncreaseRejectedBlockCount() {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.rejectedBlocks.Inc()
}

func RecordExtrinsic(result ExtrinsicResult) {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.extrinsicCount.With(prometheus.Labels{
		"result": string(result),
	}).Inc()
}

func IncreaseStateCommitFailure() {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.stateCommitFailure.Inc()
}

func IncreasePanicCount() {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.panicCount.Inc()
}
