package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SignerMetrics 签名相关的监控指标
type SignerMetrics struct {
	SignedTotal        *prometheus.CounterVec
	SignFailuresTotal  *prometheus.CounterVec
	SignDuration       prometheus.Histogram
	SignedAmountDrops  prometheus.Counter
	KeysLoaded         prometheus.Gauge
	VerificationsTotal *prometheus.CounterVec
}

// NewSignerMetrics 在给定的 Registerer 上注册指标。
// 传入 nil 时只创建不注册。
func NewSignerMetrics(reg prometheus.Registerer) *SignerMetrics {
	factory := promauto.With(reg)
	return &SignerMetrics{
		SignedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xrpl_signer_signed_total",
			Help: "Total number of signed transactions",
		}, []string{"tx_type", "algorithm"}),
		SignFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xrpl_signer_sign_failures_total",
			Help: "Total number of failed signing attempts by error code",
		}, []string{"code"}),
		SignDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "xrpl_signer_sign_duration_seconds",
			Help:    "Duration of build, encode and sign",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		SignedAmountDrops: factory.NewCounter(prometheus.CounterOpts{
			Name: "xrpl_signer_signed_amount_drops_total",
			Help: "Total XRP amount (drops) in signed payments",
		}),
		KeysLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "xrpl_signer_keys_loaded",
			Help: "Number of keys held by the key manager",
		}),
		VerificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xrpl_signer_verifications_total",
			Help: "Total number of blob verifications by result",
		}, []string{"result"}),
	}
}
