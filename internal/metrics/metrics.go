// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordAuthSuccess(kind string)
	RecordAuthFailure(kind string, reason string)
	RecordCommunicationIngested(commType string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	authSuccess    *prometheus.CounterVec
	authFailure    *prometheus.CounterVec
	commsIngested  *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "riskwatch_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "riskwatch_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		authSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "riskwatch_auth_success_total",
			Help: "認証成功（register/login）の合計数",
		}, []string{"kind"}),
		authFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "riskwatch_auth_failure_total",
			Help: "認証失敗（理由別）の合計数",
		}, []string{"kind", "reason"}),
		commsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "riskwatch_communications_ingested_total",
			Help: "取り込まれたコミュニケーション（種別別）の合計数",
		}, []string{"type"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.authSuccess,
		c.authFailure,
		c.commsIngested,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordAuthSuccess は認証成功を記録する。kindは"register"または"login"。
func (c *Collector) RecordAuthSuccess(kind string) {
	c.authSuccess.WithLabelValues(kind).Inc()
}

// RecordAuthFailure は認証失敗を理由付きで記録する。
func (c *Collector) RecordAuthFailure(kind string, reason string) {
	c.authFailure.WithLabelValues(kind, reason).Inc()
}

// RecordCommunicationIngested はコミュニケーション取り込みを種別付きで記録する。
func (c *Collector) RecordCommunicationIngested(commType string) {
	c.commsIngested.WithLabelValues(commType).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
