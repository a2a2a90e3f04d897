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
	RecordReportSubmitted()
	RecordValidationFailure(reason string)
	RecordTriageUpdate()
	RecordLoginSuccess(role string)
	RecordLoginFailure(role string)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	reportsSubmitted prometheus.Counter
	validationFail   *prometheus.CounterVec
	triageUpdates    prometheus.Counter
	loginSuccess     *prometheus.CounterVec
	loginFail        *prometheus.CounterVec
	httpStatus       *prometheus.CounterVec
	requestLatency   prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reportsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vetalert_reports_submitted_total",
			Help: "受理された通報の合計数",
		}),
		validationFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vetalert_validation_fail_total",
			Help: "バリデーション失敗の理由別合計数",
		}, []string{"reason"}),
		triageUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vetalert_triage_updates_total",
			Help: "トリアージ更新の合計数",
		}),
		loginSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vetalert_login_success_total",
			Help: "ログイン成功のロール別合計数",
		}, []string{"role"}),
		loginFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vetalert_login_fail_total",
			Help: "ログイン失敗のロール別合計数",
		}, []string{"role"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vetalert_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vetalert_request_latency_seconds",
			Help:    "リクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.reportsSubmitted,
		c.validationFail,
		c.triageUpdates,
		c.loginSuccess,
		c.loginFail,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordReportSubmitted は通報の受理を記録する。
func (c *Collector) RecordReportSubmitted() {
	c.reportsSubmitted.Inc()
}

// RecordValidationFailure はバリデーション失敗を理由付きで記録する。
func (c *Collector) RecordValidationFailure(reason string) {
	c.validationFail.WithLabelValues(reason).Inc()
}

// RecordTriageUpdate はトリアージ更新を記録する。
func (c *Collector) RecordTriageUpdate() {
	c.triageUpdates.Inc()
}

// RecordLoginSuccess はログイン成功をロール付きで記録する。
func (c *Collector) RecordLoginSuccess(role string) {
	c.loginSuccess.WithLabelValues(role).Inc()
}

// RecordLoginFailure はログイン失敗をロール付きで記録する。
func (c *Collector) RecordLoginFailure(role string) {
	c.loginFail.WithLabelValues(role).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
// ルーターで/metricsにマウントされる。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
