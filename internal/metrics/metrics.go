// internal/metrics/metrics.go
//
// Package metrics 定義帳本的 Prometheus 指標。
// 成功的帳戶事件經由 Observe（bank.EventSink）計數；被拒絕的請求經由 ObserveFailure 依錯誤種類計數。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"banking/internal/bank"
)

// Metrics 集中帳本的所有 collector。
// - Operations、MovedAmount：依事件種類 (deposit/withdraw/transfer) 分類。
// - Failures：依錯誤種類分類；非領域錯誤依狀態碼歸為 bad_request 或 internal。
type Metrics struct {
	AccountsOpened prometheus.Counter
	Operations     *prometheus.CounterVec
	Failures       *prometheus.CounterVec
	MovedAmount    *prometheus.CounterVec
}

// New 建立 collector 並註冊到 reg；測試時請傳入新的 registry 以免重複註冊。
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AccountsOpened: f.NewCounter(prometheus.CounterOpts{
			Name: "bank_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bank_operations_total",
			Help: "Successful balance operations by kind",
		}, []string{"kind"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bank_operation_failures_total",
			Help: "Rejected operations by error kind",
		}, []string{"kind"}),
		MovedAmount: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bank_moved_amount_total",
			Help: "Sum of amounts moved by successful operations, in currency units",
		}, []string{"kind"}),
	}
}

// Observe 記錄一筆帳戶事件，簽章與 bank.EventSink 相同。
func (m *Metrics) Observe(ev bank.Event) {
	if ev.Kind == bank.EventOpened {
		m.AccountsOpened.Inc()
		return
	}
	m.Operations.WithLabelValues(string(ev.Kind)).Inc()
	amount, _ := ev.Amount.Float64()
	m.MovedAmount.WithLabelValues(string(ev.Kind)).Add(amount)
}

// 非領域錯誤的分類標籤。
const (
	KindBadRequest = "bad_request"
	KindInternal   = "internal"
)

// ObserveFailure 記錄一次被拒絕的操作。
// 領域錯誤以其種類為標籤；其餘錯誤（JSON 格式錯誤、ID 無法解析等）依 status 區分：
// 500 以下為 bad_request，其餘為 internal。
func (m *Metrics) ObserveFailure(err error, status int) {
	kind := string(bank.KindOf(err))
	if kind == "" {
		kind = KindInternal
		if status < http.StatusInternalServerError {
			kind = KindBadRequest
		}
	}
	m.Failures.WithLabelValues(kind).Inc()
}
