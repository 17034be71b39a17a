package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteSavedTotal counts quote persistence outcomes.
	QuoteSavedTotal *prometheus.CounterVec
	// CouponApplyTotal counts coupon apply checks by outcome.
	CouponApplyTotal *prometheus.CounterVec
	// ExportTotal counts document export outcomes by format.
	ExportTotal *prometheus.CounterVec
	// ExportDuration records export generation latency in milliseconds.
	ExportDuration *prometheus.HistogramVec
	// EmailSendTotal counts quotation email delivery outcomes.
	EmailSendTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteSavedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_saved_total",
			Help:      "Count of quote save outcomes.",
		}, []string{"result"})
		CouponApplyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_apply_total",
			Help:      "Count of coupon apply checks by outcome.",
		}, []string{"result"})
		ExportTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_total",
			Help:      "Count of document export outcomes by format.",
		}, []string{"format", "result"})
		ExportDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_ms",
			Help:      "Latency for document generation in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"format"})
		EmailSendTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_send_total",
			Help:      "Count of quotation email delivery outcomes.",
		}, []string{"result"})

		reg.MustRegister(QuoteSavedTotal, CouponApplyTotal, ExportTotal, ExportDuration, EmailSendTotal)
	})
}
