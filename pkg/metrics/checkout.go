package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters and latencies for the checkout pipeline.
type CheckoutMetrics struct {
	submitDuration *prometheus.HistogramVec
	submitSuccess  *prometheus.CounterVec
	submitFailure  *prometheus.CounterVec
	gatewayResult  *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	submitDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_submit_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	submitSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submit_success",
		Help: "Successful checkout submissions.",
	}, []string{"method"})
	submitFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submit_failure",
		Help: "Failed checkout submissions.",
	}, []string{"method"})
	gatewayResult := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_gateway_results",
		Help: "Payment gateway return outcomes.",
	}, []string{"outcome"})
	reg.MustRegister(submitDuration, submitSuccess, submitFailure, gatewayResult)
	return &CheckoutMetrics{
		submitDuration: submitDuration,
		submitSuccess:  submitSuccess,
		submitFailure:  submitFailure,
		gatewayResult:  gatewayResult,
	}
}

// ObserveSubmitDuration records the duration of a submission by payment method.
func (c *CheckoutMetrics) ObserveSubmitDuration(method string, duration time.Duration) {
	if c == nil || c.submitDuration == nil {
		return
	}
	c.submitDuration.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

// IncSubmitSuccess increments the success counter for the payment method.
func (c *CheckoutMetrics) IncSubmitSuccess(method string) {
	if c == nil || c.submitSuccess == nil {
		return
	}
	c.submitSuccess.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncSubmitFailure increments the failure counter for the payment method.
func (c *CheckoutMetrics) IncSubmitFailure(method string) {
	if c == nil || c.submitFailure == nil {
		return
	}
	c.submitFailure.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncGatewayResult counts a gateway return outcome ("success", "cancel", "failed").
func (c *CheckoutMetrics) IncGatewayResult(outcome string) {
	if c == nil || c.gatewayResult == nil {
		return
	}
	c.gatewayResult.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
