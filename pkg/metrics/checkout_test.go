package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsRecord(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewCheckoutMetrics(registry)

	m.IncSubmitSuccess("cash")
	m.IncSubmitSuccess("cash")
	m.IncSubmitFailure("card")
	m.IncGatewayResult("cancel")
	m.ObserveSubmitDuration("cash", 250*time.Millisecond)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	byName := map[string]*dto.MetricFamily{}
	for _, family := range families {
		byName[family.GetName()] = family
	}

	if got := counterValue(t, byName, "checkout_submit_success", "method", "cash"); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := counterValue(t, byName, "checkout_submit_failure", "method", "card"); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := counterValue(t, byName, "payment_gateway_results", "outcome", "cancel"); got != 1 {
		t.Fatalf("expected 1 cancel, got %v", got)
	}

	duration, ok := byName["checkout_submit_duration_seconds"]
	if !ok || len(duration.GetMetric()) == 0 {
		t.Fatalf("submit duration histogram missing")
	}
	if got := duration.GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
		t.Fatalf("expected one duration sample, got %d", got)
	}
}

func TestCheckoutMetricsNormalizeEmptyLabel(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewCheckoutMetrics(registry)

	m.IncSubmitSuccess("")

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	byName := map[string]*dto.MetricFamily{}
	for _, family := range families {
		byName[family.GetName()] = family
	}
	if got := counterValue(t, byName, "checkout_submit_success", "method", "unknown"); got != 1 {
		t.Fatalf("empty label should count as unknown, got %v", got)
	}
}

func TestCheckoutMetricsNilSafe(t *testing.T) {
	var m *CheckoutMetrics
	m.IncSubmitSuccess("cash")
	m.IncSubmitFailure("cash")
	m.IncGatewayResult("success")
	m.ObserveSubmitDuration("cash", time.Second)

	unregistered := NewCheckoutMetrics(nil)
	unregistered.IncSubmitSuccess("cash")
}

func counterValue(t *testing.T, byName map[string]*dto.MetricFamily, name, labelName, labelValue string) float64 {
	t.Helper()
	family, ok := byName[name]
	if !ok {
		t.Fatalf("metric %s not gathered", name)
	}
	for _, metric := range family.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == labelName && label.GetValue() == labelValue {
				return metric.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s has no series %s=%s", name, labelName, labelValue)
	return 0
}
