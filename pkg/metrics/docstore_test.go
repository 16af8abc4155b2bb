package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestDocstoreMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDocstoreMetrics(reg)

	m.ObserveOp("messages", "insert", 25*time.Millisecond)
	m.IncFailure("messages", "get", "NOT_FOUND")
	m.SubscriptionOpened("messages")
	m.SubscriptionOpened("messages")
	m.SubscriptionClosed("messages")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, family := range families {
		byName[family.GetName()] = family
	}

	hist, ok := byName["docstore_op_duration_seconds"]
	if !ok {
		t.Fatal("duration histogram not registered")
	}
	if count := hist.GetMetric()[0].GetHistogram().GetSampleCount(); count != 1 {
		t.Fatalf("expected 1 duration sample, got %d", count)
	}

	fail, ok := byName["docstore_op_failure"]
	if !ok {
		t.Fatal("failure counter not registered")
	}
	if got := fail.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected failure count 1, got %v", got)
	}

	subs, ok := byName["docstore_active_subscriptions"]
	if !ok {
		t.Fatal("subscription gauge not registered")
	}
	if got := subs.GetMetric()[0].GetGauge().GetValue(); got != 1 {
		t.Fatalf("expected 1 active subscription, got %v", got)
	}
}

func TestDocstoreMetricsNilSafe(t *testing.T) {
	var m *DocstoreMetrics
	m.ObserveOp("messages", "insert", time.Millisecond)
	m.IncFailure("messages", "insert", "INTERNAL")
	m.SubscriptionOpened("messages")
	m.SubscriptionClosed("messages")

	empty := NewDocstoreMetrics(nil)
	empty.ObserveOp("messages", "insert", time.Millisecond)
}
