package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRewardMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewRewardMetrics(reg)

	metrics.ObserveClaim("issued")
	metrics.ObserveClaim("issued")
	metrics.ObserveClaim("out_of_stock")
	metrics.ObserveRedemption("redeemed")
	metrics.IncCodeRetry()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "reward_claims_total", "result", "issued"); err != nil {
		t.Fatalf("fetch claims: %v", err)
	} else if got != 2 {
		t.Fatalf("expected issued=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "reward_claims_total", "result", "out_of_stock"); err != nil {
		t.Fatalf("fetch claims: %v", err)
	} else if got != 1 {
		t.Fatalf("expected out_of_stock=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "reward_redemptions_total", "result", "redeemed"); err != nil {
		t.Fatalf("fetch redemptions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected redeemed=1, got %f", got)
	}

	retries := findMetricFamily(mfs, "reward_code_retries_total")
	if retries == nil || len(retries.GetMetric()) == 0 {
		t.Fatalf("reward_code_retries_total not exported")
	}
	if got := retries.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected retries=1, got %f", got)
	}
}

func TestRewardMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *RewardMetrics
	metrics.ObserveClaim("issued")
	metrics.ObserveRedemption("redeemed")
	metrics.IncCodeRetry()
}

func TestCronJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCronJobMetrics(reg)
	job := "test-job"
	metrics.ObserveDuration(job, 250*time.Millisecond)
	metrics.IncSuccess(job)
	metrics.IncFailure(job)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "job_success", "job", job); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "job_failure", "job", job); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
