package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RewardMetrics tracks claim and redeem outcomes.
type RewardMetrics struct {
	claims      *prometheus.CounterVec
	redemptions *prometheus.CounterVec
	codeRetries prometheus.Counter
}

// NewRewardMetrics registers the reward metrics on the provided registerer.
func NewRewardMetrics(reg prometheus.Registerer) *RewardMetrics {
	if reg == nil {
		return &RewardMetrics{}
	}
	claims := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reward_claims_total",
		Help: "Reward claim attempts partitioned by result.",
	}, []string{"result"})
	redemptions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reward_redemptions_total",
		Help: "Reward redemption attempts partitioned by result.",
	}, []string{"result"})
	codeRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reward_code_retries_total",
		Help: "Redemption code regenerations after a unique collision.",
	})
	reg.MustRegister(claims, redemptions, codeRetries)
	return &RewardMetrics{
		claims:      claims,
		redemptions: redemptions,
		codeRetries: codeRetries,
	}
}

// ObserveClaim records the outcome of one claim attempt.
func (m *RewardMetrics) ObserveClaim(result string) {
	if m == nil || m.claims == nil {
		return
	}
	m.claims.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveRedemption records the outcome of one redeem attempt.
func (m *RewardMetrics) ObserveRedemption(result string) {
	if m == nil || m.redemptions == nil {
		return
	}
	m.redemptions.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncCodeRetry counts one code regeneration after a collision.
func (m *RewardMetrics) IncCodeRetry() {
	if m == nil || m.codeRetries == nil {
		return
	}
	m.codeRetries.Inc()
}
