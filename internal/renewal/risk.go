// Package renewal implements the predictive renewal risk model: a
// deterministic additive score over expiration proximity, workflow stage,
// open alerts, rule failures, and historical renewal behavior.
package renewal

import (
	"math"

	"github.com/vendorsafe/kestrel/internal/domain"
)

// daysLeftBands maps time-to-expiration to its score contribution.
// Bands are checked top-down; the first match wins.
var daysLeftBands = []struct {
	max    int
	points int
}{
	{-1, 90}, // already expired
	{1, 70},
	{3, 60},
	{7, 45},
	{30, 30},
	{90, 15},
}

const (
	daysLeftUnknownPoints = 20 // no expiration on record
	daysLeftFarOutPoints  = 5  // beyond 90 days
)

// stagePoints maps a renewal workflow stage (days-before-expiration
// checkpoint) to its contribution. Stages 30 and 90 are early enough to
// carry no urgency.
var stagePoints = map[int]int{
	0: 20,
	1: 15,
	3: 10,
	7: 5,
}

const (
	alertPoints    = 5
	alertPointsCap = 25

	failingRulePoints = 4
	missingRulePoints = 3
)

// History adjustments.
const (
	historyLatePoints   = 20
	historyOnTimePoints = -10
	lastExpiredPoints   = 15
	lastOnTimePoints    = -5
)

// ComputeRenewalRiskScore computes a 0-100 renewal risk score from the
// given factors. Total over its input domain: nil pointers score as their
// "unknown" band and the result is always clamped to [0,100].
func ComputeRenewalRiskScore(f domain.RiskFactors) int {
	score := 0

	switch {
	case f.DaysLeft == nil:
		score += daysLeftUnknownPoints
	default:
		score += daysLeftContribution(*f.DaysLeft)
	}

	if f.Stage != nil {
		score += stagePoints[*f.Stage]
	}

	alertContribution := f.AlertsCount * alertPoints
	if alertContribution > alertPointsCap {
		alertContribution = alertPointsCap
	}
	score += alertContribution

	score += f.FailingRulesCount*failingRulePoints + f.MissingRulesCount*missingRulePoints

	if h := f.History; h != nil {
		if h.LateRenewals > h.OnTimeRenewals {
			score += historyLatePoints
		} else if h.OnTimeRenewals > h.LateRenewals {
			score += historyOnTimePoints
		}
		// Equal nonzero counts get no adjustment.

		switch h.LastOutcome {
		case domain.OutcomeExpired:
			score += lastExpiredPoints
		case domain.OutcomeOnTime:
			score += lastOnTimePoints
		}
	}

	return int(math.Round(clampFloat(float64(score), 0, 100)))
}

func daysLeftContribution(daysLeft int) int {
	if daysLeft < 0 {
		return daysLeftBands[0].points
	}
	for _, band := range daysLeftBands[1:] {
		if daysLeft <= band.max {
			return band.points
		}
	}
	return daysLeftFarOutPoints
}

// RiskBucket partitions a risk score into a named category. Bands are
// inclusive on their lower bound and evaluated top-down, so every score in
// [0,100] maps to exactly one bucket.
func RiskBucket(score int) string {
	switch {
	case score >= 80:
		return domain.BucketHighRiskFail
	case score >= 60:
		return domain.BucketAtRisk
	case score >= 40:
		return domain.BucketWatch
	case score >= 20:
		return domain.BucketLikelyOnTime
	default:
		return domain.BucketVeryLikelyOnTime
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
