package service

import (
	"fmt"
	"math"

	"github.com/Netcracker/qubership-site-readiness-service/entity"
	"github.com/Netcracker/qubership-site-readiness-service/view"
)

// ScoreAggregator folds check results into the final 0-100 score, the penalty list and the
// recommendation tier.
type ScoreAggregator interface {
	Aggregate(checks []view.CheckResult, finalUrl string, ruleset entity.Ruleset, review *view.ContentReview) view.ScoreReport
}

func NewScoreAggregator() ScoreAggregator {
	return &scoreAggregatorImpl{}
}

type scoreAggregatorImpl struct {
}

func (s scoreAggregatorImpl) Aggregate(checks []view.CheckResult, finalUrl string, ruleset entity.Ruleset, review *view.ContentReview) view.ScoreReport {
	scoring := ruleset.Scoring

	score := baseScore(checks)
	var penalties []string

	criticalFails := 0
	fails := 0
	for _, check := range checks {
		if check.Status != view.StatusFail {
			continue
		}
		fails++
		if check.Critical || ruleset.IsCritical(check.Name) {
			criticalFails++
			score -= scoring.CriticalPenalty
			penalties = append(penalties, fmt.Sprintf("Critical check failed: %s (-%d)", check.Name, scoring.CriticalPenalty))
		}
	}

	if fails > scoring.FailAllowance {
		excess := fails - scoring.FailAllowance
		penalty := excess * scoring.ExcessFailPenalty
		score -= penalty
		penalties = append(penalties, fmt.Sprintf("Too many failed checks: %d over the allowance of %d (-%d)", excess, scoring.FailAllowance, penalty))
	}

	score = clamp(score, 0, 100)
	if criticalFails > 0 && score > scoring.CriticalCap {
		score = scoring.CriticalCap
		penalties = append(penalties, fmt.Sprintf("Score capped at %d because of %d failed critical check(s)", scoring.CriticalCap, criticalFails))
	}

	recommendations := append([]string{}, recommendationsFor(score, scoring)...)
	if review != nil {
		recommendations = append(recommendations, review.Suggestions...)
	}

	return view.ScoreReport{
		Score:            score,
		Checks:           checks,
		FinalResolvedUrl: finalUrl,
		Penalties:        penalties,
		Recommendations:  recommendations,
		Ruleset:          ruleset.Version,
	}
}

// baseScore is the weighted share of earned points over all automated checks: pass earns the
// full weight, warn earns half.
func baseScore(checks []view.CheckResult) int {
	var earned, total float64
	for _, check := range checks {
		if check.Status == view.StatusManual || check.Weight <= 0 {
			continue
		}
		total += check.Weight
		switch check.Status {
		case view.StatusPass:
			earned += check.Weight
		case view.StatusWarn:
			earned += check.Weight / 2
		}
	}
	if total == 0 {
		return 0
	}
	return clamp(int(math.Round(earned/total*100)), 0, 100)
}

func recommendationsFor(score int, scoring entity.Scoring) []string {
	switch {
	case score < scoring.Tiers.MediumFrom:
		return scoring.Recommendations.Low
	case score < scoring.Tiers.HighFrom:
		return scoring.Recommendations.Medium
	}
	return scoring.Recommendations.High
}

func clamp(v int, lo int, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
