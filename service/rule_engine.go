package service

import (
	"fmt"

	"github.com/Netcracker/qubership-site-readiness-service/entity"
	"github.com/Netcracker/qubership-site-readiness-service/view"
	log "github.com/sirupsen/logrus"
)

type RuleEngine interface {
	Evaluate(signals view.Signals, ctx view.EvaluationContext) []view.CheckResult
	Checks() []view.RulesetCheck
}

func NewRuleEngine(ruleset entity.Ruleset) RuleEngine {
	return newRuleEngine(buildRules(ruleset))
}

func newRuleEngine(rules []Rule) *ruleEngineImpl {
	return &ruleEngineImpl{rules: rules}
}

type ruleEngineImpl struct {
	rules []Rule
}

// Evaluate runs every rule in catalogue order. A failing rule becomes a fail entry and never
// prevents the remaining rules from running.
func (r ruleEngineImpl) Evaluate(signals view.Signals, ctx view.EvaluationContext) []view.CheckResult {
	result := make([]view.CheckResult, 0, len(r.rules))
	for _, rule := range r.rules {
		outcome := runRule(rule, signals, ctx)
		result = append(result, view.CheckResult{
			Name:     rule.Name,
			Category: rule.Category,
			Weight:   rule.Weight,
			Critical: rule.Critical,
			Status:   outcome.Status,
			Message:  outcome.Message,
		})
	}
	return result
}

func runRule(rule Rule, signals view.Signals, ctx view.EvaluationContext) (outcome view.Outcome) {
	defer func() {
		if err := recover(); err != nil {
			log.Errorf("Rule %s failed: %v", rule.Id, err)
			outcome = view.Fail(fmt.Sprintf("Check failed: %v", err))
		}
	}()
	if rule.Evaluate == nil {
		return view.Fail("Check failed: rule has no evaluator")
	}
	return rule.Evaluate(signals, ctx)
}

func (r ruleEngineImpl) Checks() []view.RulesetCheck {
	result := make([]view.RulesetCheck, 0, len(r.rules))
	for _, rule := range r.rules {
		result = append(result, view.RulesetCheck{
			Id:       rule.Id,
			Name:     rule.Name,
			Category: rule.Category,
			Weight:   rule.Weight,
			Critical: rule.Critical,
			Manual:   rule.Manual,
		})
	}
	return result
}
