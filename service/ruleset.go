package service

import (
	"fmt"
	"net/http"

	"github.com/Netcracker/qubership-site-readiness-service/entity"
	"github.com/Netcracker/qubership-site-readiness-service/exception"
	"github.com/Netcracker/qubership-site-readiness-service/repository"
	"github.com/Netcracker/qubership-site-readiness-service/view"
	log "github.com/sirupsen/logrus"
)

type RulesetService interface {
	ListRulesets() []view.Ruleset
	GetRuleset(version string) (*view.Ruleset, error)
	// ResolveRuleset returns the rule set and its engine for version, or the active one when
	// version is empty.
	ResolveRuleset(version string) (*entity.Ruleset, RuleEngine, error)
	GetActiveVersion() string
}

func NewRulesetService(rulesetRepository repository.RulesetRepository, activeVersion string) (RulesetService, error) {
	active, err := rulesetRepository.GetRulesetByVersion(activeVersion)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, fmt.Errorf("active ruleset %s is not found", activeVersion)
	}

	engines := make(map[string]RuleEngine)
	for _, rs := range rulesetRepository.ListRulesets() {
		engines[rs.Version] = NewRuleEngine(rs)
	}
	log.Infof("Loaded %d rulesets, active ruleset is %s", len(engines), activeVersion)

	return &rulesetServiceImpl{
		rulesetRepository: rulesetRepository,
		activeVersion:     activeVersion,
		engines:           engines,
	}, nil
}

type rulesetServiceImpl struct {
	rulesetRepository repository.RulesetRepository
	activeVersion     string
	engines           map[string]RuleEngine
}

func (r rulesetServiceImpl) ListRulesets() []view.Ruleset {
	ents := r.rulesetRepository.ListRulesets()
	result := make([]view.Ruleset, 0, len(ents))
	for _, ent := range ents {
		result = append(result, r.makeView(ent))
	}
	return result
}

func (r rulesetServiceImpl) GetRuleset(version string) (*view.Ruleset, error) {
	ent, err := r.rulesetRepository.GetRulesetByVersion(version)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, nil
	}
	result := r.makeView(*ent)
	return &result, nil
}

func (r rulesetServiceImpl) ResolveRuleset(version string) (*entity.Ruleset, RuleEngine, error) {
	if version == "" {
		version = r.activeVersion
	}
	ent, err := r.rulesetRepository.GetRulesetByVersion(version)
	if err != nil {
		return nil, nil, err
	}
	engine, exists := r.engines[version]
	if ent == nil || !exists {
		return nil, nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RulesetNotFound,
			Message: exception.RulesetNotFoundMsg,
			Params:  map[string]interface{}{"version": version},
		}
	}
	return ent, engine, nil
}

func (r rulesetServiceImpl) GetActiveVersion() string {
	return r.activeVersion
}

func (r rulesetServiceImpl) makeView(ent entity.Ruleset) view.Ruleset {
	var checks []view.RulesetCheck
	if engine, exists := r.engines[ent.Version]; exists {
		checks = engine.Checks()
	}
	checks = append(checks, view.RulesetCheck{
		Id:       "robots",
		Name:     view.CheckNameRobots,
		Category: view.CategoryPerformance,
		Weight:   ent.Robots.Weight,
		Critical: ent.IsCritical(view.CheckNameRobots),
	})
	return entity.MakeRulesetView(ent, checks, ent.Version == r.activeVersion)
}
