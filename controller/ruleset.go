package controller

import (
	"net/http"

	"github.com/Netcracker/qubership-site-readiness-service/exception"
	"github.com/Netcracker/qubership-site-readiness-service/service"
	"gopkg.in/yaml.v3"
)

type RulesetController interface {
	ListRulesets(w http.ResponseWriter, r *http.Request)
	GetRuleset(w http.ResponseWriter, r *http.Request)
	GetRulesetFile(w http.ResponseWriter, r *http.Request)
}

func NewRulesetController(rulesetService service.RulesetService) RulesetController {
	return &rulesetControllerImpl{rulesetService: rulesetService}
}

type rulesetControllerImpl struct {
	rulesetService service.RulesetService
}

func (c rulesetControllerImpl) ListRulesets(w http.ResponseWriter, r *http.Request) {
	respondWithJson(w, http.StatusOK, c.rulesetService.ListRulesets())
}

func (c rulesetControllerImpl) GetRuleset(w http.ResponseWriter, r *http.Request) {
	version := getStringParam(r, "version")
	ruleset, err := c.rulesetService.GetRuleset(version)
	if err != nil {
		respondWithError(w, "Failed to get ruleset", err)
		return
	}
	if ruleset == nil {
		RespondWithCustomError(w, rulesetNotFound(version))
		return
	}
	respondWithJson(w, http.StatusOK, ruleset)
}

// GetRulesetFile returns the effective rule set definition in the same yaml form it is loaded from.
func (c rulesetControllerImpl) GetRulesetFile(w http.ResponseWriter, r *http.Request) {
	version := getStringParam(r, "version")
	ruleset, _, err := c.rulesetService.ResolveRuleset(version)
	if err != nil {
		respondWithError(w, "Failed to get ruleset", err)
		return
	}
	data, err := yaml.Marshal(ruleset)
	if err != nil {
		respondWithError(w, "Failed to serialize ruleset", err)
		return
	}
	w.Header().Add("Content-Type", "application/yaml; charset=utf-8")
	w.Header().Add("Content-Disposition", "attachment; filename="+ruleset.Version+".yaml")
	_, _ = w.Write(data)
}

func rulesetNotFound(version string) *exception.CustomError {
	return &exception.CustomError{
		Status:  http.StatusNotFound,
		Code:    exception.RulesetNotFound,
		Message: exception.RulesetNotFoundMsg,
		Params:  map[string]interface{}{"version": version},
	}
}
