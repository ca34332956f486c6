package entity

import (
	"github.com/Netcracker/qubership-site-readiness-service/view"
)

// Ruleset is the on-disk form of a versioned rule set: weights, thresholds and keyword lists
// consumed by the rule engine and the score aggregator.
type Ruleset struct {
	Version     string             `yaml:"version" json:"version"`
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description" json:"description,omitempty"`
	Weights     map[string]float64 `yaml:"weights" json:"weights"`
	Thresholds  Thresholds         `yaml:"thresholds" json:"thresholds"`
	Keywords    Keywords           `yaml:"keywords" json:"keywords"`
	Scoring     Scoring            `yaml:"scoring" json:"scoring"`
	Robots      Robots             `yaml:"robots" json:"robots"`
}

type Thresholds struct {
	Title           LengthRange    `yaml:"title" json:"title"`
	MetaDescription LengthRange    `yaml:"metaDescription" json:"metaDescription"`
	Navigation      CountTiers     `yaml:"navigation" json:"navigation"`
	ContentVolume   ContentTiers   `yaml:"contentVolume" json:"contentVolume"`
	Headings        HeadingTiers   `yaml:"headings" json:"headings"`
	ImageAlt        PercentTiers   `yaml:"imageAlt" json:"imageAlt"`
	ResponseTime    ResponseTimeMs `yaml:"responseTime" json:"responseTime"`
	SocialLinks     CountTiers     `yaml:"socialLinks" json:"socialLinks"`
}

type LengthRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

type CountTiers struct {
	Pass int `yaml:"pass" json:"pass"`
	Warn int `yaml:"warn" json:"warn"`
}

// ContentTiers are exclusive lower bounds on the body word count. Excellent only changes the
// message of a passing result and is disabled when zero.
type ContentTiers struct {
	Warn      int `yaml:"warn" json:"warn"`
	Pass      int `yaml:"pass" json:"pass"`
	Excellent int `yaml:"excellent" json:"excellent,omitempty"`
}

type HeadingTiers struct {
	MinTotal int `yaml:"minTotal" json:"minTotal"`
}

type PercentTiers struct {
	PassPercent int `yaml:"passPercent" json:"passPercent"`
	WarnPercent int `yaml:"warnPercent" json:"warnPercent"`
}

type ResponseTimeMs struct {
	PassMs int64 `yaml:"passMs" json:"passMs"`
	WarnMs int64 `yaml:"warnMs" json:"warnMs"`
}

type Keywords struct {
	Privacy         []string `yaml:"privacy" json:"privacy"`
	Terms           []string `yaml:"terms" json:"terms"`
	About           []string `yaml:"about" json:"about"`
	Contact         []string `yaml:"contact" json:"contact"`
	SocialPlatforms []string `yaml:"socialPlatforms" json:"socialPlatforms"`
	ErrorIndicators []string `yaml:"errorIndicators" json:"errorIndicators"`
}

type Scoring struct {
	CriticalChecks    []string        `yaml:"criticalChecks" json:"criticalChecks"`
	CriticalPenalty   int             `yaml:"criticalPenalty" json:"criticalPenalty"`
	CriticalCap       int             `yaml:"criticalCap" json:"criticalCap"`
	FailAllowance     int             `yaml:"failAllowance" json:"failAllowance"`
	ExcessFailPenalty int             `yaml:"excessFailPenalty" json:"excessFailPenalty"`
	Tiers             ScoreTiers      `yaml:"tiers" json:"tiers"`
	Recommendations   Recommendations `yaml:"recommendations" json:"recommendations"`
}

type ScoreTiers struct {
	MediumFrom int `yaml:"mediumFrom" json:"mediumFrom"`
	HighFrom   int `yaml:"highFrom" json:"highFrom"`
}

type Recommendations struct {
	Low    []string `yaml:"low" json:"low"`
	Medium []string `yaml:"medium" json:"medium"`
	High   []string `yaml:"high" json:"high"`
}

type Robots struct {
	Weight        float64  `yaml:"weight" json:"weight"`
	BlockedAgents []string `yaml:"blockedAgents" json:"blockedAgents"`
}

func (r Ruleset) IsCritical(checkName string) bool {
	for _, name := range r.Scoring.CriticalChecks {
		if name == checkName {
			return true
		}
	}
	return false
}

func MakeRulesetView(ent Ruleset, checks []view.RulesetCheck, active bool) view.Ruleset {
	status := view.RulesetStatusInactive
	if active {
		status = view.RulesetStatusActive
	}
	return view.Ruleset{
		Version:     ent.Version,
		Name:        ent.Name,
		Description: ent.Description,
		Status:      status,
		Checks:      checks,
	}
}

// WeightedCheckIds lists, in catalogue order, the rule ids every rule set must weight.
var WeightedCheckIds = []string{
	"https",
	"httpsRedirect",
	"title",
	"metaDescription",
	"navigation",
	"privacyPolicy",
	"termsOfService",
	"aboutContact",
	"mobileViewport",
	"contentVolume",
	"headingStructure",
	"imageAlt",
	"language",
	"favicon",
	"responseTime",
	"errorPage",
	"socialLinks",
}
