package service

import (
	"strings"
	"testing"
	"time"

	"github.com/Netcracker/qubership-site-readiness-service/entity"
	"github.com/Netcracker/qubership-site-readiness-service/repository"
	"github.com/Netcracker/qubership-site-readiness-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadRuleset(t *testing.T, version string) entity.Ruleset {
	t.Helper()
	repo, err := repository.NewRulesetRepository("")
	require.NoError(t, err)
	rs, err := repo.GetRulesetByVersion(version)
	require.NoError(t, err)
	require.NotNil(t, rs)
	return *rs
}

func findRule(t *testing.T, rules []Rule, id string) Rule {
	t.Helper()
	for _, r := range rules {
		if r.Id == id {
			return r
		}
	}
	t.Fatalf("rule %s not found", id)
	return Rule{}
}

func images(withAlt int, total int) []view.Image {
	result := make([]view.Image, 0, total)
	for i := 0; i < total; i++ {
		result = append(result, view.Image{Src: "img.png", HasAlt: i < withAlt})
	}
	return result
}

var secureCtx = view.EvaluationContext{InitialUrl: "https://example.com/", FinalUrl: "https://example.com/", ResponseTime: 200 * time.Millisecond}

func TestRuleCatalogue(t *testing.T) {
	rules := buildRules(loadRuleset(t, "v1"))
	require.Len(t, rules, 20)

	https := rules[0]
	assert.Equal(t, view.CheckNameHttps, https.Name)
	assert.Equal(t, 15.0, https.Weight)
	assert.True(t, https.Critical)

	manual := 0
	for _, r := range rules {
		if r.Manual {
			manual++
			assert.Zero(t, r.Weight)
			continue
		}
		assert.Greater(t, r.Weight, 0.0, r.Id)
	}
	assert.Equal(t, 3, manual)

	var weighted []string
	for _, r := range rules {
		if !r.Manual {
			weighted = append(weighted, r.Id)
		}
	}
	assert.Equal(t, entity.WeightedCheckIds, weighted)
	assert.True(t, findRule(t, rules, RulePrivacyPolicy).Critical)
	assert.True(t, findRule(t, rules, RuleContentVolume).Critical)
	assert.False(t, findRule(t, rules, RuleTitle).Critical)
}

func TestImageAltThresholds(t *testing.T) {
	rule := findRule(t, buildRules(loadRuleset(t, "v1")), RuleImageAlt)

	assert.Equal(t, view.StatusPass, rule.Evaluate(view.Signals{Images: images(4, 5)}, secureCtx).Status)
	assert.Equal(t, view.StatusPass, rule.Evaluate(view.Signals{Images: images(5, 5)}, secureCtx).Status)
	assert.Equal(t, view.StatusWarn, rule.Evaluate(view.Signals{Images: images(3, 5)}, secureCtx).Status)
	assert.Equal(t, view.StatusWarn, rule.Evaluate(view.Signals{Images: images(1, 2)}, secureCtx).Status)
	assert.Equal(t, view.StatusFail, rule.Evaluate(view.Signals{Images: images(2, 5)}, secureCtx).Status)
	assert.Equal(t, view.StatusWarn, rule.Evaluate(view.Signals{}, secureCtx).Status)
}

func TestHeadingStructure(t *testing.T) {
	rule := findRule(t, buildRules(loadRuleset(t, "v1")), RuleHeadingStructure)

	assert.Equal(t, view.StatusPass, rule.Evaluate(view.Signals{Headings: view.HeadingCounts{1, 2, 1}}, secureCtx).Status)
	assert.Equal(t, view.StatusWarn, rule.Evaluate(view.Signals{Headings: view.HeadingCounts{1}}, secureCtx).Status)
	assert.Equal(t, view.StatusWarn, rule.Evaluate(view.Signals{Headings: view.HeadingCounts{2, 3}}, secureCtx).Status)
	assert.Equal(t, view.StatusFail, rule.Evaluate(view.Signals{Headings: view.HeadingCounts{0, 4}}, secureCtx).Status)
}

func TestTitleLength(t *testing.T) {
	rule := findRule(t, buildRules(loadRuleset(t, "v1")), RuleTitle)

	eval := func(title string) view.Status {
		return rule.Evaluate(view.Signals{Title: title, HasTitle: title != ""}, secureCtx).Status
	}
	assert.Equal(t, view.StatusFail, eval(""))
	assert.Equal(t, view.StatusFail, eval("Too short"))
	assert.Equal(t, view.StatusPass, eval("Just right"))
	assert.Equal(t, view.StatusPass, eval(strings.Repeat("a", 60)))
	assert.Equal(t, view.StatusWarn, eval(strings.Repeat("a", 61)))
}

func TestContentVolumeTiers(t *testing.T) {
	v1 := findRule(t, buildRules(loadRuleset(t, "v1")), RuleContentVolume)
	assert.Equal(t, view.StatusFail, v1.Evaluate(view.Signals{WordCount: 200}, secureCtx).Status)
	assert.Equal(t, view.StatusWarn, v1.Evaluate(view.Signals{WordCount: 201}, secureCtx).Status)
	assert.Equal(t, view.StatusWarn, v1.Evaluate(view.Signals{WordCount: 500}, secureCtx).Status)
	assert.Equal(t, view.StatusPass, v1.Evaluate(view.Signals{WordCount: 501}, secureCtx).Status)

	v2 := findRule(t, buildRules(loadRuleset(t, "v2")), RuleContentVolume)
	assert.Equal(t, view.StatusFail, v2.Evaluate(view.Signals{WordCount: 250}, secureCtx).Status)
	assert.Equal(t, view.StatusWarn, v2.Evaluate(view.Signals{WordCount: 700}, secureCtx).Status)
	outcome := v2.Evaluate(view.Signals{WordCount: 2000}, secureCtx)
	assert.Equal(t, view.StatusPass, outcome.Status)
	assert.Contains(t, outcome.Message, "Extensive")
}

func TestPrivacyPolicyMatchesHrefOrText(t *testing.T) {
	rule := findRule(t, buildRules(loadRuleset(t, "v1")), RulePrivacyPolicy)

	byHref := view.Signals{Links: []view.Link{{Href: "/home", Text: "Home"}, {Href: "/legal/privacy", Text: "Legal"}}}
	byText := view.Signals{Links: []view.Link{{Href: "/p/17", Text: "Our Privacy Notice"}}}
	none := view.Signals{Links: []view.Link{{Href: "/home", Text: "Home"}}}

	assert.Equal(t, view.StatusPass, rule.Evaluate(byHref, secureCtx).Status)
	assert.Equal(t, view.StatusPass, rule.Evaluate(byText, secureCtx).Status)
	assert.Equal(t, view.StatusFail, rule.Evaluate(none, secureCtx).Status)
}

func TestAboutContact(t *testing.T) {
	rule := findRule(t, buildRules(loadRuleset(t, "v1")), RuleAboutContact)

	both := view.Signals{Links: []view.Link{{Href: "/about-us"}, {Href: "/contact"}}}
	aboutOnly := view.Signals{Links: []view.Link{{Href: "/about-us"}}}

	assert.Equal(t, view.StatusPass, rule.Evaluate(both, secureCtx).Status)
	assert.Equal(t, view.StatusWarn, rule.Evaluate(aboutOnly, secureCtx).Status)
	assert.Equal(t, view.StatusFail, rule.Evaluate(view.Signals{}, secureCtx).Status)
}

func TestHttpsRules(t *testing.T) {
	rules := buildRules(loadRuleset(t, "v1"))
	https := findRule(t, rules, RuleHttps)
	redirect := findRule(t, rules, RuleHttpsRedirect)

	upgraded := view.EvaluationContext{InitialUrl: "http://example.com/", FinalUrl: "https://example.com/"}
	insecure := view.EvaluationContext{InitialUrl: "http://example.com/", FinalUrl: "http://example.com/"}
	downgraded := view.EvaluationContext{InitialUrl: "https://example.com/", FinalUrl: "http://example.com/"}
	otherHost := view.EvaluationContext{InitialUrl: "http://example.com/", FinalUrl: "https://other.example/"}

	assert.Equal(t, view.StatusPass, https.Evaluate(view.Signals{}, upgraded).Status)
	assert.Equal(t, view.StatusFail, https.Evaluate(view.Signals{}, insecure).Status)

	assert.Equal(t, view.StatusPass, redirect.Evaluate(view.Signals{}, upgraded).Status)
	assert.Equal(t, view.StatusPass, redirect.Evaluate(view.Signals{}, secureCtx).Status)
	assert.Equal(t, view.StatusWarn, redirect.Evaluate(view.Signals{}, insecure).Status)
	assert.Equal(t, view.StatusWarn, redirect.Evaluate(view.Signals{}, downgraded).Status)
	assert.Equal(t, view.StatusWarn, redirect.Evaluate(view.Signals{}, otherHost).Status)
}

func TestResponseTime(t *testing.T) {
	rule := findRule(t, buildRules(loadRuleset(t, "v1")), RuleResponseTime)

	at := func(d time.Duration) view.Status {
		return rule.Evaluate(view.Signals{}, view.EvaluationContext{ResponseTime: d}).Status
	}
	assert.Equal(t, view.StatusPass, at(2999*time.Millisecond))
	assert.Equal(t, view.StatusWarn, at(3*time.Second))
	assert.Equal(t, view.StatusFail, at(5*time.Second))
}

func TestMobileViewport(t *testing.T) {
	rule := findRule(t, buildRules(loadRuleset(t, "v1")), RuleMobileViewport)

	full := view.Signals{HasViewport: true, Viewport: "width=device-width, initial-scale=1", HasResponsiveStyle: true}
	noCss := view.Signals{HasViewport: true, Viewport: "width=device-width"}
	fixed := view.Signals{HasViewport: true, Viewport: "width=1024"}

	assert.Equal(t, view.StatusPass, rule.Evaluate(full, secureCtx).Status)
	assert.Equal(t, view.StatusWarn, rule.Evaluate(noCss, secureCtx).Status)
	assert.Equal(t, view.StatusFail, rule.Evaluate(fixed, secureCtx).Status)
}

func TestSocialLinksAndErrorPage(t *testing.T) {
	rules := buildRules(loadRuleset(t, "v1"))
	social := findRule(t, rules, RuleSocialLinks)
	errorPage := findRule(t, rules, RuleErrorPage)

	two := view.Signals{Links: []view.Link{{Href: "https://twitter.com/x"}, {Href: "https://www.youtube.com/@x"}}}
	one := view.Signals{Links: []view.Link{{Href: "https://facebook.com/x"}}}
	assert.Equal(t, view.StatusPass, social.Evaluate(two, secureCtx).Status)
	assert.Equal(t, view.StatusWarn, social.Evaluate(one, secureCtx).Status)
	assert.Equal(t, view.StatusWarn, social.Evaluate(view.Signals{}, secureCtx).Status)

	assert.Equal(t, view.StatusFail, errorPage.Evaluate(view.Signals{BodyText: "sorry, page not found"}, secureCtx).Status)
	assert.Equal(t, view.StatusPass, errorPage.Evaluate(view.Signals{BodyText: "welcome to our shop"}, secureCtx).Status)
}

func TestEvaluateIsolatesPanickingRule(t *testing.T) {
	engine := newRuleEngine([]Rule{
		{Id: "broken", Name: "Broken", Category: view.CategoryAutomated, Weight: 5,
			Evaluate: func(view.Signals, view.EvaluationContext) view.Outcome { panic("boom") }},
		{Id: "fine", Name: "Fine", Category: view.CategoryAutomated, Weight: 5,
			Evaluate: func(view.Signals, view.EvaluationContext) view.Outcome { return view.Pass("ok") }},
	})

	results := engine.Evaluate(view.Signals{}, secureCtx)
	require.Len(t, results, 2)
	assert.Equal(t, view.StatusFail, results[0].Status)
	assert.Equal(t, "Check failed: boom", results[0].Message)
	assert.Equal(t, view.StatusPass, results[1].Status)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	engine := NewRuleEngine(loadRuleset(t, "v1"))
	signals := view.Signals{Title: "Deterministic title", HasTitle: true, WordCount: 320, Images: images(2, 3)}

	first := engine.Evaluate(signals, secureCtx)
	second := engine.Evaluate(signals, secureCtx)
	assert.Equal(t, first, second)
	assert.Len(t, first, 20)
	assert.Len(t, engine.Checks(), 20)
}
