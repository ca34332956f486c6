package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Netcracker/qubership-site-readiness-service/client"
	"github.com/Netcracker/qubership-site-readiness-service/entity"
	"github.com/Netcracker/qubership-site-readiness-service/utils"
	"github.com/Netcracker/qubership-site-readiness-service/view"
	log "github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
)

// RobotsPolicyEvaluator produces the robots.txt check entry for the origin of the final URL.
// It never returns an error: every failure mode is expressed as a check status.
type RobotsPolicyEvaluator interface {
	EvaluatePolicy(ctx context.Context, finalUrl string, ruleset entity.Ruleset) view.CheckResult
}

func NewRobotsPolicyEvaluator(robotsClient client.RobotsClient, failOnUnreachable bool) RobotsPolicyEvaluator {
	return &robotsPolicyEvaluatorImpl{
		robotsClient:      robotsClient,
		failOnUnreachable: failOnUnreachable,
	}
}

type robotsPolicyEvaluatorImpl struct {
	robotsClient      client.RobotsClient
	failOnUnreachable bool
}

func (r robotsPolicyEvaluatorImpl) EvaluatePolicy(ctx context.Context, finalUrl string, ruleset entity.Ruleset) view.CheckResult {
	outcome := r.evaluate(ctx, finalUrl, ruleset.Robots.BlockedAgents)
	return view.CheckResult{
		Name:     view.CheckNameRobots,
		Category: view.CategoryPerformance,
		Weight:   ruleset.Robots.Weight,
		Critical: ruleset.IsCritical(view.CheckNameRobots),
		Status:   outcome.Status,
		Message:  outcome.Message,
	}
}

func (r robotsPolicyEvaluatorImpl) evaluate(ctx context.Context, finalUrl string, blockedAgents []string) view.Outcome {
	origin, err := utils.Origin(finalUrl)
	if err != nil {
		return view.Warn("Could not determine the site origin to check robots.txt.")
	}

	file, err := r.robotsClient.FetchRobots(ctx, origin)
	if err != nil {
		log.Debugf("robots.txt for %s is unreachable: %s", origin, err.Error())
		if r.failOnUnreachable {
			return view.Fail("Could not analyze robots.txt due to network error.")
		}
		return view.Warn("Could not analyze robots.txt due to network error.")
	}
	if !file.Found() {
		return view.Warn("robots.txt not found. Consider adding one for better SEO.")
	}

	data, err := robotstxt.FromStatusAndBytes(file.StatusCode, file.Body)
	if err != nil {
		log.Debugf("Failed to parse robots.txt for %s: %s", origin, err.Error())
		return view.Warn("robots.txt could not be parsed.")
	}

	for _, agent := range blockedAgents {
		if !data.TestAgent("/", agent) {
			return view.Fail(fmt.Sprintf("robots.txt blocks search engine crawlers (user-agent %s) - this will prevent AdSense approval.", agent))
		}
	}
	if len(data.Sitemaps) > 0 {
		return view.Pass(fmt.Sprintf("robots.txt configured correctly with sitemap reference (%s).", strings.Join(data.Sitemaps, ", ")))
	}
	return view.Pass("robots.txt allows crawling but consider adding sitemap reference.")
}
