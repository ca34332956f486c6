package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Netcracker/qubership-site-readiness-service/exception"
	"github.com/Netcracker/qubership-site-readiness-service/secctx"
	"github.com/Netcracker/qubership-site-readiness-service/utils"
	"github.com/Netcracker/qubership-site-readiness-service/view"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const minContentBytes = 100

type AnalysisService interface {
	Analyze(ctx context.Context, req view.AnalyzeRequest) (*view.ScoreReport, error)
}

func NewAnalysisService(rulesetService RulesetService, pageRetriever PageRetriever, extractor DocumentExtractor,
	robotsPolicy RobotsPolicyEvaluator, contentReview ContentReviewService, aggregator ScoreAggregator) AnalysisService {
	return &analysisServiceImpl{
		rulesetService: rulesetService,
		pageRetriever:  pageRetriever,
		extractor:      extractor,
		robotsPolicy:   robotsPolicy,
		contentReview:  contentReview,
		aggregator:     aggregator,
	}
}

type analysisServiceImpl struct {
	rulesetService RulesetService
	pageRetriever  PageRetriever
	extractor      DocumentExtractor
	robotsPolicy   RobotsPolicyEvaluator
	contentReview  ContentReviewService
	aggregator     ScoreAggregator
}

func (a analysisServiceImpl) Analyze(ctx context.Context, req view.AnalyzeRequest) (*view.ScoreReport, error) {
	targetUrl, err := utils.NormalizeTargetUrl(req.Url)
	if err != nil {
		return nil, err
	}
	ruleset, engine, err := a.rulesetService.ResolveRuleset(req.Ruleset)
	if err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{
		"requestId": secctx.GetRequestId(ctx),
		"user":      secctx.GetUserId(ctx),
		"url":       targetUrl,
		"ruleset":   ruleset.Version,
	})
	start := time.Now()
	logger.Info("Analysis started")

	res, err := a.pageRetriever.Retrieve(ctx, targetUrl)
	if err != nil {
		logger.Warnf("Failed to retrieve page: %s", err.Error())
		return nil, err
	}

	if err := checkContent(res); err != nil {
		logger.Warnf("Page is not analyzable: %s", err.Error())
		return nil, err
	}
	logger.Debugf("Retrieved %s after %d redirect(s) in %dms, content sha256 %s",
		res.FinalUrl, len(res.Hops), res.Latency.Milliseconds(), utils.CreateSHA256Hash(res.Body))

	signals, err := a.extractor.Extract(res.Body)
	if err != nil {
		logger.Errorf("Failed to parse page: %s", err.Error())
		return nil, err
	}

	evalCtx := view.EvaluationContext{
		InitialUrl:   res.InitialUrl,
		FinalUrl:     res.FinalUrl,
		ResponseTime: res.Latency,
	}

	var g errgroup.Group
	var policyCheck view.CheckResult
	g.Go(func() error {
		policyCheck = a.robotsPolicy.EvaluatePolicy(ctx, res.FinalUrl, *ruleset)
		return nil
	})
	var review *view.ContentReview
	var reviewCheck *view.CheckResult
	if a.contentReview != nil && a.contentReview.Enabled() {
		g.Go(func() error {
			var check view.CheckResult
			review, check = a.contentReview.Review(ctx, res.FinalUrl, *signals)
			reviewCheck = &check
			return nil
		})
	}

	checks := engine.Evaluate(*signals, evalCtx)
	// Both goroutines report failures inside their check results, the group only joins them.
	g.Wait()

	checks = insertBeforeManual(checks, policyCheck)
	if reviewCheck != nil {
		checks = append(checks, *reviewCheck)
	}

	report := a.aggregator.Aggregate(checks, res.FinalUrl, *ruleset, review)
	logger.WithField("finalUrl", res.FinalUrl).
		Infof("Analysis finished with score %d in %dms", report.Score, time.Since(start).Milliseconds())
	return &report, nil
}

func checkContent(res *view.Resolution) error {
	contentType := strings.ToLower(res.ContentType)
	if !strings.Contains(contentType, "text/html") {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.NotHtmlContent,
			Message: exception.NotHtmlContentMsg,
			Params:  map[string]interface{}{"contentType": res.ContentType},
		}
	}
	if len(res.Body) < minContentBytes {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.MinimalContent,
			Message: exception.MinimalContentMsg,
			Params:  map[string]interface{}{"size": len(res.Body)},
		}
	}
	return nil
}

// insertBeforeManual keeps weighted checks ahead of the informational ones.
func insertBeforeManual(checks []view.CheckResult, check view.CheckResult) []view.CheckResult {
	idx := len(checks)
	for i, c := range checks {
		if c.Status == view.StatusManual {
			idx = i
			break
		}
	}
	result := make([]view.CheckResult, 0, len(checks)+1)
	result = append(result, checks[:idx]...)
	result = append(result, check)
	return append(result, checks[idx:]...)
}
