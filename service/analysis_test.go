package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Netcracker/qubership-site-readiness-service/client"
	"github.com/Netcracker/qubership-site-readiness-service/exception"
	"github.com/Netcracker/qubership-site-readiness-service/repository"
	"github.com/Netcracker/qubership-site-readiness-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var goodPage = fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <title>Example Travel Journal Blog</title>
  <meta name="description" content="%s">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <link rel="icon" href="/favicon.ico">
  <style>@media (max-width: 600px) { nav { display: block } }</style>
</head>
<body>
  <nav>
    <a href="/">Home</a><a href="/about">About</a><a href="/contact">Contact</a>
    <a href="/privacy-policy">Privacy Policy</a><a href="/terms">Terms</a><a href="/blog">Blog</a>
  </nav>
  <h1>Travel stories</h1><h2>Europe</h2><h2>Asia</h2>
  <p>%s</p>
  <img src="a.jpg" alt="Mountains"><img src="b.jpg" alt="Sea">
  <a href="https://twitter.com/example">Twitter</a><a href="https://facebook.com/example">Facebook</a>
</body>
</html>`, strings.Repeat("d", 140), strings.Repeat("journey across beautiful places ", 150))

type site struct {
	contentType string
	body        string
	robots      string
}

func newSite(t *testing.T, s site) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			if s.robots == "" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(s.robots))
			return
		}
		w.Header().Set("Content-Type", s.contentType)
		_, _ = w.Write([]byte(s.body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type fakeReviewClient struct {
	review *view.ContentReview
	err    error
}

func (f fakeReviewClient) ReviewContent(ctx context.Context, input view.ContentReviewInput) (*view.ContentReview, error) {
	return f.review, f.err
}

func newTestAnalysisService(t *testing.T, reviewClient client.ContentReviewClient) AnalysisService {
	t.Helper()
	repo, err := repository.NewRulesetRepository("")
	require.NoError(t, err)
	rulesetService, err := NewRulesetService(repo, "v1")
	require.NoError(t, err)

	return NewAnalysisService(
		rulesetService,
		NewPageRetriever(client.NewPageClient(client.PageClientOptions{Timeout: 3 * time.Second})),
		NewDocumentExtractor(),
		NewRobotsPolicyEvaluator(client.NewRobotsClient(2*time.Second), false),
		NewContentReviewService(reviewClient, time.Second),
		NewScoreAggregator(),
	)
}

func findCheck(t *testing.T, report *view.ScoreReport, name string) view.CheckResult {
	t.Helper()
	for _, c := range report.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %s not found", name)
	return view.CheckResult{}
}

func TestAnalyzeHttpOnlySite(t *testing.T) {
	srv := newSite(t, site{contentType: "text/html; charset=utf-8", body: goodPage, robots: "User-agent: *\nAllow: /\nSitemap: /sitemap.xml\n"})

	report, err := newTestAnalysisService(t, nil).Analyze(context.Background(), view.AnalyzeRequest{Url: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, view.StatusFail, findCheck(t, report, view.CheckNameHttps).Status)
	assert.Equal(t, view.StatusWarn, findCheck(t, report, "HTTPS Redirect Check").Status)
	assert.Equal(t, view.StatusPass, findCheck(t, report, view.CheckNamePrivacyPolicy).Status)
	assert.Equal(t, view.StatusPass, findCheck(t, report, view.CheckNameRobots).Status)
	assert.LessOrEqual(t, report.Score, 65)
	assert.GreaterOrEqual(t, report.Score, 0)
	assert.Equal(t, srv.URL, strings.TrimSuffix(report.FinalResolvedUrl, "/"))
	assert.NotEmpty(t, report.Penalties)
	assert.Equal(t, "v1", report.Ruleset)
}

func TestAnalyzeCheckOrder(t *testing.T) {
	srv := newSite(t, site{contentType: "text/html", body: goodPage})

	report, err := newTestAnalysisService(t, nil).Analyze(context.Background(), view.AnalyzeRequest{Url: srv.URL})
	require.NoError(t, err)

	require.Len(t, report.Checks, 21)
	assert.Equal(t, view.CheckNameHttps, report.Checks[0].Name)
	assert.Equal(t, view.CheckNameRobots, report.Checks[17].Name)
	assert.Equal(t, view.StatusWarn, report.Checks[17].Status)
	for _, c := range report.Checks[18:] {
		assert.Equal(t, view.StatusManual, c.Status)
	}
}

func TestAnalyzeFallsBackToHttp(t *testing.T) {
	srv := newSite(t, site{contentType: "text/html", body: goodPage})
	secureUrl := strings.Replace(srv.URL, "http://", "https://", 1)

	report, err := newTestAnalysisService(t, nil).Analyze(context.Background(), view.AnalyzeRequest{Url: secureUrl})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(report.FinalResolvedUrl, "http://"))
	assert.Equal(t, view.StatusFail, findCheck(t, report, view.CheckNameHttps).Status)
	assert.Equal(t, view.StatusWarn, findCheck(t, report, "HTTPS Redirect Check").Status)
}

func TestAnalyzeRobotsBlockingCapsScore(t *testing.T) {
	srv := newSite(t, site{contentType: "text/html", body: goodPage, robots: "User-agent: *\nDisallow: /\n"})

	report, err := newTestAnalysisService(t, nil).Analyze(context.Background(), view.AnalyzeRequest{Url: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, view.StatusFail, findCheck(t, report, view.CheckNameRobots).Status)
	assert.LessOrEqual(t, report.Score, 65)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	srv := newSite(t, site{contentType: "text/html", body: goodPage, robots: "User-agent: *\nAllow: /\n"})
	analysisService := newTestAnalysisService(t, nil)

	first, err := analysisService.Analyze(context.Background(), view.AnalyzeRequest{Url: srv.URL})
	require.NoError(t, err)
	second, err := analysisService.Analyze(context.Background(), view.AnalyzeRequest{Url: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	require.Equal(t, len(first.Checks), len(second.Checks))
	for i := range first.Checks {
		assert.Equal(t, first.Checks[i].Name, second.Checks[i].Name)
		assert.Equal(t, first.Checks[i].Status, second.Checks[i].Status)
	}
}

func TestAnalyzeRejectsNonHtml(t *testing.T) {
	srv := newSite(t, site{contentType: "application/json", body: `{"key": "` + strings.Repeat("v", 200) + `"}`})

	_, err := newTestAnalysisService(t, nil).Analyze(context.Background(), view.AnalyzeRequest{Url: srv.URL})
	customErr := requireCustomError(t, err)
	assert.Equal(t, http.StatusBadRequest, customErr.Status)
	assert.Equal(t, exception.NotHtmlContent, customErr.Code)
}

func TestAnalyzeBarePage(t *testing.T) {
	bare := "<html><head><!-- " + strings.Repeat("x", 120) + " --></head><body><p>just three words</p></body></html>"
	srv := newSite(t, site{contentType: "text/html", body: bare})

	report, err := newTestAnalysisService(t, nil).Analyze(context.Background(), view.AnalyzeRequest{Url: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, view.StatusFail, findCheck(t, report, view.CheckNameContentVolume).Status)
	assert.Equal(t, view.StatusFail, findCheck(t, report, view.CheckNamePrivacyPolicy).Status)
	assert.LessOrEqual(t, report.Score, 65)
	assert.GreaterOrEqual(t, report.Score, 0)
}

func TestAnalyzeRejectsMinimalContent(t *testing.T) {
	srv := newSite(t, site{contentType: "text/html", body: "<html><body>hi</body></html>"})

	_, err := newTestAnalysisService(t, nil).Analyze(context.Background(), view.AnalyzeRequest{Url: srv.URL})
	customErr := requireCustomError(t, err)
	assert.Equal(t, http.StatusBadRequest, customErr.Status)
	assert.Equal(t, exception.MinimalContent, customErr.Code)
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	analysisService := newTestAnalysisService(t, nil)

	_, err := analysisService.Analyze(context.Background(), view.AnalyzeRequest{Url: "   "})
	assert.Equal(t, exception.RequiredParamsMissing, requireCustomError(t, err).Code)

	_, err = analysisService.Analyze(context.Background(), view.AnalyzeRequest{Url: "ftp://example.com"})
	assert.Equal(t, exception.UnsupportedURLScheme, requireCustomError(t, err).Code)

	_, err = analysisService.Analyze(context.Background(), view.AnalyzeRequest{Url: "example.com", Ruleset: "v42"})
	customErr := requireCustomError(t, err)
	assert.Equal(t, http.StatusBadRequest, customErr.Status)
	assert.Equal(t, exception.RulesetNotFound, customErr.Code)
}

func TestAnalyzeWithContentReview(t *testing.T) {
	srv := newSite(t, site{contentType: "text/html", body: goodPage})
	reviewClient := fakeReviewClient{review: &view.ContentReview{
		Verdict:     "needs_work",
		Summary:     "Readable but generic.",
		Suggestions: []string{"Add first-hand photos"},
	}}

	report, err := newTestAnalysisService(t, reviewClient).Analyze(context.Background(), view.AnalyzeRequest{Url: srv.URL})
	require.NoError(t, err)

	last := report.Checks[len(report.Checks)-1]
	assert.Equal(t, view.CheckNameContentReview, last.Name)
	assert.Equal(t, view.StatusManual, last.Status)
	assert.Contains(t, last.Message, "needs_work")
	assert.Equal(t, "Add first-hand photos", report.Recommendations[len(report.Recommendations)-1])
}

func TestAnalyzeContentReviewFailureDoesNotAffectScore(t *testing.T) {
	srv := newSite(t, site{contentType: "text/html", body: goodPage})

	withoutReview, err := newTestAnalysisService(t, nil).Analyze(context.Background(), view.AnalyzeRequest{Url: srv.URL})
	require.NoError(t, err)
	failedReview, err := newTestAnalysisService(t, fakeReviewClient{err: errors.New("quota exceeded")}).
		Analyze(context.Background(), view.AnalyzeRequest{Url: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, withoutReview.Score, failedReview.Score)
	last := failedReview.Checks[len(failedReview.Checks)-1]
	assert.Equal(t, view.CheckNameContentReview, last.Name)
	assert.Contains(t, last.Message, "quota exceeded")
}
