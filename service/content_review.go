package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Netcracker/qubership-site-readiness-service/client"
	"github.com/Netcracker/qubership-site-readiness-service/view"
	log "github.com/sirupsen/logrus"
)

// ContentReviewService wraps the optional language model review. The produced entry is always
// manual and never contributes to the weighted score.
type ContentReviewService interface {
	Enabled() bool
	Review(ctx context.Context, finalUrl string, signals view.Signals) (*view.ContentReview, view.CheckResult)
}

func NewContentReviewService(reviewClient client.ContentReviewClient, timeout time.Duration) ContentReviewService {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &contentReviewServiceImpl{reviewClient: reviewClient, timeout: timeout}
}

type contentReviewServiceImpl struct {
	reviewClient client.ContentReviewClient
	timeout      time.Duration
}

func (c contentReviewServiceImpl) Enabled() bool {
	return c.reviewClient != nil
}

func (c contentReviewServiceImpl) Review(ctx context.Context, finalUrl string, signals view.Signals) (*view.ContentReview, view.CheckResult) {
	result := view.CheckResult{
		Name:     view.CheckNameContentReview,
		Category: view.CategoryContent,
		Status:   view.StatusManual,
	}
	if !c.Enabled() {
		result.Message = "AI content review is not configured."
		return nil, result
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	review, err := c.reviewClient.ReviewContent(ctx, view.ContentReviewInput{
		Url:             finalUrl,
		Title:           signals.Title,
		MetaDescription: signals.MetaDescription,
		BodyExcerpt:     signals.BodyText,
	})
	if err != nil {
		log.Warnf("Content review for %s failed: %s", finalUrl, err.Error())
		result.Message = fmt.Sprintf("AI content review unavailable: %s", err.Error())
		return nil, result
	}

	result.Message = fmt.Sprintf("Verdict: %s. %s", review.Verdict, review.Summary)
	return review, result
}
