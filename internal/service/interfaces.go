package service

import (
	"context"

	"github.com/pageza/feedback/backend/internal/models"
)

// IFeedbackService defines the feedback operations used by the handlers
type IFeedbackService interface {
	Submit(ctx context.Context, req *SubmitRequest, pending PendingChallenge) (*models.Feedback, error)
	GetByID(ctx context.Context, id uint) (*models.Feedback, error)
	ListBySentiment(ctx context.Context, kindKey string, page int) (*Page, error)
	ExportAll(ctx context.Context, version string) ([]models.Feedback, error)
}

var _ IFeedbackService = (*FeedbackService)(nil)
