package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/pageza/feedback/backend/internal/models"
)

// ErrNotFound is returned when no feedback has the requested id
var ErrNotFound = errors.New("feedback not found")

// FeedbackRepository stores feedback. Records are inserted once and only
// ever removed all together.
type FeedbackRepository interface {
	Insert(ctx context.Context, feedback *models.Feedback) error
	FindByID(ctx context.Context, id uint) (*models.Feedback, error)
	// FindByKindOrdered returns one window of a sentiment, newest first,
	// together with the number of records of that sentiment.
	FindByKindOrdered(ctx context.Context, kind models.Kind, offset, limit int) ([]models.Feedback, int64, error)
	// FindByVersionOrdered returns every record of a version, oldest
	// first. An empty version matches all records.
	FindByVersionOrdered(ctx context.Context, version string) ([]models.Feedback, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// GormFeedbackRepository is a FeedbackRepository on top of GORM
type GormFeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *GormFeedbackRepository {
	return &GormFeedbackRepository{db: db}
}

func (r *GormFeedbackRepository) Insert(ctx context.Context, feedback *models.Feedback) error {
	if !feedback.Kind.Valid() {
		return errors.Wrapf(models.ErrInvalidKind, "kind %d", feedback.Kind)
	}
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return errors.Wrap(err, "inserting feedback")
	}
	return nil
}

func (r *GormFeedbackRepository) FindByID(ctx context.Context, id uint) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.db.WithContext(ctx).First(&feedback, "feedback_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "finding feedback %d", id)
	}
	return &feedback, nil
}

func (r *GormFeedbackRepository) FindByKindOrdered(ctx context.Context, kind models.Kind, offset, limit int) ([]models.Feedback, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Feedback{}).Where("kind = ?", kind).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "counting feedback")
	}

	var items []models.Feedback
	err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("pub_date DESC").
		Order("feedback_id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing feedback")
	}
	return items, total, nil
}

func (r *GormFeedbackRepository) FindByVersionOrdered(ctx context.Context, version string) ([]models.Feedback, error) {
	query := r.db.WithContext(ctx)
	if version != "" {
		query = query.Where("version = ?", version)
	}

	var items []models.Feedback
	err := query.Order("pub_date ASC").Order("feedback_id ASC").Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "exporting feedback")
	}
	return items, nil
}

func (r *GormFeedbackRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Feedback{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "deleting feedback")
	}
	return result.RowsAffected, nil
}
