package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"

	"github.com/pageza/feedback/backend/internal/challenge"
	"github.com/pageza/feedback/backend/internal/models"
	"github.com/pageza/feedback/backend/internal/repository"
)

const (
	MaxTextLength    = 140
	MaxVersionLength = 20

	// AllVersions disables the version filter of an export
	AllVersions = "all"

	DefaultPerPage = 30
)

var (
	// ErrRejected covers every reason a submission is refused. The reason
	// is logged but never shown to the submitter.
	ErrRejected = errors.New("feedback rejected")
	// ErrPageNotFound is returned for pages outside a listing
	ErrPageNotFound = errors.New("page not found")
	// ErrNotFound is returned for unknown feedback ids
	ErrNotFound = repository.ErrNotFound
)

// SubmitRequest carries the raw form fields of a submission
type SubmitRequest struct {
	Kind     string
	Text     string
	Version  string
	Response string
}

// PendingChallenge is the challenge taken from the submitter's session.
// Valid is false when the session had none.
type PendingChallenge struct {
	Value uint32
	Valid bool
}

type FeedbackService struct {
	repo    repository.FeedbackRepository
	perPage int
	now     func() time.Time
}

func NewFeedbackService(repo repository.FeedbackRepository, perPage int) *FeedbackService {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return &FeedbackService{
		repo:    repo,
		perPage: perPage,
		now:     time.Now,
	}
}

// Submit validates a submission against the challenge that was pending for
// the session and stores it. Duplicate content is stored again.
func (s *FeedbackService) Submit(ctx context.Context, req *SubmitRequest, pending PendingChallenge) (*models.Feedback, error) {
	if !pending.Valid {
		return nil, errors.Wrap(ErrRejected, "no pending challenge")
	}

	kind, ok := models.ParseKind(req.Kind)
	if !ok {
		return nil, errors.Wrapf(ErrRejected, "unknown kind %q", req.Kind)
	}

	if n := utf8.RuneCountInString(req.Text); n > MaxTextLength {
		return nil, errors.Wrapf(ErrRejected, "text has %d characters", n)
	}
	if n := utf8.RuneCountInString(req.Version); n > MaxVersionLength {
		return nil, errors.Wrapf(ErrRejected, "version has %d characters", n)
	}

	if !challenge.Verify(pending.Value, req.Response) {
		return nil, errors.Wrap(ErrRejected, "wrong challenge response")
	}

	feedback, err := models.NewFeedback(kind, req.Text, req.Version, s.now())
	if err != nil {
		return nil, errors.Wrap(err, "building feedback")
	}
	if err := s.repo.Insert(ctx, feedback); err != nil {
		return nil, errors.Wrap(err, "storing feedback")
	}

	grip.Info(message.Fields{
		"message":  "feedback stored",
		"id":       feedback.ID,
		"kind":     kind.Key(),
		"version":  feedback.Version,
		"pub_date": feedback.PubDateString(),
	})
	return feedback, nil
}

// GetByID returns a single message or ErrNotFound
func (s *FeedbackService) GetByID(ctx context.Context, id uint) (*models.Feedback, error) {
	feedback, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "getting feedback")
	}
	return feedback, nil
}

// ListBySentiment returns one page of a sentiment, newest first.
// Page numbers start at 1; an empty first page is valid, any other empty
// page is ErrPageNotFound.
func (s *FeedbackService) ListBySentiment(ctx context.Context, kindKey string, page int) (*Page, error) {
	kind, ok := models.ParseKind(kindKey)
	if !ok || page < 1 {
		return nil, ErrPageNotFound
	}

	items, total, err := s.repo.FindByKindOrdered(ctx, kind, (page-1)*s.perPage, s.perPage)
	if err != nil {
		return nil, errors.Wrap(err, "listing feedback")
	}
	if len(items) == 0 && page != 1 {
		return nil, ErrPageNotFound
	}

	return &Page{
		Kind:    kindKey,
		Items:   items,
		Number:  page,
		PerPage: s.perPage,
		Total:   total,
	}, nil
}

// ExportAll returns every message of version, oldest first.
// AllVersions selects all messages.
func (s *FeedbackService) ExportAll(ctx context.Context, version string) ([]models.Feedback, error) {
	filter := version
	if version == AllVersions {
		filter = ""
	}
	items, err := s.repo.FindByVersionOrdered(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "exporting feedback")
	}
	return items, nil
}
