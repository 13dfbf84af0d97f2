package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/pageza/feedback/backend/internal/models"
	"github.com/pageza/feedback/backend/internal/repository"
	"github.com/pageza/feedback/backend/internal/testhelpers"
)

type FeedbackRepositorySuite struct {
	suite.Suite
	open func(t *testing.T) *gorm.DB

	ctx  context.Context
	repo *repository.GormFeedbackRepository
	base time.Time
}

func TestFeedbackRepositorySQLite(t *testing.T) {
	suite.Run(t, &FeedbackRepositorySuite{open: testhelpers.SetupTestDB})
}

func TestFeedbackRepositoryPostgres(t *testing.T) {
	suite.Run(t, &FeedbackRepositorySuite{open: testhelpers.SetupPostgresDB})
}

func (s *FeedbackRepositorySuite) SetupSuite() {
	s.ctx = context.Background()
	s.repo = repository.NewFeedbackRepository(s.open(s.T()))
	s.base = time.Date(2011, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *FeedbackRepositorySuite) SetupTest() {
	_, err := s.repo.DeleteAll(s.ctx)
	s.Require().NoError(err)
}

func (s *FeedbackRepositorySuite) insert(kind models.Kind, text, version string, offset time.Duration) *models.Feedback {
	fb, err := models.NewFeedback(kind, text, version, s.base.Add(offset))
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Insert(s.ctx, fb))
	return fb
}

func (s *FeedbackRepositorySuite) TestInsertAssignsIDs() {
	first := s.insert(models.Happy, "one", "1.0", 0)
	second := s.insert(models.Happy, "one", "1.0", 0)

	s.NotZero(first.ID)
	s.NotEqual(first.ID, second.ID, "identical submissions are distinct records")
}

func (s *FeedbackRepositorySuite) TestInsertRejectsInvalidKind() {
	err := s.repo.Insert(s.ctx, &models.Feedback{Kind: 0, Text: "x", PubDate: s.base})
	s.ErrorIs(err, models.ErrInvalidKind)
}

func (s *FeedbackRepositorySuite) TestFindByID() {
	fb := s.insert(models.Unhappy, "slow", "0.9", time.Minute)

	found, err := s.repo.FindByID(s.ctx, fb.ID)
	s.Require().NoError(err)
	s.Equal(models.Unhappy, found.Kind)
	s.Equal("slow", found.Text)
	s.Equal("0.9", found.Version)
	s.Equal("2011-06-01T12:01:00Z", found.PubDateString())

	_, err = s.repo.FindByID(s.ctx, fb.ID+100)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *FeedbackRepositorySuite) TestFindByKindOrdered() {
	s.insert(models.Happy, "oldest", "", 0)
	s.insert(models.Unhappy, "other kind", "", time.Second)
	s.insert(models.Happy, "newest", "", 3*time.Second)
	s.insert(models.Happy, "middle", "", 2*time.Second)

	items, total, err := s.repo.FindByKindOrdered(s.ctx, models.Happy, 0, 2)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(items, 2)
	s.Equal("newest", items[0].Text)
	s.Equal("middle", items[1].Text)

	items, _, err = s.repo.FindByKindOrdered(s.ctx, models.Happy, 2, 2)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("oldest", items[0].Text)
}

func (s *FeedbackRepositorySuite) TestFindByVersionOrdered() {
	s.insert(models.Happy, "b", "1.0", 2*time.Second)
	s.insert(models.Unhappy, "a", "1.0", time.Second)
	s.insert(models.Happy, "c", "0.8", 0)

	items, err := s.repo.FindByVersionOrdered(s.ctx, "1.0")
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("a", items[0].Text)
	s.Equal("b", items[1].Text)

	items, err = s.repo.FindByVersionOrdered(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(items, 3)
	s.Equal("c", items[0].Text)

	items, err = s.repo.FindByVersionOrdered(s.ctx, "2.0")
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *FeedbackRepositorySuite) TestDeleteAll() {
	s.insert(models.Happy, "a", "", 0)
	s.insert(models.Unhappy, "b", "", 0)

	n, err := s.repo.DeleteAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	items, err := s.repo.FindByVersionOrdered(s.ctx, "")
	s.Require().NoError(err)
	s.Empty(items)
}
