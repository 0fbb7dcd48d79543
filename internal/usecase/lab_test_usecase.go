package usecase

import (
	"context"
	"time"

	"lab-appointment-web/internal/converter"
	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/internal/domain/repository"
	"lab-appointment-web/internal/service"

	"github.com/sirupsen/logrus"
)

type LabTestUsecase interface {
	GetMenu(ctx context.Context, session *entity.Session, category, query string) (*dto.TestMenuResponse, error)
}

type labTestUsecase struct {
	log           *logrus.Logger
	testRepo      repository.LabTestRepository
	cache         *service.QueryCache
	collectionTTL time.Duration
}

func NewLabTestUsecase(log *logrus.Logger, testRepo repository.LabTestRepository, cache *service.QueryCache, collectionTTL time.Duration) LabTestUsecase {
	return &labTestUsecase{
		log:           log,
		testRepo:      testRepo,
		cache:         cache,
		collectionTTL: collectionTTL,
	}
}

// GetMenu lists active tests, optionally narrowed by category and text.
// Categories are taken from the unfiltered active list.
func (u *labTestUsecase) GetMenu(ctx context.Context, session *entity.Session, category, query string) (*dto.TestMenuResponse, error) {
	tests, err := loadTests(ctx, u.cache, u.testRepo, session, u.collectionTTL)
	if err != nil {
		u.log.Warnf("Failed to load tests: %+v", err)
		return nil, err
	}

	active := entity.ActiveTests(tests)
	menu := entity.FilterTestMenu(active, category, query)

	return &dto.TestMenuResponse{
		Tests:      converter.LabTestsToResponses(menu),
		Categories: entity.TestCategories(active),
		Total:      len(menu),
	}, nil
}
