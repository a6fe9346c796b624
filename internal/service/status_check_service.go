package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vivek-portfolio/portfolio-api/internal/model"
)

// MaxListResults caps the number of status checks returned by a single listing
const MaxListResults int64 = 1000

// StatusCheckRepository is the persistence contract for status checks
type StatusCheckRepository interface {
	Create(ctx context.Context, check *model.StatusCheck) error
	List(ctx context.Context, limit int64) ([]model.StatusCheck, error)
}

// StatusCheckService creates and lists status checks
type StatusCheckService struct {
	repo  StatusCheckRepository
	now   func() time.Time
	newID func() string
}

// NewStatusCheckService creates a new status check service
func NewStatusCheckService(repo StatusCheckRepository) *StatusCheckService {
	return &StatusCheckService{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create builds a status check for clientName with a fresh id and timestamp
// and persists it. The timestamp is truncated to milliseconds, the precision
// MongoDB stores, so the returned record matches what a later List reads back.
func (s *StatusCheckService) Create(ctx context.Context, clientName string) (*model.StatusCheck, error) {
	check := &model.StatusCheck{
		ID:         s.newID(),
		ClientName: clientName,
		Timestamp:  s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.repo.Create(ctx, check); err != nil {
		return nil, err
	}

	return check, nil
}

// List returns at most MaxListResults status checks
func (s *StatusCheckService) List(ctx context.Context) ([]model.StatusCheck, error) {
	checks, err := s.repo.List(ctx, MaxListResults)
	if err != nil {
		return nil, err
	}

	if int64(len(checks)) > MaxListResults {
		checks = checks[:MaxListResults]
	}

	return checks, nil
}
