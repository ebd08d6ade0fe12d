package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
)

// RiderRepository defines the interface for rider storage
type RiderRepository interface {
	Create(ctx context.Context, rider *model.Rider) error
	GetByID(ctx context.Context, id string) (*model.Rider, error)
	GetByEmail(ctx context.Context, email string) (*model.Rider, error)
}

// RiderService handles rider profiles
type RiderService struct {
	repo RiderRepository
	now  func() time.Time
}

// RiderServiceConfig holds configuration for the rider service
type RiderServiceConfig struct {
	Repo RiderRepository
	Now  func() time.Time
}

// NewRiderService creates a new rider service
func NewRiderService(cfg RiderServiceConfig) *RiderService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &RiderService{repo: cfg.Repo, now: now}
}

// Create creates a rider profile. Emails are unique, compared case-insensitively.
func (s *RiderService) Create(ctx context.Context, req *model.CreateRiderRequest) (*model.Rider, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRiderEmailExists
	}

	disciplines := req.PreferredDisciplines
	if disciplines == nil {
		disciplines = []model.RideType{}
	}

	rider := &model.Rider{
		ID:                   uuid.New().String(),
		Name:                 strings.TrimSpace(req.Name),
		Email:                email,
		ExperienceLevel:      req.ExperienceLevel,
		PreferredDisciplines: disciplines,
		CreatedAt:            s.now().UTC(),
	}

	if err := s.repo.Create(ctx, rider); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrRiderEmailExists
		}
		return nil, fmt.Errorf("failed to create rider: %w", err)
	}
	return rider, nil
}

// Get retrieves a rider by ID
func (s *RiderService) Get(ctx context.Context, id string) (*model.Rider, error) {
	rider, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rider == nil {
		return nil, ErrRiderNotFound
	}
	return rider, nil
}
