package service

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-stock-ranker/internal/entity"
	"golang-stock-ranker/internal/ranker/dto"
	"golang-stock-ranker/internal/ranker/repository"
	"golang-stock-ranker/pkg/logger"
)

// ProfileService manages named ranking weight profiles.
type ProfileService interface {
	Create(ctx context.Context, req *dto.CreateRankingProfileRequest) (*dto.RankingProfileResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.RankingProfileResponse, error)
	GetAll(ctx context.Context) ([]dto.RankingProfileResponse, error)
	Update(ctx context.Context, id uint, req *dto.CreateRankingProfileRequest) (*dto.RankingProfileResponse, error)
	Delete(ctx context.Context, id uint) error
}

// NewProfileService creates a new profile service.
func NewProfileService(profileRepo repository.RankingProfileRepository, log *logger.Logger) ProfileService {
	return &profileService{profileRepo: profileRepo, log: log}
}

type profileService struct {
	profileRepo repository.RankingProfileRepository
	log         *logger.Logger
}

func (s *profileService) Create(ctx context.Context, req *dto.CreateRankingProfileRequest) (*dto.RankingProfileResponse, error) {
	profile, err := profileFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		s.log.Error("Failed to create ranking profile", logger.ErrorField(err), logger.StringField("name", req.Name))
		return nil, err
	}
	return profileToResponse(profile)
}

func (s *profileService) GetByID(ctx context.Context, id uint) (*dto.RankingProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return profileToResponse(profile)
}

func (s *profileService) GetAll(ctx context.Context) ([]dto.RankingProfileResponse, error) {
	profiles, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.RankingProfileResponse, 0, len(profiles))
	for i := range profiles {
		resp, err := profileToResponse(&profiles[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *profileService) Update(ctx context.Context, id uint, req *dto.CreateRankingProfileRequest) (*dto.RankingProfileResponse, error) {
	existing, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := profileFromRequest(req)
	if err != nil {
		return nil, err
	}
	existing.Name = updated.Name
	existing.Weights = updated.Weights
	existing.TopK = updated.TopK
	if err := s.profileRepo.Update(ctx, existing); err != nil {
		s.log.Error("Failed to update ranking profile", logger.ErrorField(err), logger.IntField("id", int(id)))
		return nil, err
	}
	return profileToResponse(existing)
}

func (s *profileService) Delete(ctx context.Context, id uint) error {
	return s.profileRepo.Delete(ctx, id)
}

// profileFromRequest validates the weight keys before anything is stored, so
// a bad profile can never reach a ranking run.
func profileFromRequest(req *dto.CreateRankingProfileRequest) (*entity.RankingProfile, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("profile name is required")
	}
	weights, err := ParseWeights(req.Weights)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(weights.Map())
	if err != nil {
		return nil, err
	}
	topK := req.TopK
	if topK <= 0 {
		topK = 10
	}
	return &entity.RankingProfile{
		Name:    req.Name,
		Weights: payload,
		TopK:    topK,
	}, nil
}

func profileToResponse(profile *entity.RankingProfile) (*dto.RankingProfileResponse, error) {
	var weights map[string]float64
	if err := json.Unmarshal(profile.Weights, &weights); err != nil {
		return nil, fmt.Errorf("profile %q has malformed weights: %w", profile.Name, err)
	}
	return &dto.RankingProfileResponse{
		ID:        profile.ID,
		Name:      profile.Name,
		Weights:   weights,
		TopK:      profile.TopK,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}, nil
}
