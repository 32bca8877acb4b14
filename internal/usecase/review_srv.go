package usecase

import (
	"context"
	"errors"
	"fmt"

	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/data/repository"
	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/dto/response"
	"pitch-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	CreateReview(ctx context.Context, actor Actor, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetPitchReviews(ctx context.Context, pitchID uuid.UUID, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	UpdateReview(ctx context.Context, actor Actor, reviewID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, actor Actor, reviewID uuid.UUID) error
}

type reviewService struct {
	repo  *repository.Repository
	clock utils.Clock
	log   *zap.Logger
}

func NewReviewService(repo *repository.Repository, clock utils.Clock, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "review")),
	}
}

// CreateReview accepts one review per user and pitch, from users who have played there.
func (s *reviewService) CreateReview(ctx context.Context, actor Actor, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}
	pitchID, err := parseID(req.PitchID, "pitch")
	if err != nil {
		return nil, err
	}

	pitch, err := s.repo.Pitch.FindByID(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pitch: %w", err)
	}
	if pitch == nil {
		return nil, notFound("pitch", pitchID)
	}

	attended, err := s.repo.Booking.HasAttended(ctx, actor.UserID, pitchID)
	if err != nil {
		return nil, fmt.Errorf("check attendance: %w", err)
	}
	if !attended {
		return nil, fmt.Errorf("%w: only players who booked this pitch can review", ErrForbidden)
	}

	existing, err := s.repo.Review.FindByUserAndPitch(ctx, actor.UserID, pitchID)
	if err != nil {
		s.log.Error("Failed to check existing review", zap.Error(err))
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: pitch already reviewed", ErrConflict)
	}

	now := s.clock.Now()
	review := &entity.Review{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:  actor.UserID,
		PitchID: pitchID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: pitch already reviewed", ErrConflict)
		}
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", actor.UserID.String()),
			zap.String("pitch_id", pitchID.String()),
		)
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.refreshRating(ctx, pitchID)

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("pitch_id", pitchID.String()),
		zap.Int("rating", req.Rating),
	)

	resp := response.ReviewToResponse(review, s.username(ctx, actor.UserID))
	return &resp, nil
}

func (s *reviewService) GetPitchReviews(ctx context.Context, pitchID uuid.UUID, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	reviews, err := s.repo.Review.FindByPitchID(ctx, pitchID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get pitch reviews", zap.Error(err), zap.String("pitch_id", pitchID.String()))
		return nil, fmt.Errorf("get pitch reviews: %w", err)
	}

	total, err := s.repo.Review.CountByPitchID(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("count pitch reviews: %w", err)
	}

	names := make(map[uuid.UUID]string)
	out := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		name, ok := names[review.UserID]
		if !ok {
			name = s.username(ctx, review.UserID)
			names[review.UserID] = name
		}
		out[i] = response.ReviewToResponse(review, name)
	}

	return response.NewPaginatedResponse(out, req.CurrentPage(), req.Limit(), total), nil
}

func (s *reviewService) UpdateReview(ctx context.Context, actor Actor, reviewID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	review, err := s.ownedReview(ctx, actor, reviewID)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = req.Comment
	}
	review.UpdatedAt = s.clock.Now()

	if err := s.repo.Review.Update(ctx, review); err != nil {
		s.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, fmt.Errorf("update review: %w", err)
	}

	if req.Rating != nil {
		s.refreshRating(ctx, review.PitchID)
	}

	resp := response.ReviewToResponse(review, s.username(ctx, review.UserID))
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, actor Actor, reviewID uuid.UUID) error {
	review, err := s.ownedReview(ctx, actor, reviewID)
	if err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, reviewID); err != nil {
		s.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return fmt.Errorf("delete review: %w", err)
	}

	s.refreshRating(ctx, review.PitchID)
	s.log.Info("Review deleted", zap.String("review_id", reviewID.String()))
	return nil
}

func (s *reviewService) ownedReview(ctx context.Context, actor Actor, reviewID uuid.UUID) (*entity.Review, error) {
	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review: %w", err)
	}
	if review == nil {
		return nil, notFound("review", reviewID)
	}
	if review.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	return review, nil
}

func (s *reviewService) refreshRating(ctx context.Context, pitchID uuid.UUID) {
	avg, count, err := s.repo.Review.PitchStats(ctx, pitchID)
	if err == nil {
		err = s.repo.Pitch.UpdateRating(ctx, pitchID, avg, count)
	}
	if err != nil {
		// Continue anyway; the next review write recomputes the rating.
		s.log.Warn("Failed to update pitch rating", zap.Error(err), zap.String("pitch_id", pitchID.String()))
	}
}

func (s *reviewService) username(ctx context.Context, userID uuid.UUID) string {
	user, _ := s.repo.User.FindByID(ctx, userID)
	if user == nil {
		return ""
	}
	return user.Username
}
