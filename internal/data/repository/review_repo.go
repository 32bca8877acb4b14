package repository

import (
	"context"
	"fmt"

	"pitch-booking/internal/data/entity"
	"pitch-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByPitchID(ctx context.Context, pitchID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	CountByPitchID(ctx context.Context, pitchID uuid.UUID) (int64, error)
	FindByUserAndPitch(ctx context.Context, userID, pitchID uuid.UUID) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error

	// PitchStats returns the average rating and the number of reviews.
	PitchStats(ctx context.Context, pitchID uuid.UUID) (float64, int, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, user_id, pitch_id, rating, comment, created_at, updated_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.PitchID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, pitch_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		review.ID,
		review.UserID,
		review.PitchID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return fmt.Errorf("create review for pitch %s: %w", review.PitchID.String(), ErrDuplicate)
		}
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("pitch_id", review.PitchID.String()),
		)
		return fmt.Errorf("create review for pitch %s by user %s: %w",
			review.PitchID.String(), review.UserID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("find review %s: %w", id.String(), err)
	}
	return review, nil
}

func (r *reviewRepository) FindByPitchID(ctx context.Context, pitchID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE pitch_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, pitchID, limit, offset)
	if err != nil {
		r.log.Error("Failed to get reviews by pitch",
			zap.Error(err),
			zap.String("pitch_id", pitchID.String()),
		)
		return nil, fmt.Errorf("find reviews of pitch %s: %w", pitchID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) CountByPitchID(ctx context.Context, pitchID uuid.UUID) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE pitch_id = $1`, pitchID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reviews of pitch %s: %w", pitchID.String(), err)
	}
	return count, nil
}

func (r *reviewRepository) FindByUserAndPitch(ctx context.Context, userID, pitchID uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 AND pitch_id = $2`

	review, err := scanReview(database.Conn(ctx, r.db).QueryRow(ctx, query, userID, pitchID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find review of user %s for pitch %s: %w", userID.String(), pitchID.String(), err)
	}
	return review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `UPDATE reviews SET rating = $2, comment = $3, updated_at = NOW() WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, review.ID, review.Rating, review.Comment)
	if err != nil {
		r.log.Error("Failed to update review", zap.Error(err), zap.String("id", review.ID.String()))
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update review %s: %w", review.ID.String(), ErrStaleState)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete review", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete review %s: %w", id.String(), ErrStaleState)
	}
	return nil
}

func (r *reviewRepository) PitchStats(ctx context.Context, pitchID uuid.UUID) (float64, int, error) {
	query := `SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM reviews WHERE pitch_id = $1`

	var (
		avg   float64
		count int
	)
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, pitchID).Scan(&avg, &count); err != nil {
		r.log.Error("Failed to get pitch review stats", zap.Error(err), zap.String("pitch_id", pitchID.String()))
		return 0, 0, fmt.Errorf("review stats of pitch %s: %w", pitchID.String(), err)
	}
	return avg, count, nil
}
