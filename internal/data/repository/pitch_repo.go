package repository

import (
	"context"
	"fmt"

	"pitch-booking/internal/data/entity"
	"pitch-booking/pkg/database"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PitchFilter narrows the public catalog listing. Zero values are ignored.
type PitchFilter struct {
	Search   string
	Area     string
	Type     entity.PitchType
	MaxPrice *decimal.Decimal
	Limit    int
	Offset   int
}

type PitchRepository interface {
	Create(ctx context.Context, pitch *entity.Pitch) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Pitch, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Pitch, error)
	FindAll(ctx context.Context, filter PitchFilter) ([]*entity.Pitch, error)
	Count(ctx context.Context, filter PitchFilter) (int64, error)
	Update(ctx context.Context, pitch *entity.Pitch) error
	UpdateRating(ctx context.Context, id uuid.UUID, avg float64, count int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pitchRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPitchRepository(db database.PgxIface, log *zap.Logger) PitchRepository {
	return &pitchRepository{
		db:  db,
		log: log.With(zap.String("repository", "pitch")),
	}
}

var pitchColumns = []string{
	"id", "name", "location", "area", "type", "price", "open_hour", "close_hour",
	"features", "rating_avg", "rating_count", "created_at", "updated_at", "deleted_at",
}

func scanPitch(row pgx.Row) (*entity.Pitch, error) {
	var p entity.Pitch
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Location,
		&p.Area,
		&p.Type,
		&p.Price,
		&p.OpenHour,
		&p.CloseHour,
		&p.Features,
		&p.RatingAvg,
		&p.RatingCount,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pitchRepository) Create(ctx context.Context, pitch *entity.Pitch) error {
	query := `
		INSERT INTO pitches (id, name, location, area, type, price, open_hour, close_hour, features, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		pitch.ID,
		pitch.Name,
		pitch.Location,
		pitch.Area,
		pitch.Type,
		pitch.Price,
		pitch.OpenHour,
		pitch.CloseHour,
		pitch.Features,
		pitch.CreatedAt,
		pitch.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create pitch", zap.Error(err), zap.String("name", pitch.Name))
		return fmt.Errorf("create pitch %s: %w", pitch.Name, err)
	}

	r.log.Info("Pitch created", zap.String("id", pitch.ID.String()), zap.String("name", pitch.Name))
	return nil
}

func (r *pitchRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Pitch, error) {
	query, args, err := psql.Select(pitchColumns...).
		From("pitches").
		Where(sq.Eq{"id": id.String()}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pitch query: %w", err)
	}

	pitch, err := scanPitch(database.Conn(ctx, r.db).QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find pitch", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("find pitch %s: %w", id.String(), err)
	}
	return pitch, nil
}

func (r *pitchRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Pitch, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := psql.Select(pitchColumns...).
		From("pitches").
		Where(sq.Eq{"id": uuidStrings(ids)}).
		Where("deleted_at IS NULL").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pitch query: %w", err)
	}

	return r.queryMany(ctx, query, args)
}

func (r *pitchRepository) applyFilter(b sq.SelectBuilder, filter PitchFilter) sq.SelectBuilder {
	b = b.Where("deleted_at IS NULL")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		b = b.Where(sq.Or{sq.ILike{"name": like}, sq.ILike{"location": like}})
	}
	if filter.Area != "" {
		b = b.Where(sq.Eq{"area": filter.Area})
	}
	if filter.Type != "" {
		b = b.Where(sq.Eq{"type": string(filter.Type)})
	}
	if filter.MaxPrice != nil {
		b = b.Where(sq.LtOrEq{"price": filter.MaxPrice.String()})
	}
	return b
}

// FindAll lists the catalog ordered by rating, best first.
func (r *pitchRepository) FindAll(ctx context.Context, filter PitchFilter) ([]*entity.Pitch, error) {
	b := r.applyFilter(psql.Select(pitchColumns...).From("pitches"), filter).
		OrderBy("rating_avg DESC", "name ASC")
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pitch list query: %w", err)
	}

	return r.queryMany(ctx, query, args)
}

func (r *pitchRepository) Count(ctx context.Context, filter PitchFilter) (int64, error) {
	query, args, err := r.applyFilter(psql.Select("COUNT(*)").From("pitches"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build pitch count query: %w", err)
	}

	var count int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Database error counting pitches", zap.Error(err))
		return 0, fmt.Errorf("count pitches: %w", err)
	}
	return count, nil
}

func (r *pitchRepository) queryMany(ctx context.Context, query string, args []any) ([]*entity.Pitch, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query pitches", zap.Error(err))
		return nil, fmt.Errorf("query pitches: %w", err)
	}
	defer rows.Close()

	var pitches []*entity.Pitch
	for rows.Next() {
		p, err := scanPitch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pitch row: %w", err)
		}
		pitches = append(pitches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pitch rows: %w", err)
	}
	return pitches, nil
}

func (r *pitchRepository) Update(ctx context.Context, pitch *entity.Pitch) error {
	query := `
		UPDATE pitches
		SET name = $2, location = $3, area = $4, type = $5, price = $6,
		    open_hour = $7, close_hour = $8, features = $9, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		pitch.ID,
		pitch.Name,
		pitch.Location,
		pitch.Area,
		pitch.Type,
		pitch.Price,
		pitch.OpenHour,
		pitch.CloseHour,
		pitch.Features,
	)
	if err != nil {
		r.log.Error("Failed to update pitch", zap.Error(err), zap.String("id", pitch.ID.String()))
		return fmt.Errorf("update pitch %s: %w", pitch.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update pitch %s: %w", pitch.ID.String(), ErrStaleState)
	}
	return nil
}

func (r *pitchRepository) UpdateRating(ctx context.Context, id uuid.UUID, avg float64, count int) error {
	query := `UPDATE pitches SET rating_avg = $2, rating_count = $3, updated_at = NOW() WHERE id = $1`

	if _, err := database.Conn(ctx, r.db).Exec(ctx, query, id, avg, count); err != nil {
		return fmt.Errorf("update rating of pitch %s: %w", id.String(), err)
	}
	return nil
}

func (r *pitchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE pitches SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete pitch", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("delete pitch %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete pitch %s: %w", id.String(), ErrStaleState)
	}

	r.log.Info("Pitch deleted", zap.String("id", id.String()))
	return nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
