package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pitch-booking/internal/data/entity"
	"pitch-booking/pkg/database"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CodeFilter struct {
	Type    entity.CodeType
	Status  entity.CodeStatus
	OwnerID *uuid.UUID
	Limit   int
	Offset  int
}

type CodeRepository interface {
	// Create reports false when the code string is already taken.
	Create(ctx context.Context, code *entity.Code) (bool, error)
	FindByCode(ctx context.Context, code string) (*entity.Code, error)
	// Consume flips an active, unexpired code to used. Codes with an owner can only be spent by that owner.
	// When nothing changed it returns ErrCodeUsed, ErrCodeExpired or ErrCodeNotFound (also for someone else's code).
	Consume(ctx context.Context, code string, bookingID, userID uuid.UUID, at time.Time) error
	List(ctx context.Context, filter CodeFilter) ([]*entity.Code, error)
	Count(ctx context.Context, filter CodeFilter) (int64, error)
}

type codeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCodeRepository(db database.PgxIface, log *zap.Logger) CodeRepository {
	return &codeRepository{
		db:  db,
		log: log.With(zap.String("repository", "code")),
	}
}

var codeColumns = []string{
	"id", "code", "type", "source", "value", "pitch_id", "status", "expires_at",
	"owner_id", "source_booking_id", "used_by", "used_at", "used_booking_id", "created_at",
}

func scanCode(row pgx.Row) (*entity.Code, error) {
	var c entity.Code
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Type,
		&c.Source,
		&c.Value,
		&c.PitchID,
		&c.Status,
		&c.ExpiresAt,
		&c.OwnerID,
		&c.SourceBookingID,
		&c.UsedBy,
		&c.UsedAt,
		&c.UsedBookingID,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *codeRepository) Create(ctx context.Context, code *entity.Code) (bool, error) {
	query := `
		INSERT INTO codes (id, code, type, source, value, pitch_id, status, expires_at, owner_id, source_booking_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (code) DO NOTHING
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		code.ID,
		code.Code,
		code.Type,
		code.Source,
		code.Value,
		code.PitchID,
		code.Status,
		code.ExpiresAt,
		code.OwnerID,
		code.SourceBookingID,
		code.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create code", zap.Error(err), zap.String("type", string(code.Type)))
		return false, fmt.Errorf("create code: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *codeRepository) FindByCode(ctx context.Context, code string) (*entity.Code, error) {
	query, args, err := psql.Select(codeColumns...).From("codes").Where(sq.Eq{"code": code}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build code query: %w", err)
	}

	c, err := scanCode(database.Conn(ctx, r.db).QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find code", zap.Error(err))
		return nil, fmt.Errorf("find code: %w", err)
	}
	return c, nil
}

func (r *codeRepository) Consume(ctx context.Context, code string, bookingID, userID uuid.UUID, at time.Time) error {
	query := `
		UPDATE codes
		SET status = 'used', used_by = $2, used_at = $3, used_booking_id = $4
		WHERE code = $1 AND status = 'active'
		  AND (expires_at IS NULL OR expires_at > $3)
		  AND (owner_id IS NULL OR owner_id = $2)
	`

	conn := database.Conn(ctx, r.db)
	result, err := conn.Exec(ctx, query, code, userID, at, bookingID)
	if err != nil {
		r.log.Error("Failed to consume code", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return fmt.Errorf("consume code: %w", err)
	}
	if result.RowsAffected() == 1 {
		return nil
	}

	var (
		status    string
		expiresAt *time.Time
		ownerID   *uuid.UUID
	)
	err = conn.QueryRow(ctx, `SELECT status, expires_at, owner_id FROM codes WHERE code = $1`, code).
		Scan(&status, &expiresAt, &ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCodeNotFound
	}
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}

	switch {
	case entity.CodeStatus(status) != entity.CodeStatusActive:
		return ErrCodeUsed
	case ownerID != nil && *ownerID != userID:
		return ErrCodeNotFound
	case expiresAt != nil && !at.Before(*expiresAt):
		return ErrCodeExpired
	}
	// lost a race with a concurrent consume
	return ErrCodeUsed
}

func applyCodeFilter(b sq.SelectBuilder, filter CodeFilter) sq.SelectBuilder {
	if filter.Type != "" {
		b = b.Where(sq.Eq{"type": string(filter.Type)})
	}
	if filter.Status != "" {
		b = b.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.OwnerID != nil {
		b = b.Where(sq.Eq{"owner_id": filter.OwnerID.String()})
	}
	return b
}

func (r *codeRepository) List(ctx context.Context, filter CodeFilter) ([]*entity.Code, error) {
	b := applyCodeFilter(psql.Select(codeColumns...).From("codes"), filter).OrderBy("created_at DESC")
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build code list: %w", err)
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list codes", zap.Error(err))
		return nil, fmt.Errorf("list codes: %w", err)
	}
	defer rows.Close()

	var codes []*entity.Code
	for rows.Next() {
		c, err := scanCode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan code row: %w", err)
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate code rows: %w", err)
	}
	return codes, nil
}

func (r *codeRepository) Count(ctx context.Context, filter CodeFilter) (int64, error) {
	query, args, err := applyCodeFilter(psql.Select("COUNT(*)").From("codes"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build code count: %w", err)
	}

	var count int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count codes: %w", err)
	}
	return count, nil
}
