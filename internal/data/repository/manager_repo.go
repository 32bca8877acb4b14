package repository

import (
	"context"
	"fmt"
	"time"

	"pitch-booking/internal/data/entity"
	"pitch-booking/pkg/database"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ManagerRepository interface {
	// Create stores the application and its pitch bindings; callers run it inside a transaction.
	Create(ctx context.Context, manager *entity.Manager) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Manager, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Manager, error)
	List(ctx context.Context, status entity.ManagerStatus) ([]*entity.Manager, error)
	Approve(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type managerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewManagerRepository(db database.PgxIface, log *zap.Logger) ManagerRepository {
	return &managerRepository{
		db:  db,
		log: log.With(zap.String("repository", "manager")),
	}
}

var managerColumns = []string{
	"m.id", "m.user_id", "m.status", "m.approved_at", "m.created_at", "m.updated_at",
	"ARRAY(SELECT mp.pitch_id::text FROM manager_pitches mp WHERE mp.manager_id = m.id ORDER BY mp.pitch_id)",
}

func scanManager(row pgx.Row) (*entity.Manager, error) {
	var (
		m        entity.Manager
		pitchIDs []string
	)
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Status,
		&m.ApprovedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
		&pitchIDs,
	)
	if err != nil {
		return nil, err
	}

	m.PitchIDs = make([]uuid.UUID, 0, len(pitchIDs))
	for _, raw := range pitchIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse managed pitch id %q: %w", raw, err)
		}
		m.PitchIDs = append(m.PitchIDs, id)
	}
	return &m, nil
}

func (r *managerRepository) Create(ctx context.Context, manager *entity.Manager) error {
	conn := database.Conn(ctx, r.db)

	_, err := conn.Exec(ctx, `
		INSERT INTO managers (id, user_id, status, approved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		manager.ID,
		manager.UserID,
		manager.Status,
		manager.ApprovedAt,
		manager.CreatedAt,
		manager.UpdatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return fmt.Errorf("create manager for user %s: %w", manager.UserID.String(), ErrDuplicate)
		}
		r.log.Error("Failed to create manager", zap.Error(err), zap.String("user_id", manager.UserID.String()))
		return fmt.Errorf("create manager for user %s: %w", manager.UserID.String(), err)
	}

	for _, pitchID := range manager.PitchIDs {
		_, err := conn.Exec(ctx,
			`INSERT INTO manager_pitches (manager_id, pitch_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			manager.ID, pitchID,
		)
		if err != nil {
			return fmt.Errorf("bind pitch %s to manager %s: %w", pitchID.String(), manager.ID.String(), err)
		}
	}

	return nil
}

func (r *managerRepository) findOne(ctx context.Context, where sq.Eq) (*entity.Manager, error) {
	query, args, err := psql.Select(managerColumns...).From("managers m").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build manager query: %w", err)
	}

	m, err := scanManager(database.Conn(ctx, r.db).QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find manager", zap.Error(err))
		return nil, fmt.Errorf("find manager: %w", err)
	}
	return m, nil
}

func (r *managerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Manager, error) {
	return r.findOne(ctx, sq.Eq{"m.id": id.String()})
}

func (r *managerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Manager, error) {
	return r.findOne(ctx, sq.Eq{"m.user_id": userID.String()})
}

// List returns every application when status is empty.
func (r *managerRepository) List(ctx context.Context, status entity.ManagerStatus) ([]*entity.Manager, error) {
	b := psql.Select(managerColumns...).From("managers m").OrderBy("m.created_at DESC")
	if status != "" {
		b = b.Where(sq.Eq{"m.status": string(status)})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build manager list: %w", err)
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list managers", zap.Error(err))
		return nil, fmt.Errorf("list managers: %w", err)
	}
	defer rows.Close()

	var managers []*entity.Manager
	for rows.Next() {
		m, err := scanManager(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manager row: %w", err)
		}
		managers = append(managers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate manager rows: %w", err)
	}
	return managers, nil
}

func (r *managerRepository) Approve(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE managers SET status = 'approved', approved_at = $2, updated_at = NOW() WHERE id = $1 AND status = 'pending'`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to approve manager", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("approve manager %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("approve manager %s: %w", id.String(), ErrStaleState)
	}
	return nil
}

// Delete removes a pending application. Bindings go with it through ON DELETE CASCADE.
func (r *managerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM managers WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		r.log.Error("Failed to delete manager", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("delete manager %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete manager %s: %w", id.String(), ErrStaleState)
	}
	return nil
}
