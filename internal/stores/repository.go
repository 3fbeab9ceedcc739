package stores

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MohamedInamulHasan/homly-api/internal/domain"
)

// Repository is the persistence boundary for the store directory.
type Repository interface {
	Create(ctx context.Context, store *domain.Store) error
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Store, error)
	Update(ctx context.Context, store *domain.Store) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const storeColumns = `id, name, location, category, timing, mobile, password_hash,
	is_active, created_at, updated_at`

func (r *repository) Create(ctx context.Context, store *domain.Store) error {
	if store.ID == "" {
		store.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO stores (id, name, location, category, timing, mobile, password_hash,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`, store.ID, store.Name, store.Location, store.Category, store.Timing,
		store.Mobile, store.PasswordHash, store.IsActive,
	).Scan(&store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	var store domain.Store
	err := r.db.QueryRowContext(ctx, `
		SELECT `+storeColumns+`
		FROM stores
		WHERE id = $1
	`, id).Scan(&store.ID, &store.Name, &store.Location, &store.Category, &store.Timing,
		&store.Mobile, &store.PasswordHash, &store.IsActive, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("select store: %w", err)
	}
	return &store, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]domain.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select stores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stores := []domain.Store{}
	for rows.Next() {
		var store domain.Store
		if err := rows.Scan(&store.ID, &store.Name, &store.Location, &store.Category,
			&store.Timing, &store.Mobile, &store.PasswordHash, &store.IsActive,
			&store.CreatedAt, &store.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store rows: %w", err)
	}
	return stores, nil
}

func (r *repository) Update(ctx context.Context, store *domain.Store) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE stores
		SET name = $2, location = $3, category = $4, timing = $5, mobile = $6,
			password_hash = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
	`, store.ID, store.Name, store.Location, store.Category, store.Timing,
		store.Mobile, store.PasswordHash, store.IsActive)
	if err != nil {
		return false, fmt.Errorf("update store: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete store: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
