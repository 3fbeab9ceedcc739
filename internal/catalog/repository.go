package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/MohamedInamulHasan/homly-api/internal/domain"
)

// Repository is the persistence boundary for the product catalog.
type Repository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ListFilter narrows the catalog listing; zero values mean no filtering.
type ListFilter struct {
	Category string
	Featured *bool
	StoreID  string
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, title, description, price, category, image, images, stock,
	unit, featured, store_id, created_at, updated_at`

func (r *repository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (id, title, description, price, category, image, images,
			stock, unit, featured, store_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`, product.ID, product.Title, product.Description, product.Price, product.Category,
		product.Image, pq.Array(product.Images), product.Stock, product.Unit,
		product.Featured, nullable(product.StoreID),
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	return product, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var (
		conditions []string
		args       []any
	)

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, "category = $"+strconv.Itoa(len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		conditions = append(conditions, "featured = $"+strconv.Itoa(len(args)))
	}
	if filter.StoreID != "" {
		args = append(args, filter.StoreID)
		conditions = append(conditions, "store_id = $"+strconv.Itoa(len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY title"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("product rows: %w", err)
	}
	return products, nil
}

func (r *repository) Update(ctx context.Context, product *domain.Product) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET title = $2, description = $3, price = $4, category = $5, image = $6,
			images = $7, stock = $8, unit = $9, featured = $10, store_id = $11,
			updated_at = NOW()
		WHERE id = $1
	`, product.ID, product.Title, product.Description, product.Price, product.Category,
		product.Image, pq.Array(product.Images), product.Stock, product.Unit,
		product.Featured, nullable(product.StoreID))
	if err != nil {
		return false, fmt.Errorf("update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*domain.Product, error) {
	var (
		product domain.Product
		storeID sql.NullString
	)

	err := row.Scan(&product.ID, &product.Title, &product.Description, &product.Price,
		&product.Category, &product.Image, pq.Array(&product.Images), &product.Stock,
		&product.Unit, &product.Featured, &storeID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if storeID.Valid {
		product.StoreID = storeID.String
	}
	return &product, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
