package orders

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/MohamedInamulHasan/homly-api/internal/domain"
)

// Repository is the persistence boundary for orders. Missing rows come back as
// nil rather than errors; handlers map them to 404.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, user_id, ship_name, ship_street, ship_city, ship_state, ship_zip,
	ship_country, ship_mobile, payment_type, payment_last4, subtotal, shipping, tax,
	discount, total, status, scheduled_delivery, delivered_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	var userID sql.NullString
	if order.UserID != "" {
		userID = sql.NullString{String: order.UserID, Valid: true}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (id, user_id, ship_name, ship_street, ship_city, ship_state,
			ship_zip, ship_country, ship_mobile, payment_type, payment_last4, subtotal,
			shipping, tax, discount, total, status, scheduled_delivery, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW(), NOW())
		RETURNING created_at, updated_at
	`, order.ID, userID, order.ShippingAddress.Name, order.ShippingAddress.Street,
		order.ShippingAddress.City, order.ShippingAddress.State, order.ShippingAddress.Zip,
		order.ShippingAddress.Country, order.ShippingAddress.Mobile, order.Payment.Type,
		order.Payment.Last4, order.Subtotal, order.Shipping, order.Tax, order.Discount,
		order.Total, order.Status, order.ScheduledDelivery,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, line := range order.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, title, unit_price, quantity, image, store_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, uuid.NewString(), order.ID, line.ProductID, line.Title, line.UnitPrice,
			line.Quantity, line.Image, line.StoreID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id)

	order, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, title, unit_price, quantity, image, store_id
		FROM order_items
		WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ProductID, &line.Title, &line.UnitPrice,
			&line.Quantity, &line.Image, &line.StoreID); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order item rows: %w", err)
	}

	return order, nil
}

func (r *repository) List(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC
	`)
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		order.Lines = []domain.OrderLine{}
		orderMap[order.ID] = order
		orderIDs = append(orderIDs, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order rows: %w", err)
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, title, unit_price, quantity, image, store_id
		FROM order_items
		WHERE order_id = ANY($1)
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID string
		var line domain.OrderLine
		if err := itemRows.Scan(&orderID, &line.ProductID, &line.Title, &line.UnitPrice,
			&line.Quantity, &line.Image, &line.StoreID); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		orderMap[orderID].Lines = append(orderMap[orderID].Lines, line)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("order item rows: %w", err)
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}
	return orders, nil
}

// UpdateStatus applies the transition only when the stored status still equals
// from, so two concurrent updates cannot both win. Entering Delivered stamps
// delivered_at once.
func (r *repository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $3,
			delivered_at = CASE WHEN $3 = 'Delivered' AND delivered_at IS NULL THEN NOW() ELSE delivered_at END,
			updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete order: %w", err)
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

func scanOrder(row scanner) (*domain.Order, error) {
	var (
		order       domain.Order
		userID      sql.NullString
		scheduled   sql.NullTime
		deliveredAt sql.NullTime
	)

	err := row.Scan(&order.ID, &userID, &order.ShippingAddress.Name,
		&order.ShippingAddress.Street, &order.ShippingAddress.City,
		&order.ShippingAddress.State, &order.ShippingAddress.Zip,
		&order.ShippingAddress.Country, &order.ShippingAddress.Mobile,
		&order.Payment.Type, &order.Payment.Last4, &order.Subtotal, &order.Shipping,
		&order.Tax, &order.Discount, &order.Total, &order.Status,
		&scheduled, &deliveredAt, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		order.UserID = userID.String
	}
	if scheduled.Valid {
		order.ScheduledDelivery = &scheduled.Time
	}
	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}
	return &order, nil
}
