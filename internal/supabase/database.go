package supabase

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/hemaperikala/is-it-ready/internal/models"
)

const orderColumns = `id, shop_id, customer_name, customer_phone, items, measurements,
		price, advance_payment, delivery_date, notes, status, created_at`

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID, &order.ShopID, &order.CustomerName, &order.CustomerPhone,
		&order.Items, &order.Measurements, &order.Price, &order.AdvancePayment,
		&order.DeliveryDate, &order.Notes, &order.Status, &order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// InsertOrder persists a new order; id and created_at are assigned by the
// store and returned on the row.
func (d *DatabaseClient) InsertOrder(order models.Order) (*models.Order, error) {
	row := d.db.QueryRow(`
		INSERT INTO orders (shop_id, customer_name, customer_phone, items, measurements,
			price, advance_payment, delivery_date, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+orderColumns+`
	`, order.ShopID, order.CustomerName, order.CustomerPhone, order.Items, order.Measurements,
		order.Price, order.AdvancePayment, order.DeliveryDate, order.Notes, order.Status)

	created, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}
	return created, nil
}

func (d *DatabaseClient) GetOrder(orderID, shopID uuid.UUID) (*models.Order, error) {
	row := d.db.QueryRow(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND shop_id = $2
	`, orderID, shopID)

	order, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (d *DatabaseClient) ListOrders(shopID uuid.UUID) ([]models.Order, error) {
	rows, err := d.db.Query(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE shop_id = $1
		ORDER BY created_at DESC
	`, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

func (d *DatabaseClient) UpdateOrderStatus(orderID, shopID uuid.UUID, status models.OrderStatus) error {
	_, err := d.db.Exec(`
		UPDATE orders
		SET status = $1
		WHERE id = $2 AND shop_id = $3
	`, status, orderID, shopID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

func (d *DatabaseClient) UpdateOrderDeliveryDate(orderID, shopID uuid.UUID, deliveryDate string) error {
	_, err := d.db.Exec(`
		UPDATE orders
		SET delivery_date = $1
		WHERE id = $2 AND shop_id = $3
	`, deliveryDate, orderID, shopID)
	if err != nil {
		return fmt.Errorf("failed to update delivery date: %w", err)
	}
	return nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
