package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, commerce_id, category_id, name, sku, description, sale_price, purchase_cost,
	current_stock, min_stock_alert, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var sku *string
	if err := row.Scan(&p.ID, &p.CommerceID, &p.CategoryID, &p.Name, &sku, &p.Description, &p.SalePrice,
		&p.PurchaseCost, &p.CurrentStock, &p.MinStockAlert, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.SKU = derefString(sku)
	return &p, nil
}

// Create persiste un nuevo producto. SKU vacío se guarda como NULL (no participa del índice único).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.CommerceID, p.CategoryID, p.Name, nullString(p.SKU), p.Description, p.SalePrice,
		p.PurchaseCost, p.CurrentStock, p.MinStockAlert, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del comercio; nil si no existe o es de otro comercio.
func (r *ProductRepo) GetByID(ctx context.Context, commerceID, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE commerce_id = $1 AND id = $2`, commerceID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update edición manual, incluido el stock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET category_id = $3, name = $4, sku = $5, description = $6, sale_price = $7,
		       purchase_cost = $8, current_stock = $9, min_stock_alert = $10, updated_at = $11
		WHERE commerce_id = $1 AND id = $2`,
		p.CommerceID, p.ID, p.CategoryID, p.Name, nullString(p.SKU), p.Description, p.SalePrice,
		p.PurchaseCost, p.CurrentStock, p.MinStockAlert, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) || isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCommerce lista productos por nombre con paginación.
func (r *ProductRepo) ListByCommerce(ctx context.Context, commerceID string, limit, offset int) ([]*entity.Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+` FROM products WHERE commerce_id = $1
		ORDER BY name ASC LIMIT $2 OFFSET $3`, commerceID, pageLimit(limit), offset)
}

// ListLowStock productos con alerta configurada y stock en o bajo el umbral.
func (r *ProductRepo) ListLowStock(ctx context.Context, commerceID string, limit int) ([]*entity.Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE commerce_id = $1 AND min_stock_alert > 0 AND current_stock <= min_stock_alert
		ORDER BY current_stock ASC, name ASC LIMIT $2`, commerceID, pageLimit(limit))
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un producto del comercio.
func (r *ProductRepo) Delete(ctx context.Context, commerceID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE commerce_id = $1 AND id = $2`, commerceID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
