package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas (cabecera + líneas) sobre PostgreSQL. Cada método es una sentencia;
// la atomicidad entre cabecera y líneas no es responsabilidad del repositorio.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, commerce_id, COALESCE(user_id::TEXT, ''), customer_name, sale_date, total_amount,
	total_profit, payment_method, notes, created_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var method string
	if err := row.Scan(&s.ID, &s.CommerceID, &s.UserID, &s.CustomerName, &s.SaleDate, &s.TotalAmount,
		&s.TotalProfit, &method, &s.Notes, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.PaymentMethod = entity.PaymentMethod(method)
	return &s, nil
}

// CreateSale inserta la cabecera.
func (r *SaleRepo) CreateSale(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, commerce_id, user_id, customer_name, sale_date, total_amount, total_profit, payment_method, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.CommerceID, nullString(s.UserID), s.CustomerName, s.SaleDate, s.TotalAmount, s.TotalProfit,
		string(s.PaymentMethod), s.Notes, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateSaleItems inserta todas las líneas en una sola sentencia multi-fila.
// El trigger descuenta stock; si alguna línea lo dejaría negativo la sentencia completa falla.
func (r *SaleRepo) CreateSaleItems(ctx context.Context, items []entity.SaleItem) error {
	if len(items) == 0 {
		return domain.ErrInvalidInput
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO sale_items (id, sale_id, product_id, quantity, price_per_item, cost_per_item) VALUES `)
	args := make([]any, 0, len(items)*6)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 6
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6)
		args = append(args, it.ID, it.SaleID, it.ProductID, it.Quantity, it.PricePerItem, it.CostPerItem)
	}
	if _, err := r.q.Exec(ctx, sb.String(), args...); err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("insert sale items: %w", domain.ErrInsufficientStock)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert sale items: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert sale items: %w", err)
	}
	return nil
}

// DeleteSale borra la cabecera; las líneas caen en cascada y el trigger repone el stock.
func (r *SaleRepo) DeleteSale(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

// GetByID cabecera de una venta del comercio; nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, commerceID, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE commerce_id = $1 AND id = $2`, commerceID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// ListItems líneas de una venta con el nombre actual del producto.
func (r *SaleRepo) ListItems(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT si.id, si.sale_id, si.product_id, COALESCE(p.name, ''), si.quantity, si.price_per_item, si.cost_per_item
		FROM sale_items si
		LEFT JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = $1
		ORDER BY p.name`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.PricePerItem, &it.CostPerItem); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByCommerce historial de ventas, más recientes primero.
func (r *SaleRepo) ListByCommerce(ctx context.Context, commerceID string, f repository.SaleFilter) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+saleColumns+` FROM sales
		WHERE commerce_id = $1
		  AND ($2::timestamptz IS NULL OR sale_date >= $2)
		  AND ($3::timestamptz IS NULL OR sale_date <  $3)
		ORDER BY sale_date DESC
		LIMIT $4 OFFSET $5`,
		commerceID, nullTime(f.From), nullTime(f.To), pageLimit(f.Limit), f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
