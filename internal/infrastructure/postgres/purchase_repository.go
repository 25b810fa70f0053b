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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo compras a proveedor (cabecera + líneas) sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, commerce_id, COALESCE(user_id::TEXT, ''), supplier_name, purchase_date, total_cost, notes, created_at`

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(&p.ID, &p.CommerceID, &p.UserID, &p.SupplierName, &p.PurchaseDate, &p.TotalCost, &p.Notes, &p.CreatedAt)
	return &p, err
}

func (r *PurchaseRepo) CreatePurchase(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (id, commerce_id, user_id, supplier_name, purchase_date, total_cost, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.CommerceID, nullString(p.UserID), p.SupplierName, p.PurchaseDate, p.TotalCost, p.Notes, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreatePurchaseItems inserta todas las líneas en una sentencia; el trigger suma el stock.
func (r *PurchaseRepo) CreatePurchaseItems(ctx context.Context, items []entity.PurchaseItem) error {
	if len(items) == 0 {
		return domain.ErrInvalidInput
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO purchase_items (id, purchase_id, product_id, quantity, cost_per_item) VALUES `)
	args := make([]any, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, it.ID, it.PurchaseID, it.ProductID, it.Quantity, it.CostPerItem)
	}
	if _, err := r.q.Exec(ctx, sb.String(), args...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert purchase items: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert purchase items: %w", err)
	}
	return nil
}

// DeletePurchase borra la compra; si el stock ya se vendió el trigger la rechaza (ErrInsufficientStock).
func (r *PurchaseRepo) DeletePurchase(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id); err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("delete purchase: %w", domain.ErrInsufficientStock)
		}
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, commerceID, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE commerce_id = $1 AND id = $2`, commerceID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

func (r *PurchaseRepo) ListItems(ctx context.Context, purchaseID string) ([]entity.PurchaseItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT pi.id, pi.purchase_id, pi.product_id, COALESCE(p.name, ''), pi.quantity, pi.cost_per_item
		FROM purchase_items pi
		LEFT JOIN products p ON p.id = pi.product_id
		WHERE pi.purchase_id = $1
		ORDER BY p.name`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var items []entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.ProductName, &it.Quantity, &it.CostPerItem); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PurchaseRepo) ListByCommerce(ctx context.Context, commerceID string, limit, offset int) ([]*entity.Purchase, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+purchaseColumns+` FROM purchases WHERE commerce_id = $1
		ORDER BY purchase_date DESC LIMIT $2 OFFSET $3`,
		commerceID, pageLimit(limit), offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
