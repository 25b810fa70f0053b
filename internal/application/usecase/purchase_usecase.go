package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abastoflow/abastoflow/internal/application/checkout"
	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

// PurchaseUseCase registro, historial, detalle y baja de compras a proveedor.
type PurchaseUseCase struct {
	purchases repository.PurchaseRepository
	products  repository.ProductRepository
	checkout  *checkout.UseCase
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(purchases repository.PurchaseRepository, products repository.ProductRepository, checkoutUC *checkout.UseCase) *PurchaseUseCase {
	return &PurchaseUseCase{purchases: purchases, products: products, checkout: checkoutUC}
}

// Register registra la compra completa (cabecera + líneas) con compensación.
func (uc *PurchaseUseCase) Register(ctx context.Context, actor checkout.Actor, in dto.RegisterPurchaseRequest) (*dto.RegisterPurchaseResponse, error) {
	var date time.Time
	if in.PurchaseDate != "" {
		d, err := time.ParseInLocation(dateLayout, in.PurchaseDate, time.Now().Location())
		if err != nil {
			return nil, fmt.Errorf("purchase_date inválido: %w", domain.ErrInvalidInput)
		}
		date = d
	}
	lines := make([]checkout.PurchaseLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if !domain.ValidID(l.ProductID) {
			return nil, fmt.Errorf("product_id %q: %w", l.ProductID, domain.ErrInvalidInput)
		}
		p, err := uc.products.GetByID(ctx, actor.CommerceID, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("producto %s: %w", l.ProductID, domain.ErrNotFound)
		}
		lines = append(lines, checkout.PurchaseLine{ProductID: l.ProductID, Quantity: l.Quantity, Cost: l.Cost})
	}

	res := uc.checkout.RegisterPurchase(checkout.WithActor(ctx, actor), checkout.PurchaseInput{
		SupplierName: in.SupplierName,
		Date:         date,
		Notes:        in.Notes,
		Lines:        lines,
	})
	if !res.OK() {
		if res.Outcome == checkout.OutcomeRejected {
			return nil, res.Err
		}
		return nil, fmt.Errorf("compra %s (compensado=%t): %w", res.Outcome, res.Compensated, res.Err)
	}
	return &dto.RegisterPurchaseResponse{
		PurchaseID: res.ID,
		Outcome:    res.Outcome.String(),
		TotalCost:  res.Total,
	}, nil
}

// CreateHeader primer paso remoto de una compra.
func (uc *PurchaseUseCase) CreateHeader(ctx context.Context, actor checkout.Actor, in dto.CreatePurchaseRequest) error {
	if !domain.ValidID(in.ID) || in.TotalCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	date := in.PurchaseDate
	if date.IsZero() {
		date = time.Now()
	}
	return uc.purchases.CreatePurchase(ctx, &entity.Purchase{
		ID:           in.ID,
		CommerceID:   actor.CommerceID,
		UserID:       actor.UserID,
		SupplierName: in.SupplierName,
		PurchaseDate: date,
		TotalCost:    in.TotalCost,
		Notes:        in.Notes,
		CreatedAt:    time.Now(),
	})
}

// CreateItems segundo paso remoto: el lote de líneas; compras y productos deben ser del comercio.
func (uc *PurchaseUseCase) CreateItems(ctx context.Context, commerceID string, in dto.CreatePurchaseItemsRequest) error {
	if len(in.Items) == 0 {
		return domain.ErrInvalidInput
	}
	seen := map[string]bool{}
	items := make([]entity.PurchaseItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 || it.CostPerItem.IsNegative() {
			return domain.ErrInvalidInput
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if !domain.ValidIDs(it.ID, it.PurchaseID, it.ProductID) {
			return domain.ErrInvalidInput
		}
		if !seen[it.PurchaseID] {
			p, err := uc.purchases.GetByID(ctx, commerceID, it.PurchaseID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			seen[it.PurchaseID] = true
		}
		if !seen[it.ProductID] {
			p, err := uc.products.GetByID(ctx, commerceID, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			seen[it.ProductID] = true
		}
		items = append(items, entity.PurchaseItem{
			ID:          it.ID,
			PurchaseID:  it.PurchaseID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			CostPerItem: it.CostPerItem,
		})
	}
	return uc.purchases.CreatePurchaseItems(ctx, items)
}

// List historial paginado de compras.
func (uc *PurchaseUseCase) List(ctx context.Context, commerceID string, page dto.PageRequest) (*dto.PurchaseListResponse, error) {
	page.DefaultPage()
	list, err := uc.purchases.ListByCommerce(ctx, commerceID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Get compra con sus líneas.
func (uc *PurchaseUseCase) Get(ctx context.Context, commerceID, id string) (*dto.PurchaseDetailResponse, error) {
	p, err := uc.purchases.GetByID(ctx, commerceID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.purchases.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseDetailResponse{
		PurchaseResponse: toPurchaseResponse(p),
		Items:            make([]dto.PurchaseItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.PurchaseItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			CostPerItem: it.CostPerItem,
		})
	}
	return out, nil
}

// Delete elimina la compra; el trigger descuenta el stock que había sumado.
func (uc *PurchaseUseCase) Delete(ctx context.Context, commerceID, id string) error {
	p, err := uc.purchases.GetByID(ctx, commerceID, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return uc.purchases.DeletePurchase(ctx, id)
}

func toPurchaseResponse(p *entity.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		SupplierName: p.SupplierName,
		PurchaseDate: p.PurchaseDate,
		TotalCost:    p.TotalCost,
		Notes:        p.Notes,
	}
}
