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
	"github.com/abastoflow/abastoflow/internal/domain/pos"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

// ReceiptGenerator genera el comprobante PDF de una venta.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, commerce *entity.Profile, sale *entity.Sale, items []entity.SaleItem) ([]byte, error)
}

// SaleUseCase checkout del servidor, historial, detalle, baja y comprobante de ventas.
type SaleUseCase struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	profiles repository.ProfileRepository
	checkout *checkout.UseCase
	receipts ReceiptGenerator
}

// NewSaleUseCase construye el caso de uso. El checkout debe resolver el actor con checkout.ContextActor.
func NewSaleUseCase(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	profiles repository.ProfileRepository,
	checkoutUC *checkout.UseCase,
	receipts ReceiptGenerator,
) *SaleUseCase {
	return &SaleUseCase{
		sales:    sales,
		products: products,
		profiles: profiles,
		checkout: checkoutUC,
		receipts: receipts,
	}
}

// Checkout arma el carrito con el stock actual de cada producto y ejecuta la venta en dos pasos.
func (uc *SaleUseCase) Checkout(ctx context.Context, actor checkout.Actor, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if len(in.Items) == 0 {
		return nil, checkout.ErrEmptyCart
	}
	qty := make(map[string]int, len(in.Items))
	order := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		if !domain.ValidID(it.ProductID) || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if _, seen := qty[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		qty[it.ProductID] += it.Quantity
	}

	cart := pos.NewCart()
	for _, id := range order {
		p, err := uc.products.GetByID(ctx, actor.CommerceID, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		if err := cart.Add(*p); err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, domain.ErrInsufficientStock)
		}
		if err := cart.UpdateQuantity(id, qty[id]); err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, domain.ErrInsufficientStock)
		}
	}

	res := uc.checkout.Checkout(checkout.WithActor(ctx, actor), cart, checkout.Payment{
		Method:         entity.PaymentMethod(in.PaymentMethod),
		CustomerName:   in.CustomerName,
		Notes:          in.Notes,
		AmountReceived: in.AmountReceived,
	})
	if !res.OK() {
		if res.Outcome == checkout.OutcomeRejected {
			return nil, res.Err
		}
		return nil, fmt.Errorf("checkout %s (compensado=%t): %w", res.Outcome, res.Compensated, res.Err)
	}
	return &dto.CheckoutResponse{
		SaleID:  res.ID,
		Outcome: res.Outcome.String(),
		Total:   res.Total,
		Profit:  res.Profit,
		Change:  res.Change,
	}, nil
}

// CreateHeader primer paso del checkout remoto: la cabecera con el ID generado por el cliente.
func (uc *SaleUseCase) CreateHeader(ctx context.Context, actor checkout.Actor, in dto.CreateSaleRequest) error {
	method := entity.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return domain.ErrInvalidPayment
	}
	if !domain.ValidID(in.ID) || in.TotalAmount.IsNegative() {
		return domain.ErrInvalidInput
	}
	customer := in.CustomerName
	if customer == "" {
		customer = entity.DefaultCustomerName
	}
	date := in.SaleDate
	if date.IsZero() {
		date = time.Now()
	}
	sale := &entity.Sale{
		ID:            in.ID,
		CommerceID:    actor.CommerceID,
		UserID:        actor.UserID,
		CustomerName:  customer,
		SaleDate:      date,
		TotalAmount:   in.TotalAmount,
		TotalProfit:   in.TotalProfit,
		PaymentMethod: method,
		Notes:         in.Notes,
		CreatedAt:     time.Now(),
	}
	return uc.sales.CreateSale(ctx, sale)
}

// CreateItems segundo paso: el lote de líneas. Cada venta y producto debe ser del comercio.
func (uc *SaleUseCase) CreateItems(ctx context.Context, commerceID string, in dto.CreateSaleItemsRequest) error {
	if len(in.Items) == 0 {
		return domain.ErrInvalidInput
	}
	checked := map[string]bool{}
	items := make([]entity.SaleItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 || it.PricePerItem.IsNegative() || it.CostPerItem.IsNegative() {
			return domain.ErrInvalidInput
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if !domain.ValidIDs(it.ID, it.SaleID, it.ProductID) {
			return domain.ErrInvalidInput
		}
		if err := uc.ensureOwned(ctx, commerceID, it.SaleID, it.ProductID, checked); err != nil {
			return err
		}
		items = append(items, entity.SaleItem{
			ID:           it.ID,
			SaleID:       it.SaleID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			PricePerItem: it.PricePerItem,
			CostPerItem:  it.CostPerItem,
		})
	}
	return uc.sales.CreateSaleItems(ctx, items)
}

func (uc *SaleUseCase) ensureOwned(ctx context.Context, commerceID, saleID, productID string, checked map[string]bool) error {
	if !checked["s:"+saleID] {
		s, err := uc.sales.GetByID(ctx, commerceID, saleID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		checked["s:"+saleID] = true
	}
	if !checked["p:"+productID] {
		p, err := uc.products.GetByID(ctx, commerceID, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		checked["p:"+productID] = true
	}
	return nil
}

// List historial paginado, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, commerceID string, q dto.SaleListQuery) (*dto.SaleListResponse, error) {
	from, to, err := parseRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, err := uc.sales.ListByCommerce(ctx, commerceID, repository.SaleFilter{
		From: from, To: to, Limit: q.Limit, Offset: q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// Get venta con sus líneas.
func (uc *SaleUseCase) Get(ctx context.Context, commerceID, id string) (*dto.SaleDetailResponse, error) {
	sale, items, err := uc.load(ctx, commerceID, id)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleDetailResponse{
		SaleResponse: toSaleResponse(sale),
		Items:        make([]dto.SaleItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			Quantity:     it.Quantity,
			PricePerItem: it.PricePerItem,
			CostPerItem:  it.CostPerItem,
			Subtotal:     it.Subtotal(),
		})
	}
	return out, nil
}

// Delete elimina la venta; el trigger repone el stock de cada línea.
func (uc *SaleUseCase) Delete(ctx context.Context, commerceID, id string) error {
	sale, err := uc.sales.GetByID(ctx, commerceID, id)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	return uc.sales.DeleteSale(ctx, id)
}

// Receipt genera el PDF del comprobante y su nombre de archivo.
func (uc *SaleUseCase) Receipt(ctx context.Context, commerceID, id string) ([]byte, string, error) {
	sale, items, err := uc.load(ctx, commerceID, id)
	if err != nil {
		return nil, "", err
	}
	commerce, err := uc.profiles.GetByID(ctx, commerceID)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: perfil del comercio: %w", err)
	}
	if commerce == nil {
		commerce = &entity.Profile{ID: commerceID}
	}
	pdf, err := uc.receipts.GenerateSaleReceipt(ctx, commerce, sale, items)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("recibo-%s.pdf", shortID(sale.ID)), nil
}

func (uc *SaleUseCase) load(ctx context.Context, commerceID, id string) (*entity.Sale, []entity.SaleItem, error) {
	sale, err := uc.sales.GetByID(ctx, commerceID, id)
	if err != nil {
		return nil, nil, err
	}
	if sale == nil {
		return nil, nil, domain.ErrNotFound
	}
	items, err := uc.sales.ListItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sale, items, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		CustomerName:  s.CustomerName,
		SaleDate:      s.SaleDate,
		TotalAmount:   s.TotalAmount,
		TotalProfit:   s.TotalProfit,
		PaymentMethod: string(s.PaymentMethod),
		Notes:         s.Notes,
	}
}
