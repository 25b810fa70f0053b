package usecase_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abastoflow/abastoflow/internal/application/checkout"
	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/application/usecase"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repos en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memProducts struct {
	byID map[string]*entity.Product
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	for _, e := range m.byID {
		if p.SKU != "" && e.CommerceID == p.CommerceID && e.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	m.byID[p.ID] = p
	return nil
}

func (m *memProducts) GetByID(_ context.Context, commerceID, id string) (*entity.Product, error) {
	p, ok := m.byID[id]
	if !ok || p.CommerceID != commerceID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	m.byID[p.ID] = p
	return nil
}

func (m *memProducts) ListByCommerce(_ context.Context, commerceID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.byID {
		if p.CommerceID == commerceID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memProducts) ListLowStock(ctx context.Context, commerceID string, _ int) ([]*entity.Product, error) {
	all, _ := m.ListByCommerce(ctx, commerceID, 0, 0)
	var out []*entity.Product
	for _, p := range all {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Delete(_ context.Context, commerceID, id string) error {
	p, ok := m.byID[id]
	if !ok || p.CommerceID != commerceID {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// memSales simula además el trigger de stock al insertar líneas.
type memSales struct {
	products *memProducts
	sales    map[string]*entity.Sale
	items    map[string][]entity.SaleItem
	itemsErr error
}

func (m *memSales) CreateSale(_ context.Context, s *entity.Sale) error {
	m.sales[s.ID] = s
	return nil
}

func (m *memSales) CreateSaleItems(_ context.Context, items []entity.SaleItem) error {
	if m.itemsErr != nil {
		return m.itemsErr
	}
	for _, it := range items {
		p := m.products.byID[it.ProductID]
		if p.CurrentStock < it.Quantity {
			return domain.ErrInsufficientStock
		}
	}
	for _, it := range items {
		m.products.byID[it.ProductID].CurrentStock -= it.Quantity
		m.items[it.SaleID] = append(m.items[it.SaleID], it)
	}
	return nil
}

func (m *memSales) DeleteSale(_ context.Context, id string) error {
	for _, it := range m.items[id] {
		m.products.byID[it.ProductID].CurrentStock += it.Quantity
	}
	delete(m.items, id)
	delete(m.sales, id)
	return nil
}

func (m *memSales) GetByID(_ context.Context, commerceID, id string) (*entity.Sale, error) {
	s, ok := m.sales[id]
	if !ok || s.CommerceID != commerceID {
		return nil, nil
	}
	return s, nil
}

func (m *memSales) ListItems(_ context.Context, saleID string) ([]entity.SaleItem, error) {
	return m.items[saleID], nil
}

func (m *memSales) ListByCommerce(_ context.Context, commerceID string, _ repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range m.sales {
		if s.CommerceID == commerceID {
			out = append(out, s)
		}
	}
	return out, nil
}

type memPurchases struct {
	purchases map[string]*entity.Purchase
	items     map[string][]entity.PurchaseItem
}

func (m *memPurchases) CreatePurchase(_ context.Context, p *entity.Purchase) error {
	m.purchases[p.ID] = p
	return nil
}

func (m *memPurchases) CreatePurchaseItems(_ context.Context, items []entity.PurchaseItem) error {
	for _, it := range items {
		m.items[it.PurchaseID] = append(m.items[it.PurchaseID], it)
	}
	return nil
}

func (m *memPurchases) DeletePurchase(_ context.Context, id string) error {
	delete(m.purchases, id)
	delete(m.items, id)
	return nil
}

func (m *memPurchases) GetByID(_ context.Context, commerceID, id string) (*entity.Purchase, error) {
	p, ok := m.purchases[id]
	if !ok || p.CommerceID != commerceID {
		return nil, nil
	}
	return p, nil
}

func (m *memPurchases) ListItems(_ context.Context, id string) ([]entity.PurchaseItem, error) {
	return m.items[id], nil
}

func (m *memPurchases) ListByCommerce(context.Context, string, int, int) ([]*entity.Purchase, error) {
	return nil, nil
}

type memProfiles struct{ byID map[string]*entity.Profile }

func (m *memProfiles) Create(_ context.Context, p *entity.Profile) error {
	m.byID[p.ID] = p
	return nil
}
func (m *memProfiles) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	return m.byID[id], nil
}
func (m *memProfiles) Update(_ context.Context, p *entity.Profile) error {
	m.byID[p.ID] = p
	return nil
}
func (m *memProfiles) UpdateRole(context.Context, string, entity.Role) error     { return nil }
func (m *memProfiles) List(context.Context, int, int) ([]*entity.Profile, error) { return nil, nil }

type fakeReceipts struct {
	commerce *entity.Profile
	items    int
}

func (f *fakeReceipts) GenerateSaleReceipt(_ context.Context, c *entity.Profile, _ *entity.Sale, items []entity.SaleItem) ([]byte, error) {
	f.commerce, f.items = c, len(items)
	return []byte("%PDF-1.3"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const commerce = "jefe-1"

const (
	pArroz  = "00000000-0000-0000-0000-00000000a001"
	pFrijol = "00000000-0000-0000-0000-00000000a002"
	pAjeno  = "00000000-0000-0000-0000-00000000a003"
	saleID1 = "00000000-0000-0000-0000-00000000b001"
	saleID2 = "00000000-0000-0000-0000-00000000b002"
	itemID1 = "00000000-0000-0000-0000-00000000c001"
)

var actor = checkout.Actor{UserID: "cajero-1", CommerceID: commerce}

type fixture struct {
	products  *memProducts
	sales     *memSales
	purchases *memPurchases
	receipts  *fakeReceipts
	saleUC    *usecase.SaleUseCase
	purchUC   *usecase.PurchaseUseCase
}

func newFixture() *fixture {
	cost4, cost2 := decimal.NewFromInt(4), decimal.NewFromInt(2)
	products := &memProducts{byID: map[string]*entity.Product{
		pArroz:  {ID: pArroz, CommerceID: commerce, Name: "Arroz", SalePrice: decimal.NewFromInt(10), PurchaseCost: &cost4, CurrentStock: 5},
		pFrijol: {ID: pFrijol, CommerceID: commerce, Name: "Frijol", SalePrice: decimal.NewFromInt(5), PurchaseCost: &cost2, CurrentStock: 3},
		pAjeno:  {ID: pAjeno, CommerceID: "otro", Name: "Ajeno", SalePrice: decimal.NewFromInt(1), CurrentStock: 10},
	}}
	sales := &memSales{products: products, sales: map[string]*entity.Sale{}, items: map[string][]entity.SaleItem{}}
	purchases := &memPurchases{purchases: map[string]*entity.Purchase{}, items: map[string][]entity.PurchaseItem{}}
	profiles := &memProfiles{byID: map[string]*entity.Profile{
		commerce: {ID: commerce, CommerceName: "Abarrotes Lupita", CommerceID: commerce, Role: entity.RoleAprobado},
	}}
	receipts := &fakeReceipts{}
	co := checkout.NewUseCase(sales, purchases, checkout.ContextActor, zerolog.Nop())
	return &fixture{
		products:  products,
		sales:     sales,
		purchases: purchases,
		receipts:  receipts,
		saleUC:    usecase.NewSaleUseCase(sales, products, profiles, co, receipts),
		purchUC:   usecase.NewPurchaseUseCase(purchases, products, co),
	}
}

// ─── Checkout del servidor ────────────────────────────────────────────────────

func TestSaleCheckout_TotalesYStock(t *testing.T) {
	f := newFixture()
	received := decimal.NewFromInt(50)

	out, err := f.saleUC.Checkout(context.Background(), actor, dto.CheckoutRequest{
		Items: []dto.CheckoutItem{
			{ProductID: pArroz, Quantity: 1},
			{ProductID: pFrijol, Quantity: 3},
			{ProductID: pArroz, Quantity: 1},
		},
		PaymentMethod:  "efectivo",
		AmountReceived: &received,
	})
	require.NoError(t, err)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(35)), "total = %s", out.Total)
	assert.True(t, out.Profit.Equal(decimal.NewFromInt(21)), "profit = %s", out.Profit)
	assert.True(t, out.Change.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "success", out.Outcome)

	assert.Equal(t, 3, f.products.byID[pArroz].CurrentStock)
	assert.Equal(t, 0, f.products.byID[pFrijol].CurrentStock)
	require.Contains(t, f.sales.sales, out.SaleID)
	assert.Equal(t, entity.DefaultCustomerName, f.sales.sales[out.SaleID].CustomerName)
	assert.Equal(t, "cajero-1", f.sales.sales[out.SaleID].UserID)
}

func TestSaleCheckout_ExcedeStockNoEscribe(t *testing.T) {
	f := newFixture()

	_, err := f.saleUC.Checkout(context.Background(), actor, dto.CheckoutRequest{
		Items:         []dto.CheckoutItem{{ProductID: pFrijol, Quantity: 4}},
		PaymentMethod: "tarjeta",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, f.sales.sales)
}

func TestSaleCheckout_ProductoDeOtroComercio(t *testing.T) {
	f := newFixture()

	_, err := f.saleUC.Checkout(context.Background(), actor, dto.CheckoutRequest{
		Items:         []dto.CheckoutItem{{ProductID: pAjeno, Quantity: 1}},
		PaymentMethod: "tarjeta",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaleCheckout_RechazosDeValidacion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.saleUC.Checkout(ctx, actor, dto.CheckoutRequest{PaymentMethod: "efectivo"})
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)

	_, err = f.saleUC.Checkout(ctx, actor, dto.CheckoutRequest{
		Items:         []dto.CheckoutItem{{ProductID: pArroz, Quantity: 1}},
		PaymentMethod: "vales",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)

	poco := decimal.NewFromInt(1)
	_, err = f.saleUC.Checkout(ctx, actor, dto.CheckoutRequest{
		Items:          []dto.CheckoutItem{{ProductID: pArroz, Quantity: 1}},
		PaymentMethod:  "efectivo",
		AmountReceived: &poco,
	})
	assert.ErrorIs(t, err, checkout.ErrInsufficientPayment)
	assert.Empty(t, f.sales.sales)
}

func TestSaleCheckout_FallaLineasCompensa(t *testing.T) {
	f := newFixture()
	f.sales.itemsErr = errors.New("conexión perdida")

	_, err := f.saleUC.Checkout(context.Background(), actor, dto.CheckoutRequest{
		Items:         []dto.CheckoutItem{{ProductID: pArroz, Quantity: 2}},
		PaymentMethod: "transferencia",
	})
	require.Error(t, err)
	assert.Empty(t, f.sales.sales, "la cabecera se borra al fallar las líneas")
	assert.Equal(t, 5, f.products.byID[pArroz].CurrentStock)
}

// ─── Primitivas remotas ───────────────────────────────────────────────────────

func TestSaleCreateItems_ValidaPropiedad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.saleUC.CreateHeader(ctx, actor, dto.CreateSaleRequest{
		ID: saleID1, TotalAmount: decimal.NewFromInt(10), PaymentMethod: "efectivo",
	}))
	assert.Equal(t, entity.DefaultCustomerName, f.sales.sales[saleID1].CustomerName)
	assert.False(t, f.sales.sales[saleID1].SaleDate.IsZero())

	err := f.saleUC.CreateItems(ctx, commerce, dto.CreateSaleItemsRequest{Items: []dto.SaleItemRequest{
		{SaleID: saleID1, ProductID: pAjeno, Quantity: 1},
	}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.saleUC.CreateItems(ctx, "otro", dto.CreateSaleItemsRequest{Items: []dto.SaleItemRequest{
		{SaleID: saleID1, ProductID: pAjeno, Quantity: 1},
	}})
	assert.ErrorIs(t, err, domain.ErrNotFound, "la venta es de otro comercio")

	require.NoError(t, f.saleUC.CreateItems(ctx, commerce, dto.CreateSaleItemsRequest{Items: []dto.SaleItemRequest{
		{ID: itemID1, SaleID: saleID1, ProductID: pArroz, Quantity: 1, PricePerItem: decimal.NewFromInt(10)},
	}}))
	assert.Equal(t, 4, f.products.byID[pArroz].CurrentStock)

	err = f.saleUC.CreateHeader(ctx, actor, dto.CreateSaleRequest{ID: saleID2, PaymentMethod: "cheque"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)
}

func TestPrimitivasRemotas_IDsMalformados(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.saleUC.CreateHeader(ctx, actor, dto.CreateSaleRequest{ID: "venta-1", PaymentMethod: "efectivo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.sales.sales)

	require.NoError(t, f.saleUC.CreateHeader(ctx, actor, dto.CreateSaleRequest{ID: saleID1, PaymentMethod: "efectivo"}))
	err = f.saleUC.CreateItems(ctx, commerce, dto.CreateSaleItemsRequest{Items: []dto.SaleItemRequest{
		{SaleID: saleID1, ProductID: "arroz", Quantity: 1},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = f.saleUC.CreateItems(ctx, commerce, dto.CreateSaleItemsRequest{Items: []dto.SaleItemRequest{
		{ID: "1", SaleID: saleID1, ProductID: pArroz, Quantity: 1},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// sin ID de línea se genera uno
	require.NoError(t, f.saleUC.CreateItems(ctx, commerce, dto.CreateSaleItemsRequest{Items: []dto.SaleItemRequest{
		{SaleID: saleID1, ProductID: pArroz, Quantity: 1},
	}}))
	require.Len(t, f.sales.items[saleID1], 1)
	assert.Len(t, f.sales.items[saleID1][0].ID, 36)

	_, err = f.saleUC.Checkout(ctx, actor, dto.CheckoutRequest{
		Items:         []dto.CheckoutItem{{ProductID: "no-es-uuid", Quantity: 1}},
		PaymentMethod: "efectivo",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = f.purchUC.CreateHeader(ctx, actor, dto.CreatePurchaseRequest{ID: "compra-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.purchUC.Register(ctx, actor, dto.RegisterPurchaseRequest{
		Lines: []dto.PurchaseLineRequest{{ProductID: "arroz", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Historial, detalle, baja y recibo ────────────────────────────────────────

func TestSaleDetalleBajaYRecibo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	out, err := f.saleUC.Checkout(ctx, actor, dto.CheckoutRequest{
		Items:         []dto.CheckoutItem{{ProductID: pArroz, Quantity: 2}},
		PaymentMethod: "tarjeta",
		CustomerName:  "Doña Mari",
	})
	require.NoError(t, err)

	detail, err := f.saleUC.Get(ctx, commerce, out.SaleID)
	require.NoError(t, err)
	assert.Equal(t, "Doña Mari", detail.CustomerName)
	require.Len(t, detail.Items, 1)
	assert.True(t, detail.Items[0].Subtotal.Equal(decimal.NewFromInt(20)))

	pdf, name, err := f.saleUC.Receipt(ctx, commerce, out.SaleID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "recibo-"+out.SaleID[:8]+".pdf", name)
	assert.Equal(t, "Abarrotes Lupita", f.receipts.commerce.CommerceName)
	assert.Equal(t, 1, f.receipts.items)

	_, err = f.saleUC.Get(ctx, "otro", out.SaleID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.saleUC.Delete(ctx, "otro", out.SaleID), domain.ErrNotFound)

	require.NoError(t, f.saleUC.Delete(ctx, commerce, out.SaleID))
	assert.Equal(t, 5, f.products.byID[pArroz].CurrentStock, "la baja repone el stock")
}

func TestSaleList_FechasInvalidas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.saleUC.List(ctx, commerce, dto.SaleListQuery{StartDate: "14/05/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.saleUC.List(ctx, commerce, dto.SaleListQuery{StartDate: "2026-05-10", EndDate: "2026-05-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := f.saleUC.List(ctx, commerce, dto.SaleListQuery{StartDate: "2026-05-01", EndDate: "2026-05-01"})
	require.NoError(t, err)
	assert.Equal(t, 50, out.Page.Limit)
}

// ─── Compras ──────────────────────────────────────────────────────────────────

func TestPurchaseRegister(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	out, err := f.purchUC.Register(ctx, actor, dto.RegisterPurchaseRequest{
		SupplierName: "La Central",
		PurchaseDate: "2026-05-14",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: pArroz, Quantity: 10, Cost: decimal.NewFromInt(4)},
			{ProductID: pFrijol, Quantity: 5, Cost: decimal.RequireFromString("2.5")},
		},
	})
	require.NoError(t, err)
	assert.True(t, out.TotalCost.Equal(decimal.RequireFromString("52.5")))
	require.Contains(t, f.purchases.purchases, out.PurchaseID)
	assert.Equal(t, 14, f.purchases.purchases[out.PurchaseID].PurchaseDate.Day())

	detail, err := f.purchUC.Get(ctx, commerce, out.PurchaseID)
	require.NoError(t, err)
	assert.Len(t, detail.Items, 2)

	_, err = f.purchUC.Register(ctx, actor, dto.RegisterPurchaseRequest{PurchaseDate: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.purchUC.Register(ctx, actor, dto.RegisterPurchaseRequest{
		Lines: []dto.PurchaseLineRequest{{ProductID: pAjeno, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.purchUC.Register(ctx, actor, dto.RegisterPurchaseRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.purchUC.Delete(ctx, commerce, out.PurchaseID))
	assert.ErrorIs(t, f.purchUC.Delete(ctx, commerce, out.PurchaseID), domain.ErrNotFound)
}

// ─── Productos ────────────────────────────────────────────────────────────────

func TestProductCreateYUpdate(t *testing.T) {
	products := &memProducts{byID: map[string]*entity.Product{}}
	uc := usecase.NewProductUseCase(products)
	ctx := context.Background()
	alert := 5
	blank := " "

	p, err := uc.Create(ctx, commerce, dto.CreateProductRequest{
		Name: " Aceite 1L ", SKU: "ACE-1", SalePrice: decimal.NewFromInt(38), CurrentStock: 3,
		MinStockAlert: &alert, CategoryID: &blank,
	})
	require.NoError(t, err)
	assert.Equal(t, "Aceite 1L", p.Name)
	assert.Nil(t, p.CategoryID)
	assert.True(t, p.LowStock)

	_, err = uc.Create(ctx, commerce, dto.CreateProductRequest{Name: "Otro", SKU: "ACE-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, commerce, dto.CreateProductRequest{Name: "Negativo", SalePrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stock := 20
	upd, err := uc.Update(ctx, commerce, p.ID, dto.UpdateProductRequest{CurrentStock: &stock})
	require.NoError(t, err)
	assert.False(t, upd.LowStock)

	neg := -3
	_, err = uc.Update(ctx, commerce, p.ID, dto.UpdateProductRequest{CurrentStock: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing, err := uc.Update(ctx, "otro", p.ID, dto.UpdateProductRequest{CurrentStock: &stock})
	require.NoError(t, err)
	assert.Nil(t, missing)

	low, err := uc.ListLowStock(ctx, commerce)
	require.NoError(t, err)
	assert.Empty(t, low)

	bad := "abarrotes"
	_, err = uc.Create(ctx, commerce, dto.CreateProductRequest{Name: "Sal", SalePrice: decimal.NewFromInt(9), CategoryID: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la categoría debe ser un UUID")
	_, err = uc.Update(ctx, commerce, p.ID, dto.UpdateProductRequest{CategoryID: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Proveedores ──────────────────────────────────────────────────────────────

type memSuppliers struct{ byID map[string]*entity.Supplier }

func (m *memSuppliers) Create(_ context.Context, s *entity.Supplier) error {
	m.byID[s.ID] = s
	return nil
}
func (m *memSuppliers) GetByID(_ context.Context, commerceID, id string) (*entity.Supplier, error) {
	s, ok := m.byID[id]
	if !ok || s.CommerceID != commerceID {
		return nil, nil
	}
	return s, nil
}
func (m *memSuppliers) Update(_ context.Context, s *entity.Supplier) error {
	m.byID[s.ID] = s
	return nil
}
func (m *memSuppliers) ListByCommerce(context.Context, string) ([]*entity.Supplier, error) {
	return nil, nil
}
func (m *memSuppliers) Delete(context.Context, string, string) error { return nil }

func TestSupplierValidaEmail(t *testing.T) {
	uc := usecase.NewSupplierUseCase(&memSuppliers{byID: map[string]*entity.Supplier{}})
	ctx := context.Background()

	_, err := uc.Create(ctx, commerce, dto.SupplierRequest{Name: "Bimbo", Email: "no-es-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	s, err := uc.Create(ctx, commerce, dto.SupplierRequest{Name: " Bimbo ", Email: "Ventas@Bimbo.MX"})
	require.NoError(t, err)
	assert.Equal(t, "Bimbo", s.Name)
	assert.Equal(t, "ventas@bimbo.mx", s.Email)

	_, err = uc.Update(ctx, "otro", s.ID, dto.SupplierRequest{Name: "Bimbo"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
