// Package checkout convierte un carrito (o una compra) en la escritura remota de
// cabecera + líneas, con borrado compensatorio si el segundo paso falla.
package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/pos"
)

var (
	ErrEmptyCart           = errors.New("el carrito está vacío")
	ErrInsufficientPayment = errors.New("el monto recibido no cubre el total")
)

// Outcome resultado etiquetado de una escritura en dos pasos.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeRejected no se escribió nada: sin sesión o entrada inválida.
	OutcomeRejected
	// OutcomeHeaderFailed falló la cabecera; no quedó nada escrito.
	OutcomeHeaderFailed
	// OutcomeItemsFailed la cabecera se escribió y las líneas no; ver Compensated.
	OutcomeItemsFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRejected:
		return "rejected"
	case OutcomeHeaderFailed:
		return "header_failed"
	case OutcomeItemsFailed:
		return "items_failed"
	}
	return "unknown"
}

// Result de Checkout o RegisterPurchase. ID es el de la cabecera creada (venta o compra).
type Result struct {
	Outcome         Outcome
	ID              string
	Total           decimal.Decimal
	Profit          decimal.Decimal
	Change          decimal.Decimal
	Compensated     bool
	Err             error
	CompensationErr error
}

// OK indica éxito completo.
func (r Result) OK() bool { return r.Outcome == OutcomeSuccess }

// Actor quién registra la operación y en qué comercio.
type Actor struct {
	UserID     string
	CommerceID string
}

// ActorResolver resuelve la identidad actual; nil sin error significa sin sesión.
type ActorResolver interface {
	CurrentActor(ctx context.Context) (*Actor, error)
}

// ActorFunc adapta una función a ActorResolver.
type ActorFunc func(ctx context.Context) (*Actor, error)

func (f ActorFunc) CurrentActor(ctx context.Context) (*Actor, error) { return f(ctx) }

type actorKey struct{}

// WithActor guarda el actor en el contexto (lado servidor, desde el token).
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ContextActor resolver que lee el actor guardado con WithActor.
var ContextActor ActorResolver = ActorFunc(func(ctx context.Context) (*Actor, error) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || a.UserID == "" {
		return nil, nil
	}
	return &a, nil
})

// SaleWriter escrituras de venta que necesita el checkout.
type SaleWriter interface {
	CreateSale(ctx context.Context, sale *entity.Sale) error
	CreateSaleItems(ctx context.Context, items []entity.SaleItem) error
	DeleteSale(ctx context.Context, id string) error
}

// PurchaseWriter escrituras de compra.
type PurchaseWriter interface {
	CreatePurchase(ctx context.Context, purchase *entity.Purchase) error
	CreatePurchaseItems(ctx context.Context, items []entity.PurchaseItem) error
	DeletePurchase(ctx context.Context, id string) error
}

// Payment datos de cobro capturados en el diálogo de checkout.
type Payment struct {
	Method       entity.PaymentMethod
	CustomerName string
	Notes        string
	// AmountReceived solo aplica a efectivo; nil = no se calcula cambio.
	AmountReceived *decimal.Decimal
}

// UseCase orquesta ventas y compras.
type UseCase struct {
	sales     SaleWriter
	purchases PurchaseWriter
	actors    ActorResolver
	log       zerolog.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(sales SaleWriter, purchases PurchaseWriter, actors ActorResolver, log zerolog.Logger) *UseCase {
	return &UseCase{
		sales:     sales,
		purchases: purchases,
		actors:    actors,
		log:       log.With().Str("component", "checkout").Logger(),
		now:       time.Now,
	}
}

func (uc *UseCase) actor(ctx context.Context) (*Actor, error) {
	a, err := uc.actors.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrUnauthorized
	}
	return a, nil
}

// Checkout registra la venta del carrito. Solo vacía el carrito si ambos pasos se completan;
// en cualquier otro caso el carrito queda intacto para reintentar.
func (uc *UseCase) Checkout(ctx context.Context, cart *pos.Cart, p Payment) Result {
	actor, err := uc.actor(ctx)
	if err != nil {
		return Result{Outcome: OutcomeRejected, Err: err}
	}
	if cart.IsEmpty() {
		return Result{Outcome: OutcomeRejected, Err: ErrEmptyCart}
	}
	if !p.Method.Valid() {
		return Result{Outcome: OutcomeRejected, Err: domain.ErrInvalidPayment}
	}

	total := cart.Total()
	profit := cart.TotalProfit()
	var change decimal.Decimal
	if p.Method == entity.PaymentEfectivo && p.AmountReceived != nil {
		c, ok := pos.Change(total, *p.AmountReceived)
		if !ok {
			return Result{Outcome: OutcomeRejected, Err: ErrInsufficientPayment}
		}
		change = c
	}

	customer := strings.TrimSpace(p.CustomerName)
	if customer == "" {
		customer = entity.DefaultCustomerName
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		CommerceID:    actor.CommerceID,
		UserID:        actor.UserID,
		CustomerName:  customer,
		SaleDate:      now,
		TotalAmount:   total,
		TotalProfit:   profit,
		PaymentMethod: p.Method,
		Notes:         strings.TrimSpace(p.Notes),
		CreatedAt:     now,
	}
	lines := cart.Items()
	items := make([]entity.SaleItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, entity.SaleItem{
			ID:           uuid.New().String(),
			SaleID:       sale.ID,
			ProductID:    l.ProductID,
			ProductName:  l.Name,
			Quantity:     l.Quantity,
			PricePerItem: l.UnitPrice,
			CostPerItem:  l.UnitCost,
		})
	}

	res := twoStep{
		kind:   "sale",
		id:     sale.ID,
		header: func(ctx context.Context) error { return uc.sales.CreateSale(ctx, sale) },
		items:  func(ctx context.Context) error { return uc.sales.CreateSaleItems(ctx, items) },
		undo:   func(ctx context.Context) error { return uc.sales.DeleteSale(ctx, sale.ID) },
	}.run(ctx, uc.log)

	res.Total, res.Profit = total, profit
	if res.OK() {
		res.Change = change
		cart.Clear()
		uc.log.Info().Str("sale_id", sale.ID).Str("total", total.StringFixed(2)).Int("items", len(items)).Msg("venta registrada")
	}
	return res
}

// PurchaseLine línea de compra.
type PurchaseLine struct {
	ProductID string
	Quantity  int
	Cost      decimal.Decimal
}

// PurchaseInput entrada de RegisterPurchase. Date cero = ahora.
type PurchaseInput struct {
	SupplierName string
	Date         time.Time
	Notes        string
	Lines        []PurchaseLine
}

// RegisterPurchase registra una compra a proveedor con el mismo protocolo que Checkout.
// Total = Σ cantidad × costo.
func (uc *UseCase) RegisterPurchase(ctx context.Context, in PurchaseInput) Result {
	actor, err := uc.actor(ctx)
	if err != nil {
		return Result{Outcome: OutcomeRejected, Err: err}
	}
	if len(in.Lines) == 0 {
		return Result{Outcome: OutcomeRejected, Err: domain.ErrInvalidInput}
	}

	now := uc.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	purchase := &entity.Purchase{
		ID:           uuid.New().String(),
		CommerceID:   actor.CommerceID,
		UserID:       actor.UserID,
		SupplierName: strings.TrimSpace(in.SupplierName),
		PurchaseDate: date,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
	}

	total := decimal.Zero
	items := make([]entity.PurchaseItem, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || l.Quantity <= 0 || l.Cost.IsNegative() {
			return Result{Outcome: OutcomeRejected, Err: domain.ErrInvalidInput}
		}
		total = total.Add(l.Cost.Mul(decimal.NewFromInt(int64(l.Quantity))))
		items = append(items, entity.PurchaseItem{
			ID:          uuid.New().String(),
			PurchaseID:  purchase.ID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			CostPerItem: l.Cost,
		})
	}
	purchase.TotalCost = total

	res := twoStep{
		kind:   "purchase",
		id:     purchase.ID,
		header: func(ctx context.Context) error { return uc.purchases.CreatePurchase(ctx, purchase) },
		items:  func(ctx context.Context) error { return uc.purchases.CreatePurchaseItems(ctx, items) },
		undo:   func(ctx context.Context) error { return uc.purchases.DeletePurchase(ctx, purchase.ID) },
	}.run(ctx, uc.log)

	res.Total = total
	if res.OK() {
		uc.log.Info().Str("purchase_id", purchase.ID).Str("total", total.StringFixed(2)).Msg("compra registrada")
	}
	return res
}
