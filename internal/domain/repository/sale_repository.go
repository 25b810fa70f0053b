package repository

import (
	"context"
	"time"

	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// SaleFilter filtros del historial de ventas. Fechas cero = sin límite.
type SaleFilter struct {
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// SaleRepository define el puerto de persistencia para ventas.
// No existe transacción entre cabecera y líneas: la escritura en dos pasos
// y su compensación las orquesta el caso de uso de checkout.
type SaleRepository interface {
	CreateSale(ctx context.Context, sale *entity.Sale) error
	// CreateSaleItems inserta todas las líneas en una sola sentencia multi-fila.
	CreateSaleItems(ctx context.Context, items []entity.SaleItem) error
	DeleteSale(ctx context.Context, id string) error
	GetByID(ctx context.Context, commerceID, id string) (*entity.Sale, error)
	ListItems(ctx context.Context, saleID string) ([]entity.SaleItem, error)
	ListByCommerce(ctx context.Context, commerceID string, f SaleFilter) ([]*entity.Sale, error)
}
