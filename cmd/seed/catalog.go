package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/abastoflow/abastoflow/internal/application/dto"
)

// Columnas reconocidas del CSV; solo nombre y precio_venta son obligatorias.
const (
	colName     = "nombre"
	colSKU      = "sku"
	colCategory = "categoria"
	colPrice    = "precio_venta"
	colCost     = "costo"
	colStock    = "stock"
	colAlert    = "alerta_stock"
	colDesc     = "descripcion"
)

// catalogRow una fila válida del catálogo.
type catalogRow struct {
	Line     int
	Category string
	Product  dto.CreateProductRequest
}

// rowError error de una fila; la importación sigue con las demás.
type rowError struct {
	Line int
	Err  error
}

func (e rowError) Error() string { return fmt.Sprintf("línea %d: %v", e.Line, e.Err) }

// decodeInput envuelve r según la codificación del archivo. Las hojas exportadas
// desde Excel en Windows suelen venir en Latin-1.
func decodeInput(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación no soportada: %q", encoding)
}

// parseCatalog lee el CSV completo. Devuelve las filas válidas y los errores por fila;
// el error final solo indica un archivo ilegible o sin encabezado.
func parseCatalog(r io.Reader, comma rune) ([]catalogRow, []rowError, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("archivo vacío")
		}
		return nil, nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{colName, colPrice} {
		if _, ok := idx[required]; !ok {
			return nil, nil, fmt.Errorf("falta la columna %q", required)
		}
	}

	var (
		rows []catalogRow
		bad  []rowError
	)
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			bad = append(bad, rowError{Line: line, Err: err})
			continue
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if get(colName) == "" && get(colPrice) == "" {
			continue // fila en blanco
		}
		row, err := parseRow(get)
		if err != nil {
			bad = append(bad, rowError{Line: line, Err: err})
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}
	return rows, bad, nil
}

func parseRow(get func(string) string) (catalogRow, error) {
	name := get(colName)
	if name == "" {
		return catalogRow{}, errors.New("nombre vacío")
	}
	price, err := parseAmount(get(colPrice))
	if err != nil {
		return catalogRow{}, fmt.Errorf("precio_venta: %w", err)
	}
	p := dto.CreateProductRequest{
		Name:        name,
		SKU:         get(colSKU),
		Description: get(colDesc),
		SalePrice:   price,
	}
	if s := get(colCost); s != "" {
		cost, err := parseAmount(s)
		if err != nil {
			return catalogRow{}, fmt.Errorf("costo: %w", err)
		}
		p.PurchaseCost = &cost
	}
	if s := get(colStock); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return catalogRow{}, fmt.Errorf("stock inválido: %q", s)
		}
		p.CurrentStock = n
	}
	if s := get(colAlert); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return catalogRow{}, fmt.Errorf("alerta_stock inválida: %q", s)
		}
		p.MinStockAlert = &n
	}
	return catalogRow{Category: get(colCategory), Product: p}, nil
}

// parseAmount acepta "$1,234.50", "1234.5" o "18".
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if clean == "" {
		return decimal.Zero, errors.New("vacío")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("monto inválido: %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("monto negativo: %q", s)
	}
	return d, nil
}
