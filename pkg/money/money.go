// Package money formatea importes en pesos mexicanos para recibos y la terminal de caja.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency moneda de todos los importes del sistema.
var Currency = currency.MXN

var printer = message.NewPrinter(language.MustParse("es-MX"))

// Format devuelve el importe con símbolo, separador de miles y dos decimales: $1,234.50.
func Format(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	return sign + printer.Sprintf("$%v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatCode igual que Format con el código ISO al final: $35.00 MXN.
func FormatCode(d decimal.Decimal) string {
	return Format(d) + " " + Currency.String()
}

// Percent formatea un porcentaje con un decimal: 42.5%.
func Percent(d decimal.Decimal) string {
	f, _ := d.Round(1).Float64()
	return printer.Sprintf("%v%%", number.Decimal(f, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
}
