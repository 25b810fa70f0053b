package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/abastoflow/abastoflow/internal/application/checkout"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/pos"
	"github.com/abastoflow/abastoflow/pkg/money"
)

type posFocus int

const (
	focusProducts posFocus = iota
	focusCart
)

var paymentMethods = []entity.PaymentMethod{
	entity.PaymentEfectivo,
	entity.PaymentTarjeta,
	entity.PaymentTransferencia,
}

// posScreen punto de venta: catálogo filtrable, carrito y diálogo de cobro.
// El carrito vive mientras dure la sesión del operador.
type posScreen struct {
	products  []entity.Product
	visible   []int
	filter    textinput.Model
	filtering bool
	cursor    int

	cart       *pos.Cart
	cartCursor int
	focus      posFocus

	paying   bool
	method   int
	received textinput.Model

	loaded, loading, busy bool

	notice    string
	noticeErr bool
}

func newPOSScreen() posScreen {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "nombre o SKU"

	received := textinput.New()
	received.Prompt = "Recibido: $"
	received.Placeholder = "opcional"
	received.CharLimit = 12

	return posScreen{filter: filter, received: received, cart: pos.NewCart()}
}

func (s *posScreen) setProducts(products []entity.Product) {
	s.products = products
	s.loaded = true
	s.applyFilter()
}

func (s *posScreen) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(s.filter.Value()))
	s.visible = s.visible[:0]
	for i, p := range s.products {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q) {
			s.visible = append(s.visible, i)
		}
	}
	s.cursor = clamp(s.cursor, len(s.visible))
}

func (s *posScreen) selectedProduct() (entity.Product, bool) {
	if len(s.visible) == 0 {
		return entity.Product{}, false
	}
	return s.products[s.visible[s.cursor]], true
}

func (s *posScreen) selectedLine() (pos.LineItem, bool) {
	items := s.cart.Items()
	if len(items) == 0 {
		return pos.LineItem{}, false
	}
	return items[clamp(s.cartCursor, len(items))], true
}

func (s *posScreen) setNotice(msg string, isErr bool) {
	s.notice, s.noticeErr = msg, isErr
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (m Model) updatePOS(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.pos
	if s.busy {
		return m, nil
	}
	if s.paying {
		return m.updatePayment(msg)
	}
	if s.filtering {
		switch {
		case key.Matches(msg, m.keys.Back):
			s.filter.SetValue("")
			s.filtering = false
			s.filter.Blur()
			s.applyFilter()
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			s.filtering = false
			s.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		s.applyFilter()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Filter):
		s.filtering, s.focus = true, focusProducts
		return m, s.filter.Focus()
	case key.Matches(msg, m.keys.Focus):
		if s.focus == focusProducts {
			s.focus = focusCart
		} else {
			s.focus = focusProducts
		}
	case key.Matches(msg, m.keys.Reload):
		if !s.loading {
			s.loading = true
			return m, m.loadProducts()
		}
	case key.Matches(msg, m.keys.Pay):
		if s.cart.IsEmpty() {
			s.setNotice(checkout.ErrEmptyCart.Error(), true)
			return m, nil
		}
		s.paying, s.method = true, 0
		s.received.SetValue("")
		return m, s.received.Focus()
	case key.Matches(msg, m.keys.Up):
		if s.focus == focusProducts {
			s.cursor = clamp(s.cursor-1, len(s.visible))
		} else {
			s.cartCursor = clamp(s.cartCursor-1, s.cart.Len())
		}
	case key.Matches(msg, m.keys.Down):
		if s.focus == focusProducts {
			s.cursor = clamp(s.cursor+1, len(s.visible))
		} else {
			s.cartCursor = clamp(s.cartCursor+1, s.cart.Len())
		}
	case key.Matches(msg, m.keys.Enter) && s.focus == focusProducts:
		if p, ok := s.selectedProduct(); ok {
			if err := s.cart.Add(p); err != nil {
				s.setNotice(p.Name+": "+err.Error(), true)
			} else {
				s.setNotice("", false)
			}
		}
	case key.Matches(msg, m.keys.Inc, m.keys.Dec) && s.focus == focusCart:
		if line, ok := s.selectedLine(); ok {
			n := line.Quantity + 1
			if key.Matches(msg, m.keys.Dec) {
				n = line.Quantity - 1
			}
			if err := s.cart.UpdateQuantity(line.ProductID, n); err != nil {
				s.setNotice(line.Name+": "+err.Error(), true)
			}
			s.cartCursor = clamp(s.cartCursor, s.cart.Len())
		}
	case key.Matches(msg, m.keys.Remove) && s.focus == focusCart:
		if line, ok := s.selectedLine(); ok {
			_ = s.cart.Remove(line.ProductID)
			s.cartCursor = clamp(s.cartCursor, s.cart.Len())
		}
	}
	return m, nil
}

func (m Model) updatePayment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.pos
	switch {
	case key.Matches(msg, m.keys.Back):
		s.paying = false
		s.received.Blur()
		return m, nil
	case key.Matches(msg, m.keys.PrevMethod):
		s.method = (s.method + len(paymentMethods) - 1) % len(paymentMethods)
		return m, nil
	case key.Matches(msg, m.keys.NextMethod):
		s.method = (s.method + 1) % len(paymentMethods)
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		p, err := s.payment()
		if err != nil {
			s.setNotice(err.Error(), true)
			return m, nil
		}
		s.busy = true
		s.setNotice("", false)
		return m, m.checkout(s.cart, p)
	}
	if paymentMethods[s.method] != entity.PaymentEfectivo {
		return m, nil
	}
	var cmd tea.Cmd
	s.received, cmd = s.received.Update(msg)
	return m, cmd
}

// payment arma el pago; el monto recibido solo cuenta en efectivo.
func (s *posScreen) payment() (checkout.Payment, error) {
	p := checkout.Payment{Method: paymentMethods[s.method]}
	raw := strings.TrimSpace(strings.ReplaceAll(s.received.Value(), ",", ""))
	if p.Method != entity.PaymentEfectivo || raw == "" {
		return p, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		return p, errors.New("monto recibido inválido")
	}
	p.AmountReceived = &amount
	return p, nil
}

func (m Model) checkout(cart *pos.Cart, p checkout.Payment) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		return checkoutDoneMsg{res: m.deps.Checkout.Checkout(ctx, cart, p)}
	}
}

func (m Model) afterCheckout(res checkout.Result) (tea.Model, tea.Cmd) {
	s := &m.pos
	s.busy = false
	if res.OK() {
		s.paying = false
		s.received.Blur()
		s.cartCursor = 0
		msg := "Venta registrada · total " + money.Format(res.Total)
		if res.Change.IsPositive() {
			msg += " · cambio " + money.Format(res.Change)
		}
		s.setNotice(msg, false)
		// el resumen del tablero ya no refleja el día
		m.summary.loaded = false
		// el stock cambió: se recarga el catálogo
		s.loading = true
		return m, m.loadProducts()
	}

	// el carrito queda intacto para reintentar
	switch res.Outcome {
	case checkout.OutcomeItemsFailed:
		if res.Compensated {
			s.setNotice("la venta se revirtió: "+describeCheckoutErr(res.Err), true)
		} else {
			s.setNotice(fmt.Sprintf("la venta %s quedó incompleta y no se pudo revertir: %s", res.ID, describeCheckoutErr(res.Err)), true)
		}
	case checkout.OutcomeHeaderFailed:
		s.setNotice("no se registró la venta: "+describeCheckoutErr(res.Err), true)
	default:
		s.paying = false
		s.setNotice(describeCheckoutErr(res.Err), true)
	}
	return m, nil
}

func describeCheckoutErr(err error) string {
	switch {
	case err == nil:
		return "error desconocido"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "stock insuficiente; recarga el catálogo (r)"
	case errors.Is(err, domain.ErrUnauthorized):
		return "la sesión expiró"
	}
	return err.Error()
}

func (s posScreen) view(keys KeyMap) string {
	if s.busy {
		return mutedStyle.Render("Procesando cobro…")
	}
	if !s.loaded {
		if s.loading {
			return mutedStyle.Render("Cargando catálogo…")
		}
		if s.notice != "" {
			return errorStyle.Render(s.notice) + "\n" + mutedStyle.Render("r reintentar")
		}
	}

	products := panel(s.focus == focusProducts).Width(48).Render(s.productsView())
	cart := panel(s.focus == focusCart).Width(44).Render(s.cartView())
	out := lipgloss.JoinHorizontal(lipgloss.Top, products, " ", cart)

	if s.paying {
		out += "\n" + dialogStyle.Render(s.paymentView())
	}
	if s.notice != "" {
		style := okStyle
		if s.noticeErr {
			style = errorStyle
		}
		out += "\n" + style.Render(s.notice)
	}
	out += "\n" + mutedStyle.Render(helpLine(keys.Filter, keys.Enter, keys.Focus, keys.Inc, keys.Dec, keys.Remove, keys.Pay, keys.Reload, keys.Logout))
	return out
}

func (s posScreen) productsView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Productos") + "\n")
	if s.filtering || s.filter.Value() != "" {
		b.WriteString(s.filter.View() + "\n")
	}
	if len(s.visible) == 0 {
		b.WriteString(mutedStyle.Render("sin productos"))
		return b.String()
	}
	for i, idx := range s.visible {
		p := s.products[idx]
		row := fmt.Sprintf("%-26s %10s %5d", truncate(p.Name, 26), money.Format(p.SalePrice), p.CurrentStock)
		switch {
		case i == s.cursor && s.focus == focusProducts:
			row = selectedStyle.Render(row)
		case p.CurrentStock <= 0:
			row = mutedStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s posScreen) cartView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Carrito") + "\n")
	items := s.cart.Items()
	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("vacío"))
		return b.String()
	}
	for i, l := range items {
		row := fmt.Sprintf("%3d × %-22s %11s", l.Quantity, truncate(l.Name, 22), money.Format(l.Subtotal()))
		if i == clamp(s.cartCursor, len(items)) && s.focus == focusCart {
			row = selectedStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}
	b.WriteString("\n" + titleStyle.Render("Total: "+money.Format(s.cart.Total())))
	return b.String()
}

func (s posScreen) paymentView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cobrar "+money.Format(s.cart.Total())) + "\n\n")
	for i, pm := range paymentMethods {
		label := " " + string(pm) + " "
		if i == s.method {
			label = selectedStyle.Render(label)
		}
		b.WriteString(label + " ")
	}
	b.WriteString("\n\n")
	if paymentMethods[s.method] == entity.PaymentEfectivo {
		b.WriteString(s.received.View() + "\n\n")
	}
	b.WriteString(mutedStyle.Render("←/→ método · enter confirmar · esc cancelar"))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
