// Package tui es la terminal de caja: login, espera de aprobación y punto de venta.
//
// Qué pantalla se muestra lo decide access.Resolve con el estado del Session Store,
// la misma tabla de guardias que aplica la API.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abastoflow/abastoflow/internal/application/checkout"
	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/domain/access"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/pos"
)

// Session lo que la terminal usa del Session Store.
type Session interface {
	Watch() (<-chan access.AuthState, func())
	SignOut(ctx context.Context) error
	RefreshProfile(ctx context.Context) error
}

// Authenticator inicia sesión contra la API.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*dto.LoginResponse, error)
}

// Catalog lectura del catálogo del comercio.
type Catalog interface {
	ListProducts(ctx context.Context, limit, offset int) ([]entity.Product, error)
}

// Reporter agregados del tablero del comercio.
type Reporter interface {
	Reports(ctx context.Context) (*dto.ReportsDTO, error)
}

// Checkouter cobro del carrito.
type Checkouter interface {
	Checkout(ctx context.Context, cart *pos.Cart, p checkout.Payment) checkout.Result
}

// Deps dependencias de la terminal. Timeout acota cada llamada remota.
type Deps struct {
	Session  Session
	Auth     Authenticator
	Catalog  Catalog
	Checkout Checkouter
	Reports  Reporter
	Timeout  time.Duration
}

// catalogPage tamaño de la página del catálogo que carga la caja.
const catalogPage = 500

type (
	stateMsg struct {
		state access.AuthState
		ok    bool
	}
	signInDoneMsg  struct{ err error }
	signOutDoneMsg struct{ err error }
	refreshDoneMsg struct{ err error }
	productsMsg    struct {
		products []entity.Product
		err      error
	}
	checkoutDoneMsg struct{ res checkout.Result }
	reportsMsg      struct {
		reports *dto.ReportsDTO
		err     error
	}
)

// Model modelo raíz de bubbletea.
type Model struct {
	deps Deps
	keys KeyMap

	states <-chan access.AuthState
	stop   func()

	state    access.AuthState
	path     string
	decision access.Decision

	login   loginForm
	pos     posScreen
	summary summaryPanel

	notice string
	err    error
	width  int
}

// NewModel se suscribe al store; llamar a Close al terminar el programa.
func NewModel(deps Deps) Model {
	if deps.Timeout <= 0 {
		deps.Timeout = 15 * time.Second
	}
	states, stop := deps.Session.Watch()
	m := Model{
		deps:   deps,
		keys:   DefaultKeyMap,
		states: states,
		stop:   stop,
		state:  access.AuthState{Loading: true},
		login:  newLoginForm(),
		pos:    newPOSScreen(),
	}
	m.login.focus()
	m.navigate(access.PathLogin)
	return m
}

// Close cancela la suscripción al store.
func (m Model) Close() {
	if m.stop != nil {
		m.stop()
	}
}

// Init implementa tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(listenForState(m.states), textinput.Blink)
}

// listenForState espera el siguiente estado del store.
func listenForState(ch <-chan access.AuthState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		return stateMsg{state: s, ok: ok}
	}
}

func (m Model) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.deps.Timeout)
}

// navigate aplica la guardia de path. Un destino de redirección siempre se renderiza
// para el mismo estado, así que basta un salto.
func (m *Model) navigate(path string) {
	m.path = access.Normalize(path)
	d := access.Resolve(m.state, m.path)
	if d.Action == access.ActionRedirect {
		m.path = d.Target
		d = access.Resolve(m.state, m.path)
	}
	m.decision = d
}

// Path ruta actual, para pruebas y el título.
func (m Model) Path() string { return m.path }

// Decision decisión de la guardia para la ruta actual.
func (m Model) Decision() access.Decision { return m.decision }

// enter prepara la pantalla recién resuelta.
func (m *Model) enter() tea.Cmd {
	switch {
	case m.decision.Action != access.ActionRender:
		return nil
	case m.path == access.PathSales && !m.pos.loaded && !m.pos.loading:
		m.pos.loading = true
		return m.loadProducts()
	case m.path == access.PathDashboard && !m.summary.loaded && !m.summary.loading:
		return m.loadSummary()
	case isLoginPath(m.path):
		return m.login.focus()
	}
	return nil
}

func isLoginPath(p string) bool {
	switch p {
	case access.PathRoot, access.PathLogin, access.PathRegister, access.PathAdminLogin:
		return true
	}
	return false
}

// Update implementa tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case stateMsg:
		if !msg.ok {
			return m, tea.Quit
		}
		prevIdentity := m.state.Identity
		m.state = msg.state
		if prevIdentity != nil && msg.state.Identity == nil {
			// la sesión se cerró: el carrito no pasa al siguiente operador
			m.pos = newPOSScreen()
			m.login = newLoginForm()
			m.summary = summaryPanel{}
		}
		m.navigate(m.path)
		cmd := m.enter()
		return m, tea.Batch(listenForState(m.states), cmd)

	case signInDoneMsg:
		m.login.busy = false
		m.login.err = msg.err
		if msg.err == nil {
			m.login.password.SetValue("")
		}
		return m, nil

	case signOutDoneMsg:
		if msg.err != nil {
			m.notice = "sesión cerrada localmente: " + msg.err.Error()
		}
		return m, nil

	case refreshDoneMsg:
		m.err = msg.err
		return m, nil

	case productsMsg:
		m.pos.loading = false
		if msg.err != nil {
			m.pos.notice, m.pos.noticeErr = "no se pudo cargar el catálogo: "+msg.err.Error(), true
			return m, nil
		}
		m.pos.setProducts(msg.products)
		return m, nil

	case checkoutDoneMsg:
		return m.afterCheckout(msg.res)

	case reportsMsg:
		m.summary.loading = false
		m.summary.loaded = true
		m.summary.err = msg.err
		if msg.err == nil {
			m.summary.reports = msg.reports
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Logout) && m.state.Identity != nil {
		return m, m.signOut()
	}
	if m.decision.Action != access.ActionRender {
		return m, nil
	}

	switch {
	case isLoginPath(m.path):
		return m.updateLogin(msg)
	case m.path == access.PathPendingApproval:
		if key.Matches(msg, m.keys.Refresh) {
			return m, m.refreshProfile()
		}
	case m.path == access.PathSales:
		return m.updatePOS(msg)
	case strings.HasPrefix(m.path, access.PathDashboard):
		if key.Matches(msg, m.keys.Sales) {
			m.navigate(access.PathSales)
			cmd := m.enter()
			return m, cmd
		}
		if key.Matches(msg, m.keys.Reload) && m.path == access.PathDashboard && !m.summary.loading {
			cmd := m.loadSummary()
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) signOut() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		return signOutDoneMsg{err: m.deps.Session.SignOut(ctx)}
	}
}

func (m Model) refreshProfile() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		return refreshDoneMsg{err: m.deps.Session.RefreshProfile(ctx)}
	}
}

func (m Model) loadProducts() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		products, err := m.deps.Catalog.ListProducts(ctx, catalogPage, 0)
		return productsMsg{products: products, err: err}
	}
}

// loadSummary marca el panel como cargando; sin Reporter no hay resumen que pedir.
func (m *Model) loadSummary() tea.Cmd {
	if m.deps.Reports == nil {
		return nil
	}
	m.summary.loading = true
	reporter, timeout := m.deps.Reports, m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		r, err := reporter.Reports(ctx)
		return reportsMsg{reports: r, err: err}
	}
}

// View implementa tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch m.decision.Action {
	case access.ActionPlaceholder:
		if m.state.Loading {
			b.WriteString(mutedStyle.Render("Cargando sesión…"))
		} else {
			b.WriteString(errorStyle.Render("Tu cuenta tiene un rol que esta caja no reconoce. Contacta al administrador."))
			b.WriteString("\n" + mutedStyle.Render("C-x cerrar sesión"))
		}
	case access.ActionRender:
		b.WriteString(m.body())
	}

	if m.notice != "" {
		b.WriteString("\n\n" + mutedStyle.Render(m.notice))
	}
	return b.String()
}

func (m Model) header() string {
	title := titleStyle.Render("AbastoFlow · Caja")
	who := ""
	if m.state.Identity != nil {
		who = m.state.Identity.Email
		if p := m.state.Profile; p != nil {
			who += " · " + string(p.Role)
			if p.CommerceName != "" {
				who += " · " + p.CommerceName
			}
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", mutedStyle.Render(who))
}

func (m Model) body() string {
	switch {
	case isLoginPath(m.path):
		return m.login.view(m.path == access.PathAdminLogin)
	case m.path == access.PathPendingApproval:
		return m.pendingView()
	case m.path == access.PathSales:
		return m.pos.view(m.keys)
	case m.path == access.PathAdminDashboard:
		return "La aprobación de cuentas se hace con la API (/api/admin, documentada en /docs).\n\n" +
			mutedStyle.Render("C-x cerrar sesión · C-c salir")
	default:
		return m.dashboardView()
	}
}

func (m Model) pendingView() string {
	var b strings.Builder
	b.WriteString("Tu cuenta está pendiente de aprobación.\n")
	b.WriteString("Un administrador debe revisarla antes de que puedas vender.\n\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n\n")
	}
	b.WriteString(mutedStyle.Render("r revisar aprobación · C-x cerrar sesión · C-c salir"))
	return b.String()
}

func (m Model) dashboardView() string {
	name := ""
	if m.state.Profile != nil {
		name = m.state.Profile.FullName
	}
	var b strings.Builder
	if name != "" {
		b.WriteString("Hola, " + name + ".\n\n")
	}
	if panel := m.summary.view(); panel != "" {
		b.WriteString(panel + "\n")
	}
	b.WriteString("Compras, inventario y proveedores se gestionan con la API (documentada en /docs) o con cmd/seed.\n\n")
	help := "v punto de venta · C-x cerrar sesión · C-c salir"
	if m.deps.Reports != nil {
		help = "v punto de venta · r actualizar resumen · C-x cerrar sesión · C-c salir"
	}
	b.WriteString(mutedStyle.Render(help))
	return b.String()
}
