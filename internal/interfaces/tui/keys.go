package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap atajos de la terminal de caja.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Focus key.Binding // productos ↔ carrito; en el login, email ↔ contraseña
	Enter key.Binding
	Back  key.Binding

	Filter key.Binding
	Inc    key.Binding
	Dec    key.Binding
	Remove key.Binding
	Pay    key.Binding
	Reload key.Binding

	// Método de pago en el diálogo de cobro.
	PrevMethod key.Binding
	NextMethod key.Binding

	Sales   key.Binding
	Refresh key.Binding
	Logout  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap atajos por defecto: flechas y equivalentes estilo vim.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "subir"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "bajar"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "cambiar panel"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "aceptar"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancelar"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "buscar"),
	),
	Inc: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "más"),
	),
	Dec: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "menos"),
	),
	Remove: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "quitar"),
	),
	Pay: key.NewBinding(
		key.WithKeys("c", "f2"),
		key.WithHelp("c", "cobrar"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "recargar"),
	),
	PrevMethod: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "método"),
	),
	NextMethod: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "método"),
	),
	Sales: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "punto de venta"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "revisar aprobación"),
	),
	Logout: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("C-x", "cerrar sesión"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "salir"),
	),
}
