package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abastoflow/abastoflow/internal/domain"
)

type loginForm struct {
	email    textinput.Model
	password textinput.Model
	onPass   bool
	busy     bool
	err      error
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "correo@comercio.mx"
	email.CharLimit = 254
	email.Prompt = "Email:      "

	password := textinput.New()
	password.Placeholder = "contraseña"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Prompt = "Contraseña: "

	return loginForm{email: email, password: password}
}

func (f *loginForm) focus() tea.Cmd {
	if f.onPass {
		f.email.Blur()
		return f.password.Focus()
	}
	f.password.Blur()
	return f.email.Focus()
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Focus):
		m.login.onPass = !m.login.onPass
		return m, m.login.focus()
	case key.Matches(msg, m.keys.Enter):
		if !m.login.onPass {
			m.login.onPass = true
			return m, m.login.focus()
		}
		return m.submitLogin()
	}

	var cmd tea.Cmd
	if m.login.onPass {
		m.login.password, cmd = m.login.password.Update(msg)
	} else {
		m.login.email, cmd = m.login.email.Update(msg)
	}
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.login.email.Value())
	password := m.login.password.Value()
	if email == "" || password == "" {
		m.login.err = errors.New("email y contraseña son requeridos")
		return m, nil
	}
	m.login.busy, m.login.err = true, nil
	return m, func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		_, err := m.deps.Auth.SignIn(ctx, email, password)
		return signInDoneMsg{err: err}
	}
}

func (f loginForm) view(admin bool) string {
	var b strings.Builder
	if admin {
		b.WriteString(titleStyle.Render("Acceso de administración") + "\n\n")
	} else {
		b.WriteString(titleStyle.Render("Iniciar sesión") + "\n\n")
	}
	b.WriteString(f.email.View() + "\n")
	b.WriteString(f.password.View() + "\n\n")
	switch {
	case f.busy:
		b.WriteString(mutedStyle.Render("Verificando…"))
	case errors.Is(f.err, domain.ErrUnauthorized):
		b.WriteString(errorStyle.Render("Credenciales inválidas"))
	case f.err != nil:
		b.WriteString(errorStyle.Render(f.err.Error()))
	default:
		b.WriteString(mutedStyle.Render("tab cambiar campo · enter continuar · C-c salir"))
	}
	return b.String()
}
