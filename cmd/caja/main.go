// Command caja es la terminal de punto de venta. Habla con la API por HTTP y decide
// qué pantalla mostrar con la misma tabla de guardias que el servidor.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/abastoflow/abastoflow/internal/application/checkout"
	"github.com/abastoflow/abastoflow/internal/application/session"
	"github.com/abastoflow/abastoflow/internal/infrastructure/remote"
	"github.com/abastoflow/abastoflow/internal/interfaces/tui"
	"github.com/abastoflow/abastoflow/pkg/config"
	"github.com/abastoflow/abastoflow/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "caja:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}

	apiURL := pflag.String("api-url", cfg.Caja.APIURL, "URL base de la API")
	timeout := pflag.Duration("timeout", cfg.Caja.Timeout, "tiempo máximo de cada llamada a la API")
	logPath := pflag.String("log-file", "caja.log", "archivo de log; la terminal ocupa la salida estándar")
	level := pflag.String("log-level", "info", "nivel de log: debug, info, warn, error")
	pflag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("abrir log: %w", err)
	}
	defer logFile.Close()

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   *level,
		Output:  logFile,
		Service: "caja",
	})
	zl := log.Zerolog()
	log.Info().Str("api", *apiURL).Msg("iniciando caja")

	client := remote.NewClient(*apiURL, *timeout, zl)
	store := session.NewStore(client, client, zl)

	// El actor del checkout es la sesión vigente: quién cobra y para qué comercio.
	actors := checkout.ActorFunc(func(context.Context) (*checkout.Actor, error) {
		st := store.State()
		if st.Identity == nil {
			return nil, nil
		}
		a := &checkout.Actor{UserID: st.Identity.ID}
		if st.Profile != nil {
			a.CommerceID = st.Profile.CommerceID
		}
		return a, nil
	})
	checkoutUC := checkout.NewUseCase(client, client, actors, zl)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store.Start(ctx)
	defer store.Close()

	model := tui.NewModel(tui.Deps{
		Session:  store,
		Auth:     client,
		Catalog:  client,
		Checkout: checkoutUC,
		Reports:  client,
		Timeout:  *timeout,
	})
	defer model.Close()

	_, runErr := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	// Revoca el token al salir; el error remoto solo se registra.
	if client.Token() != "" {
		outCtx, outCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := store.SignOut(outCtx); err != nil {
			log.Warn().Err(err).Msg("cierre de sesión al salir")
		}
		outCancel()
	}
	log.Info().Msg("caja detenida")

	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return nil
}
