// Package session mantiene quién está autenticado y con qué perfil.
//
// El Store es un objeto inyectado con ciclo de vida explícito: NewStore → Start → Close.
// Mientras Loading sea true los consumidores no deben decidir por rol.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/abastoflow/abastoflow/internal/domain/access"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// Event cambio de sesión emitido por el proveedor de autenticación.
// Identity nil significa sesión cerrada (sign-out o token expirado).
type Event struct {
	Identity *entity.Identity
}

// AuthProvider proveedor de autenticación remoto.
type AuthProvider interface {
	// Sessions emite la sesión actual y cada cambio posterior; se cierra al cancelar ctx.
	Sessions(ctx context.Context) <-chan Event
	SignOut(ctx context.Context) error
}

// ProfileLoader obtiene el perfil de una identidad.
type ProfileLoader interface {
	GetProfile(ctx context.Context, identityID string) (*entity.Profile, error)
}

// Store fuente única de verdad sobre la sesión del cliente.
type Store struct {
	auth     AuthProvider
	profiles ProfileLoader
	log      zerolog.Logger

	mu    sync.RWMutex
	state access.AuthState
	// gen se incrementa con cada cambio de identidad; un fetch de perfil emitido
	// para una generación anterior se descarta.
	gen      uint64
	watchers map[int]chan access.AuthState
	nextID   int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStore crea un store en estado de carga.
func NewStore(auth AuthProvider, profiles ProfileLoader, log zerolog.Logger) *Store {
	return &Store{
		auth:     auth,
		profiles: profiles,
		log:      log,
		state:    access.AuthState{Loading: true},
		watchers: make(map[int]chan access.AuthState),
	}
}

// Start se suscribe al stream de sesiones del proveedor. Llamar una sola vez.
func (s *Store) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	events := s.auth.Sessions(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				s.apply(ctx, ev)
			}
		}
	}()
}

func (s *Store) apply(ctx context.Context, ev Event) {
	if ev.Identity == nil {
		s.clear()
		return
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.state = access.AuthState{Loading: true, Identity: ev.Identity}
	s.broadcastLocked()
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loadProfile(ctx, gen, ev.Identity.ID)
	}()
}

func (s *Store) loadProfile(ctx context.Context, gen uint64, identityID string) error {
	profile, err := s.profiles.GetProfile(ctx, identityID)
	if err != nil {
		s.log.Warn().Err(err).Str("identity_id", identityID).Msg("no se pudo cargar el perfil")
		profile = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.Debug().Str("identity_id", identityID).Msg("perfil descartado: la sesión cambió")
		return err
	}
	s.state = access.AuthState{Identity: s.state.Identity, Profile: profile}
	s.broadcastLocked()
	return err
}

func (s *Store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = access.AuthState{}
	s.broadcastLocked()
}

// State devuelve una instantánea del estado actual.
func (s *Store) State() access.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentIdentity identidad autenticada o nil.
func (s *Store) CurrentIdentity(context.Context) (*entity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Identity, nil
}

// SignOut cierra la sesión en el proveedor y limpia el estado local siempre,
// aunque la llamada remota falle. El error remoto se devuelve igualmente.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.auth.SignOut(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("sign-out remoto falló; se limpia la sesión local")
	}
	s.clear()
	return err
}

// RefreshProfile vuelve a leer el perfil de la identidad actual (tras editar el perfil propio).
func (s *Store) RefreshProfile(ctx context.Context) error {
	s.mu.RLock()
	identity, gen := s.state.Identity, s.gen
	s.mu.RUnlock()
	if identity == nil {
		return nil
	}
	return s.loadProfile(ctx, gen, identity.ID)
}

// Watch devuelve un canal que recibe el estado tras cada transición, empezando por el actual.
// El canal conserva solo el último estado si el consumidor se retrasa.
func (s *Store) Watch() (<-chan access.AuthState, func()) {
	ch := make(chan access.AuthState, 1)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	ch <- s.state
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if w, ok := s.watchers[id]; ok {
				delete(s.watchers, id)
				close(w)
			}
		})
	}
}

func (s *Store) broadcastLocked() {
	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- s.state
	}
}

// Close cancela la suscripción, espera a las goroutines y cierra los watchers.
func (s *Store) Close() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.watchers {
		delete(s.watchers, id)
		close(ch)
	}
}
