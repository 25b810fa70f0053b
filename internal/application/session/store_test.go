package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abastoflow/abastoflow/internal/application/session"
	"github.com/abastoflow/abastoflow/internal/domain/access"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeAuth struct {
	events     chan session.Event
	signOutErr error
}

func newFakeAuth() *fakeAuth { return &fakeAuth{events: make(chan session.Event)} }

func (f *fakeAuth) Sessions(context.Context) <-chan session.Event { return f.events }
func (f *fakeAuth) SignOut(context.Context) error                 { return f.signOutErr }

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]*entity.Profile
	err      error
	// gates bloquea GetProfile para un ID hasta que se cierre el canal.
	gates map[string]chan struct{}
}

func (f *fakeProfiles) GetProfile(ctx context.Context, id string) (*entity.Profile, error) {
	f.mu.Lock()
	gate := f.gates[id]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[id], nil
}

func identity(id string) *entity.Identity {
	return &entity.Identity{ID: id, Email: id + "@abasto.mx"}
}

// waitFor lee estados hasta que cond se cumple o vence el plazo.
func waitFor(t *testing.T, ch <-chan access.AuthState, cond func(access.AuthState) bool) access.AuthState {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st, ok := <-ch:
			require.True(t, ok, "watch cerrado antes de tiempo")
			if cond(st) {
				return st
			}
		case <-deadline:
			t.Fatal("timeout esperando estado")
			return access.AuthState{}
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestStore_ArrancaCargando(t *testing.T) {
	store := session.NewStore(newFakeAuth(), &fakeProfiles{}, zerolog.Nop())
	assert.True(t, store.State().Loading)
}

func TestStore_SesionEstablecidaCargaPerfil(t *testing.T) {
	auth := newFakeAuth()
	profiles := &fakeProfiles{profiles: map[string]*entity.Profile{
		"u1": {ID: "u1", Role: entity.RoleCajero},
	}}
	store := session.NewStore(auth, profiles, zerolog.Nop())
	ch, stop := store.Watch()
	defer stop()
	store.Start(context.Background())
	defer store.Close()

	auth.events <- session.Event{Identity: identity("u1")}
	st := waitFor(t, ch, func(s access.AuthState) bool { return !s.Loading && s.Identity != nil })

	require.NotNil(t, st.Profile)
	assert.Equal(t, entity.RoleCajero, st.Profile.Role)
}

func TestStore_FalloDePerfilQuedaSinPerfil(t *testing.T) {
	auth := newFakeAuth()
	store := session.NewStore(auth, &fakeProfiles{err: errors.New("red caída")}, zerolog.Nop())
	ch, stop := store.Watch()
	defer stop()
	store.Start(context.Background())
	defer store.Close()

	auth.events <- session.Event{Identity: identity("u1")}
	st := waitFor(t, ch, func(s access.AuthState) bool { return !s.Loading && s.Identity != nil })

	assert.Nil(t, st.Profile)
	// sin perfil ningún guard asume rol
	assert.Equal(t, access.RedirectTo(access.PathPendingApproval), access.Resolve(st, "/dashboard"))
}

func TestStore_SesionCerrada(t *testing.T) {
	auth := newFakeAuth()
	profiles := &fakeProfiles{profiles: map[string]*entity.Profile{"u1": {ID: "u1", Role: entity.RoleAprobado}}}
	store := session.NewStore(auth, profiles, zerolog.Nop())
	ch, stop := store.Watch()
	defer stop()
	store.Start(context.Background())
	defer store.Close()

	auth.events <- session.Event{Identity: identity("u1")}
	waitFor(t, ch, func(s access.AuthState) bool { return !s.Loading && s.Profile != nil })

	auth.events <- session.Event{}
	st := waitFor(t, ch, func(s access.AuthState) bool { return s.Identity == nil })
	assert.Equal(t, access.AuthState{}, st)
}

func TestStore_SignOutLimpiaAunqueFalleRemoto(t *testing.T) {
	auth := newFakeAuth()
	auth.signOutErr = errors.New("503")
	profiles := &fakeProfiles{profiles: map[string]*entity.Profile{"u1": {ID: "u1", Role: entity.RoleAdmin}}}
	store := session.NewStore(auth, profiles, zerolog.Nop())
	ch, stop := store.Watch()
	defer stop()
	store.Start(context.Background())
	defer store.Close()

	auth.events <- session.Event{Identity: identity("u1")}
	waitFor(t, ch, func(s access.AuthState) bool { return s.Profile != nil })

	err := store.SignOut(context.Background())
	assert.Error(t, err)

	st := store.State()
	assert.Nil(t, st.Identity)
	assert.Nil(t, st.Profile)
	assert.False(t, st.Loading)

	id, err := store.CurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Nil(t, id)
}

// Un perfil que llega después de que la identidad cambió no debe aplicarse.
func TestStore_DescartaPerfilObsoleto(t *testing.T) {
	auth := newFakeAuth()
	gate := make(chan struct{})
	profiles := &fakeProfiles{
		profiles: map[string]*entity.Profile{
			"viejo": {ID: "viejo", Role: entity.RoleAdmin},
			"nuevo": {ID: "nuevo", Role: entity.RoleCajero},
		},
		gates: map[string]chan struct{}{"viejo": gate},
	}
	store := session.NewStore(auth, profiles, zerolog.Nop())
	ch, stop := store.Watch()
	defer stop()
	store.Start(context.Background())
	defer store.Close()

	auth.events <- session.Event{Identity: identity("viejo")}
	auth.events <- session.Event{Identity: identity("nuevo")}
	waitFor(t, ch, func(s access.AuthState) bool {
		return !s.Loading && s.Identity != nil && s.Identity.ID == "nuevo"
	})

	close(gate)
	// dar tiempo al fetch obsoleto para completar
	time.Sleep(50 * time.Millisecond)

	st := store.State()
	require.NotNil(t, st.Profile)
	assert.Equal(t, "nuevo", st.Identity.ID)
	assert.Equal(t, entity.RoleCajero, st.Profile.Role)
}

func TestStore_RefreshProfile(t *testing.T) {
	auth := newFakeAuth()
	profiles := &fakeProfiles{profiles: map[string]*entity.Profile{"u1": {ID: "u1", FullName: "Ana", Role: entity.RoleAprobado}}}
	store := session.NewStore(auth, profiles, zerolog.Nop())
	ch, stop := store.Watch()
	defer stop()
	store.Start(context.Background())
	defer store.Close()

	auth.events <- session.Event{Identity: identity("u1")}
	waitFor(t, ch, func(s access.AuthState) bool { return s.Profile != nil })

	profiles.mu.Lock()
	profiles.profiles["u1"] = &entity.Profile{ID: "u1", FullName: "Ana María", Role: entity.RoleAprobado}
	profiles.mu.Unlock()

	require.NoError(t, store.RefreshProfile(context.Background()))
	assert.Equal(t, "Ana María", store.State().Profile.FullName)
}

func TestStore_CloseCierraWatchers(t *testing.T) {
	store := session.NewStore(newFakeAuth(), &fakeProfiles{}, zerolog.Nop())
	ch, _ := store.Watch()
	store.Start(context.Background())

	<-ch // estado inicial
	store.Close()
	_, ok := <-ch
	assert.False(t, ok)
}
