package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"attendform/internal/domain/form"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

var ErrNotFound = errors.New("form session not found")

// Opener открывает сессию формы; по умолчанию form.Open поверх хранилища.
type Opener func(ctx context.Context, v form.Variant, id string) (form.Session, error)

type Servicer interface {
	Create(ctx context.Context, v form.Variant) (form.Session, error)
	Open(ctx context.Context, v form.Variant, id string) (form.Session, error)
	Get(v form.Variant, id string) (form.Session, error)
	Close(v form.Variant, id string) error
	Record(ctx context.Context, v form.Variant, id string) (any, error)
}

// Manager держит открытые сессии форм и закрывает простаивающие.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry

	open    Opener
	stores  form.Stores
	idleTTL time.Duration
	now     func() time.Time
	log     *slog.Logger
}

type entry struct {
	session  form.Session
	lastUsed time.Time
}

var _ Servicer = (*Manager)(nil)

func NewManager(stores form.Stores, deps form.Deps, idleTTL time.Duration, log *slog.Logger) *Manager {
	if deps.Log == nil {
		deps.Log = log
	}
	return &Manager{
		sessions: make(map[string]*entry),
		open: func(ctx context.Context, v form.Variant, id string) (form.Session, error) {
			return form.Open(ctx, v, stores, id, deps)
		},
		stores:  stores,
		idleTTL: idleTTL,
		now:     time.Now,
		log:     log.With("component", "session_manager"),
	}
}

// Create открывает новую форму под свежим идентификатором.
func (m *Manager) Create(ctx context.Context, v form.Variant) (form.Session, error) {
	return m.Open(ctx, v, uuid.NewString())
}

// Open возвращает живую сессию или поднимает ее из хранилища.
func (m *Manager) Open(ctx context.Context, v form.Variant, id string) (form.Session, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if s, err := m.Get(v, id); err == nil {
		return s, nil
	}

	s, err := m.open(ctx, v, id)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// параллельный Open мог успеть раньше
	if e, ok := m.sessions[s.Key()]; ok {
		s.Close()
		e.lastUsed = m.now()
		return e.session, nil
	}
	m.sessions[s.Key()] = &entry{session: s, lastUsed: m.now()}
	m.log.Debug("session opened", "key", s.Key())
	return s, nil
}

func (m *Manager) Get(v form.Variant, id string) (form.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[v.Key(id)]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastUsed = m.now()
	return e.session, nil
}

func (m *Manager) Close(v form.Variant, id string) error {
	m.mu.Lock()
	e, ok := m.sessions[v.Key(id)]
	delete(m.sessions, v.Key(id))
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	e.session.Close()
	m.log.Debug("session closed", "key", v.Key(id))
	return nil
}

// Record читает сохраненную запись формы, как это делает страница предпросмотра.
func (m *Manager) Record(ctx context.Context, v form.Variant, id string) (any, error) {
	return m.stores.Read(ctx, v, id)
}

// Sweep закрывает сессии, простаивающие дольше idleTTL, и возвращает их число.
func (m *Manager) Sweep() int {
	if m.idleTTL <= 0 {
		return 0
	}

	m.mu.Lock()
	deadline := m.now().Add(-m.idleTTL)
	var idle []form.Session
	for key, e := range m.sessions {
		if e.lastUsed.Before(deadline) {
			idle = append(idle, e.session)
			delete(m.sessions, key)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		m.log.Info("idle sessions closed", "count", len(idle))
	}
	return len(idle)
}

// Run периодически вызывает Sweep, пока не отменен ctx.
func (m *Manager) Run(ctx context.Context) {
	if m.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(m.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// CloseAll закрывает все сессии при остановке сервера.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range sessions {
		e.session.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
