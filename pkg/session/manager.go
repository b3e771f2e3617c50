package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-projection-editor/pkg/editor"
	"github.com/goliatone/go-projection-editor/pkg/variant"
)

// lockEntry holds the mutex of one session and how many callers use it.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager loads, mutates and saves editors under a per-session lock. Unused
// locks are dropped once their reference count reaches zero.
type Manager struct {
	store          Store
	variants       *variant.Registry
	defaultVariant string
	now            func() time.Time

	mu    sync.Mutex
	locks map[string]*lockEntry
}

// Option configures the Manager.
type Option func(*Manager)

// WithDefaultVariant names the variant of sessions created on first use.
func WithDefaultVariant(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.defaultVariant = name
		}
	}
}

// WithClock overrides the time source stamped on saved records.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a manager over store. A nil registry uses the built-in
// variants.
func NewManager(store Store, variants *variant.Registry, opts ...Option) *Manager {
	if variants == nil {
		variants = variant.Default()
	}
	m := &Manager{
		store:          store,
		variants:       variants,
		defaultVariant: variant.NameShared,
		now:            time.Now,
		locks:          make(map[string]*lockEntry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultVariant returns the variant name of new sessions.
func (m *Manager) DefaultVariant() string {
	return m.defaultVariant
}

func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// WithLock runs fn while holding the lock of id.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()
	return fn(ctx)
}

// WithSession loads the editor of id, creating a default one for unknown or
// expired ids, runs fn, and saves the editor when fn succeeds. Saving also
// restarts the record TTL.
func (m *Manager) WithSession(ctx context.Context, id string, fn func(context.Context, *editor.Editor) error) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		ed, err := m.load(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(ctx, ed); err != nil {
			return err
		}
		return m.save(ctx, id, ed)
	})
}

// Start replaces the editor of id with the default document of variantName.
// An empty name uses the default variant.
func (m *Manager) Start(ctx context.Context, id, variantName string) (*editor.Editor, error) {
	if variantName == "" {
		variantName = m.defaultVariant
	}
	v, err := m.variants.Get(variantName)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	ed := editor.New(v)
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.save(ctx, id, ed)
	})
	if err != nil {
		return nil, err
	}
	return ed, nil
}

// List returns the live session ids. Listing drops expired records from the
// store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	ids, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: list: %w", err)
	}
	return ids, nil
}

// Sweep evicts expired sessions and returns how many are still live.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	ids, err := m.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// RunSweeper calls Sweep every interval until ctx is done. report, when not
// nil, receives the result of each sweep.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration, report func(live int, err error)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			live, err := m.Sweep(ctx)
			if ctx.Err() != nil {
				return
			}
			if report != nil {
				report(live, err)
			}
		}
	}
}

func (m *Manager) load(ctx context.Context, id string) (*editor.Editor, error) {
	record, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		v, err := m.variants.Get(m.defaultVariant)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
		return editor.New(v), nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: load %s: %w", id, err)
	}

	v, err := m.variants.Get(record.Variant)
	if err != nil {
		return nil, fmt.Errorf("session: load %s: %w", id, err)
	}
	ed := editor.New(v)
	if err := ed.Import(string(record.Document)); err != nil {
		return nil, fmt.Errorf("session: load %s: %w", id, err)
	}
	return ed, nil
}

func (m *Manager) save(ctx context.Context, id string, ed *editor.Editor) error {
	doc, err := ed.Encode()
	if err != nil {
		return fmt.Errorf("session: save %s: %w", id, err)
	}
	record := Record{
		Variant:   ed.Variant().Name,
		Document:  json.RawMessage(doc),
		UpdatedAt: m.now().UTC(),
	}
	if err := m.store.Save(ctx, id, record); err != nil {
		return fmt.Errorf("session: save %s: %w", id, err)
	}
	return nil
}
