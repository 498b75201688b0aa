// Package registry keeps the single live review engine per knowledge base
// and serializes every read-modify-write against it.
//
// Each operation runs under a per-knowledge-base lock: resolve loads the
// engine from catalog plus snapshot on first access, actions mutate a
// detached clone and commit it (swap plus persist) only on full success.
// A failed persist leaves memory and disk at the previous valid snapshot.
// Unrelated knowledge bases proceed in parallel.
package registry

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/quizfolkco/rote/pkg/kb"
	"github.com/quizfolkco/rote/pkg/review"
	"github.com/quizfolkco/rote/pkg/storage"
)

// Config is the configuration options for the engine registry.
type Config struct {
	// Catalog resolves knowledge base content.
	Catalog *kb.Catalog

	// Driver persists engine snapshots.
	Driver storage.Driver

	// Scheduler tunes the long-term scheduling rule for every engine.
	Scheduler review.Config

	// ReinsertMin and ReinsertMax bound the forgotten-card reinsertion
	// distance of each engine's sequencer.
	ReinsertMin int
	ReinsertMax int

	// Rand drives sequencer reinsertion draws. It is shared by every
	// engine and *rand.Rand is not goroutine safe, so inject it only in
	// single-knowledge-base tests. Nil gives each engine its own
	// time-seeded source.
	Rand *rand.Rand

	// Clock returns today's date. Nil defaults to review.Today.
	Clock func() review.Date

	// Logger is the provided zap logger. Nil discards log output.
	Logger *zap.Logger
}

// Registry tracks one entry per knowledge base name for the process lifetime.
type Registry struct {
	config *Config
	logger *zap.Logger
	clock  func() review.Date

	mu      sync.Mutex
	entries map[string]*entry
}

// entry holds the cached engine for one knowledge base. A nil engine means
// not yet loaded (or invalidated); the next operation reloads it under mu.
type entry struct {
	mu     sync.Mutex
	engine *review.Engine
}

// Handle is a resolved reference to one knowledge base's engine. All
// operations lock the underlying entry, so concurrent handles to the same
// knowledge base serialize and handles to different ones do not.
type Handle struct {
	name string
	reg  *Registry
	e    *entry
}

// New creates an engine registry.
func New(c *Config) (*Registry, error) {
	if c.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if c.Driver == nil {
		return nil, errors.New("storage driver is required")
	}

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	clock := c.Clock
	if clock == nil {
		clock = review.Today
	}

	return &Registry{
		config:  c,
		logger:  logger,
		clock:   clock,
		entries: make(map[string]*entry),
	}, nil
}

// Resolve returns a handle to the named knowledge base, loading its engine
// if this is the first access. Returns kb.ErrNotFound when neither content
// nor a snapshot exists for the name.
func (r *Registry) Resolve(ctx context.Context, name string) (*Handle, error) {
	e := r.entryFor(name)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := r.loadLocked(ctx, e, name); err != nil {
		return nil, err
	}

	return &Handle{name: name, reg: r, e: e}, nil
}

// Invalidate drops the cached engine for the named knowledge base so the
// next operation reloads and re-merges it. Implements the watcher's
// invalidation hook.
func (r *Registry) Invalidate(name string) {
	r.mu.Lock()
	e, ok := r.entries[name]
	r.mu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	e.engine = nil
	e.mu.Unlock()

	r.logger.Debug("engine invalidated", zap.String("kb", name))
}

// Names returns the union of knowledge bases known to the catalog and those
// with a stored snapshot, sorted.
func (r *Registry) Names(ctx context.Context) ([]string, error) {
	names, err := r.config.Catalog.List()
	if err != nil {
		return nil, err
	}

	stored, err := r.config.Driver.List(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "listing", Name: "", Err: err}
	}

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		seen[name] = struct{}{}
	}
	for _, name := range stored {
		if _, ok := seen[name]; !ok {
			names = append(names, name)
			seen[name] = struct{}{}
		}
	}

	sort.Strings(names)
	return names, nil
}

// entryFor returns the entry for name, creating it on first use. Entries
// are never removed; an unloaded entry is just a lock plus a nil engine.
func (r *Registry) entryFor(name string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		e = &entry{}
		r.entries[name] = e
	}
	return e
}

// loadLocked ensures the entry holds a live engine. Caller holds e.mu.
func (r *Registry) loadLocked(ctx context.Context, e *entry, name string) error {
	if e.engine != nil {
		return nil
	}

	today := r.clock()

	items, itemsErr := r.config.Catalog.Load(name)
	if itemsErr != nil && !errors.Is(itemsErr, kb.ErrNotFound) {
		return itemsErr
	}

	snap, snapErr := r.config.Driver.Load(ctx, name)
	if snapErr != nil {
		if !storage.IsNotFound(snapErr) {
			return &PersistenceError{Op: "loading", Name: name, Err: snapErr}
		}
		snap = nil
	}

	if itemsErr != nil && snap == nil {
		return itemsErr
	}

	var cards []review.Card
	if itemsErr == nil {
		cards = mergeCards(items, snap, r.config.Scheduler, today)
	} else {
		cards = cardsFromSnapshot(snap)
	}

	engine := review.NewEngine(name, cards, today, review.EngineConfig{
		Scheduler:   r.config.Scheduler,
		ReinsertMin: r.config.ReinsertMin,
		ReinsertMax: r.config.ReinsertMax,
		Rand:        r.config.Rand,
	})

	if snap != nil {
		engine.RestoreSequence(snap.ReviewSequence)
	}

	r.logger.Debug("engine loaded",
		zap.String("kb", name),
		zap.Int("items", engine.Len()),
		zap.Bool("from_snapshot", snap != nil),
	)

	e.engine = engine
	return nil
}

// Name returns the knowledge base this handle is bound to.
func (h *Handle) Name() string {
	return h.name
}

// State reports the current session without mutating it.
func (h *Handle) State(ctx context.Context) (review.Result, error) {
	h.e.mu.Lock()
	defer h.e.mu.Unlock()

	if err := h.reg.loadLocked(ctx, h.e, h.name); err != nil {
		return review.Result{}, err
	}

	return h.e.engine.State(), nil
}

// HandleAction applies a review outcome to the named item and persists the
// resulting snapshot. The engine swap happens only after a successful save,
// so a PersistenceError means nothing changed.
func (h *Handle) HandleAction(ctx context.Context, itemID string, outcome review.Outcome) (review.Result, error) {
	h.e.mu.Lock()
	defer h.e.mu.Unlock()

	if err := h.reg.loadLocked(ctx, h.e, h.name); err != nil {
		return review.Result{}, err
	}

	next := h.e.engine.Clone()
	res, err := next.HandleAction(itemID, outcome, h.reg.clock())
	if err != nil {
		return review.Result{}, err
	}

	if err := h.reg.config.Driver.Save(ctx, h.name, snapshotOf(next)); err != nil {
		return review.Result{}, &PersistenceError{Op: "saving", Name: h.name, Err: err}
	}

	h.e.engine = next
	return res, nil
}

// Export returns the full reporting payload for the knowledge base.
func (h *Handle) Export(ctx context.Context) (*review.ExportData, error) {
	h.e.mu.Lock()
	defer h.e.mu.Unlock()

	if err := h.reg.loadLocked(ctx, h.e, h.name); err != nil {
		return nil, err
	}

	return h.e.engine.Export(), nil
}

// Reset discards the cached engine and its stored snapshot, returning the
// knowledge base to default unreviewed state. The cache entry survives a
// failed delete so memory still matches disk.
func (h *Handle) Reset(ctx context.Context) error {
	h.e.mu.Lock()
	defer h.e.mu.Unlock()

	if err := h.reg.loadLocked(ctx, h.e, h.name); err != nil {
		return err
	}

	if err := h.reg.config.Driver.Delete(ctx, h.name); err != nil {
		return &PersistenceError{Op: "deleting", Name: h.name, Err: err}
	}

	h.e.engine = nil
	h.reg.logger.Debug("engine reset", zap.String("kb", h.name))
	return nil
}
