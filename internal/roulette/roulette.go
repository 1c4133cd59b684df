// Package roulette implements the dish roulette: select a tag to build a
// candidate pool of distinct dish names, spin to draw one uniformly, then
// resolve the winning dish back to the shops serving it.
package roulette

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/catability/menu-rouletti/internal/domain"
	domainerrors "github.com/catability/menu-rouletti/internal/errors"
	"github.com/catability/menu-rouletti/internal/menus"
)

// State is the engine's position in the select → spin → resolve flow.
type State int

const (
	// StateIdle means no tag is selected and no pool exists.
	StateIdle State = iota
	// StateTagSelected means a pool has been built and the engine is ready
	// to spin.
	StateTagSelected
	// StateSpun means a winner has been drawn. Spinning again redraws.
	StateSpun
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTagSelected:
		return "tag_selected"
	case StateSpun:
		return "spun"
	default:
		return "unknown"
	}
}

// Engine holds the roulette session state for one user flow. One engine
// serves one session at a time; the mutex only guards against accidental
// concurrent use, not a multi-session design.
type Engine struct {
	index  *menus.Index
	logger *slog.Logger
	intn   func(n int) int

	mu      sync.Mutex
	state   State
	tagName string
	pool    []string
	winner  string
}

// New creates a roulette engine drawing from the default random source.
func New(index *menus.Index, logger *slog.Logger) *Engine {
	return NewWithRand(index, logger, rand.IntN)
}

// NewWithRand creates an engine with an explicit draw function. intn must
// return a value in [0, n) given n > 0.
func NewWithRand(index *menus.Index, logger *slog.Logger, intn func(n int) int) *Engine {
	return &Engine{index: index, logger: logger, intn: intn, state: StateIdle}
}

// SelectTag builds the candidate pool for the tag: the distinct dish names
// the user has filed under it, one candidate per name regardless of how many
// entries share it. Any prior pool and winner are discarded. An empty pool
// is a valid selection; it only blocks spinning.
func (e *Engine) SelectTag(ctx context.Context, tagName string) ([]string, error) {
	names, err := e.index.DistinctMenuNames(ctx, tagName)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateTagSelected
	e.tagName = tagName
	e.pool = names
	e.winner = ""

	e.logger.Debug("roulette tag selected", "tag", tagName, "pool_size", len(names))
	return names, nil
}

// Spin draws one dish from the pool, each candidate equally likely. Spinning
// again redraws from the same pool. Fails when the pool is empty, including
// when no tag has been selected at all.
func (e *Engine) Spin() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.pool) == 0 {
		return "", domainerrors.EmptyPool("no dishes to draw from")
	}

	e.winner = e.pool[e.intn(len(e.pool))]
	e.state = StateSpun

	e.logger.Info("roulette spun", "tag", e.tagName, "winner", e.winner)
	return e.winner, nil
}

// ResolveWinner returns the shops where the user has eaten the winning dish
// under the selected tag. An empty shop list is a valid outcome, e.g. when
// the shops were removed from the catalog. Fails when nothing has been spun.
func (e *Engine) ResolveWinner(ctx context.Context) ([]domain.Shop, error) {
	e.mu.Lock()
	tagName, winner, state := e.tagName, e.winner, e.state
	e.mu.Unlock()

	if state != StateSpun {
		return nil, domainerrors.Validation("no winner to resolve")
	}
	return e.index.ResolveShopsFor(ctx, tagName, winner)
}

// Reset returns the engine to the idle state, discarding tag, pool, and
// winner.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateIdle
	e.tagName = ""
	e.pool = nil
	e.winner = ""
}

// State returns the current flow state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Tag returns the selected tag name, empty when idle.
func (e *Engine) Tag() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tagName
}

// Pool returns a copy of the current candidate pool.
func (e *Engine) Pool() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	pool := make([]string, len(e.pool))
	copy(pool, e.pool)
	return pool
}

// Winner returns the drawn dish name, empty until a spin lands.
func (e *Engine) Winner() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.winner
}
