package game

import (
	"fmt"
	"slices"

	"github.com/riskibarqy/housie/internal/platform/random"
)

type State string

const (
	StateActive   State = "active"
	StateComplete State = "complete"
)

// Engine owns the pool of undrawn numbers for a single game. It is not safe
// for concurrent use; callers serialize access per game.
type Engine struct {
	drawn  []int
	pool   []int
	random random.Source
}

// NewEngine rebuilds the undrawn pool from the persisted history.
func NewEngine(drawn []int, src random.Source) (*Engine, error) {
	if src == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if err := ValidateDrawn(drawn); err != nil {
		return nil, err
	}

	var taken [PoolSize + 1]bool
	for _, n := range drawn {
		taken[n] = true
	}

	pool := make([]int, 0, PoolSize-len(drawn))
	for n := MinNumber; n <= MaxNumber; n++ {
		if !taken[n] {
			pool = append(pool, n)
		}
	}

	history := make([]int, len(drawn), PoolSize)
	copy(history, drawn)

	return &Engine{
		drawn:  history,
		pool:   pool,
		random: src,
	}, nil
}

// Draw removes one number from the pool at random and appends it to the history.
func (e *Engine) Draw() (int, error) {
	if len(e.pool) == 0 {
		return 0, ErrGameComplete
	}

	picked, err := random.PickOne(e.random, e.pool)
	if err != nil {
		return 0, fmt.Errorf("pick from pool: %w", err)
	}

	idx := slices.Index(e.pool, picked)
	e.pool = slices.Delete(e.pool, idx, idx+1)
	e.drawn = append(e.drawn, picked)

	return picked, nil
}

// DrawMany draws up to n numbers. When the pool runs out part way the numbers
// already drawn stay committed and are returned together with ErrGameComplete.
func (e *Engine) DrawMany(n int) ([]int, error) {
	if n <= 0 {
		return []int{}, nil
	}

	out := make([]int, 0, min(n, len(e.pool)))
	for i := 0; i < n; i++ {
		picked, err := e.Draw()
		if err != nil {
			return out, err
		}
		out = append(out, picked)
	}

	return out, nil
}

func (e *Engine) RemainingCount() int {
	return len(e.pool)
}

func (e *Engine) DrawnCount() int {
	return len(e.drawn)
}

func (e *Engine) LastDrawn() (int, bool) {
	if len(e.drawn) == 0 {
		return 0, false
	}
	return e.drawn[len(e.drawn)-1], true
}

// Drawn returns a copy of the history in draw order.
func (e *Engine) Drawn() []int {
	return append([]int(nil), e.drawn...)
}

func (e *Engine) State() State {
	if len(e.pool) == 0 {
		return StateComplete
	}
	return StateActive
}
