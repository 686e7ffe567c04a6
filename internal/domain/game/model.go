package game

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	MinNumber = 1
	MaxNumber = 90
	PoolSize  = MaxNumber - MinNumber + 1

	MaxNameLength = 100
)

var (
	ErrGameComplete   = errors.New("no numbers left to draw")
	ErrInvalidHistory = errors.New("invalid drawn history")
)

// Game is one housie session with its append-only draw history.
type Game struct {
	ID        string
	Name      string
	Drawn     []int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.Name == "" {
		return fmt.Errorf("game name is required")
	}
	if utf8.RuneCountInString(g.Name) > MaxNameLength {
		return fmt.Errorf("game name must be at most %d characters", MaxNameLength)
	}

	return ValidateDrawn(g.Drawn)
}

// ValidateDrawn reports whether drawn can be a prefix of a permutation of 1..90.
func ValidateDrawn(drawn []int) error {
	if len(drawn) > PoolSize {
		return fmt.Errorf("%w: %d numbers drawn, max %d", ErrInvalidHistory, len(drawn), PoolSize)
	}

	var seen [PoolSize + 1]bool
	for i, n := range drawn {
		if n < MinNumber || n > MaxNumber {
			return fmt.Errorf("%w: number %d at position %d is outside %d..%d", ErrInvalidHistory, n, i, MinNumber, MaxNumber)
		}
		if seen[n] {
			return fmt.Errorf("%w: number %d drawn twice", ErrInvalidHistory, n)
		}
		seen[n] = true
	}

	return nil
}

// LastDrawn returns the most recent number, if any.
func (g Game) LastDrawn() (int, bool) {
	if len(g.Drawn) == 0 {
		return 0, false
	}
	return g.Drawn[len(g.Drawn)-1], true
}

func (g Game) Remaining() int {
	return PoolSize - len(g.Drawn)
}

func (g Game) Complete() bool {
	return g.Remaining() == 0
}

// Clone returns a copy that shares no memory with g.
func (g Game) Clone() Game {
	out := g
	out.Drawn = append([]int(nil), g.Drawn...)
	return out
}
