/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrNoCandidates is returned when an elimination run is started without titles.
var ErrNoCandidates = errors.New("elimination needs at least one candidate")

type Kind int

const (
	Eliminated Kind = iota
	Winner
)

func (k Kind) String() string {
	switch k {
	case Eliminated:
		return "eliminated"
	case Winner:
		return "winner"
	default:
		return "unknown"
	}
}

// Announcement describes one step of an elimination run.
type Announcement struct {
	Kind      Kind
	Title     string
	Round     int // 1-based, the winner takes the round after the last elimination
	Remaining int // candidates still in after this step
}

// AnnounceFunc receives every announcement in the order it happens.
type AnnounceFunc func(ctx context.Context, a Announcement) error

// Engine knocks candidates out at random until one is left.
type Engine struct {
	clock clockwork.Clock
	pace  time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine returns an engine seeded from crypto/rand.
func NewEngine(clock clockwork.Clock, pace time.Duration) (*Engine, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}

	return NewSeededEngine(clock, pace, binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])), nil
}

// NewSeededEngine returns an engine whose draws are fully determined by the seeds.
func NewSeededEngine(clock clockwork.Clock, pace time.Duration, seed1, seed2 uint64) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Engine{
		clock: clock,
		pace:  pace,
		rng:   rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// Run eliminates candidates one at a time and returns the last one standing.
// The caller's slice is left untouched.
func (e *Engine) Run(ctx context.Context, candidates []string, announce AnnounceFunc) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}

	pool := make([]string, len(candidates))
	copy(pool, candidates)

	round := 0
	for len(pool) > 1 {
		round++

		i := e.draw(len(pool))
		title := pool[i]
		pool = append(pool[:i], pool[i+1:]...)

		err := announce(ctx, Announcement{
			Kind:      Eliminated,
			Title:     title,
			Round:     round,
			Remaining: len(pool),
		})
		if err != nil {
			return "", fmt.Errorf("announce round %d: %w", round, err)
		}

		if err := e.pause(ctx); err != nil {
			return "", err
		}
	}

	winner := pool[0]

	err := announce(ctx, Announcement{
		Kind:      Winner,
		Title:     winner,
		Round:     round + 1,
		Remaining: 1,
	})
	if err != nil {
		return "", fmt.Errorf("announce winner: %w", err)
	}

	return winner, nil
}

func (e *Engine) draw(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.rng.IntN(n)
}

func (e *Engine) pause(ctx context.Context) error {
	if e.pace <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.clock.After(e.pace):
		return nil
	}
}
