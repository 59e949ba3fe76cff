package games

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(list *[]Announcement) AnnounceFunc {
	return func(_ context.Context, a Announcement) error {
		*list = append(*list, a)
		return nil
	}
}

func TestEngine_EliminatesUntilOneRemains(t *testing.T) {
	engine := NewSeededEngine(clockwork.NewFakeClock(), 0, 1, 2)
	candidates := []string{"Alpha", "Beta", "Gamma"}

	var got []Announcement
	winner, err := engine.Run(context.Background(), candidates, collect(&got))
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, Eliminated, got[0].Kind)
	assert.Equal(t, Eliminated, got[1].Kind)
	assert.Equal(t, Winner, got[2].Kind)
	assert.Equal(t, winner, got[2].Title)

	assert.Equal(t, 1, got[0].Round)
	assert.Equal(t, 2, got[0].Remaining)
	assert.Equal(t, 2, got[1].Round)
	assert.Equal(t, 1, got[1].Remaining)
	assert.Equal(t, 3, got[2].Round)

	titles := []string{got[0].Title, got[1].Title, got[2].Title}
	assert.ElementsMatch(t, candidates, titles)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, candidates, "input must not be modified")
}

func TestEngine_SingleCandidateWinsImmediately(t *testing.T) {
	engine := NewSeededEngine(clockwork.NewFakeClock(), time.Second, 1, 2)

	var got []Announcement
	winner, err := engine.Run(context.Background(), []string{"Solo"}, collect(&got))
	require.NoError(t, err)

	assert.Equal(t, "Solo", winner)
	require.Len(t, got, 1)
	assert.Equal(t, Winner, got[0].Kind)
	assert.Equal(t, 1, got[0].Round)
}

func TestEngine_NoCandidates(t *testing.T) {
	engine := NewSeededEngine(nil, 0, 1, 2)

	called := false
	_, err := engine.Run(context.Background(), nil, func(context.Context, Announcement) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.False(t, called)
}

func TestEngine_SameSeedSameOutcome(t *testing.T) {
	candidates := []string{"A", "B", "C", "D", "E", "F"}

	var first, second []Announcement
	_, err := NewSeededEngine(nil, 0, 42, 7).Run(context.Background(), candidates, collect(&first))
	require.NoError(t, err)
	_, err = NewSeededEngine(nil, 0, 42, 7).Run(context.Background(), candidates, collect(&second))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_WinnerIsRoughlyUniform(t *testing.T) {
	engine := NewSeededEngine(nil, 0, 3, 5)
	candidates := []string{"A", "B", "C"}
	wins := map[string]int{}

	const runs = 3000
	for range runs {
		winner, err := engine.Run(context.Background(), candidates, func(context.Context, Announcement) error { return nil })
		require.NoError(t, err)
		wins[winner]++
	}

	for _, c := range candidates {
		assert.InDelta(t, 1.0/3, float64(wins[c])/runs, 0.05, "winner share for %s", c)
	}
}

func TestEngine_AnnounceErrorStopsRun(t *testing.T) {
	engine := NewSeededEngine(nil, 0, 1, 2)
	boom := errors.New("network down")

	calls := 0
	_, err := engine.Run(context.Background(), []string{"A", "B", "C"}, func(context.Context, Announcement) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestEngine_PausesBetweenAnnouncements(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := NewSeededEngine(clock, 2*time.Second, 1, 2)

	announced := make(chan Announcement, 4)
	done := make(chan string, 1)

	go func() {
		winner, err := engine.Run(context.Background(), []string{"A", "B", "C"}, func(_ context.Context, a Announcement) error {
			announced <- a
			return nil
		})
		if err == nil {
			done <- winner
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := <-announced
	assert.Equal(t, Eliminated, first.Kind)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Empty(t, announced, "next announcement must wait for the pause")
	clock.Advance(2 * time.Second)

	second := <-announced
	assert.Equal(t, Eliminated, second.Kind)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(2 * time.Second)

	last := <-announced
	assert.Equal(t, Winner, last.Kind)
	assert.Equal(t, last.Title, <-done)
}

func TestEngine_CancelDuringPause(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := NewSeededEngine(clock, time.Minute, 1, 2)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)

	go func() {
		_, err := engine.Run(ctx, []string{"A", "B"}, func(context.Context, Announcement) error { return nil })
		errs <- err
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))

	cancel()
	assert.ErrorIs(t, <-errs, context.Canceled)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "eliminated", Eliminated.String())
	assert.Equal(t, "winner", Winner.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
