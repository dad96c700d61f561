package monty

import "github.com/nvandessel/monty/internal/rng"

// Game plays trials sequentially against a single source.
// A Game is not safe for concurrent use.
type Game struct {
	src   rng.Source
	trial TrialFunc
}

// NewGame returns a Game that draws from src and plays PlayTrial rounds.
func NewGame(src rng.Source) *Game {
	return &Game{src: src, trial: PlayTrial}
}

// WithTrial swaps the round implementation and returns g.
func (g *Game) WithTrial(fn TrialFunc) *Game {
	if fn != nil {
		g.trial = fn
	}
	return g
}

// Play runs trials/2 switching rounds followed by trials/2 staying rounds.
// An odd trailing trial is not played.
func (g *Game) Play(trials uint64) Tally {
	half := trials / 2
	var t Tally
	for i := uint64(0); i < half; i++ {
		t.Switched.record(g.trial(true, g.src))
	}
	for i := uint64(0); i < half; i++ {
		t.Stayed.record(g.trial(false, g.src))
	}
	return t
}

// Run plays trials on the calling goroutine using src.
func Run(trials uint64, src rng.Source) Tally {
	return NewGame(src).Play(trials)
}
