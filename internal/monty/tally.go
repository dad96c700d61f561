package monty

import "errors"

// ErrNoTrials is returned when a win rate is requested for a strategy
// that played no trials.
var ErrNoTrials = errors.New("no trials played")

// ResultSet counts the outcomes of one strategy.
type ResultSet struct {
	Wins   uint64 `json:"wins"`
	Losses uint64 `json:"losses"`
}

// Played returns the number of trials recorded.
func (r ResultSet) Played() uint64 {
	return r.Wins + r.Losses
}

// WinRate returns Wins/Played in [0, 1], or ErrNoTrials when nothing was played.
func (r ResultSet) WinRate() (float64, error) {
	played := r.Played()
	if played == 0 {
		return 0, ErrNoTrials
	}
	return float64(r.Wins) / float64(played), nil
}

func (r *ResultSet) record(won bool) {
	if won {
		r.Wins++
	} else {
		r.Losses++
	}
}

func (r ResultSet) add(o ResultSet) ResultSet {
	return ResultSet{Wins: r.Wins + o.Wins, Losses: r.Losses + o.Losses}
}

// Tally holds the results of both strategies over a run.
// Counters are not guarded against uint64 overflow.
type Tally struct {
	Switched ResultSet `json:"switched"`
	Stayed   ResultSet `json:"stayed"`
}

// Add returns the field-wise sum of t and o.
func (t Tally) Add(o Tally) Tally {
	return Tally{
		Switched: t.Switched.add(o.Switched),
		Stayed:   t.Stayed.add(o.Stayed),
	}
}

// Sum reduces partial tallies. The result is independent of their order.
func Sum(parts ...Tally) Tally {
	var total Tally
	for _, p := range parts {
		total = total.Add(p)
	}
	return total
}

// Total returns the number of trials played under either strategy.
func (t Tally) Total() uint64 {
	return t.Switched.Played() + t.Stayed.Played()
}

// WinRates returns the switch and stay win rates. It fails with
// ErrNoTrials if either strategy played nothing.
func (t Tally) WinRates() (switched, stayed float64, err error) {
	if switched, err = t.Switched.WinRate(); err != nil {
		return 0, 0, err
	}
	if stayed, err = t.Stayed.WinRate(); err != nil {
		return 0, 0, err
	}
	return switched, stayed, nil
}
