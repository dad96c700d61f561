package monty

import "github.com/nvandessel/monty/internal/rng"

// Doors are numbered 0, 1 and 2. The first pick is always door 0.
const (
	doorCount     = 3
	initialChoice = int8(0)
)

// Eliminate returns the two doors left after the host opens one. The opened
// door is the first of 0, 1, 2 that is neither winning nor choice; when
// those coincide two doors qualify and the lower one is opened.
func Eliminate(winning, choice int8) [2]int8 {
	doors := [doorCount]int8{0, 1, 2}
	opened := -1
	for i, d := range doors {
		if d != winning && d != choice {
			opened = i
			break
		}
	}

	var remaining [2]int8
	n := 0
	for i, d := range doors {
		if i == opened {
			continue
		}
		remaining[n] = d
		n++
	}
	return remaining
}

// PlayTrial plays one round and reports whether the contestant won.
// It consumes exactly one value from src.
func PlayTrial(switchDoors bool, src rng.Source) bool {
	winning := int8(src.Uint32() % doorCount)
	choice := initialChoice

	remaining := Eliminate(winning, choice)
	if switchDoors {
		if remaining[0] != choice {
			choice = remaining[0]
		} else {
			choice = remaining[1]
		}
	}

	return choice == winning
}

// PlayTrialDirect decides the same outcome as PlayTrial without building
// the door set: with door 0 picked, staying wins only on door 0 and
// switching wins otherwise.
func PlayTrialDirect(switchDoors bool, src rng.Source) bool {
	winning := src.Uint32() % doorCount
	if switchDoors {
		return winning != 0
	}
	return winning == 0
}

// TrialFunc plays one round with the given strategy.
type TrialFunc func(switchDoors bool, src rng.Source) bool

// Trial variant names.
const (
	TrialDoors  = "doors"
	TrialDirect = "direct"
)

// TrialByName maps a variant name to its TrialFunc.
func TrialByName(name string) (TrialFunc, bool) {
	switch name {
	case TrialDoors, "":
		return PlayTrial, true
	case TrialDirect:
		return PlayTrialDirect, true
	default:
		return nil, false
	}
}
