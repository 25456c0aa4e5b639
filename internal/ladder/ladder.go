// Package ladder holds the fixed step functions that turn a number into a tier or rank label.
package ladder

import "sort"

// Step is one breakpoint of a ladder.
type Step struct {
	Bound float64
	Label string
	Color string
}

// Ladder is a sorted breakpoint table. Ceiling ladders match the first step whose
// Bound is >= the input; floor ladders match the last step whose Bound is <= the input.
type Ladder struct {
	steps    []Step
	ceiling  bool
	overflow *Step // ceiling ladders only, matched above every bound
}

// Ceiling builds a ladder where each bound is an inclusive upper edge. Steps must be ascending.
func Ceiling(steps []Step, overflow Step) Ladder {
	return Ladder{steps: steps, ceiling: true, overflow: &overflow}
}

// Floor builds a ladder where each bound is an inclusive lower edge. Steps must be ascending.
// Inputs below the first bound match nothing.
func Floor(steps []Step) Ladder {
	return Ladder{steps: steps}
}

func (l Ladder) Lookup(v float64) (Step, bool) {
	if l.ceiling {
		i := sort.Search(len(l.steps), func(i int) bool { return l.steps[i].Bound >= v })
		if i < len(l.steps) {
			return l.steps[i], true
		}
		if l.overflow != nil {
			return *l.overflow, true
		}
		return Step{}, false
	}

	i := sort.Search(len(l.steps), func(i int) bool { return l.steps[i].Bound > v })
	if i == 0 {
		return Step{}, false
	}
	return l.steps[i-1], true
}

func (l Ladder) Steps() []Step {
	out := make([]Step, len(l.steps))
	copy(out, l.steps)
	return out
}
