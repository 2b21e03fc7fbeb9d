package search

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultMinDepth = 3
	MaxSearchDepth  = 6
)

// Limits bounds one search. A zero Budget means no time limit: the search
// runs every iteration up to MaxDepth.
type Limits struct {
	MinDepth     int
	MaxDepth     int
	Budget       time.Duration
	HardDeadline bool
}

func (l Limits) normalized() Limits {
	if l.MinDepth <= 0 {
		l.MinDepth = DefaultMinDepth
	}
	if l.MinDepth > MaxSearchDepth {
		l.MinDepth = MaxSearchDepth
	}
	if l.MaxDepth < l.MinDepth {
		l.MaxDepth = l.MinDepth
	}
	if l.MaxDepth > MaxSearchDepth {
		l.MaxDepth = MaxSearchDepth
	}
	return l
}

func (l Limits) String() string {
	l = l.normalized()
	parts := []string{fmt.Sprintf("depth %d-%d", l.MinDepth, l.MaxDepth)}
	if l.Budget > 0 {
		parts = append(parts, "budget", fmt.Sprintf("%dms", l.Budget.Milliseconds()))
	}
	if l.HardDeadline {
		parts = append(parts, "hard")
	}
	return strings.Join(parts, " ")
}
