package search

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DifficultyPreset bundles the search limits offered as a playing level.
type DifficultyPreset struct {
	Name           string
	MoveTimeMillis int
	MinDepth       int
	DepthCap       int
	HardDeadline   bool
}

var presetMu sync.RWMutex

var DefaultPresets = map[string]DifficultyPreset{
	"level1": {
		Name:           "level1",
		MoveTimeMillis: 250,
		MinDepth:       DefaultMinDepth,
		DepthCap:       3,
	},
	"level2": {
		Name:           "level2",
		MoveTimeMillis: 500,
		MinDepth:       DefaultMinDepth,
		DepthCap:       4,
	},
	"level3": {
		Name:           "level3",
		MoveTimeMillis: 1500,
		MinDepth:       DefaultMinDepth,
		DepthCap:       5,
	},
	"level4": {
		Name:           "level4",
		MoveTimeMillis: 3000,
		MinDepth:       DefaultMinDepth,
		DepthCap:       MaxSearchDepth,
		HardDeadline:   true,
	},
}

func GetPreset(name string) (DifficultyPreset, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "beginner":
		name = "level1"
	case "intermediate":
		name = "level2"
	case "advanced":
		name = "level3"
	case "master":
		name = "level4"
	}
	presetMu.RLock()
	p, ok := DefaultPresets[name]
	presetMu.RUnlock()
	if ok {
		return p, nil
	}
	return DifficultyPreset{}, fmt.Errorf("unknown search preset: %s", name)
}

// PresetNames lists the registered preset names in order.
func PresetNames() []string {
	presetMu.RLock()
	defer presetMu.RUnlock()
	names := make([]string, 0, len(DefaultPresets))
	for name := range DefaultPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ValidatePreset(p DifficultyPreset) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("preset name required")
	case p.MoveTimeMillis < 0:
		return fmt.Errorf("move time must be >= 0: %d", p.MoveTimeMillis)
	case p.MinDepth < 1:
		return fmt.Errorf("min depth must be >= 1: %d", p.MinDepth)
	case p.DepthCap < p.MinDepth:
		return fmt.Errorf("depth cap (%d) must not be below min depth (%d)", p.DepthCap, p.MinDepth)
	case p.DepthCap > MaxSearchDepth:
		return fmt.Errorf("depth cap %d exceeds %d", p.DepthCap, MaxSearchDepth)
	}
	return nil
}

// WithOverrides returns a copy with a positive move time or depth cap
// replacing the preset's own values.
func (p DifficultyPreset) WithOverrides(moveTimeMillis, depthCap int) DifficultyPreset {
	if moveTimeMillis > 0 {
		p.MoveTimeMillis = moveTimeMillis
	}
	if depthCap > 0 {
		p.DepthCap = depthCap
		if p.MinDepth > depthCap {
			p.MinDepth = depthCap
		}
	}
	return p
}

func LimitsFromPreset(p DifficultyPreset) (Limits, error) {
	if err := ValidatePreset(p); err != nil {
		return Limits{}, err
	}
	return Limits{
		MinDepth:     p.MinDepth,
		MaxDepth:     p.DepthCap,
		Budget:       time.Duration(p.MoveTimeMillis) * time.Millisecond,
		HardDeadline: p.HardDeadline,
	}, nil
}
