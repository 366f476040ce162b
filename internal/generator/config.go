package generator

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Config holds the statistical constants the generator draws against.
// It is treated as immutable once passed to New.
type Config struct {
	UniverseMin int
	UniverseMax int

	Hot  []int
	Cold []int

	PicksPerPool int

	SumMin  int
	SumMax  int
	MeanSum float64

	ScoreSpread  float64
	ScoreFloor   int
	ScoreCeiling int

	// MaxAttempts bounds the accept/reject loop for a single combination.
	MaxAttempts int
}

// DefaultConfig returns the 6-from-48 configuration the service runs with.
func DefaultConfig() Config {
	return Config{
		UniverseMin:  1,
		UniverseMax:  48,
		Hot:          []int{43, 26, 41, 6, 37},
		Cold:         []int{48, 30, 4, 7, 47},
		PicksPerPool: 2,
		SumMin:       118,
		SumMax:       184,
		MeanSum:      150.71,
		ScoreSpread:  33.02,
		ScoreFloor:   70,
		ScoreCeiling: 100,
		MaxAttempts:  10000,
	}
}

// Neutral returns every number of the universe that is neither hot nor cold,
// ascending.
func (c Config) Neutral() []int {
	excluded := make(map[int]struct{}, len(c.Hot)+len(c.Cold))
	for _, n := range c.Hot {
		excluded[n] = struct{}{}
	}
	for _, n := range c.Cold {
		excluded[n] = struct{}{}
	}

	neutral := make([]int, 0, c.UniverseMax-c.UniverseMin+1)
	for n := c.UniverseMin; n <= c.UniverseMax; n++ {
		if _, ok := excluded[n]; !ok {
			neutral = append(neutral, n)
		}
	}
	return neutral
}

// Size is the number of values in an accepted combination.
func (c Config) Size() int {
	return 3 * c.PicksPerPool
}

func (c Config) Validate() error {
	var errs []error

	if c.UniverseMin > c.UniverseMax {
		errs = append(errs, fmt.Errorf("universe [%d,%d] is empty", c.UniverseMin, c.UniverseMax))
	}
	if c.PicksPerPool <= 0 {
		errs = append(errs, fmt.Errorf("picks per pool must be positive, got %d", c.PicksPerPool))
	}
	if c.SumMin > c.SumMax {
		errs = append(errs, fmt.Errorf("sum range [%d,%d] is empty", c.SumMin, c.SumMax))
	}
	if c.ScoreSpread <= 0 {
		errs = append(errs, fmt.Errorf("score spread must be positive, got %v", c.ScoreSpread))
	}
	if c.ScoreFloor > c.ScoreCeiling {
		errs = append(errs, fmt.Errorf("score floor %d above ceiling %d", c.ScoreFloor, c.ScoreCeiling))
	}
	if c.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts))
	}

	seen := make(map[int]string)
	for name, pool := range map[string][]int{"hot": c.Hot, "cold": c.Cold} {
		if len(pool) < c.PicksPerPool {
			errs = append(errs, fmt.Errorf("%s pool has %d numbers, need %d", name, len(pool), c.PicksPerPool))
		}
		for _, n := range pool {
			if n < c.UniverseMin || n > c.UniverseMax {
				errs = append(errs, fmt.Errorf("%s number %d outside universe", name, n))
			}
			if other, dup := seen[n]; dup {
				errs = append(errs, fmt.Errorf("number %d appears in %s and %s pools", n, other, name))
			}
			seen[n] = name
		}
	}
	if neutral := c.Neutral(); len(neutral) < c.PicksPerPool {
		errs = append(errs, fmt.Errorf("neutral pool has %d numbers, need %d", len(neutral), c.PicksPerPool))
	}

	if len(errs) > 0 {
		// map iteration above is unordered; keep messages stable
		slices.SortFunc(errs, func(a, b error) int {
			return strings.Compare(a.Error(), b.Error())
		})
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
