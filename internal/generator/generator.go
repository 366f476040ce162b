// Package generator draws lottery combinations biased towards hot and cold
// numbers while keeping the sum close to the historical mean.
package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
)

// Combination is one accepted draw.
type Combination struct {
	Numbers      []int  `json:"combinacion"`
	Sum          int    `json:"suma"`
	QualityScore int    `json:"calidad_score"`
	Composition  string `json:"composicion"`

	Hot     []int `json:"-"`
	Cold    []int `json:"-"`
	Neutral []int `json:"-"`
}

type Option func(*Generator)

// WithRandFactory replaces the entropy source. The factory is called once per
// Generate call, so a factory returning identically seeded sources makes
// every call reproducible.
func WithRandFactory(f func() *rand.Rand) Option {
	return func(g *Generator) {
		g.newRand = f
	}
}

// Generator is safe for concurrent use: all mutable state lives in the
// per-call random source.
type Generator struct {
	cfg     Config
	hot     []int
	cold    []int
	neutral []int
	newRand func() *rand.Rand
}

func New(cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:     cfg,
		hot:     slices.Clone(cfg.Hot),
		cold:    slices.Clone(cfg.Cold),
		neutral: cfg.Neutral(),
		newRand: systemRand,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// MustNew is New for package-level defaults and tests.
func MustNew(cfg Config, opts ...Option) *Generator {
	g, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

func systemRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Config returns a copy of the configuration the generator was built with.
func (g *Generator) Config() Config {
	cfg := g.cfg
	cfg.Hot = slices.Clone(g.hot)
	cfg.Cold = slices.Clone(g.cold)
	return cfg
}

// Generate returns count independently drawn combinations.
func (g *Generator) Generate(count int) ([]Combination, error) {
	if count < MinCount || count > MaxCount {
		return nil, fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidCount, count, MinCount, MaxCount)
	}

	rng := g.newRand()
	out := make([]Combination, 0, count)
	for range count {
		c, err := g.draw(rng)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (g *Generator) draw(rng *rand.Rand) (Combination, error) {
	for range g.cfg.MaxAttempts {
		c, ok, err := g.attempt(rng)
		if err != nil {
			if errors.Is(err, errPoolExhausted) {
				continue
			}
			return Combination{}, err
		}
		if ok {
			return c, nil
		}
	}
	return Combination{}, fmt.Errorf("%w: no combination accepted after %d attempts", ErrSamplingExhausted, g.cfg.MaxAttempts)
}

// attempt performs one draw and reports whether it passes the sum filter.
func (g *Generator) attempt(rng *rand.Rand) (Combination, bool, error) {
	k := g.cfg.PicksPerPool

	hot, err := sample(rng, g.hot, k)
	if err != nil {
		return Combination{}, false, err
	}
	cold, err := sample(rng, g.cold, k)
	if err != nil {
		return Combination{}, false, err
	}
	neutral, err := sample(rng, g.neutral, k)
	if err != nil {
		return Combination{}, false, err
	}

	numbers := make([]int, 0, 3*k)
	numbers = append(numbers, hot...)
	numbers = append(numbers, cold...)
	numbers = append(numbers, neutral...)
	slices.Sort(numbers)
	numbers = slices.Compact(numbers)
	if len(numbers) != g.cfg.Size() {
		return Combination{}, false, nil
	}

	sum := 0
	for _, n := range numbers {
		sum += n
	}
	if sum < g.cfg.SumMin || sum > g.cfg.SumMax {
		return Combination{}, false, nil
	}

	return Combination{
		Numbers:      numbers,
		Sum:          sum,
		QualityScore: g.score(sum),
		Composition:  fmt.Sprintf("%dH %s / %dC %s / %dN %s", k, formatPicks(hot), k, formatPicks(cold), k, formatPicks(neutral)),
		Hot:          hot,
		Cold:         cold,
		Neutral:      neutral,
	}, true, nil
}

// formatPicks renders picks as "[43, 26]", the list format clients parse.
func formatPicks(picks []int) string {
	parts := make([]string, len(picks))
	for i, n := range picks {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (g *Generator) score(sum int) int {
	deviation := math.Abs(float64(sum)-g.cfg.MeanSum) / g.cfg.ScoreSpread
	score := int(math.Floor(float64(g.cfg.ScoreCeiling) - deviation*10))
	return min(max(score, g.cfg.ScoreFloor), g.cfg.ScoreCeiling)
}

// sample draws k distinct values from pool with a partial Fisher-Yates
// shuffle over a copy.
func sample(rng *rand.Rand, pool []int, k int) ([]int, error) {
	if len(pool) < k {
		return nil, errPoolExhausted
	}
	p := slices.Clone(pool)
	for i := range k {
		j := i + rng.IntN(len(p)-i)
		p[i], p[j] = p[j], p[i]
	}
	return p[:k:k], nil
}
