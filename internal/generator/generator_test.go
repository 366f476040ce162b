package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(s1, s2 uint64) Option {
	return WithRandFactory(func() *rand.Rand {
		return rand.New(rand.NewPCG(s1, s2))
	})
}

func TestGenerateProperties(t *testing.T) {
	cfg := DefaultConfig()
	g := MustNew(cfg)

	combos, err := g.Generate(MaxCount)
	require.NoError(t, err)
	require.Len(t, combos, MaxCount)

	for _, c := range combos {
		require.Len(t, c.Numbers, 6)
		assert.True(t, slices.IsSorted(c.Numbers), "numbers must be ascending: %v", c.Numbers)
		assert.Len(t, slices.Compact(slices.Clone(c.Numbers)), 6, "numbers must be distinct: %v", c.Numbers)

		sum := 0
		for _, n := range c.Numbers {
			sum += n
			assert.GreaterOrEqual(t, n, cfg.UniverseMin)
			assert.LessOrEqual(t, n, cfg.UniverseMax)
		}
		assert.Equal(t, sum, c.Sum)
		assert.GreaterOrEqual(t, c.Sum, cfg.SumMin)
		assert.LessOrEqual(t, c.Sum, cfg.SumMax)
		assert.GreaterOrEqual(t, c.QualityScore, 70)
		assert.LessOrEqual(t, c.QualityScore, 100)
	}
}

func TestGenerateComposition(t *testing.T) {
	cfg := DefaultConfig()
	neutral := cfg.Neutral()
	g := MustNew(cfg, seeded(7, 11))

	combos, err := g.Generate(MaxCount)
	require.NoError(t, err)

	for _, c := range combos {
		require.Len(t, c.Hot, 2)
		require.Len(t, c.Cold, 2)
		require.Len(t, c.Neutral, 2)

		for _, n := range c.Hot {
			assert.Contains(t, cfg.Hot, n)
		}
		for _, n := range c.Cold {
			assert.Contains(t, cfg.Cold, n)
		}
		for _, n := range c.Neutral {
			assert.Contains(t, neutral, n)
		}

		union := append(append(slices.Clone(c.Hot), c.Cold...), c.Neutral...)
		slices.Sort(union)
		assert.Equal(t, c.Numbers, union)
		assert.Equal(t, fmt.Sprintf("2H [%d, %d] / 2C [%d, %d] / 2N [%d, %d]",
			c.Hot[0], c.Hot[1], c.Cold[0], c.Cold[1], c.Neutral[0], c.Neutral[1]), c.Composition)
	}
}

func TestFormatPicks(t *testing.T) {
	assert.Equal(t, "[43, 26]", formatPicks([]int{43, 26}))
	assert.Equal(t, "[7]", formatPicks([]int{7}))
	assert.Equal(t, "[]", formatPicks(nil))
}

func TestGeneratorConfigIsACopy(t *testing.T) {
	cfg := DefaultConfig()
	g := MustNew(cfg)

	got := g.Config()
	assert.Equal(t, cfg, got)

	got.Hot[0] = 1
	got.Cold = append(got.Cold[:0], 2, 3)
	assert.Equal(t, DefaultConfig().Hot, g.Config().Hot)
	assert.Equal(t, DefaultConfig().Cold, g.Config().Cold)

	// the caller's slices are not shared either
	cfg.Hot[0] = 1
	assert.Equal(t, DefaultConfig().Hot, g.Config().Hot)
}

func TestGenerateCount(t *testing.T) {
	g := MustNew(DefaultConfig())

	for _, n := range []int{1, 5, 10, 20} {
		combos, err := g.Generate(n)
		require.NoError(t, err)
		assert.Len(t, combos, n)
	}

	for _, n := range []int{0, -1, 21} {
		combos, err := g.Generate(n)
		assert.ErrorIs(t, err, ErrInvalidCount)
		assert.Nil(t, combos)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := MustNew(DefaultConfig(), seeded(42, 1))
	b := MustNew(DefaultConfig(), seeded(42, 1))

	first, err := a.Generate(10)
	require.NoError(t, err)
	second, err := b.Generate(10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNeutralPool(t *testing.T) {
	cfg := DefaultConfig()
	neutral := cfg.Neutral()

	assert.Len(t, neutral, 38)
	for _, n := range cfg.Hot {
		assert.NotContains(t, neutral, n)
	}
	for _, n := range cfg.Cold {
		assert.NotContains(t, neutral, n)
	}
	assert.True(t, slices.IsSorted(neutral))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "overlapping pools", mutate: func(c *Config) { c.Cold = []int{43, 30, 4, 7, 47} }},
		{name: "hot outside universe", mutate: func(c *Config) { c.Hot = []int{43, 26, 41, 6, 49} }},
		{name: "pool smaller than picks", mutate: func(c *Config) { c.Hot = []int{43} }},
		{name: "empty sum range", mutate: func(c *Config) { c.SumMin, c.SumMax = 200, 100 }},
		{name: "no attempts", mutate: func(c *Config) { c.MaxAttempts = 0 }},
		{name: "zero spread", mutate: func(c *Config) { c.ScoreSpread = 0 }},
		{name: "universe too small for neutral", mutate: func(c *Config) { c.UniverseMin, c.UniverseMax = 1, 11 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}

func TestScore(t *testing.T) {
	g := MustNew(DefaultConfig())

	assert.Equal(t, 99, g.score(150))
	assert.Equal(t, 99, g.score(151))
	assert.Equal(t, 90, g.score(118))
	assert.Equal(t, 89, g.score(184))
	// the floor only bites outside the accepted range
	assert.Equal(t, 70, g.score(300))
}

func TestSampleExhaustedPool(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))

	_, err := sample(rng, []int{1}, 2)
	assert.ErrorIs(t, err, errPoolExhausted)

	got, err := sample(rng, []int{1, 2, 3}, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3}, got)
}

func TestSamplingExhausted(t *testing.T) {
	cfg := DefaultConfig()
	// no six numbers from 1..48 can reach this sum
	cfg.SumMin, cfg.SumMax = 1000, 1100
	cfg.MaxAttempts = 50

	g := MustNew(cfg, seeded(3, 3))
	combos, err := g.Generate(1)
	assert.ErrorIs(t, err, ErrSamplingExhausted)
	assert.Nil(t, combos)
}

func TestAttemptCapDoesNotChangeAcceptedDraws(t *testing.T) {
	capped := DefaultConfig()
	uncapped := DefaultConfig()
	uncapped.MaxAttempts = math.MaxInt32

	a, err := MustNew(capped, seeded(99, 5)).Generate(MaxCount)
	require.NoError(t, err)
	b, err := MustNew(uncapped, seeded(99, 5)).Generate(MaxCount)
	require.NoError(t, err)

	assert.Equal(t, b, a)
}

// The accepted sums must follow the exact distribution of all hot/cold/neutral
// pair triples conditioned on the sum window.
func TestSumDistributionMatchesEnumeration(t *testing.T) {
	cfg := DefaultConfig()

	expected := map[int]float64{}
	total := 0.0
	pairs := func(pool []int) [][2]int {
		var out [][2]int
		for i := range pool {
			for j := i + 1; j < len(pool); j++ {
				out = append(out, [2]int{pool[i], pool[j]})
			}
		}
		return out
	}
	neutralPairs := pairs(cfg.Neutral())
	for _, h := range pairs(cfg.Hot) {
		for _, c := range pairs(cfg.Cold) {
			for _, n := range neutralPairs {
				sum := h[0] + h[1] + c[0] + c[1] + n[0] + n[1]
				if sum >= cfg.SumMin && sum <= cfg.SumMax {
					expected[sum]++
					total++
				}
			}
		}
	}
	for k := range expected {
		expected[k] /= total
	}

	const draws = 20000
	// one shared source so consecutive calls continue the stream
	rng := rand.New(rand.NewPCG(2024, 10))
	g := MustNew(cfg, WithRandFactory(func() *rand.Rand { return rng }))
	observed := map[int]float64{}
	for range draws / MaxCount {
		combos, err := g.Generate(MaxCount)
		require.NoError(t, err)
		for _, c := range combos {
			observed[c.Sum]++
		}
	}

	tvd := 0.0
	for sum := cfg.SumMin; sum <= cfg.SumMax; sum++ {
		tvd += math.Abs(observed[sum]/draws - expected[sum])
	}
	tvd /= 2
	assert.Less(t, tvd, 0.05, "total variation distance too large")
}

func TestGenerateConcurrent(t *testing.T) {
	g := MustNew(DefaultConfig())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			combos, err := g.Generate(MaxCount)
			if err == nil && len(combos) != MaxCount {
				err = ErrInvalidCount
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
